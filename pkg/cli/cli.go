// GlassLink Core
// Copyright (c) 2026 The GlassLink Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of GlassLink Core.
//
// GlassLink Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GlassLink Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GlassLink Core.  If not, see <http://www.gnu.org/licenses/>.

// Package cli implements the one-shot command flags that talk to a
// running service over the local API.
package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/GlassLinkProject/glasslink-core/pkg/api/client"
	"github.com/GlassLinkProject/glasslink-core/pkg/api/models"
	"github.com/GlassLinkProject/glasslink-core/pkg/config"
	"github.com/GlassLinkProject/glasslink-core/pkg/helpers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Flags struct {
	Device     *string
	SendText   *string
	API        *string
	Connect    *bool
	Disconnect *bool
	Status     *bool
	Devices    *bool
	Clear      *bool
	ClockOn    *bool
	ClockOff   *bool
	NowPlaying *bool
	SendMedia  *bool
	Version    *bool
}

// SetupFlags defines all common CLI flags between platforms.
func SetupFlags() *Flags {
	return &Flags{
		Connect: flag.Bool(
			"connect",
			false,
			"connect to the glasses using the configured device",
		),
		Device: flag.String(
			"device",
			"",
			"serial device to connect to (with -connect)",
		),
		Disconnect: flag.Bool(
			"disconnect",
			false,
			"disconnect from the glasses",
		),
		Status: flag.Bool(
			"status",
			false,
			"print link status and exit",
		),
		Devices: flag.Bool(
			"devices",
			false,
			"list candidate serial devices and exit",
		),
		SendText: flag.String(
			"send",
			"",
			"send text to the glasses display",
		),
		Clear: flag.Bool(
			"clear",
			false,
			"clear the glasses display",
		),
		ClockOn: flag.Bool(
			"clock-on",
			false,
			"switch the glasses to clock mode",
		),
		ClockOff: flag.Bool(
			"clock-off",
			false,
			"switch the glasses out of clock mode",
		),
		NowPlaying: flag.Bool(
			"now-playing",
			false,
			"print the current media line and exit",
		),
		SendMedia: flag.Bool(
			"send-media",
			false,
			"send the current media line to the glasses",
		),
		API: flag.String(
			"api",
			"",
			"send method and params to API and print response",
		),
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// Pre runs flag parsing and actions any immediate flags that don't
// require environment setup. Add any custom flags before running this.
func (f *Flags) Pre() {
	flag.Parse()

	if *f.Version {
		_, _ = fmt.Printf("GlassLink v%s (%s)\n", config.AppVersion, runtime.GOOS)
		os.Exit(0)
	}
}

func callAPI(cfg *config.Instance, method, params string) string {
	resp, err := client.LocalClient(context.Background(), cfg, method, params)
	if err != nil {
		log.Error().Err(err).Str("method", method).Msg("error calling API")
		_, _ = fmt.Fprintf(os.Stderr, "Error calling API: %v\n", err)
		os.Exit(1)
	}
	return resp
}

// Post actions all remaining common flags that require the environment to
// be set up. Logging is allowed.
func (f *Flags) Post(cfg *config.Instance) {
	switch {
	case *f.Connect:
		params := ""
		if *f.Device != "" {
			data, err := json.Marshal(&models.ConnectParams{Device: *f.Device})
			if err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Error encoding params: %v\n", err)
				os.Exit(1)
			}
			params = string(data)
		}
		_, _ = fmt.Println(callAPI(cfg, models.MethodConnect, params))

		// the connect outcome arrives asynchronously as a status
		// notification, so wait for it before exiting
		resp, err := client.WaitNotification(
			context.Background(), 0,
			cfg, models.NotificationStatusUpdated,
		)
		if err != nil {
			log.Error().Err(err).Msg("error waiting for connect result")
			_, _ = fmt.Fprintf(os.Stderr, "Error waiting for connect result: %v\n", err)
			os.Exit(1)
		}

		var status models.StatusUpdatedParams
		if err := json.Unmarshal([]byte(resp), &status); err == nil && status.Status != "" {
			_, _ = fmt.Println(status.Status)
		} else {
			_, _ = fmt.Println(resp)
		}
		os.Exit(0)
	case *f.Disconnect:
		_, _ = fmt.Println(callAPI(cfg, models.MethodDisconnect, ""))
		os.Exit(0)
	case *f.Status:
		_, _ = fmt.Println(callAPI(cfg, models.MethodStatus, ""))
		os.Exit(0)
	case *f.Devices:
		_, _ = fmt.Println(callAPI(cfg, models.MethodDevices, ""))
		os.Exit(0)
	case isFlagPassed("send"):
		if *f.SendText == "" {
			_, _ = fmt.Fprint(os.Stderr, "Error: send flag requires a value\n")
			os.Exit(1)
		}
		data, err := json.Marshal(&models.SendTextParams{Text: *f.SendText})
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error encoding params: %v\n", err)
			os.Exit(1)
		}
		_, _ = fmt.Println(callAPI(cfg, models.MethodSendText, string(data)))
		os.Exit(0)
	case *f.Clear:
		_, _ = fmt.Println(callAPI(cfg, models.MethodSendClear, ""))
		os.Exit(0)
	case *f.ClockOn:
		_, _ = fmt.Println(callAPI(cfg, models.MethodClockOn, ""))
		os.Exit(0)
	case *f.ClockOff:
		_, _ = fmt.Println(callAPI(cfg, models.MethodClockOff, ""))
		os.Exit(0)
	case *f.NowPlaying:
		_, _ = fmt.Println(callAPI(cfg, models.MethodMediaNowPlaying, ""))
		os.Exit(0)
	case *f.SendMedia:
		_, _ = fmt.Println(callAPI(cfg, models.MethodMediaSend, ""))
		os.Exit(0)
	case isFlagPassed("api"):
		if *f.API == "" {
			_, _ = fmt.Fprint(os.Stderr, "Error: api flag requires a value\n")
			os.Exit(1)
		}

		ps := strings.SplitN(*f.API, ":", 2)
		method := ps[0]
		params := ""
		if len(ps) > 1 {
			params = ps[1]
		}

		_, _ = fmt.Println(callAPI(cfg, method, params))
		os.Exit(0)
	}
}

// Setup initializes the user config and logging. Returns a user config
// object.
func Setup(defaultConfig config.Values, writers []io.Writer) *config.Instance {
	// Ensure directories exist before logging initialization
	for _, dir := range []string{helpers.ConfigDir(), helpers.DataDir(), helpers.LogDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error creating directories: %v\n", err)
			os.Exit(1)
		}
	}

	err := helpers.InitLogging(helpers.LogDir(), writers)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), defaultConfig)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return cfg
}
