/*
GlassLink Core
Copyright (c) 2026 The GlassLink Project Contributors.
SPDX-License-Identifier: GPL-3.0-or-later

This file is part of GlassLink Core.

GlassLink Core is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GlassLink Core is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GlassLink Core.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/GlassLinkProject/glasslink-core/pkg/cli"
	"github.com/GlassLinkProject/glasslink-core/pkg/config"
	"github.com/GlassLinkProject/glasslink-core/pkg/service"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags()

	daemonMode := flag.Bool(
		"daemon",
		false,
		"run service in foreground and log to stderr",
	)

	flags.Pre()

	var logWriters []io.Writer
	if *daemonMode {
		logWriters = []io.Writer{os.Stderr}
	}

	cfg := cli.Setup(config.BaseDefaults, logWriters)

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	// one-shot flags talk to a running service and exit
	flags.Post(cfg)

	stopSvc, _, err := service.Start(cfg)
	if err != nil {
		log.Error().Msgf("error starting service: %s", err)
		return fmt.Errorf("error starting service: %w", err)
	}

	defer func() {
		err := stopSvc()
		if err != nil {
			log.Error().Msgf("error stopping service: %s", err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	defer close(sigs)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	<-sigs
	log.Info().Msg("shutdown signal received")

	return nil
}
