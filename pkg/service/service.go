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

// Package service assembles and runs the daemon: the serial link, the
// command dispatcher, time sync, notification relay, the now-playing
// bridge and the API server.
package service

import (
	"context"
	"fmt"
	"os"

	"github.com/GlassLinkProject/glasslink-core/pkg/api"
	"github.com/GlassLinkProject/glasslink-core/pkg/api/models"
	"github.com/GlassLinkProject/glasslink-core/pkg/config"
	"github.com/GlassLinkProject/glasslink-core/pkg/helpers"
	"github.com/GlassLinkProject/glasslink-core/pkg/link"
	"github.com/GlassLinkProject/glasslink-core/pkg/platforms/desktopnotify"
	"github.com/GlassLinkProject/glasslink-core/pkg/platforms/mpris"
	"github.com/GlassLinkProject/glasslink-core/pkg/service/dispatch"
	"github.com/GlassLinkProject/glasslink-core/pkg/service/notifyrelay"
	"github.com/GlassLinkProject/glasslink-core/pkg/service/nowplaying"
	"github.com/GlassLinkProject/glasslink-core/pkg/service/timesync"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

func setupEnvironment() error {
	log.Info().Msg("creating data directories")
	dirs := []string{
		helpers.ConfigDir(),
		helpers.DataDir(),
		helpers.LogDir(),
	}
	for _, dir := range dirs {
		err := os.MkdirAll(dir, 0o750)
		if err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Start brings up every subsystem and returns a stop function that shuts
// them down in order. The done channel closes once cleanup has finished.
func Start(cfg *config.Instance) (stop func() error, done <-chan struct{}, err error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	err = setupEnvironment()
	if err != nil {
		log.Error().Err(err).Msg("error setting up environment")
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	ns := make(chan models.Notification, 100)

	lnk := link.New(nil)
	dispatcher := dispatch.New(lnk, ns)

	scheduler := timesync.New(dispatcher, clockwork.NewRealClock())
	if cfg.TimeSync() {
		log.Info().Msg("time sync enabled at startup")
		scheduler.SetEnabled(true)
	}

	relay := notifyrelay.New(cfg, dispatcher)

	var provider nowplaying.Provider
	mprisProvider, err := mpris.New()
	if err != nil {
		log.Warn().Err(err).Msg("media session bus unavailable, now playing disabled")
	} else {
		provider = mprisProvider
	}
	bridge := nowplaying.New(provider, dispatcher)

	monitor, err := desktopnotify.New(relay.OnNotification)
	if err != nil {
		log.Warn().Err(err).Msg("notification bus unavailable, forwarding disabled")
	} else {
		log.Info().Msg("starting desktop notification monitor")
		go monitor.Run(ctx)
	}

	log.Info().Msg("starting API service")
	go api.Start(ctx, cfg, lnk, dispatcher, scheduler, relay, bridge, ns)

	doneCh := make(chan struct{})
	go func() {
		<-ctx.Done()
		log.Info().Msg("service context cancelled, running cleanup")

		scheduler.Stop()
		lnk.Disconnect()
		if monitor != nil {
			if closeErr := monitor.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("error closing notification monitor")
			}
		}
		if mprisProvider != nil {
			if closeErr := mprisProvider.Close(); closeErr != nil {
				log.Warn().Err(closeErr).Msg("error closing media session bus")
			}
		}

		log.Info().Msg("service cleanup completed")
		close(doneCh)
	}()

	stop = func() error {
		cancel()
		<-doneCh
		return nil
	}
	done = doneCh
	return stop, done, nil
}
