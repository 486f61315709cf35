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

// Package methods implements the JSON-RPC method handlers.
package methods

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GlassLinkProject/glasslink-core/pkg/api/models"
	"github.com/GlassLinkProject/glasslink-core/pkg/api/models/requests"
	"github.com/GlassLinkProject/glasslink-core/pkg/api/notifications"
	"github.com/GlassLinkProject/glasslink-core/pkg/helpers"
	"github.com/rs/zerolog/log"
)

// HandleConnect starts an asynchronous connection attempt. The call
// returns immediately; the outcome arrives as status and link
// notifications, matching the non-blocking connect contract.
func HandleConnect(env requests.RequestEnv) (any, error) {
	if !env.IsLocal {
		return nil, ErrNotAllowed
	}

	var params models.ConnectParams
	if len(env.Params) > 0 {
		if err := json.Unmarshal(env.Params, &params); err != nil {
			return nil, ErrInvalidParams
		}
	}

	device := params.Device
	if device == "" {
		device = env.Config.LinkDevice()
	}
	if device == "" {
		return nil, errors.New("no device configured")
	}

	// remember an explicitly chosen device for next time
	if params.Device != "" && params.Device != env.Config.LinkDevice() {
		env.Config.SetLinkDevice(params.Device)
		if err := env.Config.Save(); err != nil {
			log.Warn().Err(err).Msg("failed to save link device")
		}
	}

	env.Dispatcher.SetStatus("Connecting to " + device + " ...")

	ns := env.Notifications
	cfg := env.Config
	scheduler := env.TimeSync
	dispatcher := env.Dispatcher

	env.Link.Connect(device, cfg.BaudRate(), func(ok bool, message string) {
		dispatcher.SetStatus(message)
		if !ok {
			return
		}
		notifications.LinkConnected(ns, device)
		// push time right away on connect, like toggling sync does
		if cfg.TimeSync() && scheduler != nil {
			scheduler.SyncNow()
		}
	})

	return models.SendResponse{Sent: true, Status: "Connecting to " + device}, nil
}

// HandleDisconnect tears the link down. Safe when already disconnected.
func HandleDisconnect(env requests.RequestEnv) (any, error) {
	if !env.IsLocal {
		return nil, ErrNotAllowed
	}

	device := env.Link.Device()
	env.Link.Disconnect()
	env.Dispatcher.SetStatus("Disconnected")
	if device != "" {
		notifications.LinkDisconnected(env.Notifications, device)
	}
	return models.SendResponse{Sent: true, Status: "Disconnected"}, nil
}

// HandleStatus reports the current link and preference state.
func HandleStatus(env requests.RequestEnv) (any, error) {
	return models.StatusResponse{
		Connected:            env.Link.Connected(),
		Device:               env.Link.Device(),
		LastStatus:           env.Dispatcher.LastStatus(),
		TimeSync:             env.Config.TimeSync(),
		ForwardNotifications: env.Config.ForwardNotifications(),
	}, nil
}

// HandleDevices lists serial devices the glasses could be reachable on.
func HandleDevices(_ requests.RequestEnv) (any, error) {
	devices, err := helpers.GetSerialDeviceList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial devices: %w", err)
	}
	return models.DevicesResponse{Devices: devices}, nil
}
