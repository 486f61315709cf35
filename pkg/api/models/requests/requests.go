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

// Package requests carries the environment a method handler runs in.
package requests

import (
	"encoding/json"

	"github.com/GlassLinkProject/glasslink-core/pkg/api/models"
	"github.com/GlassLinkProject/glasslink-core/pkg/config"
	"github.com/GlassLinkProject/glasslink-core/pkg/link"
	"github.com/GlassLinkProject/glasslink-core/pkg/service/dispatch"
	"github.com/GlassLinkProject/glasslink-core/pkg/service/notifyrelay"
	"github.com/GlassLinkProject/glasslink-core/pkg/service/nowplaying"
	"github.com/GlassLinkProject/glasslink-core/pkg/service/timesync"
	"github.com/google/uuid"
)

// RequestEnv is handed to every method handler.
type RequestEnv struct {
	Config        *config.Instance
	Link          *link.Link
	Dispatcher    *dispatch.Dispatcher
	TimeSync      *timesync.Scheduler
	Relay         *notifyrelay.Relay
	NowPlaying    *nowplaying.Bridge
	Notifications chan<- models.Notification
	Params        json.RawMessage
	ID            uuid.UUID
	IsLocal       bool
}
