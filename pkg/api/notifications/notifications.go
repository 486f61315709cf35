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

// Package notifications publishes server-side events to API clients.
package notifications

import (
	"github.com/GlassLinkProject/glasslink-core/pkg/api/models"
)

func LinkConnected(ns chan<- models.Notification, device string) {
	send(ns, models.Notification{
		Method: models.NotificationLinkConnected,
		Params: models.LinkStateParams{Device: device},
	})
}

func LinkDisconnected(ns chan<- models.Notification, device string) {
	send(ns, models.Notification{
		Method: models.NotificationLinkDisconnected,
		Params: models.LinkStateParams{Device: device},
	})
}

func StatusUpdated(ns chan<- models.Notification, status string) {
	send(ns, models.Notification{
		Method: models.NotificationStatusUpdated,
		Params: models.StatusUpdatedParams{Status: status},
	})
}

// send is best effort: a stalled or missing API consumer never blocks a
// producer on the dispatch path.
func send(ns chan<- models.Notification, n models.Notification) {
	if ns == nil {
		return
	}
	select {
	case ns <- n:
	default:
	}
}
