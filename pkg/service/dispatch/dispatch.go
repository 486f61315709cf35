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

// Package dispatch is the single-writer funnel between all command
// producers and the link. Producers never touch the link's write path
// directly; they hand intents to the dispatcher, which serializes the
// encode+write step so two lines can never interleave on the wire.
package dispatch

import (
	"github.com/GlassLinkProject/glasslink-core/pkg/api/models"
	"github.com/GlassLinkProject/glasslink-core/pkg/api/notifications"
	"github.com/GlassLinkProject/glasslink-core/pkg/glassproto"
	"github.com/GlassLinkProject/glasslink-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

// Writer is the link surface the dispatcher needs.
type Writer interface {
	Connected() bool
	WriteLine(line string)
}

// Dispatcher serializes intents from concurrent producers onto the link.
type Dispatcher struct {
	writer        Writer
	notifications chan<- models.Notification
	lastStatus    string
	mu            syncutil.Mutex
}

func New(writer Writer, ns chan<- models.Notification) *Dispatcher {
	return &Dispatcher{
		writer:        writer,
		notifications: ns,
	}
}

// Dispatch encodes and writes an intent. Returns true if the write was
// attempted, false if the intent was dropped because the link is not
// connected. Failures never propagate to the producer; the only
// externally visible acknowledgement is the status value.
func (d *Dispatcher) Dispatch(intent glassproto.Intent) bool {
	d.mu.Lock()

	if !d.writer.Connected() {
		d.lastStatus = "Not connected"
		d.mu.Unlock()

		log.Debug().Str("intent", intent.String()).Msg("dispatch: dropped, link not connected")
		notifications.StatusUpdated(d.notifications, "Not connected")
		return false
	}

	line := glassproto.Encode(intent)
	d.writer.WriteLine(line)

	status := "Sent: " + intent.String()
	d.lastStatus = status
	d.mu.Unlock()

	notifications.StatusUpdated(d.notifications, status)
	return true
}

// LastStatus returns the human-readable outcome of the most recent
// dispatch attempt or explicit status update.
func (d *Dispatcher) LastStatus() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastStatus
}

// SetStatus records a status line originating outside a dispatch, such
// as connection lifecycle changes, and publishes it to API clients.
func (d *Dispatcher) SetStatus(status string) {
	d.mu.Lock()
	d.lastStatus = status
	d.mu.Unlock()

	notifications.StatusUpdated(d.notifications, status)
}
