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

// Package notifyrelay forwards desktop notifications to the glasses as
// short text lines. Bursts are relayed one-for-one with no queueing or
// deduplication; anything dropped stays dropped.
package notifyrelay

import (
	"strings"

	"github.com/GlassLinkProject/glasslink-core/pkg/config"
	"github.com/GlassLinkProject/glasslink-core/pkg/glassproto"
	"github.com/rs/zerolog/log"
)

const (
	// MaxMessageLen is the longest message worth sending to the
	// 128x32 display, in runes.
	MaxMessageLen = 60
	// Ellipsis marks a clipped message.
	Ellipsis = "…"
)

// Dispatcher is the funnel the relay emits intents through.
type Dispatcher interface {
	Dispatch(intent glassproto.Intent) bool
}

// Relay maps notification events to display text.
type Relay struct {
	cfg        *config.Instance
	dispatcher Dispatcher
}

func New(cfg *config.Instance, dispatcher Dispatcher) *Relay {
	return &Relay{cfg: cfg, dispatcher: dispatcher}
}

// OnNotification handles one posted notification. Empty notifications
// are ignored; everything else is composed, clipped and dispatched if
// forwarding is enabled. Never returns an error: a dropped notification
// is a defined no-op.
func (r *Relay) OnNotification(title, body string) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" && body == "" {
		return
	}

	msg := title
	switch {
	case title == "":
		msg = body
	case body != "":
		msg = title + ": " + body
	}
	msg = Clip(msg)

	if !r.cfg.ForwardNotifications() {
		log.Debug().Msg("notifyrelay: forwarding disabled, dropped")
		return
	}

	r.dispatcher.Dispatch(glassproto.ShowText(msg))
}

// AnnounceEnabled tells the glasses forwarding was just switched on.
func (r *Relay) AnnounceEnabled() {
	r.dispatcher.Dispatch(glassproto.ShowText("Notifications enabled"))
}

// Clip shortens a message to MaxMessageLen runes, marking truncation
// with an ellipsis.
func Clip(msg string) string {
	runes := []rune(msg)
	if len(runes) <= MaxMessageLen {
		return msg
	}
	return string(runes[:MaxMessageLen]) + Ellipsis
}
