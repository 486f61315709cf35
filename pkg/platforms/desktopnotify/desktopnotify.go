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

// Package desktopnotify watches desktop notifications by monitoring
// org.freedesktop.Notifications Notify calls on the session bus, and
// hands (title, body) pairs to a callback. No delivery order or
// deduplication is guaranteed; the stream is consumed as it arrives.
package desktopnotify

import (
	"context"
	"fmt"

	dbus "github.com/godbus/dbus/v5"
	"github.com/rs/zerolog/log"
)

// notifyMember matches the Notify method of the notification daemon:
// Notify(app_name, replaces_id, app_icon, summary, body, actions,
// hints, expire_timeout). Summary and body are arguments 3 and 4.
const notifyMatchRule = "type='method_call',interface='org.freedesktop.Notifications',member='Notify'"

// Handler receives one posted notification.
type Handler func(title, body string)

// Monitor observes the session bus for posted notifications. It uses a
// private bus connection because a monitoring connection cannot be
// shared with regular method calls.
type Monitor struct {
	conn    *dbus.Conn
	handler Handler
}

func New(handler Handler) (*Monitor, error) {
	conn, err := dbus.SessionBusPrivate()
	if err != nil {
		return nil, fmt.Errorf("failed to open private session bus: %w", err)
	}

	if err := conn.Auth(nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to authenticate on session bus: %w", err)
	}
	if err := conn.Hello(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to send hello on session bus: %w", err)
	}

	call := conn.BusObject().Call(
		"org.freedesktop.DBus.Monitoring.BecomeMonitor", 0,
		[]string{notifyMatchRule}, uint32(0),
	)
	if call.Err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to become bus monitor: %w", call.Err)
	}

	return &Monitor{conn: conn, handler: handler}, nil
}

// Run consumes notifications until the context is cancelled or the bus
// connection drops. Blocking; run on its own goroutine.
func (m *Monitor) Run(ctx context.Context) {
	msgs := make(chan *dbus.Message, 32)
	m.conn.Eavesdrop(msgs)

	log.Info().Msg("desktopnotify: monitoring session bus notifications")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Warn().Msg("desktopnotify: bus connection closed")
				return
			}
			m.handleMessage(msg)
		}
	}
}

func (m *Monitor) handleMessage(msg *dbus.Message) {
	if msg == nil || msg.Type != dbus.TypeMethodCall || len(msg.Body) < 5 {
		return
	}

	summary, ok := msg.Body[3].(string)
	if !ok {
		return
	}
	body, ok := msg.Body[4].(string)
	if !ok {
		return
	}

	m.handler(summary, body)
}

// Close shuts down the monitoring connection.
func (m *Monitor) Close() error {
	if err := m.conn.Close(); err != nil {
		return fmt.Errorf("failed to close monitor connection: %w", err)
	}
	return nil
}
