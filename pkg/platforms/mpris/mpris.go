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

// Package mpris reads the active media session and drives playback
// controls over the MPRIS D-Bus interface. It implements
// nowplaying.Provider against the first media player on the session bus.
package mpris

import (
	"fmt"
	"strings"

	"github.com/GlassLinkProject/glasslink-core/pkg/service/nowplaying"
	dbus "github.com/godbus/dbus/v5"
)

const (
	busPrefix   = "org.mpris.MediaPlayer2."
	objectPath  = "/org/mpris/MediaPlayer2"
	playerIface = "org.mpris.MediaPlayer2.Player"
)

type Provider struct {
	conn *dbus.Conn
}

// New connects to the session bus. Callers should treat a connection
// failure as "no media available" rather than fatal; headless hosts
// have no session bus at all.
func New() (*Provider, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Provider{conn: conn}, nil
}

func (p *Provider) Close() error {
	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("failed to close session bus: %w", err)
	}
	return nil
}

// activePlayer returns the first MPRIS player on the bus, or nil when
// no media player is running.
func (p *Provider) activePlayer() (dbus.BusObject, error) {
	var names []string
	err := p.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return nil, fmt.Errorf("failed to list bus names: %w", err)
	}

	for _, name := range names {
		if strings.HasPrefix(name, busPrefix) {
			return p.conn.Object(name, objectPath), nil
		}
	}
	return nil, nil //nolint:nilnil // no player is an empty state, not an error
}

// Snapshot reads the current title, artist and playback state. Returns
// (nil, nil) when no media player is on the bus.
func (p *Provider) Snapshot() (*nowplaying.Snapshot, error) {
	player, err := p.activePlayer()
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, nil //nolint:nilnil // empty state
	}

	status, err := player.GetProperty(playerIface + ".PlaybackStatus")
	if err != nil {
		return nil, fmt.Errorf("failed to get playback status: %w", err)
	}

	meta, err := player.GetProperty(playerIface + ".Metadata")
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	snap := &nowplaying.Snapshot{}
	if s, ok := status.Value().(string); ok {
		snap.Playing = s == "Playing"
	}

	if fields, ok := meta.Value().(map[string]dbus.Variant); ok {
		if title, ok := fields["xesam:title"].Value().(string); ok {
			snap.Title = title
		}
		if artists, ok := fields["xesam:artist"].Value().([]string); ok && len(artists) > 0 {
			snap.Artist = strings.Join(artists, ", ")
		}
	}

	return snap, nil
}

func (p *Provider) call(method string) error {
	player, err := p.activePlayer()
	if err != nil {
		return err
	}
	if player == nil {
		return nil
	}

	if call := player.Call(playerIface+"."+method, 0); call.Err != nil {
		return fmt.Errorf("failed to call %s: %w", method, call.Err)
	}
	return nil
}

func (p *Provider) Previous() error {
	return p.call("Previous")
}

func (p *Provider) PlayPause() error {
	return p.call("PlayPause")
}

func (p *Provider) Next() error {
	return p.call("Next")
}
