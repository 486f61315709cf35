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

// Package nowplaying bridges the host's active media session to the
// glasses on demand. Playback control calls pass straight through to
// the session provider and never touch the serial protocol.
package nowplaying

import (
	"strings"

	"github.com/GlassLinkProject/glasslink-core/pkg/glassproto"
	"github.com/rs/zerolog/log"
)

// Placeholder is shown in the UI when there is no usable media session.
// It is never forwarded to the glasses.
const Placeholder = "(no media)"

// Snapshot is a point-in-time read of the active media session.
type Snapshot struct {
	Title   string
	Artist  string
	Playing bool
}

// Provider is the external media-session collaborator. Snapshot may
// return (nil, nil) when no session is active or access is missing;
// that is an empty state, not an error.
type Provider interface {
	Snapshot() (*Snapshot, error)
	Previous() error
	PlayPause() error
	Next() error
}

// Dispatcher is the funnel the bridge emits intents through.
type Dispatcher interface {
	Dispatch(intent glassproto.Intent) bool
	SetStatus(status string)
}

// Bridge is the on-demand now-playing producer.
type Bridge struct {
	provider   Provider
	dispatcher Dispatcher
}

func New(provider Provider, dispatcher Dispatcher) *Bridge {
	return &Bridge{provider: provider, dispatcher: dispatcher}
}

// Format renders a snapshot as a single display line:
// "▶ Title – Artist" while playing, "⏸ Title – Artist" while paused,
// with the artist segment omitted when absent.
func Format(snap *Snapshot) string {
	if snap == nil || strings.TrimSpace(snap.Title) == "" {
		return Placeholder
	}

	prefix := "⏸"
	if snap.Playing {
		prefix = "▶"
	}

	line := prefix + " " + snap.Title
	if strings.TrimSpace(snap.Artist) != "" {
		line += " – " + snap.Artist
	}
	return line
}

// Current returns the formatted now-playing line. Provider failures are
// treated as an empty session.
func (b *Bridge) Current() string {
	return Format(b.snapshot())
}

// Playing reports whether the active session is currently playing.
func (b *Bridge) Playing() bool {
	snap := b.snapshot()
	return snap != nil && snap.Playing
}

func (b *Bridge) snapshot() *Snapshot {
	if b.provider == nil {
		return nil
	}
	snap, err := b.provider.Snapshot()
	if err != nil {
		log.Warn().Err(err).Msg("nowplaying: snapshot failed")
		return nil
	}
	return snap
}

// SendCurrent formats the active session and dispatches it as display
// text. The placeholder is never forwarded to the device. Returns true
// if a dispatch was attempted.
func (b *Bridge) SendCurrent() bool {
	line := b.Current()
	if line == Placeholder {
		b.dispatcher.SetStatus("No media info")
		return false
	}
	return b.dispatcher.Dispatch(glassproto.ShowText(line))
}

// Previous skips to the previous track on the active session.
func (b *Bridge) Previous() {
	if b.provider == nil {
		return
	}
	if err := b.provider.Previous(); err != nil {
		log.Warn().Err(err).Msg("nowplaying: previous failed")
	}
}

// PlayPause toggles playback on the active session.
func (b *Bridge) PlayPause() {
	if b.provider == nil {
		return
	}
	if err := b.provider.PlayPause(); err != nil {
		log.Warn().Err(err).Msg("nowplaying: play/pause failed")
	}
}

// Next skips to the next track on the active session.
func (b *Bridge) Next() {
	if b.provider == nil {
		return
	}
	if err := b.provider.Next(); err != nil {
		log.Warn().Err(err).Msg("nowplaying: next failed")
	}
}
