// GlassLink Core
// Copyright (c) 2026 The GlassLink Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of GlassLink Core.
//
// GlassLink Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GlassLink Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GlassLink Core.  If not, see <http://www.gnu.org/licenses/>.

package nowplaying

import (
	"errors"
	"testing"

	"github.com/GlassLinkProject/glasslink-core/pkg/glassproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	snap    *Snapshot
	err     error
	prevs   int
	toggles int
	nexts   int
}

func (p *fakeProvider) Snapshot() (*Snapshot, error) { return p.snap, p.err }
func (p *fakeProvider) Previous() error              { p.prevs++; return nil }
func (p *fakeProvider) PlayPause() error             { p.toggles++; return nil }
func (p *fakeProvider) Next() error                  { p.nexts++; return nil }

type captureDispatcher struct {
	intents  []glassproto.Intent
	statuses []string
}

func (d *captureDispatcher) Dispatch(intent glassproto.Intent) bool {
	d.intents = append(d.intents, intent)
	return true
}

func (d *captureDispatcher) SetStatus(status string) {
	d.statuses = append(d.statuses, status)
}

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		snap *Snapshot
		name string
		want string
	}{
		{nil, "nil snapshot", Placeholder},
		{&Snapshot{Title: ""}, "blank title", Placeholder},
		{&Snapshot{Title: "   "}, "whitespace title", Placeholder},
		{&Snapshot{Title: "Song", Artist: "Band", Playing: true}, "playing", "▶ Song – Band"},
		{&Snapshot{Title: "Song", Artist: "Band", Playing: false}, "paused", "⏸ Song – Band"},
		{&Snapshot{Title: "Song", Playing: true}, "no artist", "▶ Song"},
		{&Snapshot{Title: "Song", Artist: "  ", Playing: false}, "blank artist", "⏸ Song"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Format(tt.snap))
		})
	}
}

func TestCurrent_ProviderError(t *testing.T) {
	t.Parallel()

	b := New(&fakeProvider{err: errors.New("bus unavailable")}, &captureDispatcher{})
	assert.Equal(t, Placeholder, b.Current())
}

func TestCurrent_NoProvider(t *testing.T) {
	t.Parallel()

	b := New(nil, &captureDispatcher{})
	assert.Equal(t, Placeholder, b.Current())
}

func TestSendCurrent(t *testing.T) {
	t.Parallel()

	d := &captureDispatcher{}
	b := New(&fakeProvider{snap: &Snapshot{Title: "Song", Artist: "Band", Playing: true}}, d)

	assert.True(t, b.SendCurrent())
	require.Len(t, d.intents, 1)
	assert.Equal(t, glassproto.ShowText("▶ Song – Band"), d.intents[0])
}

func TestSendCurrent_NeverForwardsPlaceholder(t *testing.T) {
	t.Parallel()

	d := &captureDispatcher{}
	b := New(&fakeProvider{snap: nil}, d)

	assert.False(t, b.SendCurrent())
	assert.Empty(t, d.intents, "placeholder must not reach the device")
	require.Len(t, d.statuses, 1)
	assert.Equal(t, "No media info", d.statuses[0])
}

func TestSendCurrent_BlankTitleNotForwarded(t *testing.T) {
	t.Parallel()

	d := &captureDispatcher{}
	b := New(&fakeProvider{snap: &Snapshot{Title: "", Artist: "Band"}}, d)

	assert.False(t, b.SendCurrent())
	assert.Empty(t, d.intents)
}

func TestPlaybackControlPassthrough(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{}
	b := New(p, &captureDispatcher{})

	b.Previous()
	b.PlayPause()
	b.PlayPause()
	b.Next()

	assert.Equal(t, 1, p.prevs)
	assert.Equal(t, 2, p.toggles)
	assert.Equal(t, 1, p.nexts)
}

func TestPlaybackControl_NoProvider(t *testing.T) {
	t.Parallel()

	b := New(nil, &captureDispatcher{})

	// must not panic without a session provider
	b.Previous()
	b.PlayPause()
	b.Next()
}
