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

package timesync

import (
	"sync"
	"testing"
	"time"

	"github.com/GlassLinkProject/glasslink-core/pkg/glassproto"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recordingDispatcher captures dispatched intents. Its connected flag
// simulates link state as seen by the real dispatcher.
type recordingDispatcher struct {
	intents   []glassproto.Intent
	statuses  []string
	mu        sync.Mutex
	connected bool
}

func (d *recordingDispatcher) Dispatch(intent glassproto.Intent) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.connected {
		return false
	}
	d.intents = append(d.intents, intent)
	return true
}

func (d *recordingDispatcher) SetStatus(status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statuses = append(d.statuses, status)
}

func (d *recordingDispatcher) setConnected(connected bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = connected
}

func (d *recordingDispatcher) snapshot() []glassproto.Intent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]glassproto.Intent, len(d.intents))
	copy(out, d.intents)
	return out
}

func waitForIntents(t *testing.T, d *recordingDispatcher, n int) []glassproto.Intent {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(d.snapshot()) >= n
	}, 2*time.Second, time.Millisecond, "expected at least %d dispatched intents", n)
	return d.snapshot()
}

func TestSetEnabled_ImmediateSync(t *testing.T) {
	t.Parallel()

	// Wednesday June 4 2025, 12:59:45 local
	start := time.Date(2025, 6, 4, 12, 59, 45, 0, time.Local)
	clock := clockwork.NewFakeClockAt(start)
	d := &recordingDispatcher{connected: true}

	s := New(d, clock)
	s.SetEnabled(true)
	defer s.Stop()

	intents := waitForIntents(t, d, 2)
	assert.Equal(t, glassproto.SetTime(12, 59), intents[0])
	assert.Equal(t, glassproto.SetDate("Wed 6/4"), intents[1])
}

func TestTick_MinuteBoundaryAligned(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 4, 12, 59, 45, 0, time.Local)
	clock := clockwork.NewFakeClockAt(start)
	d := &recordingDispatcher{connected: true}

	s := New(d, clock)
	s.SetEnabled(true)
	defer s.Stop()

	waitForIntents(t, d, 2)

	// run loop must be blocked on the armed timer before advancing
	clock.BlockUntil(1)

	// 15 seconds reaches 13:00:00, the next minute boundary
	clock.Advance(15 * time.Second)

	intents := waitForIntents(t, d, 4)
	assert.Equal(t, glassproto.SetTime(13, 0), intents[2])
	assert.Equal(t, glassproto.SetDate("Wed 6/4"), intents[3])
}

func TestTick_ReArmsFromNowAfterEachFire(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 4, 23, 58, 30, 0, time.Local)
	clock := clockwork.NewFakeClockAt(start)
	d := &recordingDispatcher{connected: true}

	s := New(d, clock)
	s.SetEnabled(true)
	defer s.Stop()

	waitForIntents(t, d, 2)

	clock.BlockUntil(1)
	clock.Advance(30 * time.Second) // 23:59:00
	waitForIntents(t, d, 4)

	clock.BlockUntil(1)
	clock.Advance(time.Minute) // 00:00:00 next day
	intents := waitForIntents(t, d, 6)

	assert.Equal(t, glassproto.SetTime(0, 0), intents[4])
	assert.Equal(t, glassproto.SetDate("Thu 6/5"), intents[5], "date label rolls over at midnight")
}

func TestTick_SkipsWhileDisconnectedThenResumes(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 4, 10, 0, 30, 0, time.Local)
	clock := clockwork.NewFakeClockAt(start)
	d := &recordingDispatcher{connected: true}

	s := New(d, clock)
	s.SetEnabled(true)
	defer s.Stop()

	waitForIntents(t, d, 2)

	// drop the link; ticks continue but nothing is dispatched
	d.setConnected(false)
	clock.BlockUntil(1)
	clock.Advance(30 * time.Second) // 10:01:00

	// give the fired tick a chance to (not) record anything
	clock.BlockUntil(1)
	assert.Len(t, d.snapshot(), 2, "no dispatches while disconnected")

	// reconnect: the still-armed timer resumes sync without re-toggling
	d.setConnected(true)
	clock.Advance(time.Minute) // 10:02:00

	intents := waitForIntents(t, d, 4)
	assert.Equal(t, glassproto.SetTime(10, 2), intents[2])
}

func TestSetEnabled_DisableCancelsTimer(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 4, 10, 0, 30, 0, time.Local)
	clock := clockwork.NewFakeClockAt(start)
	d := &recordingDispatcher{connected: true}

	s := New(d, clock)
	s.SetEnabled(true)
	waitForIntents(t, d, 2)
	require.True(t, s.Enabled())

	s.SetEnabled(false)
	require.False(t, s.Enabled())

	clock.Advance(5 * time.Minute)
	time.Sleep(10 * time.Millisecond)
	assert.Len(t, d.snapshot(), 2, "no dispatches after disable")
}

func TestSetEnabled_Idempotent(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 6, 4, 10, 0, 30, 0, time.Local)
	clock := clockwork.NewFakeClockAt(start)
	d := &recordingDispatcher{connected: true}

	s := New(d, clock)
	s.SetEnabled(true)
	s.SetEnabled(true) // second enable is a no-op, no second run loop
	defer s.Stop()

	waitForIntents(t, d, 2)

	clock.BlockUntil(1)
	clock.Advance(30 * time.Second)

	intents := waitForIntents(t, d, 4)
	assert.Len(t, intents, 4, "exactly one timer loop dispatching")
}
