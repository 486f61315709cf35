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

// Package timesync pushes the host's wall clock to the glasses once per
// minute while enabled. Ticks are aligned to minute boundaries and
// re-derived from the clock after every fire, so the schedule never
// drifts. The scheduler keeps ticking through disconnects; sync resumes
// on its own once the link comes back.
package timesync

import (
	"context"
	"time"

	"github.com/GlassLinkProject/glasslink-core/pkg/glassproto"
	"github.com/GlassLinkProject/glasslink-core/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DateLabelLayout renders the weekday and month/day the firmware shows
// under the clock face, e.g. "Wed 6/4".
const DateLabelLayout = "Mon 1/2"

// Dispatcher is the funnel the scheduler emits intents through.
type Dispatcher interface {
	Dispatch(intent glassproto.Intent) bool
	SetStatus(status string)
}

// Scheduler is the periodic time-sync producer.
type Scheduler struct {
	clock      clockwork.Clock
	dispatcher Dispatcher
	cancel     context.CancelFunc
	mu         syncutil.Mutex
	enabled    bool
}

func New(dispatcher Dispatcher, clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		clock:      clock,
		dispatcher: dispatcher,
	}
}

// SetEnabled starts or stops the periodic sync. Enabling pushes the
// current time immediately, then arms the minute-boundary timer.
// Disabling cancels the timer; no further dispatches occur.
func (s *Scheduler) SetEnabled(enabled bool) {
	s.mu.Lock()
	if s.enabled == enabled {
		s.mu.Unlock()
		return
	}
	s.enabled = enabled

	if enabled {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		s.mu.Unlock()

		log.Info().Msg("timesync: enabled")
		go s.run(ctx)
		return
	}

	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	log.Info().Msg("timesync: disabled")
}

// Enabled reports whether the periodic sync is armed.
func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Stop cancels any armed timer. Called on service teardown so no
// periodic work dangles after the host shuts down.
func (s *Scheduler) Stop() {
	s.SetEnabled(false)
}

func (s *Scheduler) run(ctx context.Context) {
	s.SyncNow()

	for {
		now := s.clock.Now()
		next := now.Truncate(time.Minute).Add(time.Minute)
		timer := s.clock.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.Chan():
			s.SyncNow()
		}
	}
}

// SyncNow pushes the current local time and date label through the
// dispatcher. Skipped silently when the link is down; the timer keeps
// running so sync resumes after a reconnect without re-toggling.
func (s *Scheduler) SyncNow() {
	now := s.clock.Now().Local()

	if !s.dispatcher.Dispatch(glassproto.SetTime(now.Hour(), now.Minute())) {
		log.Debug().Msg("timesync: skipped, link not connected")
		return
	}

	label := now.Format(DateLabelLayout)
	s.dispatcher.Dispatch(glassproto.SetDate(label))
	s.dispatcher.SetStatus("Time synced: " + now.Format("15:04") + "  " + label)
}
