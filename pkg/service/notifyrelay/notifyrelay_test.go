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

package notifyrelay

import (
	"strings"
	"testing"

	"github.com/GlassLinkProject/glasslink-core/pkg/config"
	"github.com/GlassLinkProject/glasslink-core/pkg/glassproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureDispatcher struct {
	intents []glassproto.Intent
}

func (d *captureDispatcher) Dispatch(intent glassproto.Intent) bool {
	d.intents = append(d.intents, intent)
	return true
}

func newTestRelay(t *testing.T, forwarding bool) (*Relay, *captureDispatcher) {
	t.Helper()

	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)
	cfg.SetForwardNotifications(forwarding)

	d := &captureDispatcher{}
	return New(cfg, d), d
}

func TestOnNotification_TitleAndBody(t *testing.T) {
	t.Parallel()

	r, d := newTestRelay(t, true)
	r.OnNotification("Alice", "lunch?")

	require.Len(t, d.intents, 1)
	assert.Equal(t, glassproto.ShowText("Alice: lunch?"), d.intents[0])
}

func TestOnNotification_TitleOnly(t *testing.T) {
	t.Parallel()

	r, d := newTestRelay(t, true)
	r.OnNotification("Battery low", "")

	require.Len(t, d.intents, 1)
	assert.Equal(t, glassproto.ShowText("Battery low"), d.intents[0])
}

func TestOnNotification_BodyOnly(t *testing.T) {
	t.Parallel()

	r, d := newTestRelay(t, true)
	r.OnNotification("", "meeting in 5")

	require.Len(t, d.intents, 1)
	assert.Equal(t, glassproto.ShowText("meeting in 5"), d.intents[0])
}

func TestOnNotification_BothEmpty(t *testing.T) {
	t.Parallel()

	r, d := newTestRelay(t, true)
	r.OnNotification("", "")
	r.OnNotification("  ", "\t")

	assert.Empty(t, d.intents, "empty notifications produce zero dispatches")
}

func TestOnNotification_ForwardingDisabled(t *testing.T) {
	t.Parallel()

	r, d := newTestRelay(t, false)
	r.OnNotification("Alice", "lunch?")

	assert.Empty(t, d.intents)
}

func TestOnNotification_LongMessageClipped(t *testing.T) {
	t.Parallel()

	r, d := newTestRelay(t, true)
	longTitle := "A very long title exceeding sixty characters " + strings.Repeat(".", 40)
	r.OnNotification(longTitle, "")

	require.Len(t, d.intents, 1)
	payload := d.intents[0].Text
	assert.LessOrEqual(t, len([]rune(payload)), MaxMessageLen+1, "60 runes plus ellipsis marker")
	assert.True(t, strings.HasSuffix(payload, Ellipsis))
}

func TestClip(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", Clip("short"))

	exact := strings.Repeat("x", MaxMessageLen)
	assert.Equal(t, exact, Clip(exact), "exactly max length is not clipped")

	over := strings.Repeat("x", MaxMessageLen+1)
	clipped := Clip(over)
	assert.Equal(t, strings.Repeat("x", MaxMessageLen)+Ellipsis, clipped)

	// multibyte runes count as one character each
	wide := strings.Repeat("ü", MaxMessageLen+5)
	assert.Equal(t, MaxMessageLen+1, len([]rune(Clip(wide))))
}

func TestAnnounceEnabled(t *testing.T) {
	t.Parallel()

	r, d := newTestRelay(t, true)
	r.AnnounceEnabled()

	require.Len(t, d.intents, 1)
	assert.Equal(t, glassproto.ShowText("Notifications enabled"), d.intents[0])
}

func TestOnNotification_BurstsRelayedIndependently(t *testing.T) {
	t.Parallel()

	r, d := newTestRelay(t, true)
	r.OnNotification("One", "first")
	r.OnNotification("One", "first") // duplicate is not suppressed
	r.OnNotification("Two", "second")

	assert.Len(t, d.intents, 3)
}
