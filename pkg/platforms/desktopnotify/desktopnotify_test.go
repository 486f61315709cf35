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

package desktopnotify

import (
	"testing"

	dbus "github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
)

func notifyCall(body []any) *dbus.Message {
	return &dbus.Message{
		Type: dbus.TypeMethodCall,
		Body: body,
	}
}

func TestHandleMessage(t *testing.T) {
	t.Parallel()

	var gotTitle, gotBody string
	calls := 0
	m := &Monitor{handler: func(title, body string) {
		gotTitle, gotBody = title, body
		calls++
	}}

	m.handleMessage(notifyCall([]any{
		"signal-desktop", uint32(0), "", "Alice", "lunch?", []string{}, map[string]dbus.Variant{}, int32(-1),
	}))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "Alice", gotTitle)
	assert.Equal(t, "lunch?", gotBody)
}

func TestHandleMessage_Malformed(t *testing.T) {
	t.Parallel()

	calls := 0
	m := &Monitor{handler: func(_, _ string) { calls++ }}

	m.handleMessage(nil)
	m.handleMessage(notifyCall([]any{"too", "short"}))
	m.handleMessage(notifyCall([]any{"a", uint32(0), "", 42, "body", nil, nil, int32(-1)}))
	m.handleMessage(&dbus.Message{Type: dbus.TypeSignal, Body: []any{
		"a", uint32(0), "", "title", "body", nil, nil, int32(-1),
	}})

	assert.Zero(t, calls, "malformed or non-method-call messages are ignored")
}
