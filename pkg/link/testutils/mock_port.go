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

// Package testutils provides an in-memory serial port for link tests.
package testutils

import (
	"errors"
	"strings"

	"github.com/GlassLinkProject/glasslink-core/pkg/helpers/syncutil"
)

// MockPort is an in-memory implementation of link.Port that records
// every byte written to it.
type MockPort struct {
	WriteError error
	written    strings.Builder
	mu         syncutil.Mutex
	closed     bool
	drained    bool
}

func NewMockPort() *MockPort {
	return &MockPort{}
}

func (m *MockPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, errors.New("port closed")
	}
	if m.WriteError != nil {
		return 0, m.WriteError
	}

	m.written.Write(p)
	return len(p), nil
}

func (m *MockPort) Drain() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drained = true
	return nil
}

func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Written returns everything written to the port so far.
func (m *MockPort) Written() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.written.String()
}

// Lines returns the complete newline-terminated lines written so far.
func (m *MockPort) Lines() []string {
	data := m.Written()
	if data == "" {
		return nil
	}
	lines := strings.Split(data, "\n")
	// trailing element after the final terminator is empty
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// IsClosed reports whether Close has been called.
func (m *MockPort) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// IsDrained reports whether Drain has been called.
func (m *MockPort) IsDrained() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drained
}
