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

package link

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GlassLinkProject/glasslink-core/pkg/link/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForResult(t *testing.T, results <-chan connectOutcome) connectOutcome {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for connect result")
		return connectOutcome{}
	}
}

type connectOutcome struct {
	message string
	ok      bool
}

func collectResult(results chan<- connectOutcome) ConnectResult {
	return func(ok bool, message string) {
		results <- connectOutcome{ok: ok, message: message}
	}
}

func TestConnect_Success(t *testing.T) {
	t.Parallel()

	port := testutils.NewMockPort()
	l := New(func(_ string, _ int) (Port, error) {
		return port, nil
	})

	results := make(chan connectOutcome, 1)
	l.Connect("/dev/rfcomm0", 115200, collectResult(results))

	r := waitForResult(t, results)
	assert.True(t, r.ok)
	assert.Contains(t, r.message, "Connected to /dev/rfcomm0")
	assert.True(t, l.Connected())
	assert.Equal(t, "/dev/rfcomm0", l.Device())
}

func TestConnect_Failure(t *testing.T) {
	t.Parallel()

	l := New(func(_ string, _ int) (Port, error) {
		return nil, errors.New("no such device")
	})

	results := make(chan connectOutcome, 1)
	l.Connect("/dev/ttyUSB9", 115200, collectResult(results))

	r := waitForResult(t, results)
	assert.False(t, r.ok)
	assert.Contains(t, r.message, "Connect error")
	assert.False(t, l.Connected())
	assert.Empty(t, l.Device())
}

func TestConnect_AlreadyConnected(t *testing.T) {
	t.Parallel()

	var opens atomic.Int32
	port := testutils.NewMockPort()
	l := New(func(_ string, _ int) (Port, error) {
		opens.Add(1)
		return port, nil
	})

	results := make(chan connectOutcome, 1)
	l.Connect("/dev/rfcomm0", 115200, collectResult(results))
	waitForResult(t, results)

	l.Connect("/dev/rfcomm0", 115200, collectResult(results))
	r := waitForResult(t, results)

	assert.True(t, r.ok)
	assert.Contains(t, r.message, "Already connected")
	assert.Equal(t, int32(1), opens.Load(), "no second socket opened")
}

func TestConnect_OverlappingAttempts(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var opens atomic.Int32
	l := New(func(_ string, _ int) (Port, error) {
		opens.Add(1)
		<-release
		return testutils.NewMockPort(), nil
	})

	first := make(chan connectOutcome, 1)
	second := make(chan connectOutcome, 1)
	l.Connect("/dev/rfcomm0", 115200, collectResult(first))
	l.Connect("/dev/rfcomm0", 115200, collectResult(second))

	// the second call short-circuits while the first is outstanding
	r2 := waitForResult(t, second)
	assert.False(t, r2.ok)

	close(release)
	r1 := waitForResult(t, first)
	assert.True(t, r1.ok)
	assert.Equal(t, int32(1), opens.Load(), "only one live connection attempt")
}

func TestWriteLine_NotConnected(t *testing.T) {
	t.Parallel()

	port := testutils.NewMockPort()
	l := New(func(_ string, _ int) (Port, error) {
		return port, nil
	})

	// never connected: write is a silent no-op
	l.WriteLine("#CLEAR\n")
	assert.Empty(t, port.Written())
}

func TestWriteLine_Connected(t *testing.T) {
	t.Parallel()

	port := testutils.NewMockPort()
	l := New(func(_ string, _ int) (Port, error) {
		return port, nil
	})

	results := make(chan connectOutcome, 1)
	l.Connect("/dev/rfcomm0", 115200, collectResult(results))
	waitForResult(t, results)

	l.WriteLine("#TEXT|hi\n")
	assert.Equal(t, "#TEXT|hi\n", port.Written())
}

func TestWriteLine_TransientErrorSwallowed(t *testing.T) {
	t.Parallel()

	port := testutils.NewMockPort()
	l := New(func(_ string, _ int) (Port, error) {
		return port, nil
	})

	results := make(chan connectOutcome, 1)
	l.Connect("/dev/rfcomm0", 115200, collectResult(results))
	waitForResult(t, results)

	port.WriteError = errors.New("resource temporarily unavailable")
	l.WriteLine("#CLEAR\n")

	// a transient write failure does not drop the connection
	assert.True(t, l.Connected())
}

func TestWriteLine_DisconnectionErrorDropsLink(t *testing.T) {
	t.Parallel()

	port := testutils.NewMockPort()
	l := New(func(_ string, _ int) (Port, error) {
		return port, nil
	})

	results := make(chan connectOutcome, 1)
	l.Connect("/dev/rfcomm0", 115200, collectResult(results))
	waitForResult(t, results)

	port.WriteError = errors.New("write: no such device")
	l.WriteLine("#CLEAR\n")

	assert.False(t, l.Connected())
	assert.True(t, port.IsClosed())
}

func TestDisconnect(t *testing.T) {
	t.Parallel()

	port := testutils.NewMockPort()
	l := New(func(_ string, _ int) (Port, error) {
		return port, nil
	})

	results := make(chan connectOutcome, 1)
	l.Connect("/dev/rfcomm0", 115200, collectResult(results))
	waitForResult(t, results)

	l.Disconnect()

	assert.False(t, l.Connected())
	assert.Empty(t, l.Device())
	assert.True(t, port.IsDrained(), "output flushed before close")
	assert.True(t, port.IsClosed())
}

func TestDisconnect_Idempotent(t *testing.T) {
	t.Parallel()

	l := New(func(_ string, _ int) (Port, error) {
		return testutils.NewMockPort(), nil
	})

	// disconnecting a never-connected link must not panic
	l.Disconnect()
	l.Disconnect()
	assert.False(t, l.Connected())
}

func TestReconnectAfterDisconnect(t *testing.T) {
	t.Parallel()

	l := New(func(_ string, _ int) (Port, error) {
		return testutils.NewMockPort(), nil
	})

	results := make(chan connectOutcome, 1)
	l.Connect("/dev/rfcomm0", 115200, collectResult(results))
	r := waitForResult(t, results)
	require.True(t, r.ok)

	l.Disconnect()

	l.Connect("/dev/ttyUSB0", 115200, collectResult(results))
	r = waitForResult(t, results)
	require.True(t, r.ok)
	assert.Equal(t, "/dev/ttyUSB0", l.Device())
}

func TestIsDisconnectionError(t *testing.T) {
	t.Parallel()

	assert.False(t, isDisconnectionError(nil))
	assert.False(t, isDisconnectionError(errors.New("timeout")))
	assert.True(t, isDisconnectionError(errors.New("input/output error")))
	assert.True(t, isDisconnectionError(errors.New("broken pipe")))
	assert.True(t, isDisconnectionError(errors.New("no such device")))
}
