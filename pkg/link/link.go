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

// Package link owns the single serial connection to the glasses. All
// access to the underlying transport goes through Link methods; no other
// component ever holds the port directly.
package link

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GlassLinkProject/glasslink-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// Port is the subset of the serial port surface the link uses.
// go.bug.st/serial.Port satisfies it.
type Port interface {
	Write(p []byte) (n int, err error)
	Drain() error
	Close() error
}

// Opener opens the transport for a target device. Injectable so tests
// can run against an in-memory port.
type Opener func(device string, baudRate int) (Port, error)

// SerialOpener opens a real serial port in the 8N1 framing the glasses
// firmware expects.
func SerialOpener(device string, baudRate int) (Port, error) {
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	return port, nil
}

// ConnectResult delivers the outcome of an asynchronous connection
// attempt. It is always called exactly once per Connect call, on a
// background goroutine.
type ConnectResult func(ok bool, message string)

// Link is the connection lifecycle state machine. At most one live
// connection exists per Link; connecting while already connected is a
// no-op that reports success.
type Link struct {
	opener     Opener
	port       Port
	device     string
	mu         syncutil.Mutex
	connected  bool
	connecting bool
}

func New(opener Opener) *Link {
	if opener == nil {
		opener = SerialOpener
	}
	return &Link{opener: opener}
}

// Connect attempts to open the target device on a background goroutine.
// The caller is never blocked. If the link is already connected the
// result reports success immediately and no new attempt is made. If an
// attempt is already in flight the call short-circuits on it. Failures
// reset the link to disconnected and are reported only through the
// result message, never escalated.
func (l *Link) Connect(device string, baudRate int, onResult ConnectResult) {
	if onResult == nil {
		onResult = func(bool, string) {}
	}

	l.mu.Lock()
	if l.connected {
		current := l.device
		l.mu.Unlock()
		go onResult(true, "Already connected to "+current)
		return
	}
	if l.connecting {
		l.mu.Unlock()
		go onResult(false, "Connection attempt already in progress")
		return
	}
	l.connecting = true
	l.mu.Unlock()

	go func() {
		port, err := l.opener(device, baudRate)
		if err != nil {
			if port != nil {
				_ = port.Close()
			}
			l.mu.Lock()
			l.port = nil
			l.device = ""
			l.connected = false
			l.connecting = false
			l.mu.Unlock()

			log.Warn().Err(err).Str("device", device).Msg("link: connect failed")
			onResult(false, fmt.Sprintf("Connect error: %s", err))
			return
		}

		l.mu.Lock()
		l.port = port
		l.device = device
		l.connected = true
		l.connecting = false
		l.mu.Unlock()

		log.Info().Str("device", device).Msg("link: connected")
		onResult(true, "Connected to "+device)
	}()
}

// Connected is a fast non-blocking state check.
func (l *Link) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected && l.port != nil
}

// Device returns the target identity of the current connection, or an
// empty string when disconnected.
func (l *Link) Device() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.device
}

// WriteLine writes one protocol line, best effort. A write on a
// disconnected link is a silent no-op. Write errors are swallowed; the
// link only transitions to disconnected when the error clearly means the
// device is gone, so health stays observable through Connected().
func (l *Link) WriteLine(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.connected || l.port == nil {
		return
	}

	_, err := l.port.Write([]byte(line))
	if err != nil {
		log.Debug().Err(err).Msg("link: write failed")
		if isDisconnectionError(err) {
			_ = l.port.Close()
			l.port = nil
			l.device = ""
			l.connected = false
			log.Info().Err(err).Msg("link: device disconnected on write error")
		}
		return
	}

	log.Debug().Str("line", strings.TrimSuffix(line, "\n")).Msg("link: sent")
}

// Disconnect flushes and closes the connection. Idempotent and safe on
// an already-disconnected link; always resets state and clears the
// target identity.
func (l *Link) Disconnect() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.port != nil {
		_ = l.port.Drain()
		_ = l.port.Close()
		l.port = nil
		log.Info().Str("device", l.device).Msg("link: disconnected")
	}

	l.device = ""
	l.connected = false
}

// isDisconnectionError reports whether a write error means the device is
// definitely gone, as opposed to a transient transport hiccup.
func isDisconnectionError(err error) bool {
	if err == nil {
		return false
	}

	var portErr serial.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.PortNotFound, serial.PortClosed, serial.InvalidSerialPort:
			return true
		default:
			return false
		}
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "device not configured") ||
		strings.Contains(errStr, "input/output error") ||
		strings.Contains(errStr, "no such device") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "device disconnected")
}
