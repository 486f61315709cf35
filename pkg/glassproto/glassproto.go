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

// Package glassproto implements the line protocol spoken by the glasses
// firmware: one ASCII command per line, newline terminated, fields joined
// with a pipe. The pipe character is not escaped inside free text, which
// is a known limitation of the firmware parser.
package glassproto

import (
	"fmt"
	"strings"
)

// Glasses display commands
const (
	CmdText     = "#TEXT"     // #TEXT|<text>
	CmdClear    = "#CLEAR"    // #CLEAR - clear display
	CmdClockOn  = "#CLOCKON"  // #CLOCKON - show clock face
	CmdClockOff = "#CLOCKOFF" // #CLOCKOFF - hide clock face
	CmdSetTime  = "#SETTIME"  // #SETTIME|<hh>|<mm>
	CmdSetDate  = "#SETDATE"  // #SETDATE|<label>

	// CommandTerminator ends every wire line. The firmware reads with
	// readStringUntil('\n') so a command is only ever one line.
	CommandTerminator = "\n"
)

// IntentKind identifies the type of command an Intent carries.
type IntentKind int

const (
	KindShowText IntentKind = iota
	KindClear
	KindClockOn
	KindClockOff
	KindSetTime
	KindSetDate
)

// Intent is a typed, pre-encoding representation of a single command.
// Intents are immutable values constructed by producers and consumed
// exactly once by the dispatcher.
type Intent struct {
	Text   string
	Label  string
	Kind   IntentKind
	Hour   int
	Minute int
}

func ShowText(text string) Intent {
	return Intent{Kind: KindShowText, Text: text}
}

func Clear() Intent {
	return Intent{Kind: KindClear}
}

func ClockOn() Intent {
	return Intent{Kind: KindClockOn}
}

func ClockOff() Intent {
	return Intent{Kind: KindClockOff}
}

func SetTime(hour, minute int) Intent {
	return Intent{Kind: KindSetTime, Hour: hour, Minute: minute}
}

func SetDate(label string) Intent {
	return Intent{Kind: KindSetDate, Label: label}
}

// String returns a short human-readable form of the intent, used for
// status lines and logging. It is the wire line without the terminator.
func (i Intent) String() string {
	return strings.TrimSuffix(Encode(i), CommandTerminator)
}

// Encode turns an intent into its exact wire line, terminated by a single
// newline. Caller-supplied text containing newlines is flattened to spaces
// so an intent can never split into multiple firmware commands.
func Encode(intent Intent) string {
	switch intent.Kind {
	case KindShowText:
		return CmdText + "|" + sanitize(intent.Text) + CommandTerminator
	case KindClear:
		return CmdClear + CommandTerminator
	case KindClockOn:
		return CmdClockOn + CommandTerminator
	case KindClockOff:
		return CmdClockOff + CommandTerminator
	case KindSetTime:
		return fmt.Sprintf("%s|%02d|%02d%s",
			CmdSetTime, intent.Hour, intent.Minute, CommandTerminator)
	case KindSetDate:
		return CmdSetDate + "|" + sanitize(intent.Label) + CommandTerminator
	default:
		// unreachable for intents built via the constructors
		return CmdClear + CommandTerminator
	}
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
