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

// Package models defines the JSON-RPC API surface.
package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

const (
	// link
	MethodConnect    = "connect"
	MethodDisconnect = "disconnect"
	MethodStatus     = "status"
	MethodDevices    = "devices"
	// display
	MethodSendText  = "send.text"
	MethodSendClear = "send.clear"
	MethodClockOn   = "clock.on"
	MethodClockOff  = "clock.off"
	// settings
	MethodSettings       = "settings"
	MethodSettingsUpdate = "settings.update"
	// media
	MethodMediaNowPlaying = "media.nowplaying"
	MethodMediaSend       = "media.send"
	MethodMediaPrevious   = "media.previous"
	MethodMediaPlayPause  = "media.playpause"
	MethodMediaNext       = "media.next"
	// utils
	MethodVersion = "version"
)

// Server-pushed notification methods.
const (
	NotificationLinkConnected    = "link.connected"
	NotificationLinkDisconnected = "link.disconnected"
	NotificationStatusUpdated    = "status.updated"
)

type Notification struct {
	Params any
	Method string
}

type RequestObject struct {
	ID      *uuid.UUID      `json:"id,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NotificationObject is the wire form of a server-pushed notification:
// a JSON-RPC request without an id.
type NotificationObject struct {
	Params  any    `json:"params,omitempty"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
}

type ErrorObject struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type ResponseObject struct {
	Result  any          `json:"result"`
	Error   *ErrorObject `json:"error,omitempty"`
	JSONRPC string       `json:"jsonrpc"`
	ID      uuid.UUID    `json:"id"`
}

// ResponseErrorObject exists for sending errors, so result can be
// omitted, while nil results are still returned by ResponseObject.
type ResponseErrorObject struct {
	Error   *ErrorObject `json:"error"`
	JSONRPC string       `json:"jsonrpc"`
	ID      uuid.UUID    `json:"id"`
}

type ConnectParams struct {
	Device string `json:"device,omitempty"`
}

type SendTextParams struct {
	Text string `json:"text"`
}

type UpdateSettingsParams struct {
	TimeSync             *bool `json:"timeSync,omitempty"`
	ForwardNotifications *bool `json:"forwardNotifications,omitempty"`
}

type StatusResponse struct {
	Device               string `json:"device"`
	LastStatus           string `json:"lastStatus"`
	Connected            bool   `json:"connected"`
	TimeSync             bool   `json:"timeSync"`
	ForwardNotifications bool   `json:"forwardNotifications"`
}

type SettingsResponse struct {
	TimeSync             bool `json:"timeSync"`
	ForwardNotifications bool `json:"forwardNotifications"`
}

type DevicesResponse struct {
	Devices []string `json:"devices"`
}

type NowPlayingResponse struct {
	Line    string `json:"line"`
	Playing bool   `json:"playing"`
}

type SendResponse struct {
	Status string `json:"status"`
	Sent   bool   `json:"sent"`
}

type VersionResponse struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
}

type LinkStateParams struct {
	Device string `json:"device"`
}

type StatusUpdatedParams struct {
	Status string `json:"status"`
}
