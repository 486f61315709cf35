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

package methods

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/GlassLinkProject/glasslink-core/pkg/api/models"
	"github.com/GlassLinkProject/glasslink-core/pkg/api/models/requests"
	"github.com/GlassLinkProject/glasslink-core/pkg/glassproto"
)

// ErrInvalidParams is returned when a method's params fail to decode.
var ErrInvalidParams = errors.New("invalid params")

// ErrNotAllowed is returned when a remote client calls a method that is
// restricted to loopback clients.
var ErrNotAllowed = errors.New("permission denied: local clients only")

func dispatchResult(env requests.RequestEnv, intent glassproto.Intent) (any, error) {
	sent := env.Dispatcher.Dispatch(intent)
	return models.SendResponse{
		Sent:   sent,
		Status: env.Dispatcher.LastStatus(),
	}, nil
}

// HandleSendText shows free text on the glasses.
func HandleSendText(env requests.RequestEnv) (any, error) {
	var params models.SendTextParams
	if err := json.Unmarshal(env.Params, &params); err != nil {
		return nil, ErrInvalidParams
	}

	text := strings.TrimSpace(params.Text)
	if text == "" {
		return nil, errors.New("text is empty")
	}

	return dispatchResult(env, glassproto.ShowText(text))
}

// HandleSendClear clears the display.
func HandleSendClear(env requests.RequestEnv) (any, error) {
	return dispatchResult(env, glassproto.Clear())
}

// HandleClockOn shows the clock face.
func HandleClockOn(env requests.RequestEnv) (any, error) {
	return dispatchResult(env, glassproto.ClockOn())
}

// HandleClockOff hides the clock face.
func HandleClockOff(env requests.RequestEnv) (any, error) {
	return dispatchResult(env, glassproto.ClockOff())
}
