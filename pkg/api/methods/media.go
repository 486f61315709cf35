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
	"runtime"

	"github.com/GlassLinkProject/glasslink-core/pkg/api/models"
	"github.com/GlassLinkProject/glasslink-core/pkg/api/models/requests"
	"github.com/GlassLinkProject/glasslink-core/pkg/config"
)

// HandleMediaNowPlaying returns the formatted now-playing line.
func HandleMediaNowPlaying(env requests.RequestEnv) (any, error) {
	return models.NowPlayingResponse{
		Line:    env.NowPlaying.Current(),
		Playing: env.NowPlaying.Playing(),
	}, nil
}

// HandleMediaSend pushes the now-playing line to the glasses. The
// "(no media)" placeholder is never forwarded.
func HandleMediaSend(env requests.RequestEnv) (any, error) {
	sent := env.NowPlaying.SendCurrent()
	return models.SendResponse{
		Sent:   sent,
		Status: env.Dispatcher.LastStatus(),
	}, nil
}

// HandleMediaPrevious skips to the previous track.
func HandleMediaPrevious(env requests.RequestEnv) (any, error) {
	env.NowPlaying.Previous()
	return HandleMediaNowPlaying(env)
}

// HandleMediaPlayPause toggles playback.
func HandleMediaPlayPause(env requests.RequestEnv) (any, error) {
	env.NowPlaying.PlayPause()
	return HandleMediaNowPlaying(env)
}

// HandleMediaNext skips to the next track.
func HandleMediaNext(env requests.RequestEnv) (any, error) {
	env.NowPlaying.Next()
	return HandleMediaNowPlaying(env)
}

// HandleVersion reports the service version and platform.
func HandleVersion(_ requests.RequestEnv) (any, error) {
	return models.VersionResponse{
		Version:  config.AppVersion,
		Platform: runtime.GOOS,
	}, nil
}
