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

	"github.com/GlassLinkProject/glasslink-core/pkg/api/models"
	"github.com/GlassLinkProject/glasslink-core/pkg/api/models/requests"
	"github.com/rs/zerolog/log"
)

// HandleSettings returns the two forwarding toggles.
func HandleSettings(env requests.RequestEnv) (any, error) {
	return models.SettingsResponse{
		TimeSync:             env.Config.TimeSync(),
		ForwardNotifications: env.Config.ForwardNotifications(),
	}, nil
}

// HandleSettingsUpdate applies partial toggle updates, persists them,
// and arms or cancels the producers they control.
func HandleSettingsUpdate(env requests.RequestEnv) (any, error) {
	if !env.IsLocal {
		return nil, ErrNotAllowed
	}

	var params models.UpdateSettingsParams
	if err := json.Unmarshal(env.Params, &params); err != nil {
		return nil, ErrInvalidParams
	}

	if params.TimeSync != nil {
		env.Config.SetTimeSync(*params.TimeSync)
		if env.TimeSync != nil {
			env.TimeSync.SetEnabled(*params.TimeSync)
		}
	}

	if params.ForwardNotifications != nil {
		wasEnabled := env.Config.ForwardNotifications()
		env.Config.SetForwardNotifications(*params.ForwardNotifications)
		if *params.ForwardNotifications && !wasEnabled && env.Relay != nil {
			env.Relay.AnnounceEnabled()
		}
	}

	if err := env.Config.Save(); err != nil {
		log.Error().Err(err).Msg("failed to save settings")
	}

	return HandleSettings(env)
}
