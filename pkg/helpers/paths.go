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

package helpers

import (
	"path/filepath"

	"github.com/GlassLinkProject/glasslink-core/pkg/config"
	"github.com/adrg/xdg"
)

// ConfigDir is where the TOML config file lives.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, config.AppName)
}

// DataDir holds runtime state that should survive restarts.
func DataDir() string {
	return filepath.Join(xdg.DataHome, config.AppName)
}

// LogDir holds the rotating service log.
func LogDir() string {
	return filepath.Join(xdg.StateHome, config.AppName)
}
