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

package config

import "time"

// AppVersion is overridden at build time via ldflags.
var AppVersion = "DEVELOPMENT"

const (
	AppName           = "glasslink"
	LogFile           = "glasslink.log"
	CfgFile           = "config.toml"
	APIRequestTimeout = 30 * time.Second
)
