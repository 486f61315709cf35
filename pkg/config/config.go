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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GlassLinkProject/glasslink-core/pkg/helpers/syncutil"
	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "GLASSLINK_CFG"
)

type Values struct {
	Link         Link    `toml:"link"`
	Service      Service `toml:"service,omitempty"`
	ConfigSchema int     `toml:"config_schema"`
	TimeSync     bool    `toml:"time_sync"`
	ForwardNotes bool    `toml:"forward_notifications"`
	DebugLogging bool    `toml:"debug_logging"`
}

type Link struct {
	// Device is the serial device path of the glasses, e.g. /dev/rfcomm0
	// for a Bluetooth SPP binding or /dev/ttyUSB0 for a wired link.
	Device   string `toml:"device,omitempty"`
	BaudRate int    `toml:"baud_rate,omitempty"`
}

type Service struct {
	DeviceID string `toml:"device_id,omitempty"`
	APIPort  int    `toml:"api_port,omitempty"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Link: Link{
		BaudRate: 115200,
	},
	Service: Service{
		APIPort: 7497,
	},
}

type Instance struct {
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		mu:       syncutil.RWMutex{},
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top so fields
	// missing from the file keep their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	// generate a device id if one doesn't exist
	if c.vals.Service.DeviceID == "" {
		newID := uuid.New().String()
		c.vals.Service.DeviceID = newID
		log.Info().Msgf("generated new device id: %s", newID)
	}

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) TimeSync() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.TimeSync
}

func (c *Instance) SetTimeSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.TimeSync = enabled
}

func (c *Instance) ForwardNotifications() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.ForwardNotes
}

func (c *Instance) SetForwardNotifications(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.ForwardNotes = enabled
}

func (c *Instance) LinkDevice() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Link.Device
}

func (c *Instance) SetLinkDevice(device string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Link.Device = device
}

func (c *Instance) BaudRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Link.BaudRate == 0 {
		return BaseDefaults.Link.BaudRate
	}
	return c.vals.Link.BaudRate
}

func (c *Instance) APIPort() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Service.APIPort == 0 {
		return BaseDefaults.Service.APIPort
	}
	return c.vals.Service.APIPort
}

func (c *Instance) DeviceID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.DeviceID
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}
