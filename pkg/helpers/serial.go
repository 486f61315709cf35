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
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.bug.st/serial"
)

// linuxDevPrefixes are the device name families worth offering as
// connection targets. rfcomm covers glasses bound over Bluetooth SPP.
var linuxDevPrefixes = []string{"ttyUSB", "ttyACM", "rfcomm"}

func getLinuxList() ([]string, error) {
	const path = "/dev"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open /dev directory: %w", err)
	}
	defer func() { _ = f.Close() }()

	files, err := f.Readdir(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read /dev directory: %w", err)
	}

	devices := make([]string, 0, len(files))
	for _, v := range files {
		if v.IsDir() {
			continue
		}
		for _, prefix := range linuxDevPrefixes {
			if strings.HasPrefix(v.Name(), prefix) {
				devices = append(devices, filepath.Join(path, v.Name()))
				break
			}
		}
	}

	return devices, nil
}

// GetSerialDeviceList returns candidate serial devices a pair of glasses
// could be connected through.
func GetSerialDeviceList() ([]string, error) {
	switch runtime.GOOS {
	case "linux":
		return getLinuxList()
	case "darwin":
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to get serial ports list on darwin: %w", err)
		}

		var devices []string
		for _, v := range ports {
			if !strings.HasPrefix(v, "/dev/tty.") {
				continue
			}
			devices = append(devices, v)
		}
		return devices, nil
	case "windows":
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to get serial ports list on windows: %w", err)
		}

		var devices []string
		for _, v := range ports {
			if !strings.HasPrefix(v, "COM") {
				continue
			}
			devices = append(devices, v)
		}
		return devices, nil
	default:
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to get serial ports list: %w", err)
		}
		return ports, nil
	}
}
