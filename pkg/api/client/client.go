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

// Package client is a minimal JSON-RPC client for talking to a locally
// running service instance, used by the one-shot CLI commands.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/GlassLinkProject/glasslink-core/pkg/api/models"
	"github.com/GlassLinkProject/glasslink-core/pkg/config"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestTimeout   = errors.New("request timed out")
	ErrInvalidParams    = errors.New("invalid params")
	ErrRequestCancelled = errors.New("request cancelled")
)

const APIPath = "/api/v0.1"

// LocalClient sends a single method with params to the local running API
// service, waits for a response until timeout then disconnects.
func LocalClient(
	ctx context.Context,
	cfg *config.Instance,
	method string,
	params string,
) (string, error) {
	localWebsocketURL := url.URL{
		Scheme: "ws",
		Host:   "localhost:" + strconv.Itoa(cfg.APIPort()),
		Path:   APIPath,
	}

	id, err := uuid.NewUUID()
	if err != nil {
		return "", err
	}

	req := models.RequestObject{
		JSONRPC: "2.0",
		ID:      &id,
		Method:  method,
	}

	if len(params) == 0 {
		req.Params = nil
	} else if json.Valid([]byte(params)) {
		req.Params = []byte(params)
	} else {
		return "", ErrInvalidParams
	}

	c, _, err := websocket.DefaultDialer.Dial(localWebsocketURL.String(), nil)
	if err != nil {
		return "", err
	}
	defer func(c *websocket.Conn) {
		err := c.Close()
		if err != nil {
			log.Warn().Err(err).Msg("error closing websocket")
		}
	}(c)

	done := make(chan struct{})
	var resp *models.ResponseObject

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Error().Err(err).Msg("error reading message")
				return
			}

			var m models.ResponseObject
			err = json.Unmarshal(message, &m)
			if err != nil {
				continue
			}

			if m.JSONRPC != "2.0" {
				log.Error().Msg("invalid jsonrpc version")
				continue
			}

			if m.ID != id {
				continue
			}

			resp = &m
			return
		}
	}()

	err = c.WriteJSON(req)
	if err != nil {
		return "", err
	}

	timer := time.NewTimer(config.APIRequestTimeout)
	select {
	case <-done:
		break
	case <-timer.C:
		err := c.Close()
		if err != nil {
			log.Warn().Err(err).Msg("error closing websocket")
		}
		return "", ErrRequestTimeout
	case <-ctx.Done():
		err := c.Close()
		if err != nil {
			log.Warn().Err(err).Msg("error closing websocket")
		}
		return "", ErrRequestCancelled
	}

	if resp == nil {
		return "", ErrRequestTimeout
	}

	if resp.Error != nil {
		return "", errors.New(resp.Error.Message)
	}

	var b []byte
	b, err = json.Marshal(resp.Result)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// WaitNotification blocks until the service pushes a notification with the
// given method, or timeout elapses. A negative timeout waits forever.
func WaitNotification(
	ctx context.Context,
	timeout time.Duration,
	cfg *config.Instance,
	method string,
) (string, error) {
	u := url.URL{
		Scheme: "ws",
		Host:   "localhost:" + strconv.Itoa(cfg.APIPort()),
		Path:   APIPath,
	}

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return "", err
	}
	defer func(c *websocket.Conn) {
		err := c.Close()
		if err != nil {
			log.Warn().Err(err).Msg("error closing websocket")
		}
	}(c)

	done := make(chan struct{})
	var resp *models.RequestObject

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Error().Err(err).Msg("error reading message")
				return
			}

			var m models.RequestObject
			err = json.Unmarshal(message, &m)
			if err != nil {
				continue
			}

			if m.JSONRPC != "2.0" {
				log.Error().Msg("invalid jsonrpc version")
				continue
			}

			if m.ID != nil {
				continue
			}

			if m.Method != method {
				continue
			}

			resp = &m
			return
		}
	}()

	var timerChan <-chan time.Time
	if timeout == 0 {
		timer := time.NewTimer(config.APIRequestTimeout)
		timerChan = timer.C
	} else if timeout > 0 {
		timer := time.NewTimer(timeout)
		timerChan = timer.C
	}
	// or else leave chan nil, which will never receive

	select {
	case <-done:
		break
	case <-timerChan:
		err := c.Close()
		if err != nil {
			log.Warn().Err(err).Msg("error closing websocket")
		}
		return "", ErrRequestTimeout
	case <-ctx.Done():
		err := c.Close()
		if err != nil {
			log.Warn().Err(err).Msg("error closing websocket")
		}
		return "", ErrRequestCancelled
	}

	if resp == nil {
		return "", ErrRequestTimeout
	}

	var b []byte
	b, err = json.Marshal(resp.Params)
	if err != nil {
		return "", err
	}

	return string(b), nil
}
