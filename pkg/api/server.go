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

// Package api exposes the service over a JSON-RPC 2.0 websocket.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/GlassLinkProject/glasslink-core/pkg/api/methods"
	"github.com/GlassLinkProject/glasslink-core/pkg/api/models"
	"github.com/GlassLinkProject/glasslink-core/pkg/api/models/requests"
	"github.com/GlassLinkProject/glasslink-core/pkg/config"
	"github.com/GlassLinkProject/glasslink-core/pkg/link"
	"github.com/GlassLinkProject/glasslink-core/pkg/service/dispatch"
	"github.com/GlassLinkProject/glasslink-core/pkg/service/notifyrelay"
	"github.com/GlassLinkProject/glasslink-core/pkg/service/nowplaying"
	"github.com/GlassLinkProject/glasslink-core/pkg/service/timesync"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

var JSONRPCErrorParseError = models.ErrorObject{
	Code:    -32700,
	Message: "Parse error",
}
var JSONRPCErrorInvalidRequest = models.ErrorObject{
	Code:    -32600,
	Message: "Invalid Request",
}
var JSONRPCErrorMethodNotFound = models.ErrorObject{
	Code:    -32601,
	Message: "Method not found",
}
var JSONRPCErrorInvalidParams = models.ErrorObject{
	Code:    -32602,
	Message: "Invalid params",
}
var JSONRPCErrorServerError = models.ErrorObject{
	Code:    -32000,
	Message: "Server error",
}

// isLocalhost reports whether a client address is a loopback origin.
// Mutating methods are restricted to local clients.
func isLocalhost(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return host == "localhost"
	}

	return ip.IsLoopback()
}

func maybeUUID(req models.RequestObject) uuid.UUID {
	if req.ID == nil {
		return uuid.Nil
	}
	return *req.ID
}

var methodMap = map[string]func(requests.RequestEnv) (any, error){
	// link
	models.MethodConnect:    methods.HandleConnect,
	models.MethodDisconnect: methods.HandleDisconnect,
	models.MethodStatus:     methods.HandleStatus,
	models.MethodDevices:    methods.HandleDevices,
	// display
	models.MethodSendText:  methods.HandleSendText,
	models.MethodSendClear: methods.HandleSendClear,
	models.MethodClockOn:   methods.HandleClockOn,
	models.MethodClockOff:  methods.HandleClockOff,
	// settings
	models.MethodSettings:       methods.HandleSettings,
	models.MethodSettingsUpdate: methods.HandleSettingsUpdate,
	// media
	models.MethodMediaNowPlaying: methods.HandleMediaNowPlaying,
	models.MethodMediaSend:       methods.HandleMediaSend,
	models.MethodMediaPrevious:   methods.HandleMediaPrevious,
	models.MethodMediaPlayPause:  methods.HandleMediaPlayPause,
	models.MethodMediaNext:       methods.HandleMediaNext,
	// utils
	models.MethodVersion: methods.HandleVersion,
}

func handleRequest(env requests.RequestEnv, req models.RequestObject) (any, *models.ErrorObject) {
	log.Debug().Interface("request", req).Msg("received request")

	fn, ok := methodMap[strings.ToLower(req.Method)]
	if !ok {
		return nil, &JSONRPCErrorMethodNotFound
	}

	env.ID = *req.ID
	env.Params = req.Params

	resp, err := fn(env)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Msg("method handler failed")
		if errors.Is(err, methods.ErrInvalidParams) {
			return nil, &JSONRPCErrorInvalidParams
		}
		return nil, &JSONRPCErrorServerError
	}
	return resp, nil
}

func sendResponse(session *melody.Session, id uuid.UUID, result any) error {
	log.Debug().Interface("result", result).Msg("sending response")

	resp := models.ResponseObject{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("error marshalling response: %w", err)
	}

	return session.Write(data)
}

func sendError(session *melody.Session, id uuid.UUID, errObj models.ErrorObject) error {
	log.Debug().Int("code", errObj.Code).Str("message", errObj.Message).Msg("sending error")

	resp := models.ResponseErrorObject{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &errObj,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("error marshalling error response: %w", err)
	}

	return session.Write(data)
}

func broadcastNotifications(
	ctx context.Context,
	session *melody.Melody,
	notifications <-chan models.Notification,
) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("stopping notification broadcaster")
			return
		case notif := <-notifications:
			req := models.NotificationObject{
				JSONRPC: "2.0",
				Method:  notif.Method,
				Params:  notif.Params,
			}

			data, err := json.Marshal(req)
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification request")
				continue
			}

			err = session.Broadcast(data)
			if err != nil {
				log.Error().Err(err).Msg("broadcasting notification")
			}
		}
	}
}

func handleWSMessage(env requests.RequestEnv) func(session *melody.Session, msg []byte) {
	return func(session *melody.Session, msg []byte) {
		// ping command for heartbeat operation
		if bytes.Equal(msg, []byte("ping")) {
			err := session.Write([]byte("pong"))
			if err != nil {
				log.Error().Err(err).Msg("sending pong")
			}
			return
		}

		if !json.Valid(msg) {
			log.Error().Msg("data not valid json")
			if err := sendError(session, uuid.Nil, JSONRPCErrorParseError); err != nil {
				log.Error().Err(err).Msg("error sending error response")
			}
			return
		}

		var req models.RequestObject
		err := json.Unmarshal(msg, &req)

		if err == nil && req.JSONRPC != "2.0" {
			log.Error().Str("jsonrpc", req.JSONRPC).Msg("unsupported payload version")
			if err := sendError(session, maybeUUID(req), JSONRPCErrorInvalidRequest); err != nil {
				log.Error().Err(err).Msg("error sending error response")
			}
			return
		}

		if err == nil && req.Method != "" {
			if req.ID == nil {
				// request is a notification
				log.Info().Interface("req", req).Msg("received notification, ignoring")
				return
			}

			env.IsLocal = isLocalhost(session.Request.RemoteAddr)

			resp, errObj := handleRequest(env, req)
			if errObj != nil {
				if err := sendError(session, *req.ID, *errObj); err != nil {
					log.Error().Err(err).Msg("error sending error response")
				}
				return
			}

			if err := sendResponse(session, *req.ID, resp); err != nil {
				log.Error().Err(err).Msg("error sending response")
			}
			return
		}

		log.Error().Err(err).Msg("message does not match known types")
		if err := sendError(session, uuid.Nil, JSONRPCErrorInvalidRequest); err != nil {
			log.Error().Err(err).Msg("error sending error response")
		}
	}
}

// Start runs the API server until ctx is cancelled. It blocks.
func Start(
	ctx context.Context,
	cfg *config.Instance,
	lnk *link.Link,
	dispatcher *dispatch.Dispatcher,
	scheduler *timesync.Scheduler,
	relay *notifyrelay.Relay,
	bridge *nowplaying.Bridge,
	notifications chan models.Notification,
) {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(config.APIRequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Accept"},
		ExposedHeaders: []string{},
	}))

	session := melody.New()
	session.Upgrader.CheckOrigin = func(_ *http.Request) bool { return true }
	go broadcastNotifications(ctx, session, notifications)

	r.Get("/api", func(w http.ResponseWriter, r *http.Request) {
		err := session.HandleRequest(w, r)
		if err != nil {
			log.Error().Err(err).Msg("handling websocket request: latest")
		}
	})

	r.Get("/api/v0.1", func(w http.ResponseWriter, r *http.Request) {
		err := session.HandleRequest(w, r)
		if err != nil {
			log.Error().Err(err).Msg("handling websocket request: v0.1")
		}
	})

	session.HandleMessage(handleWSMessage(requests.RequestEnv{
		Config:        cfg,
		Link:          lnk,
		Dispatcher:    dispatcher,
		TimeSync:      scheduler,
		Relay:         relay,
		NowPlaying:    bridge,
		Notifications: notifications,
	}))

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.APIPort()),
		Handler:           r,
		ReadHeaderTimeout: config.APIRequestTimeout,
	}

	go func() {
		<-ctx.Done()
		if err := srv.Close(); err != nil {
			log.Error().Err(err).Msg("closing http server")
		}
		if err := session.Close(); err != nil {
			log.Error().Err(err).Msg("closing websocket sessions")
		}
	}()

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("error starting http server")
	}
}
