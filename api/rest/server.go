// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/ziflex/lecho/v2"
)

// Server exposes a controller over HTTP.
type Server struct {
	log     zerolog.Logger
	echo    *echo.Echo
	address string
}

func NewServer(log zerolog.Logger, address string, controller *Controller) *Server {

	elog := lecho.From(log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger = elog
	e.Use(lecho.Middleware(lecho.Config{Logger: elog}))
	controller.Register(e)

	s := Server{
		log:     log.With().Str("component", "rest_server").Logger(),
		echo:    e,
		address: address,
	}

	return &s
}

// Start blocks until the server is stopped. Stopping it is not an error.
func (s *Server) Start() error {
	s.log.Info().Str("address", s.address).Msg("REST server starting")

	err := s.echo.Start(s.address)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not serve REST API: %w", err)
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.echo
}
