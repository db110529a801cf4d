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

package engine

import (
	"time"

	"github.com/rs/zerolog"
)

// Component is a long-running part of a node, such as a server.
type Component struct {
	log  zerolog.Logger
	run  func() error
	stop func() error
}

// Run blocks until the component returns, then reports its outcome.
func (c *Component) Run(done chan<- struct{}, failed chan<- error) {
	start := time.Now()

	c.log.Info().Msg("component starting")
	err := c.run()
	if err != nil {
		c.log.Error().Err(err).Msg("component failed")
		failed <- err
		return
	}

	done <- struct{}{}

	c.log.Info().
		Str("duration", time.Since(start).Round(time.Second).String()).
		Msg("component done")
}

func (c *Component) Stop() error {
	err := c.stop()
	if err != nil {
		c.log.Error().Err(err).Msg("component could not stop")
		return err
	}
	c.log.Info().Msg("component stopped")
	return nil
}
