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
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// Engine runs a set of components until a signal arrives or one of them
// finishes, then stops all of them.
type Engine struct {
	log        zerolog.Logger
	components []*Component

	sig    chan os.Signal
	done   chan struct{}
	failed chan error
	exit   func(int)
}

func New(log zerolog.Logger, name string, sig chan os.Signal) *Engine {
	e := Engine{
		log:  log.With().Str("engine", name).Logger(),
		sig:  sig,
		exit: os.Exit,
	}

	return &e
}

func (e *Engine) Component(name string, run func() error, stop func() error) *Engine {
	c := Component{
		log:  e.log.With().Str("component", name).Logger(),
		run:  run,
		stop: stop,
	}

	e.components = append(e.components, &c)

	return e
}

// Run starts every component and blocks until the engine should stop. It
// returns the error of the component that failed, if any.
func (e *Engine) Run() error {
	e.done = make(chan struct{}, len(e.components))
	e.failed = make(chan error, len(e.components))

	for _, component := range e.components {
		go component.Run(e.done, e.failed)
	}

	var err error
	select {
	case <-e.sig:
		e.log.Info().Msg("engine stopping")
	case <-e.done:
		e.log.Info().Msg("engine done")
	case err = <-e.failed:
		e.log.Warn().Msg("engine aborted")
	}

	// A second signal forces the exit while components shut down.
	go func() {
		<-e.sig
		e.log.Warn().Msg("forcing exit")
		e.exit(1)
	}()

	return err
}

// Stop stops the components in the order in which they were registered.
func (e *Engine) Stop() error {
	var errs error
	for i, component := range e.components {
		err := component.Stop()
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("could not stop component %d: %w", i, err))
		}
	}
	return errs
}
