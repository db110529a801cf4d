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

package engine_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optakt/ledger-accounts/engine"
	"github.com/optakt/ledger-accounts/testing/mocks"
)

func TestEngine(t *testing.T) {
	t.Run("stops on signal", func(t *testing.T) {
		sig := make(chan os.Signal, 1)
		release := make(chan struct{})
		stopped := 0

		e := engine.New(mocks.NoopLogger, "test", sig).
			Component("blocking", func() error {
				<-release
				return nil
			}, func() error {
				stopped++
				close(release)
				return nil
			})

		sig <- os.Interrupt
		err := e.Run()

		assert.NoError(t, err)
		assert.NoError(t, e.Stop())
		assert.Equal(t, 1, stopped)
	})

	t.Run("aborts on component failure", func(t *testing.T) {
		sig := make(chan os.Signal)
		release := make(chan struct{})

		e := engine.New(mocks.NoopLogger, "test", sig).
			Component("failing", func() error {
				return mocks.GenericError
			}, func() error {
				return nil
			}).
			Component("blocking", func() error {
				<-release
				return nil
			}, func() error {
				close(release)
				return mocks.GenericError
			})

		err := e.Run()
		assert.ErrorIs(t, err, mocks.GenericError)

		err = e.Stop()
		assert.ErrorIs(t, err, mocks.GenericError)
	})
}
