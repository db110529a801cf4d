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

package protocol

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/ledger-accounts/testing/mocks"
)

func TestNewFSM(t *testing.T) {
	t.Run("nominal case without options", func(t *testing.T) {
		t.Parallel()

		f := NewFSM()

		assert.NotNil(t, f)
		assert.Empty(t, f.transitions)
	})

	t.Run("nominal case with transition option", func(t *testing.T) {
		t.Parallel()

		f := NewFSM(WithTransition(StatusValidating, func(*State) error { return nil }))

		assert.NotNil(t, f)
		assert.Len(t, f.transitions, 1)
	})
}

func TestFSM_Run(t *testing.T) {
	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		var calls []Status
		f := &FSM{
			transitions: map[Status]TransitionFunc{
				StatusValidating: func(s *State) error {
					calls = append(calls, s.status)
					s.status = StatusProposed
					return nil
				},
				StatusProposed: func(s *State) error {
					calls = append(calls, s.status)
					s.status = StatusCommitting
					return nil
				},
				StatusCommitting: func(s *State) error {
					calls = append(calls, s.status)
					s.committed = s.proposed
					s.status = StatusCommitted
					return nil
				},
			},
		}

		account := mocks.GenericAccount(0)
		got, err := f.Run(Creation(context.Background(), account))

		require.NoError(t, err)
		assert.Equal(t, account, got)
		assert.Equal(t, []Status{StatusValidating, StatusProposed, StatusCommitting}, calls)
	})

	t.Run("rejected state returns its error", func(t *testing.T) {
		t.Parallel()

		f := &FSM{
			transitions: map[Status]TransitionFunc{
				StatusValidating: func(s *State) error {
					return s.reject(mocks.GenericError)
				},
			},
		}

		_, err := f.Run(Creation(context.Background(), mocks.GenericAccount(0)))

		assert.ErrorIs(t, err, mocks.GenericError)
	})

	t.Run("transition does not exist for given state", func(t *testing.T) {
		t.Parallel()

		f := &FSM{
			transitions: map[Status]TransitionFunc{
				StatusCommitting: func(*State) error { return nil },
			},
		}

		_, err := f.Run(Creation(context.Background(), mocks.GenericAccount(0)))

		assert.Error(t, err)
	})

	t.Run("transition fails", func(t *testing.T) {
		t.Parallel()

		failingTransition := func(*State) error { return mocks.GenericError }

		f := &FSM{
			transitions: map[Status]TransitionFunc{
				StatusValidating: failingTransition,
			},
		}

		_, err := f.Run(Creation(context.Background(), mocks.GenericAccount(0)))

		assert.ErrorIs(t, err, mocks.GenericError)
	})
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusCommitted.Final())
	assert.True(t, StatusRejected.Final())
	assert.True(t, StatusFailed.Final())
	assert.False(t, StatusValidating.Final())
	assert.False(t, StatusCommitting.Final())
	assert.Equal(t, "committing", StatusCommitting.String())
	assert.Equal(t, "invalid status 42", Status(42).String())
}
