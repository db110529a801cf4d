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

package registry

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/ledger-accounts/models/accounts"
	"github.com/optakt/ledger-accounts/service/protocol"
	"github.com/optakt/ledger-accounts/testing/mocks"
)

func TestRegistry_RebuildVerification(t *testing.T) {
	states := []*accounts.Account{
		mocks.GenericAccount(0),
		mocks.GenericAccount(1),
		mocks.GenericAccount(0).WithStatus(accounts.StatusActive),
	}

	t.Run("nominal case", func(t *testing.T) {
		t.Parallel()

		var indexed []*accounts.Account
		write := mocks.BaselineWriter(t)
		write.AccountFunc = func(account *accounts.Account) error {
			indexed = append(indexed, account)
			return nil
		}
		var verified []uuid.UUID
		ledger := mocks.BaselineLedger(t)
		ledger.StatesFunc = replay(states)
		ledger.HistoryFunc = func(id uuid.UUID) ([]*accounts.Account, error) {
			verified = append(verified, id)
			return []*accounts.Account{mocks.GenericAccount(0)}, nil
		}
		r := baselineRegistry(t, write, ledger)

		err := r.Rebuild(context.Background())

		require.NoError(t, err)
		assert.Equal(t, states, indexed)
		assert.Equal(t, []uuid.UUID{mocks.GenericIdentifier(0), mocks.GenericIdentifier(1)}, verified)
	})

	t.Run("handles broken version chain", func(t *testing.T) {
		t.Parallel()

		ledger := mocks.BaselineLedger(t)
		ledger.StatesFunc = replay(states)
		ledger.HistoryFunc = func(id uuid.UUID) ([]*accounts.Account, error) {
			if id == mocks.GenericIdentifier(1) {
				return nil, mocks.GenericError
			}
			return []*accounts.Account{mocks.GenericAccount(0)}, nil
		}
		r := baselineRegistry(t, mocks.BaselineWriter(t), ledger)

		err := r.Rebuild(context.Background())

		assert.ErrorIs(t, err, mocks.GenericError)
	})

	t.Run("handles drop failure", func(t *testing.T) {
		t.Parallel()

		write := mocks.BaselineWriter(t)
		write.DropFunc = func() error {
			return mocks.GenericError
		}
		ledger := mocks.BaselineLedger(t)
		ledger.StatesFunc = func(accounts.Party, func(*accounts.Account) error) error {
			t.Fatal("unexpected replay")
			return nil
		}
		r := baselineRegistry(t, write, ledger)

		err := r.Rebuild(context.Background())

		assert.ErrorIs(t, err, mocks.GenericError)
	})

	t.Run("handles canceled context", func(t *testing.T) {
		t.Parallel()

		ledger := mocks.BaselineLedger(t)
		ledger.StatesFunc = replay(states)
		r := baselineRegistry(t, mocks.BaselineWriter(t), ledger)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := r.Rebuild(ctx)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func replay(states []*accounts.Account) func(accounts.Party, func(*accounts.Account) error) error {
	return func(_ accounts.Party, process func(*accounts.Account) error) error {
		for _, state := range states {
			err := process(state)
			if err != nil {
				return err
			}
		}
		return nil
	}
}

func baselineRegistry(t *testing.T, write accounts.Writer, ledger accounts.Ledger) *Registry {
	t.Helper()

	return New(
		mocks.NoopLogger,
		mocks.BaselineSigner(t),
		mocks.BaselineReader(t),
		write,
		ledger,
		mocks.BaselineNetwork(t),
		protocol.NewFSM(),
	)
}
