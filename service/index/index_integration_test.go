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

//go:build integration
// +build integration

package index_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/ledger-accounts/codec/zbor"
	"github.com/optakt/ledger-accounts/models/accounts"
	"github.com/optakt/ledger-accounts/service/index"
	"github.com/optakt/ledger-accounts/service/storage"
	"github.com/optakt/ledger-accounts/testing/helpers"
	"github.com/optakt/ledger-accounts/testing/mocks"
)

func TestIndex(t *testing.T) {
	t.Run("by identifier", func(t *testing.T) {
		t.Parallel()

		reader, writer := setupIndex(t)
		account := mocks.GenericAccount(0)

		require.NoError(t, writer.Account(account))

		got, err := reader.ByIdentifier(account.Identifier)

		require.NoError(t, err)
		assert.Equal(t, account, got)
	})

	t.Run("by host and name", func(t *testing.T) {
		t.Parallel()

		reader, writer := setupIndex(t)
		account := mocks.GenericAccount(0)

		require.NoError(t, writer.Account(account))

		got, err := reader.ByHostAndName(account.Host, account.Name)
		require.NoError(t, err)
		assert.Equal(t, account.Identifier, got.Identifier)

		_, err = reader.ByHostAndName(mocks.GenericPeer, account.Name)
		assert.ErrorIs(t, err, accounts.ErrNotFound)
	})

	t.Run("by name across hosts", func(t *testing.T) {
		t.Parallel()

		reader, writer := setupIndex(t)
		local := mocks.GenericAccount(0)
		remote := mocks.GenericAccount(1)
		remote.Name = local.Name
		remote.Host = mocks.GenericPeer

		require.NoError(t, writer.Account(local))
		require.NoError(t, writer.Account(remote))

		got, err := reader.ByName(local.Name)

		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("by account number", func(t *testing.T) {
		t.Parallel()

		reader, writer := setupIndex(t)
		account := mocks.GenericAccount(0)

		require.NoError(t, writer.Account(account))

		got, err := reader.ByAccountNumber(account.Profile.Number())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, account.Identifier, got[0].Identifier)

		_, err = reader.ByAccountNumber("unknown")
		assert.ErrorIs(t, err, accounts.ErrNotFound)
	})

	t.Run("search by name prefix", func(t *testing.T) {
		t.Parallel()

		reader, writer := setupIndex(t)
		for _, account := range mocks.GenericAccounts(3) {
			require.NoError(t, writer.Account(account))
		}
		other := mocks.GenericAccount(3)
		other.Name = "alice"
		require.NoError(t, writer.Account(other))

		got, err := reader.SearchName(mocks.GenericName)
		require.NoError(t, err)
		assert.Len(t, got, 3)

		got, err = reader.SearchName("carol")
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = reader.ByName("carol")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("older versions are ignored", func(t *testing.T) {
		t.Parallel()

		reader, writer := setupIndex(t)
		first := mocks.GenericAccount(0)
		second := first.WithUpdatedProfile(accounts.Profile{FirstName: accounts.String("Robert")})
		second.Version = 2

		require.NoError(t, writer.Account(second))
		require.NoError(t, writer.Account(first))

		got, err := reader.ByIdentifier(first.Identifier)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), got.Version)
		assert.Equal(t, "Robert", *got.Profile.FirstName)
	})

	t.Run("stale account number is removed", func(t *testing.T) {
		t.Parallel()

		reader, writer := setupIndex(t)
		first := mocks.GenericAccount(0)
		second := first.WithUpdatedProfile(accounts.Profile{AccountNumber: accounts.String("ACC-9999")})
		second.Version = 2

		require.NoError(t, writer.Account(first))
		require.NoError(t, writer.Account(second))

		_, err := reader.ByAccountNumber(first.Profile.Number())
		assert.ErrorIs(t, err, accounts.ErrNotFound)

		got, err := reader.ByAccountNumber("ACC-9999")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("closed account does not displace open account", func(t *testing.T) {
		t.Parallel()

		reader, writer := setupIndex(t)
		open := mocks.GenericAccount(0)
		closed := mocks.GenericAccount(1).WithStatus(accounts.StatusClosed)
		closed.Name = open.Name

		require.NoError(t, writer.Account(open))
		require.NoError(t, writer.Account(closed))

		got, err := reader.ByHostAndName(open.Host, open.Name)
		require.NoError(t, err)
		assert.Equal(t, open.Identifier, got.Identifier)

		tombstone, err := reader.ByIdentifier(closed.Identifier)
		require.NoError(t, err)
		assert.True(t, tombstone.Closed())
	})

	t.Run("rehosted account moves its name mapping", func(t *testing.T) {
		t.Parallel()

		reader, writer := setupIndex(t)
		account := mocks.GenericAccount(0)
		moved := account.WithHost(mocks.GenericPeer)
		moved.Version = 2

		require.NoError(t, writer.Account(account))
		require.NoError(t, writer.Account(moved))

		_, err := reader.ByHostAndName(account.Host, account.Name)
		assert.ErrorIs(t, err, accounts.ErrNotFound)

		got, err := reader.ByHostAndName(mocks.GenericPeer, account.Name)
		require.NoError(t, err)
		assert.Equal(t, account.Identifier, got.Identifier)
	})

	t.Run("drop", func(t *testing.T) {
		t.Parallel()

		reader, writer := setupIndex(t)
		account := mocks.GenericAccount(0)

		require.NoError(t, writer.Account(account))
		require.NoError(t, writer.Drop())

		_, err := reader.ByIdentifier(account.Identifier)
		assert.ErrorIs(t, err, accounts.ErrNotFound)
	})

	t.Run("metrics", func(t *testing.T) {
		t.Parallel()

		_, writer := setupIndex(t)
		reg := prometheus.NewRegistry()
		metered := index.NewMetricsWriter(writer, reg)

		require.NoError(t, metered.Account(mocks.GenericAccount(0)))
		require.NoError(t, metered.Account(mocks.GenericAccount(1)))

		count, err := testutil.GatherAndCount(reg, "indexed_accounts")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func setupIndex(t *testing.T) (*index.Reader, *index.Writer) {
	t.Helper()

	db := helpers.InMemoryDB(t)
	lib := storage.New(zbor.NewCodec())

	reader := index.NewReader(db, lib)
	writer := index.NewWriter(db, lib)

	return reader, writer
}
