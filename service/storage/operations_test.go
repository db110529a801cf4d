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

package storage_test

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/ledger-accounts/codec/zbor"
	"github.com/optakt/ledger-accounts/models/accounts"
	"github.com/optakt/ledger-accounts/service/storage"
	"github.com/optakt/ledger-accounts/testing/helpers"
	"github.com/optakt/ledger-accounts/testing/mocks"
)

func TestLibrary_Accounts(t *testing.T) {
	db := helpers.InMemoryDB(t)
	lib := storage.New(zbor.NewCodec())
	account := mocks.GenericAccount(0)

	err := db.Update(lib.SaveAccount(account))
	require.NoError(t, err)

	t.Run("retrieve saved account", func(t *testing.T) {
		var got accounts.Account
		err := db.View(lib.RetrieveAccount(account.Identifier, &got))

		require.NoError(t, err)
		assert.Equal(t, account, &got)
	})

	t.Run("missing account", func(t *testing.T) {
		var got accounts.Account
		err := db.View(lib.RetrieveAccount(mocks.GenericIdentifier(5), &got))

		assert.ErrorIs(t, err, badger.ErrKeyNotFound)
	})
}

func TestLibrary_Names(t *testing.T) {
	db := helpers.InMemoryDB(t)
	lib := storage.New(zbor.NewCodec())
	ids := mocks.GenericIdentifiers(4)

	err := db.Update(storage.Combine(
		lib.IndexName("bob", ids[0]),
		lib.IndexName("bob", ids[1]),
		lib.IndexName("bobby", ids[2]),
		lib.IndexName("alice", ids[3]),
		lib.IndexHostName(mocks.GenericHost, "bob", ids[0]),
	))
	require.NoError(t, err)

	t.Run("exact name", func(t *testing.T) {
		var got []uuid.UUID
		err := db.View(lib.LookupName("bob", &got))

		require.NoError(t, err)
		assert.ElementsMatch(t, ids[:2], got)
	})

	t.Run("name prefix", func(t *testing.T) {
		var got []uuid.UUID
		err := db.View(lib.SearchName("bo", &got))

		require.NoError(t, err)
		assert.ElementsMatch(t, ids[:3], got)
	})

	t.Run("host and name", func(t *testing.T) {
		var got uuid.UUID
		err := db.View(lib.LookupHostName(mocks.GenericHost, "bob", &got))
		require.NoError(t, err)
		assert.Equal(t, ids[0], got)

		err = db.View(lib.LookupHostName(mocks.GenericPeer, "bob", &got))
		assert.ErrorIs(t, err, badger.ErrKeyNotFound)
	})

	t.Run("removed name", func(t *testing.T) {
		err := db.Update(lib.RemoveName("bob", ids[1]))
		require.NoError(t, err)

		var got []uuid.UUID
		err = db.View(lib.LookupName("bob", &got))
		require.NoError(t, err)
		assert.Equal(t, ids[:1], got)
	})
}

func TestLibrary_Records(t *testing.T) {
	db := helpers.InMemoryDB(t)
	lib := storage.New(zbor.NewCodec())
	account := mocks.GenericAccount(0)

	var records []*accounts.Record
	for seq := uint64(1); seq <= 3; seq++ {
		state := account.Copy()
		state.Version = seq
		records = append(records, &accounts.Record{
			Sequence: seq,
			Command:  accounts.CommandUpdate,
			Signer:   mocks.GenericHost,
			Notary:   mocks.GenericNotary,
			Account:  *state,
		})
	}

	var checksum uint64
	err := db.Update(storage.Combine(
		lib.SaveRecord(records[0], &checksum),
		lib.IndexVersion(account.Identifier, 1, 1),
		lib.SaveRecord(records[1], &checksum),
		lib.IndexVersion(account.Identifier, 2, 2),
		lib.SaveRecord(records[2], &checksum),
		lib.IndexVersion(account.Identifier, 3, 3),
		lib.SaveSequence(3),
	))
	require.NoError(t, err)

	t.Run("checksum of retrieved record", func(t *testing.T) {
		var record accounts.Record
		var retrieved uint64
		err := db.View(lib.RetrieveRecord(3, &record, &retrieved))

		require.NoError(t, err)
		assert.Equal(t, checksum, retrieved)
		assert.Equal(t, *records[2], record)
	})

	t.Run("iterate from sequence", func(t *testing.T) {
		var seen []uint64
		err := db.View(lib.IterateRecords(2, func(record *accounts.Record) error {
			seen = append(seen, record.Sequence)
			return nil
		}))

		require.NoError(t, err)
		assert.Equal(t, []uint64{2, 3}, seen)
	})

	t.Run("iteration stops on error", func(t *testing.T) {
		err := db.View(lib.IterateRecords(1, func(*accounts.Record) error {
			return mocks.GenericError
		}))

		assert.ErrorIs(t, err, mocks.GenericError)
	})

	t.Run("versions in order", func(t *testing.T) {
		var sequences []uint64
		err := db.View(lib.LookupVersions(account.Identifier, &sequences))

		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 2, 3}, sequences)
	})

	t.Run("last sequence", func(t *testing.T) {
		var sequence uint64
		err := db.View(lib.RetrieveSequence(&sequence))

		require.NoError(t, err)
		assert.Equal(t, uint64(3), sequence)
	})
}

func TestLibrary_Disclosures(t *testing.T) {
	db := helpers.InMemoryDB(t)
	lib := storage.New(zbor.NewCodec())
	ids := mocks.GenericIdentifiers(3)

	err := db.Update(storage.Combine(
		lib.IndexDisclosure(mocks.GenericPeer, ids[0]),
		lib.IndexDisclosure(mocks.GenericPeer, ids[2]),
		lib.IndexDisclosure(mocks.GenericHost, ids[1]),
	))
	require.NoError(t, err)

	var disclosed bool
	err = db.View(lib.CheckDisclosure(mocks.GenericPeer, ids[0], &disclosed))
	require.NoError(t, err)
	assert.True(t, disclosed)

	err = db.View(lib.CheckDisclosure(mocks.GenericPeer, ids[1], &disclosed))
	require.NoError(t, err)
	assert.False(t, disclosed)

	var got []uuid.UUID
	err = db.View(lib.LookupDisclosures(mocks.GenericPeer, &got))
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{ids[0], ids[2]}, got)
}
