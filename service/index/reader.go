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

package index

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"

	"github.com/optakt/ledger-accounts/models/accounts"
	"github.com/optakt/ledger-accounts/service/storage"
)

// Reader implements the lookups of the account index. Every lookup runs in a
// single read transaction, so it observes one consistent snapshot.
type Reader struct {
	db  *badger.DB
	lib *storage.Library
}

// NewReader creates a new index reader, using the given database as the
// underlying state repository.
func NewReader(db *badger.DB, lib *storage.Library) *Reader {

	r := Reader{
		db:  db,
		lib: lib,
	}

	return &r
}

// ByIdentifier returns the indexed account with the given identifier.
func (r *Reader) ByIdentifier(id uuid.UUID) (*accounts.Account, error) {
	var account accounts.Account
	err := r.db.View(r.lib.RetrieveAccount(id, &account))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, accounts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not retrieve account (id: %s): %w", id, err)
	}
	return &account, nil
}

// ByHostAndName returns the account that holds the given name on the given
// host. If the name was released by a closed account and not reused, the
// closed account is returned.
func (r *Reader) ByHostAndName(host accounts.Party, name string) (*accounts.Account, error) {
	var account accounts.Account
	err := r.db.View(func(tx *badger.Txn) error {
		var id uuid.UUID
		err := r.lib.LookupHostName(host, name, &id)(tx)
		if err != nil {
			return fmt.Errorf("could not look up name: %w", err)
		}
		err = r.lib.RetrieveAccount(id, &account)(tx)
		if err != nil {
			return fmt.Errorf("could not retrieve account (id: %s): %w", id, err)
		}
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, accounts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not look up account (host: %s, name: %s): %w", host, name, err)
	}
	return &account, nil
}

// ByName returns the accounts with the given name on every known host. The
// result is empty if no host knows the name.
func (r *Reader) ByName(name string) ([]*accounts.Account, error) {
	return r.collect(func(ids *[]uuid.UUID) func(*badger.Txn) error {
		return r.lib.LookupName(name, ids)
	})
}

// ByAccountNumber returns the accounts that carry the given account number.
// Unlike the name lookups, it fails with ErrNotFound if there are none.
func (r *Reader) ByAccountNumber(number string) ([]*accounts.Account, error) {
	result, err := r.collect(func(ids *[]uuid.UUID) func(*badger.Txn) error {
		return r.lib.LookupNumber(number, ids)
	})
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, accounts.ErrNotFound
	}
	return result, nil
}

// SearchName returns the accounts whose name starts with the given prefix,
// ordered by name.
func (r *Reader) SearchName(prefix string) ([]*accounts.Account, error) {
	return r.collect(func(ids *[]uuid.UUID) func(*badger.Txn) error {
		return r.lib.SearchName(prefix, ids)
	})
}

func (r *Reader) collect(lookup func(ids *[]uuid.UUID) func(*badger.Txn) error) ([]*accounts.Account, error) {
	result := []*accounts.Account{}
	err := r.db.View(func(tx *badger.Txn) error {
		var ids []uuid.UUID
		err := lookup(&ids)(tx)
		if err != nil {
			return fmt.Errorf("could not look up identifiers: %w", err)
		}
		for _, id := range ids {
			var account accounts.Account
			err = r.lib.RetrieveAccount(id, &account)(tx)
			if err != nil {
				return fmt.Errorf("could not retrieve account (id: %s): %w", id, err)
			}
			result = append(result, &account)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
