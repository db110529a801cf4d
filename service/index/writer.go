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
	"sync"

	"github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"

	"github.com/optakt/ledger-accounts/models/accounts"
	"github.com/optakt/ledger-accounts/service/storage"
)

// Writer writes committed account states to the index.
type Writer struct {
	mu  sync.Mutex
	db  *badger.DB
	lib *storage.Library
}

// NewWriter creates a new index writer that writes to the given Badger database.
func NewWriter(db *badger.DB, lib *storage.Library) *Writer {

	w := Writer{
		db:  db,
		lib: lib,
	}

	return &w
}

// Account indexes a committed account state. A state that is not newer than
// the indexed one is ignored, so replaying states is harmless. Secondary keys
// of the replaced state are removed in the same transaction.
func (w *Writer) Account(account *accounts.Account) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := w.db.Update(func(tx *badger.Txn) error {

		var stored accounts.Account
		err := w.lib.RetrieveAccount(account.Identifier, &stored)(tx)
		found := err == nil
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("could not retrieve indexed state: %w", err)
		}
		if found && stored.Version >= account.Version {
			return nil
		}

		var ops []func(*badger.Txn) error
		if found {
			stale, err := w.unlink(tx, &stored)
			if err != nil {
				return fmt.Errorf("could not unlink indexed state: %w", err)
			}
			ops = append(ops, stale...)
		}

		ops = append(ops,
			w.lib.SaveAccount(account),
			w.lib.IndexName(account.Name, account.Identifier),
		)
		number := account.Profile.Number()
		if number != "" {
			ops = append(ops, w.lib.IndexNumber(number, account.Identifier))
		}

		claim, err := w.claims(tx, account)
		if err != nil {
			return fmt.Errorf("could not check name mapping: %w", err)
		}
		if claim {
			ops = append(ops, w.lib.IndexHostName(account.Host, account.Name, account.Identifier))
		}

		return storage.Combine(ops...)(tx)
	})
	if err != nil {
		return fmt.Errorf("could not index account (id: %s): %w", account.Identifier, err)
	}

	return nil
}

// Drop removes everything from the index.
func (w *Writer) Drop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.db.DropAll()
}

// unlink returns the operations removing the secondary keys of an indexed state.
func (w *Writer) unlink(tx *badger.Txn, stored *accounts.Account) ([]func(*badger.Txn) error, error) {

	ops := []func(*badger.Txn) error{
		w.lib.RemoveName(stored.Name, stored.Identifier),
	}
	number := stored.Profile.Number()
	if number != "" {
		ops = append(ops, w.lib.RemoveNumber(number, stored.Identifier))
	}

	var holder uuid.UUID
	err := w.lib.LookupHostName(stored.Host, stored.Name, &holder)(tx)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ops, nil
	}
	if err != nil {
		return nil, err
	}
	if holder == stored.Identifier {
		ops = append(ops, w.lib.RemoveHostName(stored.Host, stored.Name))
	}

	return ops, nil
}

// claims decides whether the account takes the host and name mapping. A
// closed account never displaces another account holding the same name.
func (w *Writer) claims(tx *badger.Txn, account *accounts.Account) (bool, error) {

	var holder uuid.UUID
	err := w.lib.LookupHostName(account.Host, account.Name, &holder)(tx)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if holder == account.Identifier {
		return true, nil
	}

	return !account.Closed(), nil
}
