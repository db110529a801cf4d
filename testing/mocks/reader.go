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

package mocks

import (
	"testing"

	"github.com/google/uuid"

	"github.com/optakt/ledger-accounts/models/accounts"
)

type Reader struct {
	ByIdentifierFunc    func(id uuid.UUID) (*accounts.Account, error)
	ByHostAndNameFunc   func(host accounts.Party, name string) (*accounts.Account, error)
	ByNameFunc          func(name string) ([]*accounts.Account, error)
	ByAccountNumberFunc func(number string) ([]*accounts.Account, error)
	SearchNameFunc      func(prefix string) ([]*accounts.Account, error)
}

// BaselineReader returns a reader for which no lookup matches, which is the
// state of the index before the first account is created.
func BaselineReader(t *testing.T) *Reader {
	t.Helper()

	r := Reader{
		ByIdentifierFunc: func(uuid.UUID) (*accounts.Account, error) {
			return nil, accounts.ErrNotFound
		},
		ByHostAndNameFunc: func(accounts.Party, string) (*accounts.Account, error) {
			return nil, accounts.ErrNotFound
		},
		ByNameFunc: func(string) ([]*accounts.Account, error) {
			return nil, accounts.ErrNotFound
		},
		ByAccountNumberFunc: func(string) ([]*accounts.Account, error) {
			return nil, accounts.ErrNotFound
		},
		SearchNameFunc: func(string) ([]*accounts.Account, error) {
			return nil, accounts.ErrNotFound
		},
	}

	return &r
}

func (r *Reader) ByIdentifier(id uuid.UUID) (*accounts.Account, error) {
	return r.ByIdentifierFunc(id)
}

func (r *Reader) ByHostAndName(host accounts.Party, name string) (*accounts.Account, error) {
	return r.ByHostAndNameFunc(host, name)
}

func (r *Reader) ByName(name string) ([]*accounts.Account, error) {
	return r.ByNameFunc(name)
}

func (r *Reader) ByAccountNumber(number string) ([]*accounts.Account, error) {
	return r.ByAccountNumberFunc(number)
}

func (r *Reader) SearchName(prefix string) ([]*accounts.Account, error) {
	return r.SearchNameFunc(prefix)
}
