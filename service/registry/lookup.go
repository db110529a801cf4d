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
	"github.com/google/uuid"

	"github.com/optakt/ledger-accounts/models/accounts"
)

// LookupByIdentifier returns the indexed account with the given identifier.
func (r *Registry) LookupByIdentifier(id uuid.UUID) (*accounts.Account, error) {
	return r.read.ByIdentifier(id)
}

// LookupByHostAndName returns the account holding the name on the host.
func (r *Registry) LookupByHostAndName(host accounts.Party, name string) (*accounts.Account, error) {
	name, err := accounts.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	return r.read.ByHostAndName(host, name)
}

// LookupByName returns the accounts with the given name on all known hosts,
// which is empty if none knows it.
func (r *Registry) LookupByName(name string) ([]*accounts.Account, error) {
	name, err := accounts.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	return r.read.ByName(name)
}

// LookupByAccountNumber returns one account carrying the account number.
// Account numbers are only unique per host, so an open account hosted locally
// is preferred over any open account, which is preferred over a closed one.
func (r *Registry) LookupByAccountNumber(number string) (*accounts.Account, error) {
	candidates, err := r.read.ByAccountNumber(number)
	if err != nil {
		return nil, err
	}

	local := r.signer.Party()
	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if rank(candidate, local) > rank(best, local) {
			best = candidate
		}
	}

	return best, nil
}

func rank(account *accounts.Account, local accounts.Party) int {
	switch {
	case account.Closed():
		return 0
	case account.Host != local:
		return 1
	default:
		return 2
	}
}

// SearchByName returns the accounts whose name starts with the given prefix.
// The prefix is normalized like a name.
func (r *Registry) SearchByName(prefix string) ([]*accounts.Account, error) {
	prefix, err := accounts.NormalizeName(prefix)
	if err != nil {
		return nil, err
	}
	return r.read.SearchName(prefix)
}
