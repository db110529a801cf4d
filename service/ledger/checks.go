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

package ledger

import (
	"github.com/google/go-cmp/cmp"

	"github.com/optakt/ledger-accounts/models/accounts"
)

// checkCreate verifies the first state of an account.
func checkCreate(change *accounts.Change, current *accounts.Account) error {
	proposed := &change.Account
	if current != nil {
		return reject(accounts.ReasonIdentifierTaken)
	}
	if change.Signer != proposed.Host {
		return reject(accounts.ReasonUnauthorized)
	}
	if proposed.Version != 1 {
		return reject(accounts.ReasonVersionConflict)
	}
	if !proposed.Status.Valid() || proposed.Closed() {
		return reject(accounts.ReasonInvalidStatus)
	}
	return nil
}

// checkUpdate verifies a change of profile or status by the current host.
func checkUpdate(change *accounts.Change, current *accounts.Account) error {
	proposed := &change.Account
	err := checkSuccessor(change, current)
	if err != nil {
		return err
	}
	if proposed.Host != current.Host {
		return reject(accounts.ReasonImmutableField)
	}
	if !current.Status.CanTransition(proposed.Status) {
		return reject(accounts.ReasonInvalidStatus)
	}
	return nil
}

// checkRehost verifies a transfer of hosting, which changes nothing but the host.
func checkRehost(change *accounts.Change, current *accounts.Account) error {
	proposed := &change.Account
	err := checkSuccessor(change, current)
	if err != nil {
		return err
	}
	if proposed.Host == current.Host {
		return reject(accounts.ReasonInvalidCommand)
	}
	if proposed.Status != current.Status || !cmp.Equal(proposed.Profile, current.Profile) {
		return reject(accounts.ReasonImmutableField)
	}
	return nil
}

// checkSuccessor verifies the rules shared by every change to an existing account.
func checkSuccessor(change *accounts.Change, current *accounts.Account) error {
	proposed := &change.Account
	if current == nil {
		return reject(accounts.ReasonUnknownAccount)
	}
	if current.Closed() {
		return reject(accounts.ReasonClosed)
	}
	if change.Signer != current.Host {
		return reject(accounts.ReasonUnauthorized)
	}
	if proposed.Version != current.Version+1 {
		return reject(accounts.ReasonVersionConflict)
	}
	if proposed.Name != current.Name || !proposed.CreateDate.Equal(current.CreateDate) {
		return reject(accounts.ReasonImmutableField)
	}
	if !proposed.Status.Valid() {
		return reject(accounts.ReasonInvalidStatus)
	}
	return nil
}
