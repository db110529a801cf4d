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

package accounts

import (
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// Account is the committed state of a single account. The identifier, name,
// creation date and, outside of re-hosting, the host never change once the
// account was created. Version counts the committed states of the account,
// starting at one.
type Account struct {
	Identifier uuid.UUID `json:"identifier"`
	Name       string    `json:"name"`
	Host       Party     `json:"host"`
	Status     Status    `json:"status"`
	Profile    Profile   `json:"profile"`
	CreateDate time.Time `json:"create_date"`
	Version    uint64    `json:"version"`
}

// New returns the initial state of an account, before it was committed.
func New(id uuid.UUID, name string, host Party, profile Profile, created time.Time) *Account {

	a := Account{
		Identifier: id,
		Name:       name,
		Host:       host,
		Status:     DefaultStatus,
		Profile:    profile.Clone(),
		CreateDate: created.UTC(),
		Version:    0,
	}

	return &a
}

// WithUpdatedProfile returns a copy of the account where the fields set in the
// update replace the current profile values. Fields absent from the update
// keep their value; the account itself is not modified.
func (a *Account) WithUpdatedProfile(update Profile) *Account {
	updated := a.Copy()
	updated.Profile = a.Profile.Merge(update)
	return updated
}

// WithStatus returns a copy of the account with the given status.
func (a *Account) WithStatus(status Status) *Account {
	updated := a.Copy()
	updated.Status = status
	return updated
}

// WithHost returns a copy of the account hosted by the given party.
func (a *Account) WithHost(host Party) *Account {
	updated := a.Copy()
	updated.Host = host
	return updated
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	c := *a
	c.Profile = a.Profile.Clone()
	return &c
}

// Closed returns whether the account reached its terminal status.
func (a *Account) Closed() bool {
	return a.Status == StatusClosed
}

// Equivalent returns whether two accounts describe the same creation intent:
// same identifier, name and host, and an equal profile.
func (a *Account) Equivalent(other *Account) bool {
	if other == nil {
		return false
	}
	return a.Identifier == other.Identifier &&
		a.Name == other.Name &&
		a.Host == other.Host &&
		cmp.Equal(a.Profile, other.Profile)
}

// SameIdentity returns whether the fields that can never be updated are
// identical between the two accounts. The host is excluded, because it can
// change through re-hosting.
func (a *Account) SameIdentity(other *Account) bool {
	return a.Identifier == other.Identifier &&
		a.Name == other.Name &&
		a.CreateDate.Equal(other.CreateDate)
}
