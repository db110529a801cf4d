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

package rest

import (
	"github.com/optakt/ledger-accounts/models/accounts"
)

type CreateRequest struct {
	Identifier string           `json:"identifier,omitempty" validate:"omitempty,uuid"`
	Name       string           `json:"name" validate:"required,max=128"`
	Host       accounts.Party   `json:"host,omitempty" validate:"max=255"`
	Profile    accounts.Profile `json:"profile"`
}

type RehostRequest struct {
	Host accounts.Party `json:"host" validate:"required,max=255"`
}

type ShareRequest struct {
	Participants []accounts.Party `json:"participants" validate:"required,min=1,dive,required,max=255"`
}

type AccountResponse struct {
	Account *accounts.Account `json:"account"`
}

type AccountsResponse struct {
	Accounts []*accounts.Account `json:"accounts"`
}

// Password hashes are accepted on requests but never leave the node.
func newAccountResponse(account *accounts.Account) AccountResponse {
	return AccountResponse{Account: redact(account)}
}

func newAccountsResponse(found []*accounts.Account) AccountsResponse {
	wire := make([]*accounts.Account, 0, len(found))
	for _, account := range found {
		wire = append(wire, redact(account))
	}
	return AccountsResponse{Accounts: wire}
}

func redact(account *accounts.Account) *accounts.Account {
	wire := account.Copy()
	wire.Profile.PasswordHash = nil
	return wire
}
