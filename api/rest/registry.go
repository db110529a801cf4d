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
	"context"

	"github.com/google/uuid"

	"github.com/optakt/ledger-accounts/models/accounts"
	"github.com/optakt/ledger-accounts/service/registry"
)

// Registry is the account registry of one participant.
type Registry interface {
	CreateAccount(ctx context.Context, name string, host accounts.Party, profile accounts.Profile, options ...registry.CreateOption) (*accounts.Account, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update accounts.Profile) (*accounts.Account, error)
	CloseAccount(ctx context.Context, id uuid.UUID) (*accounts.Account, error)
	ActivateAccount(ctx context.Context, id uuid.UUID) (*accounts.Account, error)
	DeactivateAccount(ctx context.Context, id uuid.UUID) (*accounts.Account, error)
	RehostAccount(ctx context.Context, id uuid.UUID, host accounts.Party) (*accounts.Account, error)
	ShareAccount(ctx context.Context, id uuid.UUID, participants ...accounts.Party) error

	LookupByIdentifier(id uuid.UUID) (*accounts.Account, error)
	LookupByHostAndName(host accounts.Party, name string) (*accounts.Account, error)
	LookupByName(name string) ([]*accounts.Account, error)
	LookupByAccountNumber(number string) (*accounts.Account, error)
	SearchByName(prefix string) ([]*accounts.Account, error)
}
