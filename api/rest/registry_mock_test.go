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

package rest_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/optakt/ledger-accounts/models/accounts"
	"github.com/optakt/ledger-accounts/service/registry"
	"github.com/optakt/ledger-accounts/testing/mocks"
)

type registryMock struct {
	CreateAccountFunc         func(ctx context.Context, name string, host accounts.Party, profile accounts.Profile, options ...registry.CreateOption) (*accounts.Account, error)
	UpdateProfileFunc         func(ctx context.Context, id uuid.UUID, update accounts.Profile) (*accounts.Account, error)
	CloseAccountFunc          func(ctx context.Context, id uuid.UUID) (*accounts.Account, error)
	ActivateAccountFunc       func(ctx context.Context, id uuid.UUID) (*accounts.Account, error)
	DeactivateAccountFunc     func(ctx context.Context, id uuid.UUID) (*accounts.Account, error)
	RehostAccountFunc         func(ctx context.Context, id uuid.UUID, host accounts.Party) (*accounts.Account, error)
	ShareAccountFunc          func(ctx context.Context, id uuid.UUID, participants ...accounts.Party) error
	LookupByIdentifierFunc    func(id uuid.UUID) (*accounts.Account, error)
	LookupByHostAndNameFunc   func(host accounts.Party, name string) (*accounts.Account, error)
	LookupByNameFunc          func(name string) ([]*accounts.Account, error)
	LookupByAccountNumberFunc func(number string) (*accounts.Account, error)
	SearchByNameFunc          func(prefix string) ([]*accounts.Account, error)
}

func baselineRegistry(t *testing.T) *registryMock {
	t.Helper()

	single := func(context.Context, uuid.UUID) (*accounts.Account, error) {
		return mocks.GenericAccount(0), nil
	}
	r := registryMock{
		CreateAccountFunc: func(context.Context, string, accounts.Party, accounts.Profile, ...registry.CreateOption) (*accounts.Account, error) {
			return mocks.GenericAccount(0), nil
		},
		UpdateProfileFunc: func(context.Context, uuid.UUID, accounts.Profile) (*accounts.Account, error) {
			return mocks.GenericAccount(0), nil
		},
		CloseAccountFunc:      single,
		ActivateAccountFunc:   single,
		DeactivateAccountFunc: single,
		RehostAccountFunc: func(context.Context, uuid.UUID, accounts.Party) (*accounts.Account, error) {
			return mocks.GenericAccount(0), nil
		},
		ShareAccountFunc: func(context.Context, uuid.UUID, ...accounts.Party) error {
			return nil
		},
		LookupByIdentifierFunc: func(uuid.UUID) (*accounts.Account, error) {
			return mocks.GenericAccount(0), nil
		},
		LookupByHostAndNameFunc: func(accounts.Party, string) (*accounts.Account, error) {
			return mocks.GenericAccount(0), nil
		},
		LookupByNameFunc: func(string) ([]*accounts.Account, error) {
			return mocks.GenericAccounts(2), nil
		},
		LookupByAccountNumberFunc: func(string) (*accounts.Account, error) {
			return mocks.GenericAccount(0), nil
		},
		SearchByNameFunc: func(string) ([]*accounts.Account, error) {
			return mocks.GenericAccounts(3), nil
		},
	}

	return &r
}

func (r *registryMock) CreateAccount(ctx context.Context, name string, host accounts.Party, profile accounts.Profile, options ...registry.CreateOption) (*accounts.Account, error) {
	return r.CreateAccountFunc(ctx, name, host, profile, options...)
}

func (r *registryMock) UpdateProfile(ctx context.Context, id uuid.UUID, update accounts.Profile) (*accounts.Account, error) {
	return r.UpdateProfileFunc(ctx, id, update)
}

func (r *registryMock) CloseAccount(ctx context.Context, id uuid.UUID) (*accounts.Account, error) {
	return r.CloseAccountFunc(ctx, id)
}

func (r *registryMock) ActivateAccount(ctx context.Context, id uuid.UUID) (*accounts.Account, error) {
	return r.ActivateAccountFunc(ctx, id)
}

func (r *registryMock) DeactivateAccount(ctx context.Context, id uuid.UUID) (*accounts.Account, error) {
	return r.DeactivateAccountFunc(ctx, id)
}

func (r *registryMock) RehostAccount(ctx context.Context, id uuid.UUID, host accounts.Party) (*accounts.Account, error) {
	return r.RehostAccountFunc(ctx, id, host)
}

func (r *registryMock) ShareAccount(ctx context.Context, id uuid.UUID, participants ...accounts.Party) error {
	return r.ShareAccountFunc(ctx, id, participants...)
}

func (r *registryMock) LookupByIdentifier(id uuid.UUID) (*accounts.Account, error) {
	return r.LookupByIdentifierFunc(id)
}

func (r *registryMock) LookupByHostAndName(host accounts.Party, name string) (*accounts.Account, error) {
	return r.LookupByHostAndNameFunc(host, name)
}

func (r *registryMock) LookupByName(name string) ([]*accounts.Account, error) {
	return r.LookupByNameFunc(name)
}

func (r *registryMock) LookupByAccountNumber(number string) (*accounts.Account, error) {
	return r.LookupByAccountNumberFunc(number)
}

func (r *registryMock) SearchByName(prefix string) ([]*accounts.Account, error) {
	return r.SearchByNameFunc(prefix)
}
