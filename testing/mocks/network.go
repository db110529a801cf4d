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
	"context"
	"testing"

	"github.com/optakt/ledger-accounts/models/accounts"
)

type Network struct {
	SendFunc func(ctx context.Context, to accounts.Party, account *accounts.Account) error
}

func BaselineNetwork(t *testing.T) *Network {
	t.Helper()

	n := Network{
		SendFunc: func(context.Context, accounts.Party, *accounts.Account) error {
			return nil
		},
	}

	return &n
}

func (n *Network) Send(ctx context.Context, to accounts.Party, account *accounts.Account) error {
	return n.SendFunc(ctx, to, account)
}

type Signer struct {
	PartyFunc func() accounts.Party
	SignFunc  func(message []byte) ([]byte, error)
}

func BaselineSigner(t *testing.T) *Signer {
	t.Helper()

	s := Signer{
		PartyFunc: func() accounts.Party {
			return GenericHost
		},
		SignFunc: func([]byte) ([]byte, error) {
			return GenericBytes, nil
		},
	}

	return &s
}

func (s *Signer) Party() accounts.Party {
	return s.PartyFunc()
}

func (s *Signer) Sign(message []byte) ([]byte, error) {
	return s.SignFunc(message)
}
