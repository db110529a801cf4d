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

	"github.com/google/uuid"

	"github.com/optakt/ledger-accounts/models/accounts"
)

type Ledger struct {
	NotaryFunc   func() (accounts.Party, error)
	SubmitFunc   func(ctx context.Context, change accounts.Change) (accounts.Result, error)
	LatestFunc   func(id uuid.UUID) (*accounts.Account, error)
	HistoryFunc  func(id uuid.UUID) ([]*accounts.Account, error)
	DiscloseFunc func(ctx context.Context, id uuid.UUID, party accounts.Party) error
	StatesFunc   func(party accounts.Party, process func(*accounts.Account) error) error
}

// BaselineLedger returns a ledger that commits every submitted change as-is.
func BaselineLedger(t *testing.T) *Ledger {
	t.Helper()

	l := Ledger{
		NotaryFunc: func() (accounts.Party, error) {
			return GenericNotary, nil
		},
		SubmitFunc: func(_ context.Context, change accounts.Change) (accounts.Result, error) {
			committed := change.Account.Copy()
			result := accounts.Result{
				Outcome:  accounts.OutcomeCommitted,
				Sequence: GenericSequence,
				Account:  committed,
			}
			return result, nil
		},
		LatestFunc: func(uuid.UUID) (*accounts.Account, error) {
			return GenericAccount(0), nil
		},
		HistoryFunc: func(uuid.UUID) ([]*accounts.Account, error) {
			return []*accounts.Account{GenericAccount(0)}, nil
		},
		DiscloseFunc: func(context.Context, uuid.UUID, accounts.Party) error {
			return nil
		},
		StatesFunc: func(_ accounts.Party, process func(*accounts.Account) error) error {
			return nil
		},
	}

	return &l
}

func (l *Ledger) Notary() (accounts.Party, error) {
	return l.NotaryFunc()
}

func (l *Ledger) Submit(ctx context.Context, change accounts.Change) (accounts.Result, error) {
	return l.SubmitFunc(ctx, change)
}

func (l *Ledger) Latest(id uuid.UUID) (*accounts.Account, error) {
	return l.LatestFunc(id)
}

func (l *Ledger) History(id uuid.UUID) ([]*accounts.Account, error) {
	return l.HistoryFunc(id)
}

func (l *Ledger) Disclose(ctx context.Context, id uuid.UUID, party accounts.Party) error {
	return l.DiscloseFunc(ctx, id, party)
}

func (l *Ledger) States(party accounts.Party, process func(*accounts.Account) error) error {
	return l.StatesFunc(party, process)
}
