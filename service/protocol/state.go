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

package protocol

import (
	"context"

	"github.com/optakt/ledger-accounts/models/accounts"
)

// State is the state of one change going through the protocol.
type State struct {
	ctx       context.Context
	status    Status
	command   accounts.Command
	current   *accounts.Account
	proposed  *accounts.Account
	change    accounts.Change
	committed *accounts.Account
	err       error
}

// Creation returns the initial state for creating the given account.
func Creation(ctx context.Context, account *accounts.Account) *State {

	s := State{
		ctx:      ctx,
		status:   StatusValidating,
		command:  accounts.CommandCreate,
		proposed: account.Copy(),
	}

	return &s
}

// Change returns the initial state for replacing the current state of an
// account with the proposed one.
func Change(ctx context.Context, command accounts.Command, current *accounts.Account, proposed *accounts.Account) *State {

	s := State{
		ctx:      ctx,
		status:   StatusValidating,
		command:  command,
		current:  current.Copy(),
		proposed: proposed.Copy(),
	}

	return &s
}

// Status returns the current status of the state.
func (s *State) Status() Status {
	return s.status
}

func (s *State) reject(err error) error {
	s.status = StatusRejected
	s.err = err
	return nil
}

func (s *State) fail(err error) error {
	s.status = StatusFailed
	s.err = err
	return nil
}
