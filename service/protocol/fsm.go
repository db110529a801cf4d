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
	"fmt"

	"github.com/optakt/ledger-accounts/models/accounts"
)

// TransitionFunc is a function that is applied onto the state machine's
// state.
type TransitionFunc func(*State) error

// FSM drives a change through the protocol by applying the transition
// registered for each status until a final status is reached. The FSM holds
// no state of its own, so one FSM can run many changes concurrently.
type FSM struct {
	transitions map[Status]TransitionFunc
}

// NewFSM returns a new FSM using the given transitions.
func NewFSM(options ...func(*FSM)) *FSM {

	f := FSM{
		transitions: make(map[Status]TransitionFunc),
	}
	for _, option := range options {
		option(&f)
	}

	return &f
}

// Run applies transitions to the given state until it reaches a final status.
// It returns the committed account, or the error that rejected or failed the
// change.
func (f *FSM) Run(s *State) (*accounts.Account, error) {
	for !s.status.Final() {
		transition, ok := f.transitions[s.status]
		if !ok {
			return nil, fmt.Errorf("could not find transition for status (%s)", s.status)
		}
		err := transition(s)
		if err != nil {
			return nil, fmt.Errorf("could not apply transition to state: %w", err)
		}
	}

	if s.status != StatusCommitted {
		return nil, s.err
	}

	return s.committed.Copy(), nil
}
