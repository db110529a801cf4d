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

package network

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/optakt/ledger-accounts/models/accounts"
)

// ErrUnknownParty is returned when sending to a party that is not connected.
var ErrUnknownParty = errors.New("unknown party")

// Receiver is the inbound side of account sharing.
type Receiver interface {
	ReceiveAccount(ctx context.Context, account *accounts.Account) error
}

// Memory delivers accounts between participants running in the same process.
type Memory struct {
	log       zerolog.Logger
	mutex     *sync.RWMutex
	receivers map[accounts.Party]Receiver
}

// NewMemory creates a network without any connected participants.
func NewMemory(log zerolog.Logger) *Memory {

	m := Memory{
		log:       log.With().Str("component", "network").Logger(),
		mutex:     &sync.RWMutex{},
		receivers: make(map[accounts.Party]Receiver),
	}

	return &m
}

// Connect makes a participant reachable through the network.
func (m *Memory) Connect(party accounts.Party, receiver Receiver) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.receivers[party] = receiver
}

// Send delivers an account to a participant and waits until it was processed.
func (m *Memory) Send(ctx context.Context, to accounts.Party, account *accounts.Account) error {

	m.mutex.RLock()
	receiver, ok := m.receivers[to]
	m.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParty, to)
	}

	err := receiver.ReceiveAccount(ctx, account.Copy())
	if err != nil {
		return fmt.Errorf("could not deliver account to %s: %w", to, err)
	}

	m.log.Debug().
		Str("to", to.String()).
		Str("account", account.Identifier.String()).
		Msg("account delivered")

	return nil
}
