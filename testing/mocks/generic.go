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
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/optakt/ledger-accounts/models/accounts"
)

// Global variables that can be used for testing. They are non-nil valid values for the types commonly needed
// to test registry components.
var (
	NoopLogger = zerolog.New(io.Discard)

	GenericError = errors.New("dummy error")

	GenericBytes = []byte(`test`)

	GenericHost   = accounts.Party("NodeA")
	GenericPeer   = accounts.Party("NodeB")
	GenericNotary = accounts.Party("Notary")

	GenericName = "bob"

	GenericTime = time.Date(1972, 11, 12, 13, 14, 15, 16, time.UTC)

	GenericSequence = uint64(42)

	GenericProfile = accounts.Profile{
		FirstName:     accounts.String("Bob"),
		LastName:      accounts.String("Builder"),
		Email:         accounts.String("bob@example.com"),
		Phone:         accounts.String("+14155552671"),
		AccountNumber: accounts.String("ACC-0001"),
	}
)

func GenericIdentifiers(number int) []uuid.UUID {
	// Ensure consistent deterministic results.
	random := rand.New(rand.NewSource(0))

	var ids []uuid.UUID
	for i := 0; i < number; i++ {
		var id uuid.UUID
		_, _ = random.Read(id[:])
		ids = append(ids, id)
	}

	return ids
}

func GenericIdentifier(index int) uuid.UUID {
	return GenericIdentifiers(index + 1)[index]
}

func GenericAccounts(number int) []*accounts.Account {
	ids := GenericIdentifiers(number)

	var accs []*accounts.Account
	for i := 0; i < number; i++ {
		profile := GenericProfile.Clone()
		profile.AccountNumber = accounts.String(fmt.Sprintf("ACC-%04d", i+1))
		acc := accounts.New(ids[i], fmt.Sprintf("%s%d", GenericName, i), GenericHost, profile, GenericTime)
		acc.Version = 1
		accs = append(accs, acc)
	}

	return accs
}

func GenericAccount(index int) *accounts.Account {
	return GenericAccounts(index + 1)[index]
}
