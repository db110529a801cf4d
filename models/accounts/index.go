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
	"context"

	"github.com/google/uuid"
)

// Reader represents something that can read from the local account index.
type Reader interface {
	ByIdentifier(id uuid.UUID) (*Account, error)
	ByHostAndName(host Party, name string) (*Account, error)
	ByName(name string) ([]*Account, error)
	ByAccountNumber(number string) ([]*Account, error)
	SearchName(prefix string) ([]*Account, error)
}

// Writer represents something that can write on the local account index.
type Writer interface {
	Account(account *Account) error
	Drop() error
}

// Network delivers shared accounts to other participants.
type Network interface {
	Send(ctx context.Context, to Party, account *Account) error
}

// Codec represents something that can encode and compress values, and undo it.
type Codec interface {
	Marshal(value interface{}) ([]byte, error)
	Unmarshal(compressed []byte, value interface{}) error
}
