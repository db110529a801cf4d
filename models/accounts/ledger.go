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
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// Command is the kind of change proposed to the ledger.
type Command uint8

// Supported commands.
const (
	CommandCreate Command = iota + 1
	CommandUpdate
	CommandRehost
)

func (c Command) String() string {
	switch c {
	case CommandCreate:
		return "create"
	case CommandUpdate:
		return "update"
	case CommandRehost:
		return "rehost"
	default:
		return fmt.Sprintf("invalid command %d", c)
	}
}

// Outcome is the final outcome of a submission to the ledger.
type Outcome uint8

// Submission outcomes.
const (
	OutcomeCommitted Outcome = iota + 1
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommitted:
		return "committed"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("invalid outcome %d", o)
	}
}

// Reason explains why the ledger refused a change.
type Reason uint8

// Failure reasons.
const (
	ReasonNone Reason = iota
	ReasonIdentifierTaken
	ReasonNameTaken
	ReasonAccountNumberTaken
	ReasonUnknownAccount
	ReasonVersionConflict
	ReasonUnauthorized
	ReasonImmutableField
	ReasonClosed
	ReasonInvalidStatus
	ReasonUnknownParty
	ReasonInvalidSignature
	ReasonUnknownNotary
	ReasonInvalidCommand
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonIdentifierTaken:
		return "identifier taken"
	case ReasonNameTaken:
		return "name taken"
	case ReasonAccountNumberTaken:
		return "account number taken"
	case ReasonUnknownAccount:
		return "unknown account"
	case ReasonVersionConflict:
		return "version conflict"
	case ReasonUnauthorized:
		return "unauthorized signer"
	case ReasonImmutableField:
		return "immutable field changed"
	case ReasonClosed:
		return "account closed"
	case ReasonInvalidStatus:
		return "invalid status"
	case ReasonUnknownParty:
		return "unknown party"
	case ReasonInvalidSignature:
		return "invalid signature"
	case ReasonUnknownNotary:
		return "unknown notary"
	case ReasonInvalidCommand:
		return "invalid command"
	default:
		return fmt.Sprintf("invalid reason %d", r)
	}
}

// Change is an atomic unit proposed to the ledger: the new state of one
// account, signed by the party authorizing it.
type Change struct {
	Command   Command
	Account   Account
	Notary    Party
	Signer    Party
	Signature []byte
}

// Message returns the canonical bytes covered by the signature of the change.
func (c *Change) Message() ([]byte, error) {
	options := cbor.CanonicalEncOptions()
	options.Time = cbor.TimeRFC3339Nano
	encoder, err := options.EncMode()
	if err != nil {
		return nil, fmt.Errorf("could not initialize encoder: %w", err)
	}
	unsigned := struct {
		Command Command
		Account Account
		Notary  Party
		Signer  Party
	}{
		Command: c.Command,
		Account: c.Account,
		Notary:  c.Notary,
		Signer:  c.Signer,
	}
	message, err := encoder.Marshal(unsigned)
	if err != nil {
		return nil, fmt.Errorf("could not encode change: %w", err)
	}
	return message, nil
}

// Result is what the ledger returns for a submitted change.
type Result struct {
	Outcome  Outcome
	Reason   Reason
	Sequence uint64
	Account  *Account
}

// Ledger is the ledger substrate that provides atomic, totally ordered
// commitment of account changes.
type Ledger interface {
	Notary() (Party, error)
	Submit(ctx context.Context, change Change) (Result, error)

	Latest(id uuid.UUID) (*Account, error)
	History(id uuid.UUID) ([]*Account, error)

	Disclose(ctx context.Context, id uuid.UUID, party Party) error
	States(party Party, process func(*Account) error) error
}
