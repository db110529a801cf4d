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

package ledger

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/optakt/ledger-accounts/models/accounts"
	"github.com/optakt/ledger-accounts/service/storage"
)

// Ledger is a local ledger substrate. It keeps an append-only log of account
// states in a Badger database and commits one change at a time, which gives
// every committed change a position in a single total order.
type Ledger struct {
	log zerolog.Logger
	db  *badger.DB
	lib *storage.Library

	// commit serializes submissions.
	commit *sync.Mutex
}

// New creates a new ledger on top of the given database.
func New(log zerolog.Logger, db *badger.DB, lib *storage.Library) *Ledger {

	l := Ledger{
		log:    log.With().Str("component", "ledger").Logger(),
		db:     db,
		lib:    lib,
		commit: &sync.Mutex{},
	}

	return &l
}

// Register binds a party to the public key that verifies its signatures. A
// party that is already registered keeps its original key.
func (l *Ledger) Register(party accounts.Party, key ed25519.PublicKey) error {
	if len(key) != ed25519.PublicKeySize {
		return fmt.Errorf("invalid public key length (%d)", len(key))
	}

	err := l.db.Update(func(tx *badger.Txn) error {
		var stored []byte
		err := l.lib.RetrieveMember(party, &stored)(tx)
		if err == nil {
			if !ed25519.PublicKey(stored).Equal(key) {
				return fmt.Errorf("party already registered with a different key")
			}
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("could not check member: %w", err)
		}
		return l.lib.SaveMember(party, key)(tx)
	})
	if err != nil {
		return fmt.Errorf("could not register party (%s): %w", party, err)
	}

	l.log.Info().Str("party", party.String()).Msg("party registered")

	return nil
}

// AddNotary appends a notary to the list of notaries. The first notary of the
// list is the one that orders every change.
func (l *Ledger) AddNotary(notary accounts.Party) error {
	err := l.db.Update(func(tx *badger.Txn) error {
		var notaries []accounts.Party
		err := l.lib.RetrieveNotaries(&notaries)(tx)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("could not retrieve notaries: %w", err)
		}
		for _, existing := range notaries {
			if existing == notary {
				return nil
			}
		}
		notaries = append(notaries, notary)
		return l.lib.SaveNotaries(notaries)(tx)
	})
	if err != nil {
		return fmt.Errorf("could not add notary (%s): %w", notary, err)
	}

	return nil
}

// Notary returns the notary that orders changes.
func (l *Ledger) Notary() (accounts.Party, error) {
	var notaries []accounts.Party
	err := l.db.View(l.lib.RetrieveNotaries(&notaries))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNoNotary
	}
	if err != nil {
		return "", fmt.Errorf("could not retrieve notaries: %w", err)
	}
	if len(notaries) == 0 {
		return "", ErrNoNotary
	}
	return notaries[0], nil
}

// Submit commits a signed change atomically, or fails it with a reason. An
// error is only returned when the ledger itself could not process the change.
// The context is only checked before the commit starts; a commit that has
// started always runs to completion.
func (l *Ledger) Submit(ctx context.Context, change accounts.Change) (accounts.Result, error) {

	err := ctx.Err()
	if err != nil {
		return accounts.Result{}, fmt.Errorf("submission aborted: %w", err)
	}

	l.commit.Lock()
	defer l.commit.Unlock()

	var committed accounts.Record
	err = l.db.Update(func(tx *badger.Txn) error {
		return l.apply(tx, &change, &committed)
	})
	var rej *rejection
	if errors.As(err, &rej) {
		l.log.Debug().
			Str("command", change.Command.String()).
			Str("account", change.Account.Identifier.String()).
			Str("reason", rej.reason.String()).
			Msg("change rejected")
		result := accounts.Result{
			Outcome: accounts.OutcomeFailed,
			Reason:  rej.reason,
		}
		return result, nil
	}
	if err != nil {
		return accounts.Result{}, fmt.Errorf("could not commit change: %w", err)
	}

	l.log.Debug().
		Uint64("sequence", committed.Sequence).
		Str("command", change.Command.String()).
		Str("account", change.Account.Identifier.String()).
		Uint64("version", committed.Account.Version).
		Msg("change committed")

	result := accounts.Result{
		Outcome:  accounts.OutcomeCommitted,
		Reason:   accounts.ReasonNone,
		Sequence: committed.Sequence,
		Account:  committed.Account.Copy(),
	}

	return result, nil
}

func (l *Ledger) apply(tx *badger.Txn, change *accounts.Change, committed *accounts.Record) error {

	err := l.authenticate(tx, change)
	if err != nil {
		return err
	}

	id := change.Account.Identifier
	var current *accounts.Account
	var previous uint64
	var latest uint64
	err = l.lib.LookupLatest(id, &latest)(tx)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return fmt.Errorf("could not look up latest state: %w", err)
	default:
		var record accounts.Record
		err = l.lib.RetrieveRecord(latest, &record, &previous)(tx)
		if err != nil {
			return fmt.Errorf("could not retrieve latest state: %w", err)
		}
		current = &record.Account
	}

	switch change.Command {
	case accounts.CommandCreate:
		err = checkCreate(change, current)
	case accounts.CommandUpdate:
		err = checkUpdate(change, current)
	case accounts.CommandRehost:
		err = checkRehost(change, current)
		if err == nil {
			err = l.member(tx, change.Account.Host)
		}
	default:
		err = reject(accounts.ReasonInvalidCommand)
	}
	if err != nil {
		return err
	}

	proposed := change.Account.Copy()
	proposed.CreateDate = proposed.CreateDate.UTC()

	ops, err := l.reserve(tx, current, proposed)
	if err != nil {
		return err
	}

	var sequence uint64
	err = l.lib.RetrieveSequence(&sequence)(tx)
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("could not retrieve sequence: %w", err)
	}
	sequence++

	*committed = accounts.Record{
		Sequence: sequence,
		Command:  change.Command,
		Signer:   change.Signer,
		Notary:   change.Notary,
		Previous: previous,
		Account:  *proposed,
	}

	var checksum uint64
	ops = append(ops,
		l.lib.SaveRecord(committed, &checksum),
		l.lib.SaveSequence(sequence),
		l.lib.IndexLatest(id, sequence),
		l.lib.IndexVersion(id, proposed.Version, sequence),
	)
	if change.Command == accounts.CommandRehost {
		ops = append(ops,
			l.lib.IndexDisclosure(current.Host, id),
			l.lib.IndexDisclosure(proposed.Host, id),
		)
	}

	return storage.Combine(ops...)(tx)
}

// authenticate verifies the notary and the signature of a change.
func (l *Ledger) authenticate(tx *badger.Txn, change *accounts.Change) error {

	var notaries []accounts.Party
	err := l.lib.RetrieveNotaries(&notaries)(tx)
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("could not retrieve notaries: %w", err)
	}
	if len(notaries) == 0 || notaries[0] != change.Notary {
		return reject(accounts.ReasonUnknownNotary)
	}

	var key []byte
	err = l.lib.RetrieveMember(change.Signer, &key)(tx)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return reject(accounts.ReasonUnknownParty)
	}
	if err != nil {
		return fmt.Errorf("could not retrieve signer key: %w", err)
	}

	message, err := change.Message()
	if err != nil {
		return fmt.Errorf("could not compute signed message: %w", err)
	}
	if !ed25519.Verify(key, message, change.Signature) {
		return reject(accounts.ReasonInvalidSignature)
	}

	return nil
}

// member rejects parties without a registered key.
func (l *Ledger) member(tx *badger.Txn, party accounts.Party) error {
	var key []byte
	err := l.lib.RetrieveMember(party, &key)(tx)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return reject(accounts.ReasonUnknownParty)
	}
	if err != nil {
		return fmt.Errorf("could not retrieve member key: %w", err)
	}
	return nil
}

// reserve checks the uniqueness keys held by open accounts and returns the
// operations that move them from the current state to the proposed one.
// Closed accounts hold no uniqueness keys besides their identifier.
func (l *Ledger) reserve(tx *badger.Txn, current *accounts.Account, proposed *accounts.Account) ([]func(*badger.Txn) error, error) {

	var ops []func(*badger.Txn) error
	if current != nil {
		ops = append(ops, l.lib.RemoveOpenName(current.Host, current.Name))
		number := current.Profile.Number()
		if number != "" {
			ops = append(ops, l.lib.RemoveHostNumber(current.Host, number))
		}
	}

	if proposed.Closed() {
		return ops, nil
	}

	var holder uuid.UUID
	err := l.lib.LookupOpenName(proposed.Host, proposed.Name, &holder)(tx)
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("could not look up name: %w", err)
	}
	if err == nil && holder != proposed.Identifier {
		return nil, reject(accounts.ReasonNameTaken)
	}
	ops = append(ops, l.lib.IndexOpenName(proposed.Host, proposed.Name, proposed.Identifier))

	number := proposed.Profile.Number()
	if number == "" {
		return ops, nil
	}
	err = l.lib.LookupHostNumber(proposed.Host, number, &holder)(tx)
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("could not look up account number: %w", err)
	}
	if err == nil && holder != proposed.Identifier {
		return nil, reject(accounts.ReasonAccountNumberTaken)
	}
	ops = append(ops, l.lib.IndexHostNumber(proposed.Host, number, proposed.Identifier))

	return ops, nil
}

// Latest returns the latest committed state of an account.
func (l *Ledger) Latest(id uuid.UUID) (*accounts.Account, error) {
	var record accounts.Record
	err := l.db.View(func(tx *badger.Txn) error {
		var sequence uint64
		err := l.lib.LookupLatest(id, &sequence)(tx)
		if err != nil {
			return err
		}
		var checksum uint64
		return l.lib.RetrieveRecord(sequence, &record, &checksum)(tx)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, accounts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("could not retrieve latest state (id: %s): %w", id, err)
	}
	return &record.Account, nil
}

// History returns every committed state of an account, oldest first, after
// verifying that each state links to the checksum of its predecessor.
func (l *Ledger) History(id uuid.UUID) ([]*accounts.Account, error) {
	var history []*accounts.Account
	err := l.db.View(func(tx *badger.Txn) error {
		var sequences []uint64
		err := l.lib.LookupVersions(id, &sequences)(tx)
		if err != nil {
			return fmt.Errorf("could not look up versions: %w", err)
		}

		var previous uint64
		for i, sequence := range sequences {
			var record accounts.Record
			var checksum uint64
			err = l.lib.RetrieveRecord(sequence, &record, &checksum)(tx)
			if err != nil {
				return fmt.Errorf("could not retrieve state (sequence: %d): %w", sequence, err)
			}
			if i > 0 && record.Previous != previous {
				return fmt.Errorf("%w: version %d does not link to version %d", ErrBrokenChain, record.Account.Version, record.Account.Version-1)
			}
			previous = checksum
			history = append(history, &record.Account)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not retrieve history (id: %s): %w", id, err)
	}
	if len(history) == 0 {
		return nil, accounts.ErrNotFound
	}
	return history, nil
}

// Disclose makes an account visible to a party, so that the party receives
// its states when it replays the ledger.
func (l *Ledger) Disclose(ctx context.Context, id uuid.UUID, party accounts.Party) error {

	err := ctx.Err()
	if err != nil {
		return fmt.Errorf("disclosure aborted: %w", err)
	}

	l.commit.Lock()
	defer l.commit.Unlock()

	err = l.db.Update(func(tx *badger.Txn) error {
		var sequence uint64
		err := l.lib.LookupLatest(id, &sequence)(tx)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return accounts.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("could not look up account: %w", err)
		}

		var key []byte
		err = l.lib.RetrieveMember(party, &key)(tx)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUnknownMember
		}
		if err != nil {
			return fmt.Errorf("could not look up member: %w", err)
		}

		return l.lib.IndexDisclosure(party, id)(tx)
	})
	if err != nil {
		return fmt.Errorf("could not disclose account (id: %s, party: %s): %w", id, party, err)
	}

	return nil
}

// States goes through every committed state visible to a party in commit
// order. A state is visible when the party hosts it or when the account was
// disclosed to the party.
func (l *Ledger) States(party accounts.Party, process func(*accounts.Account) error) error {
	err := l.db.View(func(tx *badger.Txn) error {
		return l.lib.IterateRecords(1, func(record *accounts.Record) error {
			visible := record.Account.Host == party
			if !visible {
				err := l.lib.CheckDisclosure(party, record.Account.Identifier, &visible)(tx)
				if err != nil {
					return fmt.Errorf("could not check disclosure: %w", err)
				}
			}
			if !visible {
				return nil
			}
			return process(&record.Account)
		})(tx)
	})
	if err != nil {
		return fmt.Errorf("could not go through states (party: %s): %w", party, err)
	}

	return nil
}
