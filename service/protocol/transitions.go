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
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/optakt/ledger-accounts/models/accounts"
)

// Validator validates the struct tags of a value.
type Validator interface {
	Struct(s interface{}) error
}

// Transitions is what applies transitions to the state of an FSM.
type Transitions struct {
	log      zerolog.Logger
	signer   accounts.Signer
	read     accounts.Reader
	write    accounts.Writer
	ledger   accounts.Ledger
	validate Validator
}

// NewTransitions returns a Transitions component that proposes changes as the
// party of the given signer.
func NewTransitions(log zerolog.Logger, signer accounts.Signer, read accounts.Reader, write accounts.Writer, ledger accounts.Ledger, validate Validator) *Transitions {

	t := Transitions{
		log:      log.With().Str("component", "protocol_transitions").Str("party", signer.Party().String()).Logger(),
		signer:   signer,
		read:     read,
		write:    write,
		ledger:   ledger,
		validate: validate,
	}

	return &t
}

// ValidateChange checks the proposed state against the local index. Nothing
// is sent to the ledger for a change that fails validation.
func (t *Transitions) ValidateChange(s *State) error {
	if s.status != StatusValidating {
		return fmt.Errorf("invalid status for validating change (%s)", s.status)
	}

	proposed := s.proposed
	name, err := accounts.NormalizeName(proposed.Name)
	if err != nil {
		return s.reject(err)
	}
	proposed.Name = name

	err = t.validate.Struct(proposed.Profile)
	if err != nil {
		return s.reject(fmt.Errorf("%w: invalid profile: %s", accounts.ErrValidation, err))
	}
	if !proposed.Status.Valid() {
		return s.reject(fmt.Errorf("%w: invalid status (%d)", accounts.ErrValidation, proposed.Status))
	}

	local := t.signer.Party()
	switch s.command {

	case accounts.CommandCreate:
		if proposed.Host != local {
			return s.reject(fmt.Errorf("%w: %s cannot create accounts hosted by %s", accounts.ErrUnauthorized, local, proposed.Host))
		}
		if proposed.Closed() {
			return s.reject(fmt.Errorf("%w: account cannot be created closed", accounts.ErrValidation))
		}
		existing, err := t.read.ByIdentifier(proposed.Identifier)
		if err == nil && existing.Host == local && existing.Equivalent(proposed) {
			// An earlier attempt committed and was indexed after the caller
			// gave up, so the retry resolves to that commit.
			s.committed = existing
			s.status = StatusCommitted
			return nil
		}
		if err == nil {
			return s.reject(fmt.Errorf("%w: %s", accounts.ErrDuplicateIdentifier, proposed.Identifier))
		}
		if !errors.Is(err, accounts.ErrNotFound) {
			return fmt.Errorf("could not check identifier: %w", err)
		}

	case accounts.CommandUpdate, accounts.CommandRehost:
		current := s.current
		if current.Host != local {
			return s.reject(fmt.Errorf("%w: %s does not host account %s", accounts.ErrUnauthorized, local, current.Identifier))
		}
		if current.Closed() {
			return s.reject(fmt.Errorf("%w: %s", accounts.ErrAlreadyClosed, current.Identifier))
		}

	default:
		return fmt.Errorf("unknown command (%s)", s.command)
	}

	err = t.checkName(proposed)
	if errors.Is(err, accounts.ErrDuplicateName) {
		return s.reject(err)
	}
	if err != nil {
		return err
	}
	err = t.checkNumber(proposed)
	if errors.Is(err, accounts.ErrDuplicateAccountNumber) {
		return s.reject(err)
	}
	if err != nil {
		return err
	}

	s.status = StatusProposed
	return nil
}

// checkName rejects a proposed open account if another open account holds
// its name on its host.
func (t *Transitions) checkName(proposed *accounts.Account) error {
	if proposed.Closed() {
		return nil
	}
	holder, err := t.read.ByHostAndName(proposed.Host, proposed.Name)
	if errors.Is(err, accounts.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not check name: %w", err)
	}
	if holder.Identifier == proposed.Identifier || holder.Closed() {
		return nil
	}
	return fmt.Errorf("%w: %s on %s", accounts.ErrDuplicateName, proposed.Name, proposed.Host)
}

// checkNumber rejects a proposed open account if another open account on
// the same host carries its account number.
func (t *Transitions) checkNumber(proposed *accounts.Account) error {
	number := proposed.Profile.Number()
	if number == "" || proposed.Closed() {
		return nil
	}
	holders, err := t.read.ByAccountNumber(number)
	if errors.Is(err, accounts.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not check account number: %w", err)
	}
	for _, holder := range holders {
		if holder.Identifier == proposed.Identifier || holder.Host != proposed.Host || holder.Closed() {
			continue
		}
		return fmt.Errorf("%w: %s on %s", accounts.ErrDuplicateAccountNumber, number, proposed.Host)
	}
	return nil
}

// ProposeChange packages the proposed state into a change for the current
// notary and signs it.
func (t *Transitions) ProposeChange(s *State) error {
	if s.status != StatusProposed {
		return fmt.Errorf("invalid status for proposing change (%s)", s.status)
	}

	notary, err := t.ledger.Notary()
	if err != nil {
		return s.fail(fmt.Errorf("%w: could not query notary: %s", accounts.ErrCommitFailure, err))
	}

	s.proposed.Version = 1
	if s.current != nil {
		s.proposed.Version = s.current.Version + 1
	}

	change := accounts.Change{
		Command: s.command,
		Account: *s.proposed.Copy(),
		Notary:  notary,
		Signer:  t.signer.Party(),
	}
	message, err := change.Message()
	if err != nil {
		return fmt.Errorf("could not compute message: %w", err)
	}
	change.Signature, err = t.signer.Sign(message)
	if err != nil {
		return fmt.Errorf("could not sign change: %w", err)
	}
	s.change = change

	s.status = StatusCommitting
	return nil
}

// CommitChange submits the signed change to the ledger. This is the only
// step that waits on the ledger; the context is checked before it starts.
func (t *Transitions) CommitChange(s *State) error {
	if s.status != StatusCommitting {
		return fmt.Errorf("invalid status for committing change (%s)", s.status)
	}

	err := s.ctx.Err()
	if err != nil {
		return s.reject(fmt.Errorf("change abandoned before commit: %w", err))
	}

	log := t.log.With().
		Str("command", s.command.String()).
		Str("account", s.proposed.Identifier.String()).
		Logger()

	result, err := t.ledger.Submit(s.ctx, s.change)
	if err != nil {
		return s.fail(fmt.Errorf("%w: %s", accounts.ErrCommitFailure, err))
	}

	switch result.Outcome {

	case accounts.OutcomeCommitted:
		s.committed = result.Account

	case accounts.OutcomeFailed:
		recovered, err := t.recover(s, result.Reason)
		if err != nil {
			return fmt.Errorf("could not recover failed change: %w", err)
		}
		if recovered == nil {
			log.Debug().Str("reason", result.Reason.String()).Msg("change failed")
			return s.fail(fmt.Errorf("%w: %s", accounts.ErrCommitFailure, result.Reason))
		}
		log.Info().Msg("change recovered from earlier commit")
		s.committed = recovered

	default:
		return fmt.Errorf("invalid outcome (%s)", result.Outcome)
	}

	// The ledger is the source of truth, so an index that could not be
	// updated does not undo the commit; a rebuild repairs it.
	err = t.write.Account(s.committed)
	if err != nil {
		log.Error().Err(err).Msg("could not index committed account")
	}

	log.Debug().Uint64("version", s.committed.Version).Msg("change committed")

	s.status = StatusCommitted
	return nil
}

// recover resolves a creation that the ledger refused because its identifier
// is taken. If the ledger holds an equivalent account hosted by us, it is our
// own earlier commit, for example one that completed after the caller gave up.
func (t *Transitions) recover(s *State, reason accounts.Reason) (*accounts.Account, error) {
	if s.command != accounts.CommandCreate || reason != accounts.ReasonIdentifierTaken {
		return nil, nil
	}

	latest, err := t.ledger.Latest(s.proposed.Identifier)
	if errors.Is(err, accounts.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not retrieve latest state: %w", err)
	}
	if latest.Host != t.signer.Party() || !latest.Equivalent(s.proposed) {
		return nil, nil
	}

	return latest, nil
}
