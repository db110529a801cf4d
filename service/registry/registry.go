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

package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/optakt/ledger-accounts/models/accounts"
	"github.com/optakt/ledger-accounts/service/protocol"
)

// Registry manages the accounts hosted by one participant and the copies of
// accounts shared with it by others. Changes go through the protocol and the
// ledger; lookups are served by the local index.
type Registry struct {
	log     zerolog.Logger
	cfg     Config
	signer  accounts.Signer
	read    accounts.Reader
	write   accounts.Writer
	ledger  accounts.Ledger
	network accounts.Network
	fsm     *protocol.FSM
}

// New creates a registry for the party of the given signer.
func New(log zerolog.Logger, signer accounts.Signer, read accounts.Reader, write accounts.Writer, ledger accounts.Ledger, network accounts.Network, fsm *protocol.FSM, options ...func(*Config)) *Registry {

	cfg := DefaultConfig
	for _, option := range options {
		option(&cfg)
	}

	r := Registry{
		log:     log.With().Str("component", "registry").Str("party", signer.Party().String()).Logger(),
		cfg:     cfg,
		signer:  signer,
		read:    read,
		write:   write,
		ledger:  ledger,
		network: network,
		fsm:     fsm,
	}

	return &r
}

// Party returns the participant this registry acts for.
func (r *Registry) Party() accounts.Party {
	return r.signer.Party()
}

// CreateAccount creates a new account hosted by the given host, which must be
// the local participant. The new account is INACTIVE.
func (r *Registry) CreateAccount(ctx context.Context, name string, host accounts.Party, profile accounts.Profile, options ...CreateOption) (*accounts.Account, error) {

	cfg := createConfig{
		identifier: uuid.New(),
	}
	for _, option := range options {
		option(&cfg)
	}

	name, err := accounts.NormalizeName(name)
	if err != nil {
		return nil, err
	}
	host, err = accounts.NormalizeParty(host)
	if err != nil {
		return nil, err
	}

	local := r.signer.Party()
	if host != local {
		return nil, fmt.Errorf("%w: %s cannot create accounts hosted by %s", accounts.ErrUnauthorized, local, host)
	}

	account := accounts.New(cfg.identifier, name, host, profile, r.cfg.Clock())

	if cfg.explicit {
		existing, err := r.read.ByIdentifier(cfg.identifier)
		if err == nil && existing.Host == local && existing.Equivalent(account) {
			return existing, nil
		}
		if err == nil {
			return nil, fmt.Errorf("%w: %s", accounts.ErrDuplicateIdentifier, cfg.identifier)
		}
		if !errors.Is(err, accounts.ErrNotFound) {
			return nil, fmt.Errorf("could not check identifier: %w", err)
		}
	}

	created, err := r.fsm.Run(protocol.Creation(ctx, account))
	if err != nil {
		return nil, err
	}

	r.log.Info().
		Str("account", created.Identifier.String()).
		Str("name", created.Name).
		Msg("account created")

	return created, nil
}

// UpdateProfile replaces the profile fields set in the update and keeps all
// others. Identifier, name, host and creation date never change.
func (r *Registry) UpdateProfile(ctx context.Context, id uuid.UUID, update accounts.Profile) (*accounts.Account, error) {

	current, err := r.hosted(id)
	if err != nil {
		return nil, err
	}
	if current.Closed() {
		return nil, fmt.Errorf("%w: %s", accounts.ErrAlreadyClosed, id)
	}

	proposed := current.WithUpdatedProfile(update)

	return r.fsm.Run(protocol.Change(ctx, accounts.CommandUpdate, current, proposed))
}

// CloseAccount closes an account for good. Closing a closed account returns
// it unchanged.
func (r *Registry) CloseAccount(ctx context.Context, id uuid.UUID) (*accounts.Account, error) {

	current, err := r.hosted(id)
	if err != nil {
		return nil, err
	}
	if current.Closed() {
		return current, nil
	}

	closed, err := r.fsm.Run(protocol.Change(ctx, accounts.CommandUpdate, current, current.WithStatus(accounts.StatusClosed)))
	if err != nil {
		return nil, err
	}

	r.log.Info().Str("account", id.String()).Msg("account closed")

	return closed, nil
}

// ActivateAccount sets an INACTIVE account to ACTIVE.
func (r *Registry) ActivateAccount(ctx context.Context, id uuid.UUID) (*accounts.Account, error) {
	return r.setStatus(ctx, id, accounts.StatusActive)
}

// DeactivateAccount sets an ACTIVE account to INACTIVE.
func (r *Registry) DeactivateAccount(ctx context.Context, id uuid.UUID) (*accounts.Account, error) {
	return r.setStatus(ctx, id, accounts.StatusInactive)
}

func (r *Registry) setStatus(ctx context.Context, id uuid.UUID, status accounts.Status) (*accounts.Account, error) {

	current, err := r.hosted(id)
	if err != nil {
		return nil, err
	}
	if current.Closed() {
		return nil, fmt.Errorf("%w: %s", accounts.ErrAlreadyClosed, id)
	}
	if current.Status == status {
		return current, nil
	}

	return r.fsm.Run(protocol.Change(ctx, accounts.CommandUpdate, current, current.WithStatus(status)))
}

// RehostAccount hands an account over to another participant. Only the
// current host can do so. The new host receives the committed account.
func (r *Registry) RehostAccount(ctx context.Context, id uuid.UUID, host accounts.Party) (*accounts.Account, error) {

	host, err := accounts.NormalizeParty(host)
	if err != nil {
		return nil, err
	}
	current, err := r.hosted(id)
	if err != nil {
		return nil, err
	}
	if current.Closed() {
		return nil, fmt.Errorf("%w: %s", accounts.ErrAlreadyClosed, id)
	}
	if current.Host == host {
		return nil, fmt.Errorf("%w: account already hosted by %s", accounts.ErrValidation, host)
	}

	moved, err := r.fsm.Run(protocol.Change(ctx, accounts.CommandRehost, current, current.WithHost(host)))
	if err != nil {
		return nil, err
	}

	// The new host can always recover the account from the ledger, so a failed
	// delivery does not fail the operation.
	err = r.network.Send(ctx, host, moved)
	if err != nil {
		r.log.Warn().Err(err).Str("account", id.String()).Str("host", host.String()).Msg("could not deliver rehosted account")
	}

	r.log.Info().Str("account", id.String()).Str("host", host.String()).Msg("account rehosted")

	return moved, nil
}

// hosted returns the indexed state of an account hosted by the local party.
func (r *Registry) hosted(id uuid.UUID) (*accounts.Account, error) {
	current, err := r.read.ByIdentifier(id)
	if errors.Is(err, accounts.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", accounts.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("could not look up account: %w", err)
	}
	if current.Host != r.signer.Party() {
		return nil, fmt.Errorf("%w: %s does not host account %s", accounts.ErrUnauthorized, r.signer.Party(), id)
	}
	return current, nil
}
