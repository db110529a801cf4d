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
	"golang.org/x/sync/errgroup"

	"github.com/optakt/ledger-accounts/models/accounts"
)

// ShareAccount discloses the committed state of an account to the given
// participants and delivers it to them. The host of the account is left as is.
func (r *Registry) ShareAccount(ctx context.Context, id uuid.UUID, participants ...accounts.Party) error {

	_, err := r.read.ByIdentifier(id)
	if errors.Is(err, accounts.ErrNotFound) {
		return fmt.Errorf("%w: %s", accounts.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("could not look up account: %w", err)
	}

	// Share what the ledger committed, not what our index holds, which could
	// lag behind after a failed index write.
	latest, err := r.ledger.Latest(id)
	if err != nil {
		return fmt.Errorf("could not retrieve committed account: %w", err)
	}

	local := r.signer.Party()
	seen := make(map[accounts.Party]struct{}, len(participants))
	group, ctx := errgroup.WithContext(ctx)
	for _, participant := range participants {
		participant, err := accounts.NormalizeParty(participant)
		if err != nil {
			return err
		}
		_, ok := seen[participant]
		if ok || participant == local {
			continue
		}
		seen[participant] = struct{}{}

		group.Go(func() error {
			err := r.ledger.Disclose(ctx, id, participant)
			if err != nil {
				return fmt.Errorf("could not disclose account to %s: %w", participant, err)
			}
			err = r.network.Send(ctx, participant, latest.Copy())
			if err != nil {
				return fmt.Errorf("could not send account to %s: %w", participant, err)
			}
			return nil
		})
	}

	err = group.Wait()
	if err != nil {
		return fmt.Errorf("could not share account (id: %s): %w", id, err)
	}

	r.log.Info().
		Str("account", id.String()).
		Int("participants", len(seen)).
		Msg("account shared")

	return nil
}

// ReceiveAccount indexes an account shared by another participant, after
// checking it against the state committed on the ledger. A copy that is older
// than the committed state is replaced by the committed state.
func (r *Registry) ReceiveAccount(ctx context.Context, account *accounts.Account) error {

	err := ctx.Err()
	if err != nil {
		return err
	}

	latest, err := r.ledger.Latest(account.Identifier)
	if errors.Is(err, accounts.ErrNotFound) {
		return fmt.Errorf("%w: %s is not on the ledger", accounts.ErrNotFound, account.Identifier)
	}
	if err != nil {
		return fmt.Errorf("could not retrieve committed account: %w", err)
	}

	if account.Version > latest.Version {
		return fmt.Errorf("%w: unknown version %d of account %s", accounts.ErrValidation, account.Version, account.Identifier)
	}
	if account.Version == latest.Version && (!account.Equivalent(latest) || account.Status != latest.Status) {
		return fmt.Errorf("%w: account %s does not match committed state", accounts.ErrValidation, account.Identifier)
	}

	err = r.write.Account(latest)
	if err != nil {
		return fmt.Errorf("could not index received account: %w", err)
	}

	r.log.Debug().
		Str("account", latest.Identifier.String()).
		Str("host", latest.Host.String()).
		Uint64("version", latest.Version).
		Msg("account received")

	return nil
}
