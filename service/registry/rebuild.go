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
	"fmt"

	"github.com/google/uuid"

	"github.com/optakt/ledger-accounts/models/accounts"
)

// Rebuild drops the index and replays every committed state visible to the
// local participant, in commit order. The version chain of every replayed
// account is verified before the rebuild is reported as done.
func (r *Registry) Rebuild(ctx context.Context) error {

	err := r.write.Drop()
	if err != nil {
		return fmt.Errorf("could not drop index: %w", err)
	}

	count := 0
	seen := make(map[uuid.UUID]struct{})
	var replayed []uuid.UUID
	err = r.ledger.States(r.signer.Party(), func(account *accounts.Account) error {
		err := ctx.Err()
		if err != nil {
			return err
		}
		err = r.write.Account(account)
		if err != nil {
			return fmt.Errorf("could not index account (id: %s): %w", account.Identifier, err)
		}
		_, ok := seen[account.Identifier]
		if !ok {
			seen[account.Identifier] = struct{}{}
			replayed = append(replayed, account.Identifier)
		}
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("could not replay ledger: %w", err)
	}

	for _, id := range replayed {
		_, err = r.ledger.History(id)
		if err != nil {
			return fmt.Errorf("could not verify history (id: %s): %w", id, err)
		}
	}

	r.log.Info().Int("states", count).Int("accounts", len(replayed)).Msg("index rebuilt")

	return nil
}
