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
	"errors"

	"github.com/optakt/ledger-accounts/models/accounts"
)

var (
	ErrNoNotary      = errors.New("no notary registered")
	ErrUnknownMember = errors.New("unknown member")
	ErrBrokenChain   = errors.New("broken version chain")
)

// rejection aborts the commit transaction and is turned into a failed result.
type rejection struct {
	reason accounts.Reason
}

func reject(reason accounts.Reason) error {
	return &rejection{reason: reason}
}

func (r *rejection) Error() string {
	return r.reason.String()
}
