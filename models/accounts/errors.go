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
	"errors"
)

// Sentinel errors.
var (
	ErrDuplicateName          = errors.New("duplicate account name for host")
	ErrDuplicateIdentifier    = errors.New("duplicate account identifier")
	ErrDuplicateAccountNumber = errors.New("duplicate account number")
	ErrNotFound               = errors.New("account not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrAlreadyClosed          = errors.New("account already closed")
	ErrValidation             = errors.New("validation failed")
	ErrCommitFailure          = errors.New("commit failed")
	ErrUnknownSchema          = errors.New("unknown schema version")
)
