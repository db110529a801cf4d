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

// Record is one entry of the ledger's append-only log. Previous holds the
// checksum of the record that the account state supersedes, or zero for the
// first state of an account.
type Record struct {
	Sequence uint64
	Command  Command
	Signer   Party
	Notary   Party
	Previous uint64
	Account  Account
}
