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

package storage

// Index prefixes.
const (
	PrefixAccount  = 1
	PrefixHostName = 2
	PrefixName     = 3
	PrefixNumber   = 4
)

// Ledger prefixes.
const (
	PrefixSequence = 10
	PrefixRecord   = 11
	PrefixLatest   = 12
	PrefixVersion  = 13

	PrefixOpenName   = 14
	PrefixHostNumber = 15

	PrefixMember     = 16
	PrefixNotary     = 17
	PrefixDisclosure = 18
)
