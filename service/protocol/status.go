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

import "fmt"

// Status is a representation of the state machine's status.
type Status uint8

// The following is an enumeration of all possible statuses a change can have
// while going through the protocol.
const (
	StatusValidating Status = iota + 1
	StatusProposed
	StatusCommitting
	StatusCommitted
	StatusRejected
	StatusFailed
)

// String implements the Stringer interface.
func (s Status) String() string {
	switch s {
	case StatusValidating:
		return "validating"
	case StatusProposed:
		return "proposed"
	case StatusCommitting:
		return "committing"
	case StatusCommitted:
		return "committed"
	case StatusRejected:
		return "rejected"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("invalid status %d", s)
	}
}

// Final returns whether the status ends the protocol.
func (s Status) Final() bool {
	return s == StatusCommitted || s == StatusRejected || s == StatusFailed
}
