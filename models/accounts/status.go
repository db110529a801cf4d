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
	"fmt"
	"strings"
)

// Status is the lifecycle status of an account. CLOSED is terminal, while
// ACTIVE and INACTIVE can be switched back and forth.
type Status uint8

// Account statuses. The zero value is deliberately not a valid status.
const (
	StatusActive Status = iota + 1
	StatusInactive
	StatusClosed
)

// DefaultStatus is the status every account is created with.
const DefaultStatus = StatusInactive

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "ACTIVE"
	case StatusInactive:
		return "INACTIVE"
	case StatusClosed:
		return "CLOSED"
	default:
		return fmt.Sprintf("invalid status %d", s)
	}
}

// Valid returns whether the status is one of the known statuses.
func (s Status) Valid() bool {
	return s >= StatusActive && s <= StatusClosed
}

// CanTransition returns whether an account in status s may move to status next.
func (s Status) CanTransition(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return s != StatusClosed || next == StatusClosed
}

// ParseStatus converts the textual representation of a status back into its
// value. Parsing is case-insensitive.
func ParseStatus(text string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "ACTIVE":
		return StatusActive, nil
	case "INACTIVE":
		return StatusInactive, nil
	case "CLOSED":
		return StatusClosed, nil
	default:
		return 0, fmt.Errorf("unknown status (%s)", text)
	}
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("could not marshal %s", s)
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	status, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}
