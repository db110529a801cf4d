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
	"time"

	"github.com/google/uuid"
)

// DefaultConfig is the default configuration of the registry.
var DefaultConfig = Config{
	Clock: time.Now,
}

// Config contains optional parameters for the registry.
type Config struct {
	Clock func() time.Time
}

// WithClock sets the clock used to date new accounts.
func WithClock(clock func() time.Time) func(*Config) {
	return func(cfg *Config) {
		cfg.Clock = clock
	}
}

// CreateOption is an option for the creation of a single account.
type CreateOption func(*createConfig)

type createConfig struct {
	identifier uuid.UUID
	explicit   bool
}

// WithIdentifier creates the account with the given identifier instead of a
// random one. Retrying a creation with the same identifier and the same data
// returns the account created by the first attempt.
func WithIdentifier(id uuid.UUID) CreateOption {
	return func(cfg *createConfig) {
		cfg.identifier = id
		cfg.explicit = true
	}
}
