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

package accounts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/ledger-accounts/models/accounts"
)

func TestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from accounts.Status
		to   accounts.Status
		want bool
	}{
		{from: accounts.StatusInactive, to: accounts.StatusActive, want: true},
		{from: accounts.StatusActive, to: accounts.StatusInactive, want: true},
		{from: accounts.StatusActive, to: accounts.StatusClosed, want: true},
		{from: accounts.StatusInactive, to: accounts.StatusClosed, want: true},
		{from: accounts.StatusClosed, to: accounts.StatusClosed, want: true},
		{from: accounts.StatusClosed, to: accounts.StatusActive, want: false},
		{from: accounts.StatusClosed, to: accounts.StatusInactive, want: false},
		{from: accounts.StatusActive, to: accounts.Status(0), want: false},
		{from: accounts.Status(9), to: accounts.StatusActive, want: false},
	}

	for _, test := range tests {
		test := test
		t.Run(test.from.String()+" to "+test.to.String(), func(t *testing.T) {
			assert.Equal(t, test.want, test.from.CanTransition(test.to))
		})
	}
}

func TestStatus_Text(t *testing.T) {
	t.Run("nominal case", func(t *testing.T) {
		text, err := accounts.StatusClosed.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, "CLOSED", string(text))

		var status accounts.Status
		err = status.UnmarshalText([]byte(" active"))
		require.NoError(t, err)
		assert.Equal(t, accounts.StatusActive, status)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := accounts.Status(0).MarshalText()
		assert.Error(t, err)

		_, err = accounts.ParseStatus("PENDING")
		assert.Error(t, err)
	})

	t.Run("default status", func(t *testing.T) {
		assert.Equal(t, accounts.StatusInactive, accounts.DefaultStatus)
	})
}
