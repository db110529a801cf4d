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

package metrics_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optakt/ledger-accounts/models/accounts"
	"github.com/optakt/ledger-accounts/service/metrics"
	"github.com/optakt/ledger-accounts/testing/mocks"
)

func TestLedger_Submit(t *testing.T) {
	change := accounts.Change{
		Command: accounts.CommandCreate,
		Account: *mocks.GenericAccount(0),
	}

	t.Run("counts outcomes", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		ledger := mocks.BaselineLedger(t)
		calls := 0
		ledger.SubmitFunc = func(context.Context, accounts.Change) (accounts.Result, error) {
			calls++
			if calls == 1 {
				return accounts.Result{Outcome: accounts.OutcomeCommitted}, nil
			}
			return accounts.Result{Outcome: accounts.OutcomeFailed, Reason: accounts.ReasonNameTaken}, nil
		}
		wrapped := metrics.NewLedger(ledger, reg)

		for i := 0; i < 3; i++ {
			_, err := wrapped.Submit(context.Background(), change)
			require.NoError(t, err)
		}

		series, err := testutil.GatherAndCount(reg, "ledger_submissions_total")
		require.NoError(t, err)
		assert.Equal(t, 2, series)
		assert.Equal(t, 3.0, counterValue(t, reg, "ledger_submissions_total"))
		series, err = testutil.GatherAndCount(reg, "ledger_submission_seconds")
		require.NoError(t, err)
		assert.Equal(t, 1, series)
	})

	t.Run("counts errors and passes them through", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		ledger := mocks.BaselineLedger(t)
		ledger.SubmitFunc = func(context.Context, accounts.Change) (accounts.Result, error) {
			return accounts.Result{}, mocks.GenericError
		}
		wrapped := metrics.NewLedger(ledger, reg)

		_, err := wrapped.Submit(context.Background(), change)

		assert.ErrorIs(t, err, mocks.GenericError)
		series, err := testutil.GatherAndCount(reg, "ledger_submissions_total")
		require.NoError(t, err)
		assert.Equal(t, 1, series)
	})
}

func TestLedger_Disclose(t *testing.T) {
	reg := prometheus.NewRegistry()
	ledger := mocks.BaselineLedger(t)
	wrapped := metrics.NewLedger(ledger, reg)

	err := wrapped.Disclose(context.Background(), mocks.GenericIdentifier(0), mocks.GenericPeer)
	require.NoError(t, err)

	ledger.DiscloseFunc = func(context.Context, uuid.UUID, accounts.Party) error {
		return mocks.GenericError
	}
	err = wrapped.Disclose(context.Background(), mocks.GenericIdentifier(0), mocks.GenericPeer)
	assert.ErrorIs(t, err, mocks.GenericError)

	assert.Equal(t, 1.0, counterValue(t, reg, "ledger_disclosures_total"))

	latest, err := wrapped.Latest(mocks.GenericIdentifier(0))
	require.NoError(t, err)
	assert.Equal(t, mocks.GenericAccount(0), latest)
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		total := 0.0
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		return total
	}

	t.Fatalf("metric %s not found", name)
	return 0
}
