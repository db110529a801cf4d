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

package index

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/optakt/ledger-accounts/models/accounts"
)

const (
	labelHost   = "host"
	labelStatus = "status"
)

// MetricsWriter wraps an index writer and records metrics for the accounts it writes.
type MetricsWriter struct {
	write accounts.Writer

	accounts *prometheus.CounterVec
	drops    prometheus.Counter
}

// NewMetricsWriter creates a new index writer that counts indexed account
// states on the given registerer.
func NewMetricsWriter(write accounts.Writer, reg prometheus.Registerer) *MetricsWriter {
	factory := promauto.With(reg)

	accountOpts := prometheus.CounterOpts{
		Name: "indexed_accounts",
		Help: "the number of indexed account states",
	}
	accountsIndexed := factory.NewCounterVec(accountOpts, []string{labelHost, labelStatus})

	dropOpts := prometheus.CounterOpts{
		Name: "index_drops",
		Help: "the number of times the index was dropped for a rebuild",
	}
	drops := factory.NewCounter(dropOpts)

	w := MetricsWriter{
		write: write,

		accounts: accountsIndexed,
		drops:    drops,
	}

	return &w
}

// Account indexes the given account state.
func (w *MetricsWriter) Account(account *accounts.Account) error {
	err := w.write.Account(account)
	if err != nil {
		return err
	}
	w.accounts.With(prometheus.Labels{
		labelHost:   account.Host.String(),
		labelStatus: account.Status.String(),
	}).Inc()
	return nil
}

// Drop wipes the index.
func (w *MetricsWriter) Drop() error {
	err := w.write.Drop()
	if err != nil {
		return err
	}
	w.drops.Inc()
	return nil
}
