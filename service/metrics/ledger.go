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

package metrics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/optakt/ledger-accounts/models/accounts"
)

// Ledger wraps a ledger and records metrics about the changes submitted to it.
type Ledger struct {
	accounts.Ledger

	submissions *prometheus.CounterVec
	duration    prometheus.Histogram
	disclosures prometheus.Counter
}

func NewLedger(ledger accounts.Ledger, reg prometheus.Registerer) *Ledger {

	factory := promauto.With(reg)

	submissions := factory.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_submissions_total",
		Help: "number of changes submitted to the ledger, by command, outcome and reason",
	}, []string{"command", "outcome", "reason"})

	duration := factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_submission_seconds",
		Help:    "time taken by the ledger to decide on a change",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	disclosures := factory.NewCounter(prometheus.CounterOpts{
		Name: "ledger_disclosures_total",
		Help: "number of accounts disclosed to other participants",
	})

	l := Ledger{
		Ledger:      ledger,
		submissions: submissions,
		duration:    duration,
		disclosures: disclosures,
	}

	return &l
}

func (l *Ledger) Submit(ctx context.Context, change accounts.Change) (accounts.Result, error) {
	start := time.Now()
	result, err := l.Ledger.Submit(ctx, change)
	l.duration.Observe(time.Since(start).Seconds())

	outcome, reason := "error", ""
	if err == nil {
		outcome = result.Outcome.String()
		if result.Outcome == accounts.OutcomeFailed {
			reason = result.Reason.String()
		}
	}
	l.submissions.WithLabelValues(change.Command.String(), outcome, reason).Inc()

	return result, err
}

func (l *Ledger) Disclose(ctx context.Context, id uuid.UUID, party accounts.Party) error {
	err := l.Ledger.Disclose(ctx, id, party)
	if err != nil {
		return err
	}
	l.disclosures.Inc()
	return nil
}
