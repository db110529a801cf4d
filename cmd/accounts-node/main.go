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

package main

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/optakt/ledger-accounts/api/rest"
	"github.com/optakt/ledger-accounts/codec/zbor"
	"github.com/optakt/ledger-accounts/engine"
	"github.com/optakt/ledger-accounts/models/accounts"
	"github.com/optakt/ledger-accounts/service/index"
	"github.com/optakt/ledger-accounts/service/ledger"
	"github.com/optakt/ledger-accounts/service/metrics"
	"github.com/optakt/ledger-accounts/service/network"
	"github.com/optakt/ledger-accounts/service/protocol"
	"github.com/optakt/ledger-accounts/service/registry"
	"github.com/optakt/ledger-accounts/service/storage"
)

const (
	success = 0
	failure = 1
)

func main() {
	os.Exit(run())
}

func run() int {

	// Signal catching for clean shutdown.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	// Command line parameter initialization.
	var (
		flagAPI          string
		flagData         string
		flagLevel        string
		flagMetrics      string
		flagNotary       string
		flagParticipants []string
		flagRebuild      bool
	)

	pflag.StringVarP(&flagAPI, "api", "a", ":8080", "address to serve the REST API on")
	pflag.StringVarP(&flagData, "data", "d", "data", "directory for the ledger and index databases")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagMetrics, "metrics", "m", ":9090", "address to serve Prometheus metrics on")
	pflag.StringVarP(&flagNotary, "notary", "n", "Notary", "name of the notary of the ledger")
	pflag.StringSliceVarP(&flagParticipants, "participants", "p", []string{"NodeA", "NodeB"}, "names of the participants hosted by this node")
	pflag.BoolVarP(&flagRebuild, "rebuild", "r", false, "rebuild the participant indexes from the ledger on startup")

	pflag.Parse()

	// Logger initialization.
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	level, err := zerolog.ParseLevel(flagLevel)
	if err != nil {
		log.Error().Str("level", flagLevel).Err(err).Msg("could not parse log level")
		return failure
	}
	log = log.Level(level)

	// Metrics initialization.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	err = metrics.RegisterBadgerMetrics(reg)
	if err != nil {
		log.Error().Err(err).Msg("could not register badger metrics")
		return failure
	}

	// Ledger substrate initialization.
	var dbs []*badger.DB
	defer func() {
		err := closeAll(dbs)
		if err != nil {
			log.Error().Err(err).Msg("could not close databases")
		}
	}()

	ledgerDir := filepath.Join(flagData, "ledger")
	ledgerDB, err := badger.Open(accounts.DefaultOptions(ledgerDir))
	if err != nil {
		log.Error().Str("ledger", ledgerDir).Err(err).Msg("could not open ledger database")
		return failure
	}
	dbs = append(dbs, ledgerDB)

	codec := zbor.NewCodec()
	lib := storage.New(codec)
	substrate := ledger.New(log, ledgerDB, lib)
	err = substrate.AddNotary(accounts.Party(flagNotary))
	if err != nil {
		log.Error().Str("notary", flagNotary).Err(err).Msg("could not add notary")
		return failure
	}
	measured := metrics.NewLedger(substrate, reg)

	// Participant initialization. Every participant gets its own signing key,
	// index and registry, and joins the same in-process network.
	net := network.NewMemory(log)
	validate := validator.New()
	registries := make(map[accounts.Party]rest.Registry, len(flagParticipants))
	participants := make([]*registry.Registry, 0, len(flagParticipants))
	for _, name := range flagParticipants {
		party, err := accounts.NormalizeParty(accounts.Party(name))
		if err != nil {
			log.Error().Str("participant", name).Err(err).Msg("invalid participant name")
			return failure
		}

		key, err := loadKey(filepath.Join(flagData, "keys"), party)
		if err != nil {
			log.Error().Str("participant", party.String()).Err(err).Msg("could not load signing key")
			return failure
		}
		signer := accounts.NewSigner(party, key)
		err = substrate.Register(party, signer.PublicKey())
		if err != nil {
			log.Error().Str("participant", party.String()).Err(err).Msg("could not register participant")
			return failure
		}

		indexDir := filepath.Join(flagData, "index", party.String())
		indexDB, err := badger.Open(accounts.DefaultOptions(indexDir))
		if err != nil {
			log.Error().Str("index", indexDir).Err(err).Msg("could not open index database")
			return failure
		}
		dbs = append(dbs, indexDB)

		read := index.NewReader(indexDB, lib)
		write := index.NewMetricsWriter(
			index.NewWriter(indexDB, lib),
			prometheus.WrapRegistererWith(prometheus.Labels{"participant": party.String()}, reg),
		)

		transitions := protocol.NewTransitions(log, signer, read, write, measured, validate)
		fsm := protocol.NewFSM(
			protocol.WithTransition(protocol.StatusValidating, transitions.ValidateChange),
			protocol.WithTransition(protocol.StatusProposed, transitions.ProposeChange),
			protocol.WithTransition(protocol.StatusCommitting, transitions.CommitChange),
		)

		participant := registry.New(log, signer, read, write, measured, net, fsm)
		net.Connect(party, participant)
		registries[party] = participant
		participants = append(participants, participant)
	}

	if flagRebuild {
		for _, participant := range participants {
			err := participant.Rebuild(context.Background())
			if err != nil {
				log.Error().Str("participant", participant.Party().String()).Err(err).Msg("could not rebuild index")
				return failure
			}
		}
	}

	// Server initialization.
	api := rest.NewServer(log, flagAPI, rest.NewController(registries, validate))
	mon := metrics.NewServer(log, flagMetrics, reg)

	stop := func(shutdown func(context.Context) error) func() error {
		return func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return shutdown(ctx)
		}
	}

	// This section launches the servers as engine components and waits for
	// an interrupt signal or for one of them to stop. Afterwards, all of them
	// are shut down within the allocated shutdown time.
	e := engine.New(log, "accounts_node", sig).
		Component("rest_server", api.Start, stop(api.Stop)).
		Component("metrics_server", mon.Start, stop(mon.Stop))

	err = e.Run()
	if err != nil {
		log.Error().Err(err).Msg("accounts node aborted")
	}

	stopErr := e.Stop()
	if stopErr != nil {
		log.Error().Err(stopErr).Msg("could not stop accounts node")
		return failure
	}
	if err != nil {
		return failure
	}

	return success
}

func closeAll(dbs []*badger.DB) error {
	var errs error
	for _, db := range dbs {
		err := db.Close()
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("could not close database: %w", err))
		}
	}
	return errs
}

// loadKey reads the signing key seed of a participant, or creates it on first
// start. The ledger binds each participant to a single key, so the key has to
// survive restarts.
func loadKey(dir string, party accounts.Party) (ed25519.PrivateKey, error) {
	path := filepath.Join(dir, party.String()+".seed")
	seed, err := os.ReadFile(path)
	if err == nil {
		if len(seed) != ed25519.SeedSize {
			return nil, fmt.Errorf("invalid seed length (path: %s, length: %d)", path, len(seed))
		}
		return ed25519.NewKeyFromSeed(seed), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not read seed: %w", err)
	}

	_, key, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("could not generate key: %w", err)
	}
	err = os.MkdirAll(dir, 0o700)
	if err != nil {
		return nil, fmt.Errorf("could not create key directory: %w", err)
	}
	err = os.WriteFile(path, key.Seed(), 0o600)
	if err != nil {
		return nil, fmt.Errorf("could not write seed: %w", err)
	}
	return key, nil
}
