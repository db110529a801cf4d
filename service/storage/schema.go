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

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/optakt/ledger-accounts/models/accounts"
)

// Schema is the version of the layout used to persist accounts and records.
// It is stored as the first byte of every persisted value.
type Schema uint8

// Supported schema versions.
const (
	SchemaV1 Schema = 1
)

// CurrentSchema is the schema used for every new write.
const CurrentSchema = SchemaV1

type profileV1 struct {
	FirstName     *string `cbor:"1,keyasint,omitempty"`
	LastName      *string `cbor:"2,keyasint,omitempty"`
	DisplayName   *string `cbor:"3,keyasint,omitempty"`
	Phone         *string `cbor:"4,keyasint,omitempty"`
	Email         *string `cbor:"5,keyasint,omitempty"`
	PasswordHash  *string `cbor:"6,keyasint,omitempty"`
	AccountNumber *string `cbor:"7,keyasint,omitempty"`
	AuthID        *uint32 `cbor:"8,keyasint,omitempty"`
	ValidEmail    *bool   `cbor:"9,keyasint,omitempty"`
	ValidPhone    *bool   `cbor:"10,keyasint,omitempty"`
}

type accountV1 struct {
	Identifier []byte    `cbor:"1,keyasint"`
	Name       string    `cbor:"2,keyasint"`
	Host       string    `cbor:"3,keyasint"`
	Status     uint8     `cbor:"4,keyasint"`
	Profile    profileV1 `cbor:"5,keyasint"`
	CreateDate time.Time `cbor:"6,keyasint"`
	Version    uint64    `cbor:"7,keyasint"`
}

type recordV1 struct {
	Sequence uint64    `cbor:"1,keyasint"`
	Command  uint8     `cbor:"2,keyasint"`
	Signer   string    `cbor:"3,keyasint"`
	Notary   string    `cbor:"4,keyasint"`
	Previous uint64    `cbor:"5,keyasint"`
	Account  accountV1 `cbor:"6,keyasint"`
}

func fromAccount(account *accounts.Account) accountV1 {
	p := account.Profile.Clone()
	return accountV1{
		Identifier: account.Identifier[:],
		Name:       account.Name,
		Host:       string(account.Host),
		Status:     uint8(account.Status),
		Profile: profileV1{
			FirstName:     p.FirstName,
			LastName:      p.LastName,
			DisplayName:   p.DisplayName,
			Phone:         p.Phone,
			Email:         p.Email,
			PasswordHash:  p.PasswordHash,
			AccountNumber: p.AccountNumber,
			AuthID:        p.AuthID,
			ValidEmail:    p.ValidEmail,
			ValidPhone:    p.ValidPhone,
		},
		CreateDate: account.CreateDate.UTC(),
		Version:    account.Version,
	}
}

func (a accountV1) toAccount() (accounts.Account, error) {
	id, err := uuid.FromBytes(a.Identifier)
	if err != nil {
		return accounts.Account{}, fmt.Errorf("invalid identifier: %w", err)
	}
	status := accounts.Status(a.Status)
	if !status.Valid() {
		return accounts.Account{}, fmt.Errorf("invalid status (%d)", a.Status)
	}
	account := accounts.Account{
		Identifier: id,
		Name:       a.Name,
		Host:       accounts.Party(a.Host),
		Status:     status,
		Profile: accounts.Profile{
			FirstName:     a.Profile.FirstName,
			LastName:      a.Profile.LastName,
			DisplayName:   a.Profile.DisplayName,
			Phone:         a.Profile.Phone,
			Email:         a.Profile.Email,
			PasswordHash:  a.Profile.PasswordHash,
			AccountNumber: a.Profile.AccountNumber,
			AuthID:        a.Profile.AuthID,
			ValidEmail:    a.Profile.ValidEmail,
			ValidPhone:    a.Profile.ValidPhone,
		},
		CreateDate: a.CreateDate.UTC(),
		Version:    a.Version,
	}
	return account, nil
}

// EncodeAccount encodes an account with the current schema.
func (l *Library) EncodeAccount(account *accounts.Account) ([]byte, error) {
	data, err := l.codec.Marshal(fromAccount(account))
	if err != nil {
		return nil, fmt.Errorf("could not encode account: %w", err)
	}
	return append([]byte{byte(CurrentSchema)}, data...), nil
}

// DecodeAccount decodes an account, selecting the layout with the schema byte.
func (l *Library) DecodeAccount(val []byte, account *accounts.Account) error {
	if len(val) == 0 {
		return fmt.Errorf("%w: empty value", accounts.ErrUnknownSchema)
	}

	switch Schema(val[0]) {
	case SchemaV1:
		var v1 accountV1
		err := l.codec.Unmarshal(val[1:], &v1)
		if err != nil {
			return fmt.Errorf("could not decode account: %w", err)
		}
		decoded, err := v1.toAccount()
		if err != nil {
			return fmt.Errorf("could not convert account: %w", err)
		}
		*account = decoded
		return nil

	default:
		return fmt.Errorf("%w: account schema %d", accounts.ErrUnknownSchema, val[0])
	}
}

// EncodeRecord encodes a ledger record with the current schema.
func (l *Library) EncodeRecord(record *accounts.Record) ([]byte, error) {
	v1 := recordV1{
		Sequence: record.Sequence,
		Command:  uint8(record.Command),
		Signer:   string(record.Signer),
		Notary:   string(record.Notary),
		Previous: record.Previous,
		Account:  fromAccount(&record.Account),
	}
	data, err := l.codec.Marshal(v1)
	if err != nil {
		return nil, fmt.Errorf("could not encode record: %w", err)
	}
	return append([]byte{byte(CurrentSchema)}, data...), nil
}

// DecodeRecord decodes a ledger record, selecting the layout with the schema byte.
func (l *Library) DecodeRecord(val []byte, record *accounts.Record) error {
	if len(val) == 0 {
		return fmt.Errorf("%w: empty value", accounts.ErrUnknownSchema)
	}

	switch Schema(val[0]) {
	case SchemaV1:
		var v1 recordV1
		err := l.codec.Unmarshal(val[1:], &v1)
		if err != nil {
			return fmt.Errorf("could not decode record: %w", err)
		}
		account, err := v1.Account.toAccount()
		if err != nil {
			return fmt.Errorf("could not convert record account: %w", err)
		}
		*record = accounts.Record{
			Sequence: v1.Sequence,
			Command:  accounts.Command(v1.Command),
			Signer:   accounts.Party(v1.Signer),
			Notary:   accounts.Party(v1.Notary),
			Previous: v1.Previous,
			Account:  account,
		}
		return nil

	default:
		return fmt.Errorf("%w: record schema %d", accounts.ErrUnknownSchema, val[0])
	}
}
