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

	"github.com/dgraph-io/badger/v2"
	"github.com/google/uuid"

	"github.com/optakt/ledger-accounts/models/accounts"
)

// SaveAccount is an operation that writes the indexed state of an account.
func (l *Library) SaveAccount(account *accounts.Account) func(*badger.Txn) error {
	return l.saveAccount(EncodeKey(PrefixAccount, account.Identifier), account)
}

// RetrieveAccount retrieves the indexed state of the account with the given identifier.
func (l *Library) RetrieveAccount(id uuid.UUID, account *accounts.Account) func(*badger.Txn) error {
	return l.retrieveAccount(EncodeKey(PrefixAccount, id), account)
}

// IndexHostName is an operation that maps a host and name to an account identifier.
func (l *Library) IndexHostName(host accounts.Party, name string, id uuid.UUID) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixHostName, host, name), id)
}

// LookupHostName retrieves the identifier mapped to the given host and name.
func (l *Library) LookupHostName(host accounts.Party, name string, id *uuid.UUID) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixHostName, host, name), id)
}

// RemoveHostName is an operation that removes the mapping of a host and name.
func (l *Library) RemoveHostName(host accounts.Party, name string) func(*badger.Txn) error {
	return l.remove(EncodeKey(PrefixHostName, host, name))
}

// IndexName is an operation that indexes an account identifier under its name.
func (l *Library) IndexName(name string, id uuid.UUID) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixName, name, id), nil)
}

// RemoveName is an operation that removes an account identifier from a name.
func (l *Library) RemoveName(name string, id uuid.UUID) func(*badger.Txn) error {
	return l.remove(EncodeKey(PrefixName, name, id))
}

// LookupName retrieves the identifiers of all accounts with exactly the given name.
func (l *Library) LookupName(name string, ids *[]uuid.UUID) func(*badger.Txn) error {
	return l.identifiers(EncodeKey(PrefixName, name), ids)
}

// SearchName retrieves the identifiers of all accounts with a name starting
// with the given prefix.
func (l *Library) SearchName(prefix string, ids *[]uuid.UUID) func(*badger.Txn) error {
	return l.identifiers(EncodeKey(PrefixName, []byte(prefix)), ids)
}

// IndexNumber is an operation that indexes an account identifier under its account number.
func (l *Library) IndexNumber(number string, id uuid.UUID) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixNumber, number, id), nil)
}

// RemoveNumber is an operation that removes an account identifier from an account number.
func (l *Library) RemoveNumber(number string, id uuid.UUID) func(*badger.Txn) error {
	return l.remove(EncodeKey(PrefixNumber, number, id))
}

// LookupNumber retrieves the identifiers of all accounts with the given account number.
func (l *Library) LookupNumber(number string, ids *[]uuid.UUID) func(*badger.Txn) error {
	return l.identifiers(EncodeKey(PrefixNumber, number), ids)
}

// SaveSequence is an operation that writes the sequence number of the last ledger record.
func (l *Library) SaveSequence(sequence uint64) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixSequence), sequence)
}

// RetrieveSequence retrieves the sequence number of the last ledger record.
func (l *Library) RetrieveSequence(sequence *uint64) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixSequence), sequence)
}

// SaveRecord is an operation that appends a record to the ledger log. It
// returns the checksum of the encoded record through the given pointer, so
// that the next state of the account can link to it.
func (l *Library) SaveRecord(record *accounts.Record, checksum *uint64) func(*badger.Txn) error {
	key := EncodeKey(PrefixRecord, record.Sequence)
	val, err := l.EncodeRecord(record)
	return func(tx *badger.Txn) error {
		if err != nil {
			return fmt.Errorf("could not encode record (sequence: %d): %w", record.Sequence, err)
		}

		err = tx.Set(key, val)
		if err != nil {
			return fmt.Errorf("could not set record (sequence: %d): %w", record.Sequence, err)
		}

		*checksum = Checksum(val)
		return nil
	}
}

// RetrieveRecord retrieves the ledger record with the given sequence number,
// along with the checksum of its encoding.
func (l *Library) RetrieveRecord(sequence uint64, record *accounts.Record, checksum *uint64) func(*badger.Txn) error {
	key := EncodeKey(PrefixRecord, sequence)
	return func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if err != nil {
			return fmt.Errorf("could not get record (sequence: %d): %w", sequence, err)
		}

		err = item.Value(func(val []byte) error {
			*checksum = Checksum(val)
			return l.DecodeRecord(val, record)
		})
		if err != nil {
			return fmt.Errorf("could not decode record (sequence: %d): %w", sequence, err)
		}

		return nil
	}
}

// IterateRecords goes through the ledger log in sequence order, starting at
// the given sequence number, until the callback returns an error.
func (l *Library) IterateRecords(from uint64, process func(*accounts.Record) error) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		prefix := EncodeKey(PrefixRecord)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(EncodeKey(PrefixRecord, from)); it.ValidForPrefix(prefix); it.Next() {
			var record accounts.Record
			err := it.Item().Value(func(val []byte) error {
				return l.DecodeRecord(val, &record)
			})
			if err != nil {
				return fmt.Errorf("could not decode record (key: %x): %w", it.Item().Key(), err)
			}

			err = process(&record)
			if err != nil {
				return err
			}
		}

		return nil
	}
}

// IndexLatest is an operation that points an account identifier to the
// sequence number of its latest state.
func (l *Library) IndexLatest(id uuid.UUID, sequence uint64) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixLatest, id), sequence)
}

// LookupLatest retrieves the sequence number of the latest state of an account.
func (l *Library) LookupLatest(id uuid.UUID, sequence *uint64) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixLatest, id), sequence)
}

// IndexVersion is an operation that maps a version of an account to the
// sequence number of the record holding it.
func (l *Library) IndexVersion(id uuid.UUID, version uint64, sequence uint64) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixVersion, id, version), sequence)
}

// LookupVersions retrieves the sequence numbers of all versions of an
// account, ordered by version.
func (l *Library) LookupVersions(id uuid.UUID, sequences *[]uint64) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		prefix := EncodeKey(PrefixVersion, id)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var sequence uint64
			err := it.Item().Value(func(val []byte) error {
				return l.codec.Unmarshal(val, &sequence)
			})
			if err != nil {
				return fmt.Errorf("could not decode version (key: %x): %w", it.Item().Key(), err)
			}
			*sequences = append(*sequences, sequence)
		}

		return nil
	}
}

// IndexOpenName is an operation that reserves a name on a host for an open account.
func (l *Library) IndexOpenName(host accounts.Party, name string, id uuid.UUID) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixOpenName, host, name), id)
}

// LookupOpenName retrieves the open account holding a name on a host.
func (l *Library) LookupOpenName(host accounts.Party, name string, id *uuid.UUID) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixOpenName, host, name), id)
}

// RemoveOpenName is an operation that releases a name on a host.
func (l *Library) RemoveOpenName(host accounts.Party, name string) func(*badger.Txn) error {
	return l.remove(EncodeKey(PrefixOpenName, host, name))
}

// IndexHostNumber is an operation that reserves an account number on a host.
func (l *Library) IndexHostNumber(host accounts.Party, number string, id uuid.UUID) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixHostNumber, host, number), id)
}

// LookupHostNumber retrieves the account holding an account number on a host.
func (l *Library) LookupHostNumber(host accounts.Party, number string, id *uuid.UUID) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixHostNumber, host, number), id)
}

// RemoveHostNumber is an operation that releases an account number on a host.
func (l *Library) RemoveHostNumber(host accounts.Party, number string) func(*badger.Txn) error {
	return l.remove(EncodeKey(PrefixHostNumber, host, number))
}

// SaveMember is an operation that binds a party to its public key.
func (l *Library) SaveMember(party accounts.Party, key []byte) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixMember, party), key)
}

// RetrieveMember retrieves the public key bound to a party.
func (l *Library) RetrieveMember(party accounts.Party, key *[]byte) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixMember, party), key)
}

// SaveNotaries is an operation that writes the ordered list of notaries.
func (l *Library) SaveNotaries(notaries []accounts.Party) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixNotary), notaries)
}

// RetrieveNotaries retrieves the ordered list of notaries.
func (l *Library) RetrieveNotaries(notaries *[]accounts.Party) func(*badger.Txn) error {
	return l.retrieve(EncodeKey(PrefixNotary), notaries)
}

// IndexDisclosure is an operation that records that an account was disclosed to a party.
func (l *Library) IndexDisclosure(party accounts.Party, id uuid.UUID) func(*badger.Txn) error {
	return l.save(EncodeKey(PrefixDisclosure, party, id), nil)
}

// CheckDisclosure checks whether an account was disclosed to a party.
func (l *Library) CheckDisclosure(party accounts.Party, id uuid.UUID, disclosed *bool) func(*badger.Txn) error {
	return l.exists(EncodeKey(PrefixDisclosure, party, id), disclosed)
}

// LookupDisclosures retrieves the identifiers of all accounts disclosed to a party.
func (l *Library) LookupDisclosures(party accounts.Party, ids *[]uuid.UUID) func(*badger.Txn) error {
	return l.identifiers(EncodeKey(PrefixDisclosure, party), ids)
}
