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
	"encoding/binary"
	"fmt"

	"github.com/OneOfOne/xxhash"
	"github.com/google/uuid"

	"github.com/optakt/ledger-accounts/models/accounts"
)

// separator terminates variable-length segments, so that a name can never be
// mistaken for the prefix of a longer name.
const separator = 0x00

// EncodeKey builds a database key from a prefix and a list of segments.
// Strings and parties are terminated by a separator; raw byte slices are
// appended as-is, which allows building prefixes for iteration.
func EncodeKey(prefix uint8, segments ...interface{}) []byte {
	key := []byte{prefix}
	var val []byte
	for _, segment := range segments {
		switch s := segment.(type) {
		case uint64:
			val = make([]byte, 8)
			binary.BigEndian.PutUint64(val, s)
		case uuid.UUID:
			val = make([]byte, 16)
			copy(val, s[:])
		case string:
			val = make([]byte, 0, len(s)+1)
			val = append(val, s...)
			val = append(val, separator)
		case accounts.Party:
			val = make([]byte, 0, len(s)+1)
			val = append(val, s...)
			val = append(val, separator)
		case []byte:
			val = make([]byte, len(s))
			copy(val, s)
		default:
			panic(fmt.Sprintf("unknown type (%T)", segment))
		}
		key = append(key, val...)
	}

	return key
}

// decodeIdentifier reads the identifier stored in the last 16 bytes of a key.
func decodeIdentifier(key []byte) (uuid.UUID, error) {
	if len(key) < 17 {
		return uuid.Nil, fmt.Errorf("key too short for identifier (length: %d)", len(key))
	}
	return uuid.FromBytes(key[len(key)-16:])
}

// Checksum returns the checksum used to link an account state to the
// encoded record of its predecessor.
func Checksum(val []byte) uint64 {
	return xxhash.Checksum64(val)
}
