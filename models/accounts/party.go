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
	"crypto/ed25519"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	maxNameLength  = 128
	maxPartyLength = 255
)

// Party is the name of a network participant. Each party is bound to exactly
// one signing key, which is registered with the ledger.
type Party string

func (p Party) String() string {
	return string(p)
}

// Signer holds the signing capability of a party.
type Signer interface {
	Party() Party
	Sign(message []byte) ([]byte, error)
}

// KeySigner signs messages with the ed25519 key of a party.
type KeySigner struct {
	party Party
	key   ed25519.PrivateKey
}

// NewSigner returns a signer for the given party and private key.
func NewSigner(party Party, key ed25519.PrivateKey) *KeySigner {

	s := KeySigner{
		party: party,
		key:   key,
	}

	return &s
}

func (s *KeySigner) Party() Party {
	return s.party
}

// PublicKey returns the public key that verifies signatures of this signer.
func (s *KeySigner) PublicKey() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

func (s *KeySigner) Sign(message []byte) ([]byte, error) {
	if len(s.key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("invalid private key length (%d)", len(s.key))
	}
	return ed25519.Sign(s.key, message), nil
}

// NormalizeName trims and normalizes an account name to Unicode NFC and checks
// that it is usable as an index key.
func NormalizeName(name string) (string, error) {
	normalized := norm.NFC.String(strings.TrimSpace(name))
	err := checkText(normalized, maxNameLength)
	if err != nil {
		return "", fmt.Errorf("%w: invalid name: %s", ErrValidation, err)
	}
	return normalized, nil
}

// NormalizeParty applies the same rules as NormalizeName to a party name.
func NormalizeParty(party Party) (Party, error) {
	normalized := norm.NFC.String(strings.TrimSpace(string(party)))
	err := checkText(normalized, maxPartyLength)
	if err != nil {
		return "", fmt.Errorf("%w: invalid party: %s", ErrValidation, err)
	}
	return Party(normalized), nil
}

func checkText(text string, max int) error {
	if text == "" {
		return fmt.Errorf("must not be empty")
	}
	length := len([]rune(text))
	if length > max {
		return fmt.Errorf("must be at most %d characters (have: %d)", max, length)
	}
	for _, r := range text {
		if unicode.IsControl(r) {
			return fmt.Errorf("must not contain control characters")
		}
	}
	return nil
}
