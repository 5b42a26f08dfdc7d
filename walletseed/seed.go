// Copyright (c) 2024 The Hashgrid developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package walletseed provides the BIP39 mnemonic phrase type used to back up
// and restore wallet keys.
package walletseed

import (
	"strings"

	"github.com/tyler-smith/go-bip39"

	"github.com/hashgrid/hgwallet/errors"
)

// Mnemonic word counts supported for new phrases.  24 words encode 256 bits
// of entropy and is the default for generated wallets.
const (
	WordCount12 = 12
	WordCount24 = 24
)

// Mnemonic is a validated BIP39 mnemonic phrase.  The zero value is not
// usable; construct one with GenerateMnemonic or MnemonicFromString.
type Mnemonic struct {
	phrase string
}

// GenerateMnemonic creates a new random mnemonic of the given word count
// using the system entropy source.  Entropy failure is surfaced as an error
// and never substituted with a weaker source.
func GenerateMnemonic(wordCount int) (*Mnemonic, error) {
	const op errors.Op = "walletseed.GenerateMnemonic"
	var bits int
	switch wordCount {
	case WordCount12:
		bits = 128
	case WordCount24:
		bits = 256
	default:
		return nil, errors.E(op, errors.Invalid,
			errors.Errorf("unsupported word count %d", wordCount))
	}
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return nil, errors.E(op, err)
	}
	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return &Mnemonic{phrase: phrase}, nil
}

// MnemonicFromString parses and validates a user-provided mnemonic phrase.
// Word separation is normalized to single spaces before the word-list and
// checksum validation, so phrases copied with irregular whitespace are
// accepted.
func MnemonicFromString(input string) (*Mnemonic, error) {
	const op errors.Op = "walletseed.MnemonicFromString"
	phrase := strings.Join(strings.Fields(input), " ")
	if phrase == "" {
		return nil, errors.E(op, errors.Seed, "empty mnemonic")
	}
	if !bip39.IsMnemonicValid(phrase) {
		return nil, errors.E(op, errors.Seed, "invalid mnemonic phrase")
	}
	return &Mnemonic{phrase: phrase}, nil
}

// String returns the canonical space-joined phrase.
func (m *Mnemonic) String() string {
	return m.phrase
}

// Words returns the individual phrase words.
func (m *Mnemonic) Words() []string {
	return strings.Split(m.phrase, " ")
}

// Seed derives the 64-byte BIP39 seed for the phrase and passphrase:
// PBKDF2-HMAC-SHA512 with 2048 iterations and the salt "mnemonic" followed
// by the passphrase.  An empty passphrase is valid and still participates in
// the derivation.
func (m *Mnemonic) Seed(passphrase string) []byte {
	return bip39.NewSeed(m.phrase, passphrase)
}
