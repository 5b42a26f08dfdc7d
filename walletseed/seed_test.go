// Copyright (c) 2024 The Hashgrid developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package walletseed

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/hashgrid/hgwallet/errors"
)

// testPhrase is the BIP39 phrase for 256 bits of zero entropy.
const testPhrase = "abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon abandon art"

func TestGenerateMnemonic(t *testing.T) {
	for _, wordCount := range []int{WordCount12, WordCount24} {
		m, err := GenerateMnemonic(wordCount)
		if err != nil {
			t.Fatal(err)
		}
		if got := len(m.Words()); got != wordCount {
			t.Errorf("generated %d words, want %d", got, wordCount)
		}
		// A generated phrase must round-trip through validation.
		if _, err := MnemonicFromString(m.String()); err != nil {
			t.Errorf("generated phrase failed validation: %v", err)
		}
	}

	if _, err := GenerateMnemonic(13); !errors.Is(errors.Invalid, err) {
		t.Errorf("unsupported word count error %v, want invalid kind", err)
	}
}

func TestMnemonicFromString(t *testing.T) {
	m, err := MnemonicFromString(testPhrase)
	if err != nil {
		t.Fatal(err)
	}
	if m.String() != testPhrase {
		t.Fatalf("canonical phrase %q", m.String())
	}

	// Irregular whitespace normalizes to the canonical phrase.
	sloppy := "  " + strings.ReplaceAll(testPhrase, " ", "\t ") + "\n"
	m2, err := MnemonicFromString(sloppy)
	if err != nil {
		t.Fatal(err)
	}
	if m2.String() != testPhrase {
		t.Fatalf("normalized phrase %q", m2.String())
	}

	bad := []string{
		"",
		"   ",
		"notaword " + testPhrase[len("abandon "):],
		// Valid words with a broken checksum.
		strings.Replace(testPhrase, "art", "abandon", 1),
	}
	for _, input := range bad {
		if _, err := MnemonicFromString(input); !errors.Is(errors.Seed, err) {
			t.Errorf("input %q: error %v, want seed kind", input, err)
		}
	}
}

func TestSeed(t *testing.T) {
	m, err := MnemonicFromString(testPhrase)
	if err != nil {
		t.Fatal(err)
	}

	// Golden BIP39 seed for the phrase with an empty passphrase.
	want, _ := hex.DecodeString("408b285c123836004f4b8842c89324c1f013824" +
		"50c0d439af345ba7fc49acf705489c6fc77dbd4e3dc1dd8cc6bc9f043db8ad" +
		"a1e243c4a0eafb290d399480840")
	seed := m.Seed("")
	if !bytes.Equal(seed, want) {
		t.Fatalf("seed %x, want %x", seed, want)
	}

	// The passphrase participates in the derivation.
	if bytes.Equal(m.Seed("other"), want) {
		t.Fatal("passphrase did not alter the derived seed")
	}

	// Determinism.
	if !bytes.Equal(m.Seed("other"), m.Seed("other")) {
		t.Fatal("identical inputs derived different seeds")
	}
}
