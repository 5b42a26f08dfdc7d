// Copyright (c) 2024 The Hashgrid developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keys

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/hashgrid/hgwallet/errors"
	"github.com/hashgrid/hgwallet/hdkeychain"
	"github.com/hashgrid/hgwallet/walletseed"
)

// testSeedHex is the hex encoding of the bytes 0x00 through 0x1f.
const testSeedHex = "000102030405060708090a0b0c0d0e0f" +
	"101112131415161718191a1b1c1d1e1f"

func hexBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestPrivateKeyFromBytes(t *testing.T) {
	seed := hexBytes(t, testSeedHex)

	key, err := PrivateKeyFromBytes(seed)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(key.Serialize(), seed) {
		t.Fatal("serialized seed differs from input")
	}
	if key.SupportsDerivation() {
		t.Fatal("raw-bytes key reports derivation support")
	}

	// 64-byte form: seed followed by a caller-supplied public key, which
	// is trusted as-is.
	pub := key.PublicKey().Serialize()
	key64, err := PrivateKeyFromBytes(append(key.Serialize(), pub...))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(key64.Serialize(), seed) {
		t.Fatal("64-byte form serialized seed differs from input")
	}
	if !bytes.Equal(key64.PublicKey().Serialize(), pub) {
		t.Fatal("64-byte form did not retain the supplied public key")
	}

	for _, n := range []int{0, 1, 31, 33, 63, 65, 96} {
		_, err := PrivateKeyFromBytes(make([]byte, n))
		if !errors.Is(errors.Encoding, err) {
			t.Errorf("length %d: error %v, want encoding kind", n, err)
		}
	}
}

func TestPrivateKeyFromBytesIndependence(t *testing.T) {
	seed := hexBytes(t, testSeedHex)
	key, err := PrivateKeyFromBytes(seed)
	if err != nil {
		t.Fatal(err)
	}

	// Mutating the constructor input or the Serialize result must not
	// change key state.
	seed[0] ^= 0xff
	out := key.Serialize()
	out[1] ^= 0xff
	if !bytes.Equal(key.Serialize(), hexBytes(t, testSeedHex)) {
		t.Fatal("key state changed through an external buffer")
	}
}

func TestPrivateKeyFromString(t *testing.T) {
	tests := []struct {
		in  string
		raw string
	}{
		{testSeedHex, testSeedHex},
		{privateKeyPrefix + testSeedHex, testSeedHex},
		{strings.ToUpper(testSeedHex), testSeedHex},
	}
	for i, test := range tests {
		key, err := PrivateKeyFromString(test.in)
		if err != nil {
			t.Fatalf("test %d: %v", i, err)
		}
		if key.StringRaw() != test.raw {
			t.Errorf("test %d: raw string %s, want %s", i, key.StringRaw(), test.raw)
		}
		if key.String() != privateKeyPrefix+test.raw {
			t.Errorf("test %d: prefixed string %s", i, key.String())
		}
	}

	// 128-character form appends the public key.
	key, err := PrivateKeyFromString(testSeedHex)
	if err != nil {
		t.Fatal(err)
	}
	full := testSeedHex + key.PublicKey().StringRaw()
	key128, err := PrivateKeyFromString(full)
	if err != nil {
		t.Fatal(err)
	}
	if key128.StringRaw() != testSeedHex {
		t.Fatalf("128-character form raw string %s", key128.StringRaw())
	}

	bad := []string{
		"",
		testSeedHex[:63],
		testSeedHex + "00",
		// 96 characters without the required prefix.
		testSeedHex + testSeedHex[:32],
		// Correct lengths, not hex.
		strings.Repeat("zz", 32),
		privateKeyPrefix + strings.Repeat("zz", 32),
	}
	for _, in := range bad {
		if _, err := PrivateKeyFromString(in); !errors.Is(errors.Encoding, err) {
			t.Errorf("input %q: error %v, want encoding kind", in, err)
		}
	}
}

func TestStringRoundTrips(t *testing.T) {
	key, err := PrivateKeyFromString(testSeedHex)
	if err != nil {
		t.Fatal(err)
	}

	again, err := PrivateKeyFromString(key.String())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again.Serialize(), key.Serialize()) {
		t.Fatal("prefixed string round trip altered the seed")
	}

	again, err = PrivateKeyFromBytes(key.Serialize())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again.Serialize(), key.Serialize()) {
		t.Fatal("bytes round trip altered the seed")
	}
}

func TestGeneratePrivateKey(t *testing.T) {
	k0, err := GeneratePrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	k1, err := GeneratePrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(k0.Serialize(), k1.Serialize()) {
		t.Fatal("generated keys are equal")
	}
	if k0.SupportsDerivation() {
		t.Fatal("generated key reports derivation support")
	}
}

// Golden pipeline vector: the 24-word phrase for zero entropy with an empty
// passphrase, expanded to the master key and walked down the fixed account
// derivation path.
const goldenPhrase = "abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon abandon abandon abandon " +
	"abandon art"

const (
	goldenRootKey   = "675f1956184972dd0353022d431c6417e8acdce50204de234fd8df9323d152f6"
	goldenRootChain = "531d623d2e03cb2ff52b474821c278fb3acb6173cd6d831193a4ab27ab0a059c"
	goldenKey       = "5bdc8d4c77debdc53fd1f2e2a3f89f1a02056007a2a72aad87ba58d871deb904"
	goldenChain     = "011be9e3f57825e9673d8c684e4c5d625f01a7dec017c5af29d33122a6a4effd"
	goldenPublicKey = "1a1f3d0bd6d741e2c583cecdcda4dede5a6227bcc9a2e72b091ff72a564cfc2b"
)

func TestPrivateKeyFromMnemonic(t *testing.T) {
	mnemonic, err := walletseed.MnemonicFromString(goldenPhrase)
	if err != nil {
		t.Fatal(err)
	}

	rootKey, rootChain, err := hdkeychain.MasterKey(mnemonic.Seed(""))
	if err != nil {
		t.Fatal(err)
	}
	if hex.EncodeToString(rootKey) != goldenRootKey {
		t.Errorf("root key %x, want %s", rootKey, goldenRootKey)
	}
	if hex.EncodeToString(rootChain) != goldenRootChain {
		t.Errorf("root chain code %x, want %s", rootChain, goldenRootChain)
	}

	key, err := PrivateKeyFromMnemonic(mnemonic, "")
	if err != nil {
		t.Fatal(err)
	}
	if key.StringRaw() != goldenKey {
		t.Errorf("account key %s, want %s", key.StringRaw(), goldenKey)
	}
	if cc := hex.EncodeToString(key.ChainCode()); cc != goldenChain {
		t.Errorf("account chain code %s, want %s", cc, goldenChain)
	}
	if pub := key.PublicKey().StringRaw(); pub != goldenPublicKey {
		t.Errorf("account public key %s, want %s", pub, goldenPublicKey)
	}
	if !key.SupportsDerivation() {
		t.Error("mnemonic-derived key lacks derivation support")
	}

	// Determinism of the whole pipeline.
	again, err := PrivateKeyFromMnemonic(mnemonic, "")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again.Serialize(), key.Serialize()) ||
		!bytes.Equal(again.ChainCode(), key.ChainCode()) {
		t.Error("repeated derivation produced a different key")
	}

	// A different passphrase produces an unrelated key.
	other, err := PrivateKeyFromMnemonic(mnemonic, "passphrase")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(other.Serialize(), key.Serialize()) {
		t.Error("passphrase did not alter the derived key")
	}
}

func TestDerive(t *testing.T) {
	mnemonic, err := walletseed.MnemonicFromString(goldenPhrase)
	if err != nil {
		t.Fatal(err)
	}
	key, err := PrivateKeyFromMnemonic(mnemonic, "")
	if err != nil {
		t.Fatal(err)
	}

	c0, err := key.Derive(0)
	if err != nil {
		t.Fatal(err)
	}
	c1, err := key.Derive(1)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(c0.Serialize(), c1.Serialize()) {
		t.Fatal("distinct indices derived equal children")
	}

	// Derived keys remain derivable, so chains compose.
	if !c0.SupportsDerivation() {
		t.Fatal("derived key lacks derivation support")
	}
	grandchild, err := c0.Derive(0)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(grandchild.Serialize(), c0.Serialize()) {
		t.Fatal("grandchild equals child")
	}

	// Determinism.
	c0again, err := key.Derive(0)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(c0again.Serialize(), c0.Serialize()) {
		t.Fatal("repeated derivation produced a different child")
	}
}

func TestDeriveUnsupported(t *testing.T) {
	seed := hexBytes(t, testSeedHex)

	fromBytes, err := PrivateKeyFromBytes(seed)
	if err != nil {
		t.Fatal(err)
	}
	fromString, err := PrivateKeyFromString(testSeedHex)
	if err != nil {
		t.Fatal(err)
	}
	generated, err := GeneratePrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	blob, err := fromBytes.ToKeystore([]byte("pass"))
	if err != nil {
		t.Fatal(err)
	}
	fromKeystore, err := PrivateKeyFromKeystore(blob, []byte("pass"))
	if err != nil {
		t.Fatal(err)
	}

	for name, key := range map[string]*PrivateKey{
		"bytes":    fromBytes,
		"string":   fromString,
		"generate": generated,
		"keystore": fromKeystore,
	} {
		if key.SupportsDerivation() {
			t.Errorf("%s: key reports derivation support", name)
		}
		if key.ChainCode() != nil {
			t.Errorf("%s: key carries a chain code", name)
		}
		if _, err := key.Derive(0); !errors.Is(errors.Invalid, err) {
			t.Errorf("%s: derive error %v, want invalid kind", name, err)
		}
	}
}

func TestSignVerify(t *testing.T) {
	key, err := PrivateKeyFromString(testSeedHex)
	if err != nil {
		t.Fatal(err)
	}
	message := []byte("request body")
	sig := key.Sign(message)
	if !key.PublicKey().Verify(message, sig) {
		t.Fatal("signature does not verify")
	}
	if key.PublicKey().Verify([]byte("other body"), sig) {
		t.Fatal("signature verifies for a different message")
	}
}

func TestPublicKeyStrings(t *testing.T) {
	key, err := PrivateKeyFromString(testSeedHex)
	if err != nil {
		t.Fatal(err)
	}
	pub := key.PublicKey()

	again, err := PublicKeyFromString(pub.String())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again.Serialize(), pub.Serialize()) {
		t.Fatal("prefixed public key string did not round trip")
	}
	again, err = PublicKeyFromString(pub.StringRaw())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again.Serialize(), pub.Serialize()) {
		t.Fatal("raw public key string did not round trip")
	}

	if _, err := PublicKeyFromBytes(make([]byte, 31)); !errors.Is(errors.Encoding, err) {
		t.Fatal("short public key did not fail with encoding kind")
	}
}
