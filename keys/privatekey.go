// Copyright (c) 2024 The Hashgrid developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"io"
	"strings"
	"sync/atomic"

	"github.com/hashgrid/hgwallet/errors"
	"github.com/hashgrid/hgwallet/hdkeychain"
	"github.com/hashgrid/hgwallet/internal/zero"
	"github.com/hashgrid/hgwallet/walletseed"
)

// SeedLen is the length in bytes of an ed25519 private key seed.  Every
// private key is canonically exactly this long, regardless of how it was
// constructed, and every serialization of a private key emits exactly the
// seed.
const SeedLen = 32

// privateKeyPrefix is the hex encoding of the ASN.1 DER header identifying
// an ed25519 private key.  It is prepended to hex string encodings so keys
// of different algorithms remain distinguishable in text form.
const privateKeyPrefix = "302e020100300506032b657004220420"

// PrivateKey is an ed25519 private key.  Keys are immutable after
// construction; Derive returns new, independent keys rather than modifying
// the receiver.
//
// A key carries a chain code, and therefore supports Derive, only when it
// was produced by PrivateKeyFromMnemonic or by Derive itself.  Keys built
// from raw bytes, hex strings, random generation, or keystore recovery have
// no derivation metadata.
type PrivateKey struct {
	seed      []byte // always SeedLen bytes
	pubKey    ed25519.PublicKey
	chainCode []byte // nil when derivation is unsupported

	// str lazily caches the raw hex form of the seed.  The cached value
	// is a pure function of the immutable seed, so concurrent
	// recomputation is harmless.
	str atomic.Value // string
}

// PrivateKeyFromBytes constructs a private key from its binary encoding.
// Exactly SeedLen bytes (a bare seed, with the public key derived from it)
// or 2*SeedLen bytes (a seed followed by its public key, which is trusted
// as supplied) are accepted.  The input is copied and may be reused by the
// caller.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	const op errors.Op = "keys.PrivateKeyFromBytes"
	switch len(b) {
	case SeedLen:
		seed := make([]byte, SeedLen)
		copy(seed, b)
		priv := ed25519.NewKeyFromSeed(seed)
		return &PrivateKey{
			seed:   seed,
			pubKey: priv.Public().(ed25519.PublicKey),
		}, nil
	case 2 * SeedLen:
		seed := make([]byte, SeedLen)
		copy(seed, b[:SeedLen])
		pubKey := make([]byte, ed25519.PublicKeySize)
		copy(pubKey, b[SeedLen:])
		return &PrivateKey{seed: seed, pubKey: pubKey}, nil
	default:
		return nil, errors.E(op, errors.Encoding,
			errors.Errorf("private key length %d, need %d or %d",
				len(b), SeedLen, 2*SeedLen))
	}
}

// PrivateKeyFromString constructs a private key from its hexadecimal string
// encoding.  Three lengths are accepted: 64 characters (a bare seed), 128
// characters (seed followed by public key), and 96 characters, where the
// leading 32 characters must be the fixed algorithm identifier prefix and
// are stripped before decoding.
func PrivateKeyFromString(s string) (*PrivateKey, error) {
	const op errors.Op = "keys.PrivateKeyFromString"
	s = strings.ToLower(s)
	switch len(s) {
	case 64, 128:
	case 96:
		if !strings.HasPrefix(s, privateKeyPrefix) {
			return nil, errors.E(op, errors.Encoding,
				"96-character key lacks the algorithm identifier prefix")
		}
		s = s[len(privateKeyPrefix):]
	default:
		return nil, errors.E(op, errors.Encoding,
			errors.Errorf("private key hex length %d, need 64, 96, or 128",
				len(s)))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.E(op, errors.Encoding, err)
	}
	key, err := PrivateKeyFromBytes(b)
	if err != nil {
		return nil, errors.E(op, err)
	}
	key.str.Store(s[:2*SeedLen])
	return key, nil
}

// GeneratePrivateKey creates a private key from a new random seed read from
// the system CSPRNG.  A failing entropy source surfaces as an error; no
// weaker source is ever substituted.
func GeneratePrivateKey() (*PrivateKey, error) {
	const op errors.Op = "keys.GeneratePrivateKey"
	seed := make([]byte, SeedLen)
	if _, err := io.ReadFull(rand.Reader, seed); err != nil {
		return nil, errors.E(op, errors.Crypto, err)
	}
	key, err := PrivateKeyFromBytes(seed)
	zero.Bytes(seed)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return key, nil
}

// PrivateKeyFromMnemonic deterministically derives the account private key
// for a mnemonic phrase and passphrase.  The BIP39 seed of the phrase is
// expanded into a master key and chain code, then the fixed account
// derivation path is applied.  The returned key carries the resulting chain
// code and supports further Derive calls.
func PrivateKeyFromMnemonic(mnemonic *walletseed.Mnemonic, passphrase string) (*PrivateKey, error) {
	const op errors.Op = "keys.PrivateKeyFromMnemonic"

	seed := mnemonic.Seed(passphrase)
	defer zero.Bytes(seed)
	key, chainCode, err := hdkeychain.MasterKey(seed)
	if err != nil {
		return nil, errors.E(op, err)
	}
	key, chainCode, err = hdkeychain.DerivePath(key, chainCode,
		hdkeychain.AccountDerivationPath)
	if err != nil {
		return nil, errors.E(op, err)
	}

	priv, err := PrivateKeyFromBytes(key)
	if err != nil {
		return nil, errors.E(op, err)
	}
	priv.chainCode = chainCode
	zero.Bytes(key)
	return priv, nil
}

// Derive returns the hardened child key at index.  The receiver must carry a
// chain code; calling Derive on a key without one is a caller contract
// violation and fails with an invalid operation error.  The returned child
// is fully independent of the receiver and itself supports Derive.
func (k *PrivateKey) Derive(index uint32) (*PrivateKey, error) {
	const op errors.Op = "keys.PrivateKey.Derive"
	if k.chainCode == nil {
		return nil, errors.E(op, errors.Invalid,
			"key does not carry a chain code for derivation")
	}
	childKey, childChainCode, err := hdkeychain.ChildKey(k.seed, k.chainCode, index)
	if err != nil {
		return nil, errors.E(op, err)
	}
	child, err := PrivateKeyFromBytes(childKey)
	if err != nil {
		return nil, errors.E(op, err)
	}
	child.chainCode = childChainCode
	zero.Bytes(childKey)
	return child, nil
}

// SupportsDerivation returns whether the key carries a chain code and may be
// used with Derive.
func (k *PrivateKey) SupportsDerivation() bool {
	return k.chainCode != nil
}

// ChainCode returns a copy of the key's chain code, or nil when the key does
// not support derivation.
func (k *PrivateKey) ChainCode() []byte {
	if k.chainCode == nil {
		return nil
	}
	chainCode := make([]byte, len(k.chainCode))
	copy(chainCode, k.chainCode)
	return chainCode
}

// Serialize returns the canonical binary encoding of the private key: a
// fresh copy of the SeedLen-byte seed.  Mutating the returned slice does not
// affect the key.
func (k *PrivateKey) Serialize() []byte {
	seed := make([]byte, SeedLen)
	copy(seed, k.seed)
	return seed
}

// rawString returns the lazily cached lowercase hex encoding of the seed.
func (k *PrivateKey) rawString() string {
	if s, ok := k.str.Load().(string); ok {
		return s
	}
	s := hex.EncodeToString(k.seed)
	k.str.Store(s)
	return s
}

// String returns the hex encoding of the seed with the algorithm identifier
// prefix prepended.  The result round-trips through PrivateKeyFromString.
func (k *PrivateKey) String() string {
	return privateKeyPrefix + k.rawString()
}

// StringRaw returns the bare lowercase hex encoding of the seed without the
// algorithm identifier prefix.
func (k *PrivateKey) StringRaw() string {
	return k.rawString()
}

// PublicKey returns the public half of the key.
func (k *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{pubKey: k.pubKey}
}

// Sign signs the message with the key and returns the ed25519 signature.
// The signing key is always expanded from the seed, so a mismatched public
// half supplied during construction does not affect signatures.
func (k *PrivateKey) Sign(message []byte) []byte {
	return ed25519.Sign(ed25519.NewKeyFromSeed(k.seed), message)
}
