// Copyright (c) 2024 The Hashgrid developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hdkeychain implements the hardened-only hierarchical deterministic
// derivation scheme for ed25519 keys described by SLIP-0010.
//
// Unlike secp256k1 BIP32 derivation, ed25519 hierarchical derivation is
// defined only for hardened child indices.  Every index passed to ChildKey is
// combined with the hardening offset before use, so non-hardened derivation
// is never performed.
package hdkeychain

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/hashgrid/hgwallet/errors"
)

const (
	// KeyLen is the length in bytes of a derived key.
	KeyLen = 32

	// ChainCodeLen is the length in bytes of a chain code.
	ChainCodeLen = 32

	// MinSeedBytes is the minimum number of bytes allowed for a seed to
	// a master key.
	MinSeedBytes = 16

	// MaxSeedBytes is the maximum number of bytes allowed for a seed to
	// a master key.
	MaxSeedBytes = 64

	// HardenedKeyStart is the index at which a hardened key starts.  Each
	// extended key has 2^31 normal child keys and 2^31 hardened child
	// keys, and ed25519 derivation uses only the hardened range.
	HardenedKeyStart uint32 = 1 << 31
)

// masterKey is the HMAC key used to derive the master key and chain code
// from a seed, per SLIP-0010.
var masterKey = []byte("ed25519 seed")

// ErrInvalidSeedLen describes an error in which the provided seed is not
// in the allowed range of [MinSeedBytes, MaxSeedBytes].
var ErrInvalidSeedLen = errors.Errorf("seed length must be between %d and %d "+
	"bits", MinSeedBytes*8, MaxSeedBytes*8)

// AccountDerivationPath is the fixed derivation path applied below the master
// key when deriving the default account key from a seed.  The path encodes
// the registered purpose, coin type, account, and index coordinates of the
// ledger and must not vary between clients, or restored wallets would not
// find their keys.
var AccountDerivationPath = DerivationPath{44, 3030, 0, 0}

// DerivationPath is a sequence of child derivation indices applied in order
// below a master key.  All indices are hardened during derivation.
type DerivationPath []uint32

// String returns the path in the conventional m/i'/j'/... notation.
func (path DerivationPath) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, index := range path {
		fmt.Fprintf(&b, "/%d'", index)
	}
	return b.String()
}

// MasterKey derives a master key and chain code from a seed, per SLIP-0010:
// the left half of HMAC-SHA512 keyed with "ed25519 seed" over the seed
// becomes the key and the right half becomes the chain code.  The returned
// slices are always KeyLen and ChainCodeLen bytes.
func MasterKey(seed []byte) (key, chainCode []byte, err error) {
	const op errors.Op = "hdkeychain.MasterKey"
	if len(seed) < MinSeedBytes || len(seed) > MaxSeedBytes {
		return nil, nil, errors.E(op, errors.Seed, ErrInvalidSeedLen)
	}
	mac := hmac.New(sha512.New, masterKey)
	mac.Write(seed)
	sum := mac.Sum(nil)
	return sum[:KeyLen], sum[KeyLen:], nil
}

// ChildKey derives the hardened child key and chain code at index from a
// parent key and chain code.  The hardening offset is applied to index
// internally, so callers pass the plain index (e.g. 44 for 44').
//
// The derivation is the SLIP-0010 ed25519 child step:
//
//	I = HMAC-SHA512(Key = chainCode, Data = 0x00 || key || ser32(index + 2^31))
//
// with the left half of I becoming the child key and the right half the
// child chain code.  The same parent key, chain code, and index always
// produce the same child.
func ChildKey(key, chainCode []byte, index uint32) (childKey, childChainCode []byte, err error) {
	const op errors.Op = "hdkeychain.ChildKey"
	if len(key) != KeyLen {
		return nil, nil, errors.E(op, errors.Bug,
			errors.Errorf("parent key length %d, need %d", len(key), KeyLen))
	}
	if len(chainCode) != ChainCodeLen {
		return nil, nil, errors.E(op, errors.Bug,
			errors.Errorf("chain code length %d, need %d", len(chainCode), ChainCodeLen))
	}

	// 0x00 || ser256(parentKey) || ser32(i)
	data := make([]byte, 1+KeyLen+4)
	copy(data[1:], key)
	binary.BigEndian.PutUint32(data[1+KeyLen:], index|HardenedKeyStart)

	mac := hmac.New(sha512.New, chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)
	return sum[:KeyLen], sum[KeyLen:], nil
}

// DerivePath applies ChildKey once per path index, in order, starting from
// the passed key and chain code.
func DerivePath(key, chainCode []byte, path DerivationPath) (childKey, childChainCode []byte, err error) {
	childKey, childChainCode = key, chainCode
	for _, index := range path {
		childKey, childChainCode, err = ChildKey(childKey, childChainCode, index)
		if err != nil {
			return nil, nil, err
		}
	}
	return childKey, childChainCode, nil
}
