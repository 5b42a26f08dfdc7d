// Copyright (c) 2024 The Hashgrid developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keys

import (
	"crypto/ed25519"
	"encoding/hex"
	"strings"

	"github.com/hashgrid/hgwallet/errors"
)

// publicKeyPrefix is the hex encoding of the ASN.1 DER header identifying an
// ed25519 public key.
const publicKeyPrefix = "302a300506032b6570032100"

// PublicKey is an ed25519 public key.
type PublicKey struct {
	pubKey ed25519.PublicKey
}

// PublicKeyFromBytes constructs a public key from its 32-byte binary
// encoding.  The input is copied.
func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	const op errors.Op = "keys.PublicKeyFromBytes"
	if len(b) != ed25519.PublicKeySize {
		return nil, errors.E(op, errors.Encoding,
			errors.Errorf("public key length %d, need %d",
				len(b), ed25519.PublicKeySize))
	}
	pubKey := make([]byte, ed25519.PublicKeySize)
	copy(pubKey, b)
	return &PublicKey{pubKey: pubKey}, nil
}

// PublicKeyFromString constructs a public key from its hexadecimal string
// encoding, with or without the algorithm identifier prefix.
func PublicKeyFromString(s string) (*PublicKey, error) {
	const op errors.Op = "keys.PublicKeyFromString"
	s = strings.ToLower(s)
	switch len(s) {
	case 64:
	case 88:
		if !strings.HasPrefix(s, publicKeyPrefix) {
			return nil, errors.E(op, errors.Encoding,
				"88-character key lacks the algorithm identifier prefix")
		}
		s = s[len(publicKeyPrefix):]
	default:
		return nil, errors.E(op, errors.Encoding,
			errors.Errorf("public key hex length %d, need 64 or 88", len(s)))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.E(op, errors.Encoding, err)
	}
	key, err := PublicKeyFromBytes(b)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return key, nil
}

// Serialize returns a fresh copy of the 32-byte public key.
func (k *PublicKey) Serialize() []byte {
	pubKey := make([]byte, len(k.pubKey))
	copy(pubKey, k.pubKey)
	return pubKey
}

// String returns the hex encoding of the public key with the algorithm
// identifier prefix prepended.
func (k *PublicKey) String() string {
	return publicKeyPrefix + hex.EncodeToString(k.pubKey)
}

// StringRaw returns the bare lowercase hex encoding of the public key.
func (k *PublicKey) StringRaw() string {
	return hex.EncodeToString(k.pubKey)
}

// Verify reports whether sig is a valid signature of message by the key.
func (k *PublicKey) Verify(message, sig []byte) bool {
	return ed25519.Verify(k.pubKey, message, sig)
}
