// Copyright (c) 2024 The Hashgrid developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keys

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/hashgrid/hgwallet/errors"
	"github.com/hashgrid/hgwallet/internal/zero"
	"github.com/hashgrid/hgwallet/kdf"
)

// Keystore blob layout, all fields fixed length:
//
//	magic (4) || version (1) || Argon2id params (25) || nonce (24) ||
//	ciphertext (32 + AEAD overhead)
//
// The header through the nonce is authenticated as the AEAD associated
// data, so any tampering with the KDF parameters fails authentication
// rather than silently deriving a different key.
const (
	keystoreMagic   = "HGKS"
	keystoreVersion = 1

	keystoreHeaderLen = len(keystoreMagic) + 1 + kdf.MarshaledLen +
		chacha20poly1305.NonceSizeX
	keystoreLen = keystoreHeaderLen + SeedLen + chacha20poly1305.Overhead
)

// ToKeystore encrypts the private key seed under a passphrase and returns
// the opaque keystore blob.  The key itself is not modified, and repeated
// calls produce independently encrypted blobs of the same seed.
//
// The blob deliberately excludes derivation metadata: a key recovered from
// it never supports Derive, even when the receiver does.
func (k *PrivateKey) ToKeystore(passphrase []byte) ([]byte, error) {
	const op errors.Op = "keys.PrivateKey.ToKeystore"

	params, err := kdf.NewArgon2idParams(rand.Reader)
	if err != nil {
		return nil, errors.E(op, errors.Crypto, err)
	}
	marshaledParams, err := params.MarshalBinary()
	if err != nil {
		return nil, errors.E(op, err)
	}

	blob := make([]byte, 0, keystoreLen)
	blob = append(blob, keystoreMagic...)
	blob = append(blob, keystoreVersion)
	blob = append(blob, marshaledParams...)
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.E(op, errors.Crypto, err)
	}
	blob = append(blob, nonce...)

	encKey := kdf.DeriveKey(passphrase, params, chacha20poly1305.KeySize)
	defer zero.Bytes(encKey)
	aead, err := chacha20poly1305.NewX(encKey)
	if err != nil {
		return nil, errors.E(op, errors.Crypto, err)
	}
	blob = aead.Seal(blob, nonce, k.seed, blob[:keystoreHeaderLen])

	log.Debugf("Encrypted private key seed into a version %d keystore",
		keystoreVersion)
	return blob, nil
}

// PrivateKeyFromKeystore decrypts a keystore blob with the passphrase and
// reconstructs the private key it protects.  Two failure modes are
// distinguishable by error kind: a structurally malformed blob fails with an
// encoding error, while a wrong passphrase or corrupted ciphertext fails
// authentication and is reported with the passphrase kind, which callers may
// treat as recoverable by re-prompting.
//
// No key material is reconstructed unless authentication succeeds.  The
// recovered key carries no chain code and does not support Derive.
func PrivateKeyFromKeystore(blob, passphrase []byte) (*PrivateKey, error) {
	const op errors.Op = "keys.PrivateKeyFromKeystore"

	if len(blob) != keystoreLen {
		return nil, errors.E(op, errors.Encoding,
			errors.Errorf("keystore length %d, need %d", len(blob), keystoreLen))
	}
	if string(blob[:len(keystoreMagic)]) != keystoreMagic {
		return nil, errors.E(op, errors.Encoding, "bad keystore magic")
	}
	if v := blob[len(keystoreMagic)]; v != keystoreVersion {
		return nil, errors.E(op, errors.Encoding,
			errors.Errorf("unknown keystore version %d", v))
	}
	var params kdf.Argon2idParams
	marshaledParams := blob[len(keystoreMagic)+1 : len(keystoreMagic)+1+kdf.MarshaledLen]
	if err := params.UnmarshalBinary(marshaledParams); err != nil {
		return nil, errors.E(op, errors.Encoding, err)
	}
	if !params.Valid() {
		return nil, errors.E(op, errors.Encoding, "unusable KDF parameters")
	}
	nonce := blob[keystoreHeaderLen-chacha20poly1305.NonceSizeX : keystoreHeaderLen]

	encKey := kdf.DeriveKey(passphrase, &params, chacha20poly1305.KeySize)
	defer zero.Bytes(encKey)
	aead, err := chacha20poly1305.NewX(encKey)
	if err != nil {
		return nil, errors.E(op, errors.Crypto, err)
	}
	seed, err := aead.Open(nil, nonce, blob[keystoreHeaderLen:],
		blob[:keystoreHeaderLen])
	if err != nil {
		return nil, errors.E(op, errors.Passphrase,
			"keystore authentication failed")
	}
	defer zero.Bytes(seed)

	key, err := PrivateKeyFromBytes(seed)
	if err != nil {
		return nil, errors.E(op, err)
	}
	log.Debugf("Decrypted private key seed from a version %d keystore",
		keystoreVersion)
	return key, nil
}
