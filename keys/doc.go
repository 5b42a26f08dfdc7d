// Copyright (c) 2024 The Hashgrid developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keys provides the ed25519 private and public key types used to
// sign requests to the ledger, including hierarchical derivation from
// mnemonic seed phrases and an encrypted keystore encoding for private key
// material at rest.
package keys
