// Copyright (c) 2024 The Hashgrid developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashgrid/hgwallet/errors"
	"github.com/hashgrid/hgwallet/internal/prompt"
	"github.com/hashgrid/hgwallet/internal/zero"
	"github.com/hashgrid/hgwallet/keys"
)

// createKeystore prompts the user for the information needed to generate a
// new account key and writes the passphrase-encrypted keystore file to the
// configured path.  An existing keystore file is never overwritten.
func createKeystore(cfg *config) error {
	const op errors.Op = "createKeystore"

	if _, err := os.Stat(cfg.Keystore); err == nil {
		return errors.E(op, errors.Exist,
			errors.Errorf("keystore file %q already exists", cfg.Keystore))
	}

	reader := bufio.NewReader(os.Stdin)
	mnemonic, imported, err := prompt.Mnemonic(reader)
	if err != nil {
		return errors.E(op, err)
	}
	mnemonicPass, err := prompt.MnemonicPass(reader)
	if err != nil {
		return errors.E(op, err)
	}
	key, err := keys.PrivateKeyFromMnemonic(mnemonic, string(mnemonicPass))
	zero.Bytes(mnemonicPass)
	if err != nil {
		return errors.E(op, err)
	}

	pass, err := prompt.KeystorePass(reader)
	if err != nil {
		return errors.E(op, err)
	}
	blob, err := key.ToKeystore(pass)
	zero.Bytes(pass)
	if err != nil {
		return errors.E(op, err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Keystore), 0700); err != nil {
		return errors.E(op, errors.IO, err)
	}
	if err := os.WriteFile(cfg.Keystore, blob, 0600); err != nil {
		return errors.E(op, errors.IO, err)
	}

	if imported {
		log.Infof("Restored key from an existing seed phrase")
	} else {
		log.Infof("Generated a new account key")
	}
	log.Infof("Keystore written to %s", cfg.Keystore)
	fmt.Println("Public key:", key.PublicKey())
	return nil
}

// decryptKeystore reads the configured keystore file and prompts for its
// passphrase until decryption succeeds.  A wrong passphrase is an expected,
// recoverable condition and only causes a re-prompt; all other failures
// abort.
func decryptKeystore(cfg *config) (*keys.PrivateKey, error) {
	const op errors.Op = "decryptKeystore"

	blob, err := os.ReadFile(cfg.Keystore)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.E(op, errors.NotExist, err)
		}
		return nil, errors.E(op, errors.IO, err)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		pass, err := prompt.PassPrompt(reader, "Enter the keystore passphrase", false)
		if err != nil {
			return nil, errors.E(op, err)
		}
		key, err := keys.PrivateKeyFromKeystore(blob, pass)
		zero.Bytes(pass)
		if errors.Is(errors.Passphrase, err) {
			fmt.Println("Incorrect passphrase")
			continue
		}
		if err != nil {
			return nil, errors.E(op, err)
		}
		return key, nil
	}
}

// inspectKeystore decrypts the configured keystore file and displays the
// public key it protects.
func inspectKeystore(cfg *config) error {
	key, err := decryptKeystore(cfg)
	if err != nil {
		return err
	}
	fmt.Println("Public key:", key.PublicKey())
	return nil
}

// exportKey decrypts the configured keystore file and writes the encoded
// private key to stdout.
func exportKey(cfg *config) error {
	key, err := decryptKeystore(cfg)
	if err != nil {
		return err
	}
	fmt.Println(key.String())
	return nil
}

// deriveChildKey derives the hardened child key at index below the account
// key of a seed phrase and displays its public key.  Derivation requires the
// phrase rather than the keystore file, as keystore recovery deliberately
// discards derivation metadata.
func deriveChildKey(cfg *config, index uint32) error {
	const op errors.Op = "deriveChildKey"

	reader := bufio.NewReader(os.Stdin)
	mnemonic, _, err := prompt.Mnemonic(reader)
	if err != nil {
		return errors.E(op, err)
	}
	mnemonicPass, err := prompt.MnemonicPass(reader)
	if err != nil {
		return errors.E(op, err)
	}
	key, err := keys.PrivateKeyFromMnemonic(mnemonic, string(mnemonicPass))
	zero.Bytes(mnemonicPass)
	if err != nil {
		return errors.E(op, err)
	}

	child, err := key.Derive(index)
	if err != nil {
		return errors.E(op, err)
	}
	fmt.Printf("Child %d' public key: %s\n", index, child.PublicKey())
	return nil
}
