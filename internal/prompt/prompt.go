// Copyright (c) 2024 The Hashgrid developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package prompt provides terminal prompts for passphrases and mnemonic
// seed phrases.
package prompt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/hashgrid/hgwallet/walletseed"
)

// promptList prompts the user with the given prefix, list of valid responses,
// and default list entry to use.  The function will repeat the prompt to the
// user until they enter a valid response.
func promptList(reader *bufio.Reader, prefix string, validResponses []string, defaultEntry string) (string, error) {
	// Setup the prompt according to the parameters.
	validStrings := strings.Join(validResponses, "/")
	var prompt string
	if defaultEntry != "" {
		prompt = fmt.Sprintf("%s (%s) [%s]: ", prefix, validStrings,
			defaultEntry)
	} else {
		prompt = fmt.Sprintf("%s (%s): ", prefix, validStrings)
	}

	// Prompt the user until one of the valid responses is given.
	for {
		fmt.Print(prompt)
		reply, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		reply = strings.TrimSpace(strings.ToLower(reply))
		if reply == "" {
			reply = defaultEntry
		}

		for _, validResponse := range validResponses {
			if reply == validResponse {
				return reply, nil
			}
		}
	}
}

// promptListBool prompts the user for a boolean (yes/no) with the given prefix.
// The function will repeat the prompt to the user until they enter a valid
// response.
func promptListBool(reader *bufio.Reader, prefix string, defaultEntry string) (bool, error) {
	valid := []string{"n", "no", "y", "yes"}
	response, err := promptList(reader, prefix, valid, defaultEntry)
	if err != nil {
		return false, err
	}
	return response == "yes" || response == "y", nil
}

// PassPrompt prompts the user for a passphrase with the given prefix.  The
// function will ask the user to confirm the passphrase and will repeat the
// prompts until they enter a matching response.
func PassPrompt(reader *bufio.Reader, prefix string, confirm bool) ([]byte, error) {
	// Prompt the user until they enter a passphrase.
	prompt := fmt.Sprintf("%s: ", prefix)
	for {
		fmt.Print(prompt)
		var pass []byte
		var err error
		fd := int(os.Stdin.Fd())
		if term.IsTerminal(fd) {
			pass, err = term.ReadPassword(fd)
		} else {
			pass, err = reader.ReadBytes('\n')
			if errors.Is(err, io.EOF) {
				err = nil
			}
		}
		if err != nil {
			return nil, err
		}
		fmt.Print("\n")
		pass = bytes.TrimSpace(pass)

		if !confirm {
			return pass, nil
		}

		fmt.Print("Confirm passphrase: ")
		var confirmPass []byte
		if term.IsTerminal(fd) {
			confirmPass, err = term.ReadPassword(fd)
		} else {
			confirmPass, err = reader.ReadBytes('\n')
			if errors.Is(err, io.EOF) {
				err = nil
			}
		}
		if err != nil {
			return nil, err
		}
		fmt.Print("\n")
		confirmPass = bytes.TrimSpace(confirmPass)
		if !bytes.Equal(pass, confirmPass) {
			fmt.Println("The entered passphrases do not match")
			continue
		}

		return pass, nil
	}
}

// KeystorePass prompts the user for the passphrase protecting a new keystore
// file, with confirmation.
func KeystorePass(reader *bufio.Reader) ([]byte, error) {
	return PassPrompt(reader, "Enter the passphrase for your new keystore", true)
}

// MnemonicPass prompts for the optional passphrase that participates in
// mnemonic seed derivation.  An empty response is valid and derives the
// default seed of the phrase.
func MnemonicPass(reader *bufio.Reader) ([]byte, error) {
	return PassPrompt(reader, "Enter the mnemonic passphrase (may be empty)", true)
}

// Mnemonic prompts the user whether they want to restore from an existing
// mnemonic seed phrase.  When the user answers no, a phrase is generated and
// displayed to the user along with prompting them for confirmation.  When
// the user answers yes, the user is prompted for it.  All prompts are
// repeated until the user enters a valid response.  The bool returned
// indicates whether the key is being restored from an existing phrase.
func Mnemonic(reader *bufio.Reader) (mnemonic *walletseed.Mnemonic, imported bool, err error) {
	useUserSeed, err := promptListBool(reader, "Do you have an "+
		"existing seed phrase you want to use?", "no")
	if err != nil {
		return nil, false, err
	}
	if !useUserSeed {
		mnemonic, err := walletseed.GenerateMnemonic(walletseed.WordCount24)
		if err != nil {
			return nil, false, err
		}

		fmt.Println("Your key generation seed phrase is:")
		for i, word := range mnemonic.Words() {
			fmt.Printf("%v ", word)

			if (i+1)%6 == 0 {
				fmt.Printf("\n")
			}
		}

		fmt.Println("\nIMPORTANT: Keep the seed phrase in a safe place as you\n" +
			"will NOT be able to restore your key without it.")
		fmt.Println("Please keep in mind that anyone who has access\n" +
			"to the seed phrase can also restore your key thereby\n" +
			"giving them access to all your funds, so it is\n" +
			"imperative that you keep it in a secure location.")

		for {
			fmt.Print(`Once you have stored the seed phrase in a safe ` +
				`and secure location, enter "OK" to continue: `)
			confirmSeed, err := reader.ReadString('\n')
			if err != nil {
				return nil, false, err
			}
			confirmSeed = strings.TrimSpace(confirmSeed)
			confirmSeed = strings.Trim(confirmSeed, `"`)
			if strings.EqualFold("OK", confirmSeed) {
				break
			}
		}

		return mnemonic, false, nil
	}

	for {
		fmt.Print("Enter existing seed phrase: ")
		phrase, err := reader.ReadString('\n')
		if err != nil {
			return nil, false, err
		}

		mnemonic, err := walletseed.MnemonicFromString(phrase)
		if err != nil {
			fmt.Printf("Input error: %v\n", err)
			continue
		}

		return mnemonic, true, nil
	}
}
