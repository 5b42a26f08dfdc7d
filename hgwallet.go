// Copyright (c) 2024 The Hashgrid developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/hashgrid/hgwallet/errors"
	"github.com/hashgrid/hgwallet/version"
)

func init() {
	// Format nested errors without newlines (better for logs).
	errors.Separator = ":: "
}

var cfg *config

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run is the main startup and teardown logic performed by the main package.
// It is responsible for parsing the config, initializing logging, and
// dispatching the requested keystore action.
func run() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	tcfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	cfg = tcfg
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	// Show version at startup.
	log.Infof("Version %s (Go version %s %s/%s)", version.String(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)

	switch {
	case cfg.Create:
		err = createKeystore(cfg)
	case cfg.Inspect:
		err = inspectKeystore(cfg)
	case cfg.Export:
		err = exportKey(cfg)
	case cfg.Derive != nil:
		err = deriveChildKey(cfg, *cfg.Derive)
	default:
		fmt.Fprintln(os.Stderr, "No action requested; use --create, "+
			"--inspect, --export, or --derive (see -h for usage)")
		return errors.E(errors.Invalid, "no action requested")
	}
	if err != nil {
		log.Errorf("%v", err)
		return err
	}
	return nil
}
