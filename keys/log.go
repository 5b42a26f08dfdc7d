// Copyright (c) 2024 The Hashgrid developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keys

import "github.com/decred/slog"

var log = slog.Disabled

// UseLogger sets the package logger.  This should be called during
// application startup before any keystore operations are performed.
func UseLogger(logger slog.Logger) {
	log = logger
}
