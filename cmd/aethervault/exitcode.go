// SPDX-License-Identifier: Apache-2.0

package main

import "github.com/aether-drive/vault-core/internal/vaulterr"

// Exit codes: 0 on success, a distinct non-zero code per [vaulterr.Kind] so
// scripts driving this CLI can branch on failure mode without scraping
// stderr text.
const (
	exitOK = 0

	exitInvalidPassphrase  = 10
	exitLocked             = 11
	exitInvalidFormat      = 12
	exitWrongKey           = 13
	exitCorrupt            = 14
	exitIO                 = 15
	exitInvariantViolation = 16
	exitUnknown            = 1
)

// exitCodeFor maps err to a process exit code. Errors that are not a
// *vaulterr.Error (flag parsing failures, usage errors cobra itself
// surfaces) exit with the generic exitUnknown code.
func exitCodeFor(err error) int {
	if err == nil {
		return exitOK
	}

	kind, ok := vaulterr.Of(err)
	if !ok {
		return exitUnknown
	}

	switch kind {
	case vaulterr.KindInvalidPassphrase:
		return exitInvalidPassphrase
	case vaulterr.KindLocked:
		return exitLocked
	case vaulterr.KindInvalidFormat:
		return exitInvalidFormat
	case vaulterr.KindWrongKey:
		return exitWrongKey
	case vaulterr.KindCorrupt:
		return exitCorrupt
	case vaulterr.KindIO:
		return exitIO
	case vaulterr.KindInvariantViolation:
		return exitInvariantViolation
	default:
		return exitUnknown
	}
}
