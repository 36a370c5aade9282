// Package vaulterr defines the typed error kinds shared by every layer of
// the aether-drive vault core (crypto hierarchy, envelope format, encrypted
// index). Callers match on [Kind] via [errors.As] rather than comparing
// sentinel values, so the same failure mode can be raised from different
// packages without import cycles.
package vaulterr

import (
	"errors"
	"fmt"
)

// Kind enumerates the well-known failure categories a core operation may
// surface, per the error handling design. The core never retries and never
// recovers locally; every error reaches the caller typed.
type Kind int

const (
	// KindInvalidPassphrase is returned when the MKEK AEAD open fails on
	// unlock or change-password — the supplied passphrase does not match
	// the one the MKEK was sealed under.
	KindInvalidPassphrase Kind = iota + 1
	// KindLocked is returned when an operation needs the MasterKey but the
	// session is locked.
	KindLocked
	// KindInvalidFormat is returned when an Aether envelope's magic,
	// version, or cipher id is unrecognized, its commitment tag does not
	// match, its AEAD tag fails to verify, or its bytes are truncated.
	KindInvalidFormat
	// KindWrongKey is returned when the index store exists but the
	// supplied DbKey cannot open it (its canary row or a row payload fails
	// to decrypt).
	KindWrongKey
	// KindCorrupt is returned when a row's MAC does not verify, or
	// persisted metadata is malformed. A Merkle root mismatch is reported
	// by VerifyIntegrity as false, not as an error.
	KindCorrupt
	// KindIO is returned when an underlying storage operation (disk or
	// object store) fails for reasons unrelated to cryptographic checks.
	KindIO
	// KindInvariantViolation is returned for programmer errors: a key of
	// the wrong length, an HKDF output of the wrong size, and similar
	// conditions that should never occur outside a bug.
	KindInvariantViolation
)

// String renders a Kind as a short, log-safe label.
func (k Kind) String() string {
	switch k {
	case KindInvalidPassphrase:
		return "InvalidPassphrase"
	case KindLocked:
		return "Locked"
	case KindInvalidFormat:
		return "InvalidFormat"
	case KindWrongKey:
		return "WrongKey"
	case KindCorrupt:
		return "Corrupt"
	case KindIO:
		return "Io"
	case KindInvariantViolation:
		return "InvariantViolation"
	default:
		return "Unknown"
	}
}

// Error is a typed, wrappable error carrying one of the [Kind] values above.
// It never embeds passphrase- or key-derived material; Msg must describe the
// failure using only identifiers safe to log (file ids, logical paths,
// error kinds).
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error with the same Kind, so callers can
// write errors.Is(err, vaulterr.New(vaulterr.KindLocked, "")) or, more
// idiomatically, use [Of] to extract and compare the Kind directly.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// New constructs an *Error of the given kind with a log-safe message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs an *Error of the given kind, wrapping an underlying cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Of returns the Kind of err if it is (or wraps) a *Error, and ok=true.
// Returns ok=false for errors this package did not produce.
func Of(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
