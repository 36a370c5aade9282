// SPDX-License-Identifier: Apache-2.0

// Package objectstore is the vault's external storage collaborator: the
// only component in the module whose operations may suspend, per the
// concurrency model's suspension-point rule. Callers hand it already
// Aether-encrypted envelope bytes; the package never sees plaintext or any
// key material.
package objectstore

import "context"

// Store is the interface the rest of the vault core depends on. Object
// keys are opaque identifiers (the envelope's file UUID, hex- or
// base32-encoded by the caller) — never a logical path, which must never
// be used as a remote storage key.
type Store interface {
	// Put uploads body under key, overwriting any existing object.
	Put(ctx context.Context, key string, body []byte) error
	// Get downloads the object stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the object stored under key. Deleting an absent key
	// is not an error.
	Delete(ctx context.Context, key string) error
	// List returns every object key currently present under prefix.
	// Used exclusively by the reconcile package's repair path.
	List(ctx context.Context, prefix string) ([]string, error)
}
