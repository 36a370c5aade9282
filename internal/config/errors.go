package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidVaultConfig indicates invalid vault-core settings (for
	// example, a missing key file path or index path).
	ErrInvalidVaultConfig = errors.New("invalid vault configuration")
	// ErrInvalidObjectStoreConfig indicates invalid remote object store
	// settings (for example, a missing bucket name).
	ErrInvalidObjectStoreConfig = errors.New("invalid object store configuration")
)
