// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the vault
// core. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Vault holds the cryptographic tuning and on-disk locations the
	// vault core needs at startup: Argon2id cost parameters, the path to
	// the key file, and the path to the encrypted metadata index.
	Vault Vault `envPrefix:"VAULT_"`

	// ObjectStore holds the settings needed to reach the S3-compatible
	// remote bucket that stores encrypted file envelopes.
	ObjectStore ObjectStore `envPrefix:"OBJECT_STORE_"`

	// Trash holds retention settings for the soft-delete tier of the
	// encrypted metadata index.
	Trash Trash `envPrefix:"TRASH_"`

	// Server holds network address and timeout settings for the CLI's
	// optional local status/control surface.
	Server Server `envPrefix:"SERVER_"`

	// Workers holds configuration for background reconciliation passes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Vault holds the cryptographic and storage-location settings the vault
// core needs before it can bootstrap or unlock a session.
type Vault struct {
	// KeyFilePath is the path to the sealed master-key file produced by
	// Bootstrap and consumed by Unlock.
	// Env: VAULT_KEY_FILE_PATH
	KeyFilePath string `env:"KEY_FILE_PATH"`

	// IndexPath is the path to the encrypted metadata index database.
	// Env: VAULT_INDEX_PATH
	IndexPath string `env:"INDEX_PATH"`

	// Argon2TimeCost overrides the default Argon2id time cost (number of
	// passes). Zero means "use the built-in default".
	// Env: VAULT_ARGON2_TIME_COST
	Argon2TimeCost uint32 `env:"ARGON2_TIME_COST"`

	// Argon2MemoryKiB overrides the default Argon2id memory cost in
	// kibibytes. Zero means "use the built-in default".
	// Env: VAULT_ARGON2_MEMORY_KIB
	Argon2MemoryKiB uint32 `env:"ARGON2_MEMORY_KIB"`

	// Argon2Threads overrides the default Argon2id parallelism degree.
	// Zero means "use the built-in default".
	// Env: VAULT_ARGON2_THREADS
	Argon2Threads uint8 `env:"ARGON2_THREADS"`
}

// ObjectStore holds the settings needed to reach the S3-compatible remote
// bucket that stores encrypted file envelopes.
type ObjectStore struct {
	// Endpoint is the S3-compatible API endpoint (e.g. a Storj DCS
	// gateway URL). Empty selects the AWS default resolver.
	// Env: OBJECT_STORE_ENDPOINT
	Endpoint string `env:"ENDPOINT"`

	// Region is the bucket region passed to the S3 client.
	// Env: OBJECT_STORE_REGION
	Region string `env:"REGION"`

	// BucketName is the name of the bucket that stores encrypted file
	// envelopes.
	// Env: OBJECT_STORE_BUCKET_NAME
	BucketName string `env:"BUCKET_NAME"`

	// AccessKeyID is the static access key id used to authenticate
	// against the object store.
	// Env: OBJECT_STORE_ACCESS_KEY_ID
	AccessKeyID string `env:"ACCESS_KEY_ID"`

	// SecretAccessKey is the static secret key used to authenticate
	// against the object store. Must be kept confidential.
	// Env: OBJECT_STORE_SECRET_ACCESS_KEY
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
}

// Trash holds retention settings for the soft-delete tier of the encrypted
// metadata index.
type Trash struct {
	// RetentionPeriod is how long a trashed entry is kept before a purge
	// pass is allowed to remove it permanently.
	// Env: TRASH_RETENTION_PERIOD
	RetentionPeriod time.Duration `env:"RETENTION_PERIOD"`
}

// Server holds network and timeout settings for the CLI's optional local
// status/control surface.
type Server struct {
	// HTTPAddress is the TCP address on which the local status server
	// listens, in "host:port" format (e.g. "127.0.0.1:8765").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single local
	// status request before it is cancelled.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds configuration for the background reconciliation pass that
// diffs the encrypted index against the remote bucket.
type Workers struct {
	// SyncInterval defines how often the reconcile pass should run.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the vault configuration
// from all available sources in the following priority order (last source
// wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}

// LoadConfig loads and merges configuration from environment variables and
// an optional JSON file, the same way [GetStructuredConfig] does, but skips
// the [withFlags] source and final [StructuredConfig.validate] check.
//
// It exists for front ends that parse flags with their own library (cobra's
// root command registers its own flag set on os.Args, which would collide
// with the stdlib flag.Parse call inside [ParseFlags]) and that only need a
// subset of the configuration to be present depending on which subcommand
// ran. Callers should apply their own flag values on top of the returned
// config and call [StructuredConfig.ValidateVault] /
// [StructuredConfig.ValidateObjectStore] for the groups they actually need.
func LoadConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withJSON().
		buildUnvalidated()
}
