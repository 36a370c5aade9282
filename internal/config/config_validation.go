// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants the vault core needs before it will bootstrap or unlock.
//
// Returns nil if the configuration is valid, or a descriptive error
// otherwise.
func (cfg *StructuredConfig) validate() error {
	if err := cfg.ValidateVault(); err != nil {
		return err
	}
	return cfg.ValidateObjectStore()
}

// ValidateVault checks that the local vault settings (key file and index
// paths) are present. Subcommands that never touch the remote object store
// (for example, inspecting a local index) call this instead of the stricter
// [StructuredConfig.validate].
func (cfg *StructuredConfig) ValidateVault() error {
	if cfg.Vault.KeyFilePath == "" {
		return ErrInvalidVaultConfig
	}

	if cfg.Vault.IndexPath == "" {
		return ErrInvalidVaultConfig
	}

	return nil
}

// ValidateObjectStore checks that the remote object store settings needed
// to reach the bucket are present. Subcommands that upload, download, list,
// or reconcile against the remote store call this in addition to
// [StructuredConfig.ValidateVault].
func (cfg *StructuredConfig) ValidateObjectStore() error {
	if cfg.ObjectStore.BucketName == "" {
		return ErrInvalidObjectStoreConfig
	}

	return nil
}
