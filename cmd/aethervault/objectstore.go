// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/aether-drive/vault-core/internal/config"
	"github.com/aether-drive/vault-core/internal/objectstore"
)

// openObjectStore validates the remote object store fields of cfg and
// constructs the S3-compatible client the CLI uses for --remote operations.
func openObjectStore(cfg *config.StructuredConfig) (objectstore.Store, error) {
	if err := cfg.ValidateObjectStore(); err != nil {
		return nil, err
	}

	return objectstore.NewS3Store(objectstore.S3Config{
		AccessKeyID:     cfg.ObjectStore.AccessKeyID,
		SecretAccessKey: cfg.ObjectStore.SecretAccessKey,
		Endpoint:        cfg.ObjectStore.Endpoint,
		BucketName:      cfg.ObjectStore.BucketName,
		Region:          cfg.ObjectStore.Region,
	}, log)
}
