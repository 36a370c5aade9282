// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aether-drive/vault-core/internal/config"
)

// registerConfigFlags adds the persistent flags every subcommand may draw
// configuration overrides from. Values loaded via internal/config.LoadConfig
// (environment variables and an optional JSON file) are used whenever a
// flag is left unset.
func registerConfigFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("key-file", "", "Sealed master-key file path")
	pf.String("index", "", "Encrypted metadata index path")
	pf.String("config", "", "JSON config file path")
	pf.String("passphrase", "", "Vault passphrase (prefer VAULT_PASSPHRASE or the interactive prompt)")
	pf.String("endpoint", "", "Object store API endpoint")
	pf.String("region", "", "Object store region")
	pf.String("bucket", "", "Object store bucket name")
	pf.String("access-key-id", "", "Object store access key id")
	pf.String("secret-access-key", "", "Object store secret access key")
}

// resolveConfig merges internal/config.LoadConfig (env + optional JSON file)
// with any of the persistent flags registered by registerConfigFlags that
// the user actually set on this invocation; flags take precedence.
func resolveConfig(cmd *cobra.Command) (*config.StructuredConfig, error) {
	if jsonPath, _ := cmd.Flags().GetString("config"); jsonPath != "" {
		// Route an explicit -config flag through the same env var the
		// builder already knows how to read, so LoadConfig's JSON-path
		// resolution covers both sources uniformly.
		if err := os.Setenv("CONFIG", jsonPath); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	overrideString(cmd, "key-file", &cfg.Vault.KeyFilePath)
	overrideString(cmd, "index", &cfg.Vault.IndexPath)
	overrideString(cmd, "endpoint", &cfg.ObjectStore.Endpoint)
	overrideString(cmd, "region", &cfg.ObjectStore.Region)
	overrideString(cmd, "bucket", &cfg.ObjectStore.BucketName)
	overrideString(cmd, "access-key-id", &cfg.ObjectStore.AccessKeyID)
	overrideString(cmd, "secret-access-key", &cfg.ObjectStore.SecretAccessKey)

	return cfg, nil
}

func overrideString(cmd *cobra.Command, flag string, dst *string) {
	if !cmd.Flags().Changed(flag) {
		return
	}
	v, err := cmd.Flags().GetString(flag)
	if err != nil {
		return
	}
	*dst = v
}

