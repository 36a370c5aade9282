// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aether-drive/vault-core/internal/cryptovault"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create a brand-new vault key hierarchy and write its key file",
	RunE:  runBootstrap,
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateVault(); err != nil {
		return err
	}

	if cryptovault.KeyFileExists(cfg.Vault.KeyFilePath) {
		return fmt.Errorf("aethervault: key file already exists at %s", cfg.Vault.KeyFilePath)
	}

	passphraseFlag, _ := cmd.Flags().GetString("passphrase")
	pass, err := resolvePassphrase(passphraseFlag)
	if err != nil {
		return err
	}
	defer pass.Zero()

	argon2 := cryptovault.DefaultArgon2Params()
	if cfg.Vault.Argon2TimeCost != 0 {
		argon2.TimeCost = cfg.Vault.Argon2TimeCost
	}
	if cfg.Vault.Argon2MemoryKiB != 0 {
		argon2.MemoryKiB = cfg.Vault.Argon2MemoryKiB
	}
	if cfg.Vault.Argon2Threads != 0 {
		argon2.Threads = cfg.Vault.Argon2Threads
	}

	h := cryptovault.NewHierarchy(argon2)
	mk, kf, err := h.Bootstrap(pass)
	if err != nil {
		return err
	}
	mk.Zero()

	if err := cryptovault.SaveKeyFile(cfg.Vault.KeyFilePath, kf); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "bootstrapped vault key file at %s\n", cfg.Vault.KeyFilePath)
	return nil
}
