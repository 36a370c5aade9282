// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aether-drive/vault-core/internal/cryptovault"
)

var changePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Rotate the passphrase without touching the MasterKey or any encrypted data",
	RunE:  runChangePassword,
}

func init() {
	changePasswordCmd.Flags().String("new-passphrase", "", "New vault passphrase (prefer VAULT_NEW_PASSPHRASE or the interactive prompt)")
	rootCmd.AddCommand(changePasswordCmd)
}

func runChangePassword(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateVault(); err != nil {
		return err
	}

	if !cryptovault.KeyFileExists(cfg.Vault.KeyFilePath) {
		return fmt.Errorf("aethervault: no key file at %s; run bootstrap first", cfg.Vault.KeyFilePath)
	}

	kf, err := cryptovault.LoadKeyFile(cfg.Vault.KeyFilePath)
	if err != nil {
		return err
	}

	oldFlag, _ := cmd.Flags().GetString("passphrase")
	oldPass, err := resolvePassphrase(oldFlag)
	if err != nil {
		return err
	}
	defer oldPass.Zero()

	newFlag, _ := cmd.Flags().GetString("new-passphrase")
	newPass, err := resolveNewPassphrase(newFlag)
	if err != nil {
		return err
	}
	defer newPass.Zero()

	h := cryptovault.NewHierarchy(kf.Argon2)
	newKF, err := h.ChangePassword(oldPass, newPass, kf)
	if err != nil {
		return err
	}

	if err := cryptovault.SaveKeyFile(cfg.Vault.KeyFilePath, newKF); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "passphrase changed")
	return nil
}
