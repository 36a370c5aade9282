// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aether-drive/vault-core/internal/config"
	"github.com/aether-drive/vault-core/internal/cryptovault"
)

// openSession resolves configuration, loads the key file, reads the
// passphrase, and unlocks the key hierarchy into a fresh in-process
// [cryptovault.Session]. Since each subcommand is its own process
// invocation there is no session held between commands; Session is still
// the type every key-consuming operation goes through to obtain the
// MasterKey, scoped here to one command's lifetime. Callers must invoke the
// returned close func (typically via defer) as soon as the command's
// cryptographic work is done, which zeroes the held key.
func openSession(cmd *cobra.Command) (*config.StructuredConfig, *cryptovault.Session, func(), error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.ValidateVault(); err != nil {
		return nil, nil, nil, err
	}

	if !cryptovault.KeyFileExists(cfg.Vault.KeyFilePath) {
		return nil, nil, nil, fmt.Errorf("aethervault: no key file at %s; run bootstrap first", cfg.Vault.KeyFilePath)
	}

	kf, err := cryptovault.LoadKeyFile(cfg.Vault.KeyFilePath)
	if err != nil {
		return nil, nil, nil, err
	}

	passphraseFlag, _ := cmd.Flags().GetString("passphrase")
	pass, err := resolvePassphrase(passphraseFlag)
	if err != nil {
		return nil, nil, nil, err
	}
	defer pass.Zero()

	h := cryptovault.NewHierarchy(kf.Argon2)
	mk, err := h.Unlock(pass, kf)
	if err != nil {
		return nil, nil, nil, err
	}
	defer mk.Zero()

	sess := cryptovault.NewSession()
	sess.Unlock(mk)

	return cfg, sess, sess.Lock, nil
}
