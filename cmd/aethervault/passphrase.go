// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/aether-drive/vault-core/internal/cryptovault"
)

// resolvePassphrase returns the vault passphrase for a command invocation.
// An explicit flag value always wins; otherwise it reads from the
// VAULT_PASSPHRASE environment variable; otherwise it prompts on stderr and
// reads from stdin, suppressing terminal echo when stdin is a real
// terminal and falling back to a plain line read when it is piped (e.g.
// under test or from a script).
func resolvePassphrase(flagValue string) (*cryptovault.Passphrase, error) {
	return resolvePassphraseNamed(flagValue, "VAULT_PASSPHRASE", "Passphrase: ")
}

// resolveNewPassphrase is the change-password counterpart: it reads the
// replacement passphrase from its own flag, its own environment variable,
// and its own prompt label so it is never confused with the old passphrase
// being verified in the same invocation.
func resolveNewPassphrase(flagValue string) (*cryptovault.Passphrase, error) {
	return resolvePassphraseNamed(flagValue, "VAULT_NEW_PASSPHRASE", "New passphrase: ")
}

func resolvePassphraseNamed(flagValue, envVar, prompt string) (*cryptovault.Passphrase, error) {
	if flagValue != "" {
		return cryptovault.NewPassphrase(flagValue), nil
	}

	if env := os.Getenv(envVar); env != "" {
		return cryptovault.NewPassphrase(env), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("read passphrase: %w", err)
		}
		return cryptovault.NewPassphrase(string(b)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	return cryptovault.NewPassphrase(strings.TrimRight(line, "\r\n")), nil
}
