// SPDX-License-Identifier: Apache-2.0

// Command aethervault is the command-line front end for the aether-drive
// vault core: one subcommand per cryptographic, index, or trash operation
// the core exposes, each wired straight to internal/cryptovault,
// internal/aether, internal/index, internal/objectstore, and
// internal/reconcile.
//
// Every subcommand is a single-shot process invocation: there is no
// long-lived daemon holding the unlocked MasterKey between commands, so
// unlock/change_password/encrypt_file/decrypt_file/index.* all accept a
// passphrase and key file directly and discard the derived key material
// before the process exits; lock reads neither and only validates the
// vault configuration.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aether-drive/vault-core/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

var log = logger.New("cli")

var rootCmd = &cobra.Command{
	Use:   "aethervault",
	Short: "aethervault manages an end-to-end-encrypted cloud storage vault",
	Long: "aethervault is the cryptographic core of an end-to-end-encrypted\n" +
		"cloud storage vault: it bootstraps and unlocks the key hierarchy,\n" +
		"seals and opens Aether envelopes, and maintains the encrypted\n" +
		"metadata index backing a logical file tree.",
}

func init() {
	cobra.OnInitialize(printBuildInfo)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	registerConfigFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Fprintf(os.Stderr, "aethervault %s (built %s, commit %s)\n", buildVersion, buildDate, buildCommit)
}
