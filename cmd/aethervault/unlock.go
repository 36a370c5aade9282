// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Verify the passphrase against the key file",
	Long: "unlock restores the MasterKey from the key file and the supplied\n" +
		"passphrase, then immediately discards it. It exists to let an\n" +
		"operator confirm a passphrase before scripting other commands\n" +
		"against it; every other subcommand performs the same unlock on its\n" +
		"own key material anyway, since no session persists between\n" +
		"process invocations.",
	RunE: runUnlock,
}

func init() {
	rootCmd.AddCommand(unlockCmd)
}

func runUnlock(cmd *cobra.Command, args []string) error {
	_, _, closeSession, err := openSession(cmd)
	if err != nil {
		return err
	}
	closeSession()

	fmt.Fprintln(cmd.OutOrStdout(), "unlock succeeded")
	return nil
}
