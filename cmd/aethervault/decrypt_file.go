// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aether-drive/vault-core/internal/aether"
)

var decryptFileCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Open an Aether envelope back into plaintext",
	RunE:  runDecryptFile,
}

func init() {
	f := decryptFileCmd.Flags()
	f.String("file-id", "", "File id the envelope was stored under (required with --remote)")
	f.String("path", "", "Logical path the envelope was encrypted under (required)")
	f.String("input", "", "Path to a local envelope file (required unless --remote is set)")
	f.String("output", "", "Path to write the recovered plaintext to (default: stdout)")
	f.Bool("remote", false, "Download the envelope from the object store by --file-id")
	_ = decryptFileCmd.MarkFlagRequired("path")
	rootCmd.AddCommand(decryptFileCmd)
}

func runDecryptFile(cmd *cobra.Command, args []string) error {
	cfg, sess, closeSession, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeSession()

	logicalPath, _ := cmd.Flags().GetString("path")
	fileID, _ := cmd.Flags().GetString("file-id")
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	remote, _ := cmd.Flags().GetBool("remote")

	ctx := context.Background()

	var envelope []byte
	switch {
	case remote:
		if fileID == "" {
			return fmt.Errorf("aethervault: --file-id is required with --remote")
		}
		store, err := openObjectStore(cfg)
		if err != nil {
			return err
		}
		envelope, err = store.Get(ctx, fileID)
		if err != nil {
			return err
		}
	case inputPath != "":
		envelope, err = os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("aethervault: read envelope file: %w", err)
		}
	default:
		return fmt.Errorf("aethervault: either --input or --remote with --file-id is required")
	}

	mk, err := sess.MasterKey()
	if err != nil {
		return err
	}
	defer mk.Zero()

	plaintext, err := aether.DecryptFile(mk, envelope, logicalPath)
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, plaintext, 0o600); err != nil {
			return fmt.Errorf("aethervault: write plaintext: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "decrypted %s -> %s (%d bytes)\n", logicalPath, outputPath, len(plaintext))
		return nil
	}

	_, err = cmd.OutOrStdout().Write(plaintext)
	return err
}
