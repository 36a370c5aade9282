// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aether-drive/vault-core/internal/aether"
	"github.com/aether-drive/vault-core/internal/index"
)

var encryptFileCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Seal a local plaintext file into an Aether envelope under a logical path",
	RunE:  runEncryptFile,
}

func init() {
	f := encryptFileCmd.Flags()
	f.String("input", "", "Path to the local plaintext file (required)")
	f.String("path", "", "Logical path the envelope is bound to (required)")
	f.String("output", "", "Path to write the envelope to (default: stdout)")
	f.Bool("remote", false, "Upload the envelope to the object store instead of --output")
	_ = encryptFileCmd.MarkFlagRequired("input")
	_ = encryptFileCmd.MarkFlagRequired("path")
	rootCmd.AddCommand(encryptFileCmd)
}

func runEncryptFile(cmd *cobra.Command, args []string) error {
	cfg, sess, closeSession, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeSession()

	inputPath, _ := cmd.Flags().GetString("input")
	logicalPath, _ := cmd.Flags().GetString("path")
	outputPath, _ := cmd.Flags().GetString("output")
	remote, _ := cmd.Flags().GetBool("remote")

	plaintext, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("aethervault: read input file: %w", err)
	}

	mk, err := sess.MasterKey()
	if err != nil {
		return err
	}
	defer mk.Zero()

	envelope, err := aether.EncryptFile(mk, plaintext, logicalPath)
	if err != nil {
		return err
	}

	h, _, err := aether.Decode(envelope)
	if err != nil {
		return err
	}
	fileID := uuid.Must(uuid.FromBytes(h.UUID[:])).String()

	ctx := context.Background()

	idx, err := openIndex(ctx, cfg.Vault.IndexPath, mk)
	if err != nil {
		return err
	}
	defer idx.Close()

	meta := index.FileMetadata{LogicalPath: logicalPath, EncryptedSize: uint64(len(envelope))}

	if remote {
		store, err := openObjectStore(cfg)
		if err != nil {
			return err
		}
		// Per the concurrency model's ordering requirement, the remote
		// upload commits before the index row is written: a crash between
		// the two leaves a remote object with no index row, never an index
		// row pointing at an object that was not uploaded.
		if err := store.Put(ctx, fileID, envelope); err != nil {
			return err
		}
	} else if outputPath != "" {
		if err := os.WriteFile(outputPath, envelope, 0o600); err != nil {
			return fmt.Errorf("aethervault: write envelope: %w", err)
		}
	} else {
		if _, err := cmd.OutOrStdout().Write(envelope); err != nil {
			return fmt.Errorf("aethervault: write envelope to stdout: %w", err)
		}
	}

	if err := idx.Upsert(ctx, fileID, meta); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "encrypted %s -> file id %s (%d bytes)\n", logicalPath, fileID, len(envelope))
	return nil
}
