// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aether-drive/vault-core/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect and mutate the encrypted metadata index",
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexOpenCmd := &cobra.Command{
		Use:   "open",
		Short: "Open (creating if absent) the index and report its row count and Merkle root",
		RunE:  runIndexOpen,
	}

	indexUpsertCmd := &cobra.Command{
		Use:   "upsert",
		Short: "Insert or replace the metadata for a file id",
		RunE:  runIndexUpsert,
	}
	uf := indexUpsertCmd.Flags()
	uf.String("file-id", "", "File id (required)")
	uf.String("path", "", "Logical path (required)")
	uf.Uint64("size", 0, "Encrypted size in bytes")
	_ = indexUpsertCmd.MarkFlagRequired("file-id")
	_ = indexUpsertCmd.MarkFlagRequired("path")

	indexGetCmd := &cobra.Command{
		Use:   "get",
		Short: "Print the metadata for a file id",
		RunE:  runIndexGet,
	}
	indexGetCmd.Flags().String("file-id", "", "File id (required)")
	_ = indexGetCmd.MarkFlagRequired("file-id")

	indexRemoveCmd := &cobra.Command{
		Use:   "remove",
		Short: "Delete the active row for a file id",
		RunE:  runIndexRemove,
	}
	indexRemoveCmd.Flags().String("file-id", "", "File id (required)")
	_ = indexRemoveCmd.MarkFlagRequired("file-id")

	indexListAllCmd := &cobra.Command{
		Use:   "list",
		Short: "List every active (file id, metadata) pair",
		RunE:  runIndexListAll,
	}

	indexVerifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Rebuild the Merkle root from active rows and compare against the persisted root",
		RunE:  runIndexVerifyIntegrity,
	}

	indexMerkleRootCmd := &cobra.Command{
		Use:   "merkle-root",
		Short: "Print the persisted Merkle root",
		RunE:  runIndexMerkleRoot,
	}

	indexCmd.AddCommand(
		indexOpenCmd,
		indexUpsertCmd,
		indexGetCmd,
		indexRemoveCmd,
		indexListAllCmd,
		indexVerifyCmd,
		indexMerkleRootCmd,
		trashCmd,
	)
}

func runIndexOpen(cmd *cobra.Command, args []string) error {
	cfg, sess, closeSession, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeSession()

	ctx := context.Background()
	mk, err := sess.MasterKey()
	if err != nil {
		return err
	}
	defer mk.Zero()

	idx, err := openIndex(ctx, cfg.Vault.IndexPath, mk)
	if err != nil {
		return err
	}
	defer idx.Close()

	n, err := idx.Len(ctx)
	if err != nil {
		return err
	}
	root, err := idx.MerkleRoot(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "rows: %d\nmerkle_root: %s\n", n, hex.EncodeToString(root[:]))
	return nil
}

func runIndexUpsert(cmd *cobra.Command, args []string) error {
	cfg, sess, closeSession, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeSession()

	fileID, _ := cmd.Flags().GetString("file-id")
	path, _ := cmd.Flags().GetString("path")
	size, _ := cmd.Flags().GetUint64("size")

	ctx := context.Background()
	mk, err := sess.MasterKey()
	if err != nil {
		return err
	}
	defer mk.Zero()

	idx, err := openIndex(ctx, cfg.Vault.IndexPath, mk)
	if err != nil {
		return err
	}
	defer idx.Close()

	if err := idx.Upsert(ctx, fileID, index.FileMetadata{LogicalPath: path, EncryptedSize: size}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "upserted %s -> %s (%d bytes)\n", fileID, path, size)
	return nil
}

func runIndexGet(cmd *cobra.Command, args []string) error {
	cfg, sess, closeSession, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeSession()

	fileID, _ := cmd.Flags().GetString("file-id")

	ctx := context.Background()
	mk, err := sess.MasterKey()
	if err != nil {
		return err
	}
	defer mk.Zero()

	idx, err := openIndex(ctx, cfg.Vault.IndexPath, mk)
	if err != nil {
		return err
	}
	defer idx.Close()

	meta, ok, err := idx.Get(ctx, fileID)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: not found\n", fileID)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: path=%s size=%d folder_marker=%t\n",
		fileID, meta.LogicalPath, meta.EncryptedSize, index.IsFolderMarker(meta))
	return nil
}

func runIndexRemove(cmd *cobra.Command, args []string) error {
	cfg, sess, closeSession, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeSession()

	fileID, _ := cmd.Flags().GetString("file-id")

	ctx := context.Background()
	mk, err := sess.MasterKey()
	if err != nil {
		return err
	}
	defer mk.Zero()

	idx, err := openIndex(ctx, cfg.Vault.IndexPath, mk)
	if err != nil {
		return err
	}
	defer idx.Close()

	if err := idx.Remove(ctx, fileID); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", fileID)
	return nil
}

func runIndexListAll(cmd *cobra.Command, args []string) error {
	cfg, sess, closeSession, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeSession()

	ctx := context.Background()
	mk, err := sess.MasterKey()
	if err != nil {
		return err
	}
	defer mk.Zero()

	idx, err := openIndex(ctx, cfg.Vault.IndexPath, mk)
	if err != nil {
		return err
	}
	defer idx.Close()

	entries, err := idx.ListAll(ctx)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := cmd.OutOrStdout()
	for _, id := range ids {
		meta := entries[id]
		fmt.Fprintf(out, "%s\t%s\t%s\n", id, meta.LogicalPath, strconv.FormatUint(meta.EncryptedSize, 10))
	}
	return nil
}

func runIndexVerifyIntegrity(cmd *cobra.Command, args []string) error {
	cfg, sess, closeSession, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeSession()

	ctx := context.Background()
	mk, err := sess.MasterKey()
	if err != nil {
		return err
	}
	defer mk.Zero()

	idx, err := openIndex(ctx, cfg.Vault.IndexPath, mk)
	if err != nil {
		return err
	}
	defer idx.Close()

	ok, err := idx.VerifyIntegrity(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "integrity_ok: %t\n", ok)
	return nil
}

func runIndexMerkleRoot(cmd *cobra.Command, args []string) error {
	cfg, sess, closeSession, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeSession()

	ctx := context.Background()
	mk, err := sess.MasterKey()
	if err != nil {
		return err
	}
	defer mk.Zero()

	idx, err := openIndex(ctx, cfg.Vault.IndexPath, mk)
	if err != nil {
		return err
	}
	defer idx.Close()

	root, err := idx.MerkleRoot(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(root[:]))
	return nil
}
