// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Manage the encrypted index's soft-delete tier",
}

func init() {
	// trashCmd is registered as a child of indexCmd (see index.go's init),
	// not as a top-level rootCmd subcommand.

	moveCmd := &cobra.Command{
		Use:   "move-to-trash",
		Short: "Move an active row into the trash tier",
		RunE:  runMoveToTrash,
	}
	moveCmd.Flags().String("file-id", "", "File id (required)")
	_ = moveCmd.MarkFlagRequired("file-id")

	restoreCmd := &cobra.Command{
		Use:   "restore-from-trash",
		Short: "Move a trashed row back into the active set",
		RunE:  runRestoreFromTrash,
	}
	restoreCmd.Flags().String("file-id", "", "File id (required)")
	_ = restoreCmd.MarkFlagRequired("file-id")

	listCmd := &cobra.Command{
		Use:   "list-trash",
		Short: "List every trashed entry",
		RunE:  runListTrash,
	}

	removeCmd := &cobra.Command{
		Use:   "remove-from-trash",
		Short: "Permanently delete a single trashed row",
		RunE:  runRemoveFromTrash,
	}
	removeCmd.Flags().String("file-id", "", "File id (required)")
	_ = removeCmd.MarkFlagRequired("file-id")

	emptyCmd := &cobra.Command{
		Use:   "empty-trash",
		Short: "Permanently delete every trashed row",
		RunE:  runEmptyTrash,
	}

	trashCmd.AddCommand(moveCmd, restoreCmd, listCmd, removeCmd, emptyCmd)
}

func runMoveToTrash(cmd *cobra.Command, args []string) error {
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

	moved, err := idx.MoveToTrash(ctx, fileID, time.Now().Unix())
	if err != nil {
		return err
	}

	if moved {
		fmt.Fprintf(cmd.OutOrStdout(), "moved %s to trash\n", fileID)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: no active row\n", fileID)
	}
	return nil
}

func runRestoreFromTrash(cmd *cobra.Command, args []string) error {
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

	restored, err := idx.RestoreFromTrash(ctx, fileID)
	if err != nil {
		return err
	}

	if restored {
		fmt.Fprintf(cmd.OutOrStdout(), "restored %s from trash\n", fileID)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: no trash row\n", fileID)
	}
	return nil
}

func runListTrash(cmd *cobra.Command, args []string) error {
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

	entries, err := idx.ListTrash(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, e := range entries {
		fmt.Fprintf(out, "%s\t%s\t%d\tdeleted_at=%s\n", e.FileID, e.LogicalPath, e.EncryptedSize,
			time.Unix(e.DeletedAt, 0).UTC().Format(time.RFC3339))
	}
	return nil
}

func runRemoveFromTrash(cmd *cobra.Command, args []string) error {
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

	removed, err := idx.RemoveFromTrash(ctx, fileID)
	if err != nil {
		return err
	}

	if removed {
		fmt.Fprintf(cmd.OutOrStdout(), "permanently removed %s\n", fileID)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: no trash row\n", fileID)
	}
	return nil
}

func runEmptyTrash(cmd *cobra.Command, args []string) error {
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

	n, err := idx.EmptyTrash(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "purged %d trash rows\n", n)
	return nil
}
