// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aether-drive/vault-core/internal/reconcile"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Diff and repair the encrypted index against the remote object store",
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	diffCmd := &cobra.Command{
		Use:   "diff",
		Short: "Report orphan index entries and unreconciled remote objects",
		RunE:  runReconcileDiff,
	}
	diffCmd.Flags().String("prefix", "", "Remote object key prefix to scan")

	repairCmd := &cobra.Command{
		Use:   "repair",
		Short: "Remove orphan index entries and surface unreconciled remote objects",
		RunE:  runReconcileRepair,
	}
	repairCmd.Flags().String("prefix", "", "Remote object key prefix to scan")
	repairCmd.Flags().Bool("remove-orphans", true, "Remove index entries with no corresponding remote object")
	repairCmd.Flags().Bool("surface-unreconciled", true, "Insert placeholder active entries for unreconciled remote objects")

	reconcileCmd.AddCommand(diffCmd, repairCmd)
}

func runReconcileDiff(cmd *cobra.Command, args []string) error {
	cfg, sess, closeSession, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeSession()

	prefix, _ := cmd.Flags().GetString("prefix")

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

	store, err := openObjectStore(cfg)
	if err != nil {
		return err
	}

	report, err := reconcile.Diff(ctx, idx, store, prefix)
	if err != nil {
		return err
	}

	printReconcileReport(cmd, report)
	return nil
}

func runReconcileRepair(cmd *cobra.Command, args []string) error {
	cfg, sess, closeSession, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer closeSession()

	prefix, _ := cmd.Flags().GetString("prefix")
	removeOrphans, _ := cmd.Flags().GetBool("remove-orphans")
	surfaceUnreconciled, _ := cmd.Flags().GetBool("surface-unreconciled")

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

	store, err := openObjectStore(cfg)
	if err != nil {
		return err
	}

	report, err := reconcile.Diff(ctx, idx, store, prefix)
	if err != nil {
		return err
	}
	printReconcileReport(cmd, report)

	if removeOrphans {
		if err := reconcile.RemoveOrphans(ctx, idx, report, log); err != nil {
			return err
		}
	}

	if surfaceUnreconciled && len(report.UnreconciledRemoteObjects) > 0 {
		sizes := make(map[string]uint64, len(report.UnreconciledRemoteObjects))
		for _, key := range report.UnreconciledRemoteObjects {
			body, err := store.Get(ctx, key)
			if err != nil {
				return err
			}
			sizes[key] = uint64(len(body))
		}
		if err := reconcile.SurfaceUnreconciled(ctx, idx, report, sizes); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), "repair complete")
	return nil
}

func printReconcileReport(cmd *cobra.Command, report reconcile.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "orphan_index_entries: %d\n", len(report.OrphanIndexEntries))
	for _, id := range report.OrphanIndexEntries {
		fmt.Fprintf(out, "  %s\n", id)
	}
	fmt.Fprintf(out, "unreconciled_remote_objects: %d\n", len(report.UnreconciledRemoteObjects))
	for _, key := range report.UnreconciledRemoteObjects {
		fmt.Fprintf(out, "  %s -> %s\n", key, reconcile.UnreconciledLogicalPath(key))
	}
}
