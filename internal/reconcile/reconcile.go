// SPDX-License-Identifier: Apache-2.0

// Package reconcile implements the repair path the concurrency model
// requires: a crash between "encrypt+upload" and "index.upsert" (or
// between "move_to_trash" and "remote delete") leaves the remote bucket
// and the index in one of two documented inconsistent states. This
// package walks both sides and reports (or fixes) the discrepancy; it
// never guesses a logical path for an object the index does not know
// about.
package reconcile

import (
	"context"
	"fmt"

	"github.com/aether-drive/vault-core/internal/index"
	"github.com/aether-drive/vault-core/internal/logger"
	"github.com/aether-drive/vault-core/internal/objectstore"
)

// unreconciledPathPrefix is the placeholder logical path used when a
// remote object exists with no corresponding index entry. The real
// logical path is unknown — one is never guessed or invented — so the
// operator must reconcile these entries explicitly.
const unreconciledPathPrefix = "/__unreconciled__/"

// Report is the result of a single reconciliation pass.
type Report struct {
	// OrphanIndexEntries are file ids present (active) in the index with
	// no corresponding remote object. These are safe to remove: they can
	// only arise from a crash before the remote upload committed.
	OrphanIndexEntries []string
	// UnreconciledRemoteObjects are remote object keys with no
	// corresponding active index entry. These are never auto-inserted
	// with a guessed logical path; the caller must reconcile them.
	UnreconciledRemoteObjects []string
}

// UnreconciledLogicalPath returns the placeholder logical path under which
// an unreconciled remote object would be presented if surfaced to the
// user, e.g. "/__unreconciled__/<uuid>".
func UnreconciledLogicalPath(objectKey string) string {
	return unreconciledPathPrefix + objectKey
}

// Diff walks every active index entry and every remote object under
// prefix, and reports the two kinds of partial-failure discrepancy the
// concurrency model documents. It performs no writes.
func Diff(ctx context.Context, store *index.Store, remote objectstore.Store, prefix string) (Report, error) {
	entries, err := store.ListAll(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("reconcile: list index entries: %w", err)
	}

	remoteKeys, err := remote.List(ctx, prefix)
	if err != nil {
		return Report{}, fmt.Errorf("reconcile: list remote objects: %w", err)
	}
	remoteSet := make(map[string]struct{}, len(remoteKeys))
	for _, k := range remoteKeys {
		remoteSet[k] = struct{}{}
	}

	var report Report
	for id := range entries {
		if _, ok := remoteSet[id]; !ok {
			report.OrphanIndexEntries = append(report.OrphanIndexEntries, id)
		}
	}
	for _, k := range remoteKeys {
		if _, ok := entries[k]; !ok {
			report.UnreconciledRemoteObjects = append(report.UnreconciledRemoteObjects, k)
		}
	}

	return report, nil
}

// RemoveOrphans deletes every orphan index entry in report from store. An
// orphan index entry is one whose remote object never committed, so its
// metadata is safe to discard outright (there is no partially-uploaded
// ciphertext anywhere to clean up).
func RemoveOrphans(ctx context.Context, store *index.Store, report Report, log *logger.Logger) error {
	for _, id := range report.OrphanIndexEntries {
		if err := store.Remove(ctx, id); err != nil {
			return fmt.Errorf("reconcile: remove orphan index entry %q: %w", id, err)
		}
		log.Info().Str("func", "reconcile.RemoveOrphans").Str("file_id", id).Msg("removed orphan index entry with no remote object")
	}
	return nil
}

// SurfaceUnreconciled inserts a placeholder active entry for every
// unreconciled remote object, using UnreconciledLogicalPath as its logical
// path and the object's remote size. This makes the object visible to a
// listing so the user can decide to rename/keep it or delete it, without
// ever fabricating a guess at its real logical path. The caller is
// expected to look up each object's actual size via the object store
// before calling this (sizes map key: object key -> size in bytes).
func SurfaceUnreconciled(ctx context.Context, store *index.Store, report Report, sizes map[string]uint64) error {
	for _, key := range report.UnreconciledRemoteObjects {
		meta := index.FileMetadata{
			LogicalPath:   UnreconciledLogicalPath(key),
			EncryptedSize: sizes[key],
		}
		if err := store.Upsert(ctx, key, meta); err != nil {
			return fmt.Errorf("reconcile: surface unreconciled object %q: %w", key, err)
		}
	}
	return nil
}
