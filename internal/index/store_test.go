package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aether-drive/vault-core/internal/cryptovault"
	"github.com/aether-drive/vault-core/internal/logger"
	"github.com/aether-drive/vault-core/internal/vaulterr"
)

func testMasterKey(t *testing.T) *cryptovault.MasterKey {
	t.Helper()
	h := cryptovault.NewHierarchy(cryptovault.Argon2Params{TimeCost: 1, MemoryKiB: 8 * 1024, Threads: 1})
	mk, _, err := h.Bootstrap(cryptovault.NewPassphrase("index-test-passphrase"))
	if err != nil {
		t.Fatalf("Bootstrap error: %v", err)
	}
	return mk
}

func openTestStore(t *testing.T, dbPath string, mk *cryptovault.MasterKey) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, dbPath, mk, logger.Nop())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_FreshIndexIsEmptyAndVerifies(t *testing.T) {
	ctx := context.Background()
	mk := testMasterKey(t)
	dbPath := filepath.Join(t.TempDir(), "index.db")

	s := openTestStore(t, dbPath, mk)

	empty, err := s.IsEmpty(ctx)
	if err != nil {
		t.Fatalf("IsEmpty error: %v", err)
	}
	if !empty {
		t.Fatalf("expected a freshly opened index to be empty")
	}

	ok, err := s.VerifyIntegrity(ctx)
	if err != nil {
		t.Fatalf("VerifyIntegrity error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a freshly opened index to verify")
	}
}

func TestOpen_WrongMasterKeyFailsWithoutTouchingFile(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "index.db")

	mk1 := testMasterKey(t)
	s1, err := Open(ctx, dbPath, mk1, logger.Nop())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if err := s1.Upsert(ctx, "f1", FileMetadata{LogicalPath: "/a", EncryptedSize: 10}); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	s1.Close()

	mk2 := testMasterKey(t)
	_, err = Open(ctx, dbPath, mk2, logger.Nop())
	if err == nil {
		t.Fatalf("expected Open with the wrong master key to fail")
	}
	kind, ok := vaulterr.Of(err)
	if !ok || kind != vaulterr.KindWrongKey {
		t.Fatalf("expected KindWrongKey, got %v (ok=%v)", kind, ok)
	}

	// The file must still be openable and correct under the right key.
	s3, err := Open(ctx, dbPath, mk1, logger.Nop())
	if err != nil {
		t.Fatalf("expected the index file to survive a failed wrong-key open, got: %v", err)
	}
	defer s3.Close()

	meta, found, err := s3.Get(ctx, "f1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !found || meta.LogicalPath != "/a" {
		t.Fatalf("expected the previously upserted row to survive, got found=%v meta=%+v", found, meta)
	}
}

func TestUpsertGetRemove_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mk := testMasterKey(t)
	s := openTestStore(t, filepath.Join(t.TempDir(), "index.db"), mk)

	meta := FileMetadata{LogicalPath: "/documents/report.pdf", EncryptedSize: 123456}
	if err := s.Upsert(ctx, "file-1", meta); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}

	got, found, err := s.Get(ctx, "file-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !found {
		t.Fatalf("expected file-1 to be found")
	}
	if got != meta {
		t.Fatalf("got %+v, want %+v", got, meta)
	}

	if err := s.Remove(ctx, "file-1"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	_, found, err = s.Get(ctx, "file-1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if found {
		t.Fatalf("expected file-1 to be absent after Remove")
	}
}

func TestGet_AbsentReturnsNotFoundWithoutError(t *testing.T) {
	ctx := context.Background()
	mk := testMasterKey(t)
	s := openTestStore(t, filepath.Join(t.TempDir(), "index.db"), mk)

	_, found, err := s.Get(ctx, "nonexistent")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if found {
		t.Fatalf("expected absent file id to report found=false")
	}
}

func TestVerifyIntegrity_HoldsAfterUpsertsAndRemoves(t *testing.T) {
	ctx := context.Background()
	mk := testMasterKey(t)
	s := openTestStore(t, filepath.Join(t.TempDir(), "index.db"), mk)

	entries := []struct {
		id   FileID
		meta FileMetadata
	}{
		{"f1", FileMetadata{LogicalPath: "/a", EncryptedSize: 1024}},
		{"f2", FileMetadata{LogicalPath: "/b", EncryptedSize: 2048}},
		{"f3", FileMetadata{LogicalPath: "/c", EncryptedSize: 4096}},
	}
	for _, e := range entries {
		if err := s.Upsert(ctx, e.id, e.meta); err != nil {
			t.Fatalf("Upsert(%s) error: %v", e.id, err)
		}
	}
	if err := s.Remove(ctx, "f2"); err != nil {
		t.Fatalf("Remove error: %v", err)
	}

	ok, err := s.VerifyIntegrity(ctx)
	if err != nil {
		t.Fatalf("VerifyIntegrity error: %v", err)
	}
	if !ok {
		t.Fatalf("expected VerifyIntegrity to hold after a sequence of upserts and removes")
	}
}

func TestMerkleRootPersisted_MatchesPackageLevelComputation(t *testing.T) {
	ctx := context.Background()
	mk := testMasterKey(t)
	s := openTestStore(t, filepath.Join(t.TempDir(), "index.db"), mk)

	entries := map[FileID]FileMetadata{
		"f1": {LogicalPath: "/a", EncryptedSize: 1024},
		"f2": {LogicalPath: "/b", EncryptedSize: 2048},
	}
	for id, meta := range entries {
		if err := s.Upsert(ctx, id, meta); err != nil {
			t.Fatalf("Upsert(%s) error: %v", id, err)
		}
	}

	persisted, err := s.MerkleRoot(ctx)
	if err != nil {
		t.Fatalf("MerkleRoot error: %v", err)
	}
	if persisted != MerkleRoot(entries) {
		t.Fatalf("persisted merkle root does not match the package-level computation")
	}
}

func TestTrashLifecycle_MoveRestorePurge(t *testing.T) {
	ctx := context.Background()
	mk := testMasterKey(t)
	s := openTestStore(t, filepath.Join(t.TempDir(), "index.db"), mk)

	meta := FileMetadata{LogicalPath: "/trash-me.txt", EncryptedSize: 512}
	if err := s.Upsert(ctx, "f1", meta); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}

	moved, err := s.MoveToTrash(ctx, "f1", 1700000000)
	if err != nil {
		t.Fatalf("MoveToTrash error: %v", err)
	}
	if !moved {
		t.Fatalf("expected MoveToTrash to report moved=true")
	}

	if _, found, _ := s.Get(ctx, "f1"); found {
		t.Fatalf("expected f1 to no longer be active after MoveToTrash")
	}

	trashed, err := s.ListTrash(ctx)
	if err != nil {
		t.Fatalf("ListTrash error: %v", err)
	}
	if len(trashed) != 1 || trashed[0].FileID != "f1" {
		t.Fatalf("expected exactly one trash entry for f1, got %+v", trashed)
	}

	// Trash rows must not be counted in the merkle root.
	ok, err := s.VerifyIntegrity(ctx)
	if err != nil {
		t.Fatalf("VerifyIntegrity error: %v", err)
	}
	if !ok {
		t.Fatalf("expected integrity to hold with a trashed (non-active) row present")
	}
	root, err := s.MerkleRoot(ctx)
	if err != nil {
		t.Fatalf("MerkleRoot error: %v", err)
	}
	if root != emptyMerkleRoot {
		t.Fatalf("expected the merkle root to exclude trashed rows")
	}

	restored, err := s.RestoreFromTrash(ctx, "f1")
	if err != nil {
		t.Fatalf("RestoreFromTrash error: %v", err)
	}
	if !restored {
		t.Fatalf("expected RestoreFromTrash to report restored=true")
	}
	if got, found, _ := s.Get(ctx, "f1"); !found || got != meta {
		t.Fatalf("expected f1 to be restored with its original metadata, got found=%v meta=%+v", found, got)
	}

	moved, err = s.MoveToTrash(ctx, "f1", 1700000001)
	if err != nil || !moved {
		t.Fatalf("MoveToTrash (second time) error=%v moved=%v", err, moved)
	}
	purged, err := s.RemoveFromTrash(ctx, "f1")
	if err != nil {
		t.Fatalf("RemoveFromTrash error: %v", err)
	}
	if !purged {
		t.Fatalf("expected RemoveFromTrash to report purged=true")
	}
	trashed, err = s.ListTrash(ctx)
	if err != nil {
		t.Fatalf("ListTrash error: %v", err)
	}
	if len(trashed) != 0 {
		t.Fatalf("expected trash to be empty after purge, got %+v", trashed)
	}
}

func TestEmptyTrash_ReturnsCountAndClears(t *testing.T) {
	ctx := context.Background()
	mk := testMasterKey(t)
	s := openTestStore(t, filepath.Join(t.TempDir(), "index.db"), mk)

	for i, id := range []FileID{"t1", "t2", "t3"} {
		if err := s.Upsert(ctx, id, FileMetadata{LogicalPath: "/x", EncryptedSize: uint64(i)}); err != nil {
			t.Fatalf("Upsert error: %v", err)
		}
		if _, err := s.MoveToTrash(ctx, id, 1700000000); err != nil {
			t.Fatalf("MoveToTrash error: %v", err)
		}
	}

	count, err := s.EmptyTrash(ctx)
	if err != nil {
		t.Fatalf("EmptyTrash error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected EmptyTrash to report 3, got %d", count)
	}

	trashed, err := s.ListTrash(ctx)
	if err != nil {
		t.Fatalf("ListTrash error: %v", err)
	}
	if len(trashed) != 0 {
		t.Fatalf("expected an empty trash tier after EmptyTrash")
	}
}

func TestGet_TamperedLogicalPathIsDetectedByRowMAC(t *testing.T) {
	ctx := context.Background()
	mk := testMasterKey(t)
	dbPath := filepath.Join(t.TempDir(), "index.db")
	s := openTestStore(t, dbPath, mk)

	if err := s.Upsert(ctx, "f1", FileMetadata{LogicalPath: "/original.txt", EncryptedSize: 100}); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}

	// Simulate an attacker who has DbKey/IndexMacKey access to the raw
	// table re-sealing a row with a different logical path but reusing the
	// original row_mac — the row MAC must still catch the substitution.
	tamperedPayload, err := sealRow(s.dbKey, "f1", FileMetadata{LogicalPath: "/attacker-renamed.txt", EncryptedSize: 100})
	if err != nil {
		t.Fatalf("sealRow error: %v", err)
	}
	originalMAC := rowMAC(s.macKey, "f1", FileMetadata{LogicalPath: "/original.txt", EncryptedSize: 100})

	if _, err := s.DB.ExecContext(ctx, upsertActiveSQL, "f1", tamperedPayload, originalMAC); err != nil {
		t.Fatalf("direct tamper exec error: %v", err)
	}

	_, _, err = s.Get(ctx, "f1")
	if err == nil {
		t.Fatalf("expected Get to detect the row mac mismatch on a tampered logical_path")
	}
	kind, ok := vaulterr.Of(err)
	if !ok || kind != vaulterr.KindCorrupt {
		t.Fatalf("expected KindCorrupt, got %v (ok=%v)", kind, ok)
	}
}

func TestIsFolderMarker(t *testing.T) {
	if !IsFolderMarker(FileMetadata{LogicalPath: "/photos/", EncryptedSize: 0}) {
		t.Fatalf("expected a zero-size, slash-terminated path to be a folder marker")
	}
	if IsFolderMarker(FileMetadata{LogicalPath: "/photos/img.png", EncryptedSize: 100}) {
		t.Fatalf("expected a regular file to not be a folder marker")
	}
	if IsFolderMarker(FileMetadata{LogicalPath: "/photos", EncryptedSize: 0}) {
		t.Fatalf("expected a zero-size path without a trailing slash to not be a folder marker")
	}
}
