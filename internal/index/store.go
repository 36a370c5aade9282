// SPDX-License-Identifier: Apache-2.0

package index

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aether-drive/vault-core/internal/cryptovault"
	"github.com/aether-drive/vault-core/internal/logger"
)

// Store is the encrypted metadata index: a single-writer, MasterKey-derived
// key-value store of active file-id -> metadata rows, a soft-delete trash
// tier, and a persisted Merkle root over the active set. It embeds *sql.DB
// for the plain, unencrypted SQLite file used as the backing store; every
// row's payload is itself encrypted under DbKey at the application layer
// (see rowcrypto.go) since no CGo-free SQLCipher binding exists to encrypt
// the file as a whole.
type Store struct {
	*sql.DB

	logger *logger.Logger

	dbKey  *cryptovault.DbKey
	macKey *cryptovault.IndexMacKey

	// writeMu serializes writers per §5's single-writer requirement; reads
	// do not take it.
	writeMu sync.Mutex
}

// Open opens or creates the encrypted index file at path. It derives DbKey
// and IndexMacKey from mk, creates the schema if absent, and verifies a
// canary row to detect a key that does not match the file. If the file
// exists but the derived DbKey cannot open its canary row, Open returns a
// KindWrongKey error and leaves the file completely untouched — it never
// deletes or truncates an index file it fails to open.
func Open(ctx context.Context, path string, mk *cryptovault.MasterKey, log *logger.Logger) (*Store, error) {
	dbKey, err := cryptovault.DeriveDbKey(mk)
	if err != nil {
		return nil, err
	}
	macKey, err := cryptovault.DeriveIndexMacKey(mk)
	if err != nil {
		return nil, err
	}

	existed := fileExists(path)

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, ioErr("open index file", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, ioErr("ping index file", err)
	}

	s := &Store{DB: conn, logger: log, dbKey: dbKey, macKey: macKey}

	if _, err := conn.ExecContext(ctx, createSchemaSQL); err != nil {
		conn.Close()
		return nil, ioErr("create index schema", err)
	}

	if existed {
		if err := s.checkCanary(ctx); err != nil {
			conn.Close()
			log.Warn().Str("func", "index.Open").Str("path", path).Msg("index canary check failed; index file left untouched")
			return nil, err
		}
	} else {
		if err := s.initFreshMeta(ctx); err != nil {
			conn.Close()
			return nil, err
		}
	}

	return s, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}

func (s *Store) checkCanary(ctx context.Context) error {
	var blob []byte
	row := s.DB.QueryRowContext(ctx, getMetaSQL, metaKeyCanary)
	if err := row.Scan(&blob); err != nil {
		if err == sql.ErrNoRows {
			return corrupt("index file missing canary row", nil)
		}
		return ioErr("read canary row", err)
	}
	return openCanary(s.dbKey, blob)
}

func (s *Store) initFreshMeta(ctx context.Context) error {
	canary, err := sealCanary(s.dbKey)
	if err != nil {
		return err
	}
	if _, err := s.DB.ExecContext(ctx, upsertMetaSQL, metaKeyCanary, canary); err != nil {
		return ioErr("write canary row", err)
	}

	versionBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(versionBuf, currentSchemaVersion)
	if _, err := s.DB.ExecContext(ctx, upsertMetaSQL, metaKeySchemaVersion, versionBuf); err != nil {
		return ioErr("write schema version", err)
	}

	return s.persistMerkleRoot(ctx, emptyMerkleRoot)
}

func (s *Store) persistMerkleRoot(ctx context.Context, root [32]byte) error {
	if _, err := s.DB.ExecContext(ctx, upsertMetaSQL, metaKeyMerkleRoot, root[:]); err != nil {
		return ioErr("persist merkle root", err)
	}
	return nil
}

// MerkleRoot returns the Merkle root currently persisted in the index
// metadata table (not recomputed — use VerifyIntegrity to check the
// persisted root against the live row set).
func (s *Store) MerkleRoot(ctx context.Context) ([32]byte, error) {
	var root [32]byte
	var blob []byte
	row := s.DB.QueryRowContext(ctx, getMetaSQL, metaKeyMerkleRoot)
	if err := row.Scan(&blob); err != nil {
		return root, ioErr("read merkle root", err)
	}
	if len(blob) != 32 {
		return root, corrupt("persisted merkle root has unexpected length", nil)
	}
	copy(root[:], blob)
	return root, nil
}

// activeEntries loads every active row, verifying each row's MAC. It stops
// and returns KindCorrupt at the first row whose MAC does not verify.
func (s *Store) activeEntries(ctx context.Context) (map[FileID]FileMetadata, error) {
	rows, err := s.DB.QueryContext(ctx, listActiveSQL)
	if err != nil {
		return nil, ioErr("list active rows", err)
	}
	defer rows.Close()

	out := make(map[FileID]FileMetadata)
	for rows.Next() {
		var id string
		var payload, mac []byte
		if err := rows.Scan(&id, &payload, &mac); err != nil {
			return nil, ioErr("scan active row", err)
		}
		meta, err := openRow(s.dbKey, id, payload)
		if err != nil {
			return nil, err
		}
		if !verifyRowMAC(s.macKey, id, meta, mac) {
			return nil, corrupt(fmt.Sprintf("row mac mismatch for file id %q", id), nil)
		}
		out[id] = meta
	}
	if err := rows.Err(); err != nil {
		return nil, ioErr("iterate active rows", err)
	}
	return out, nil
}

func (s *Store) recomputeAndPersistRoot(ctx context.Context) error {
	entries, err := s.activeEntries(ctx)
	if err != nil {
		return err
	}
	return s.persistMerkleRoot(ctx, MerkleRoot(entries))
}

// Upsert inserts or replaces the metadata for id, recomputing and
// persisting the Merkle root over the resulting active set.
func (s *Store) Upsert(ctx context.Context, id FileID, meta FileMetadata) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	payload, err := sealRow(s.dbKey, id, meta)
	if err != nil {
		return err
	}
	mac := rowMAC(s.macKey, id, meta)

	if _, err := s.DB.ExecContext(ctx, upsertActiveSQL, id, payload, mac); err != nil {
		return ioErr("upsert active row", err)
	}
	return s.recomputeAndPersistRoot(ctx)
}

// Get returns the metadata for id, or (FileMetadata{}, false, nil) if no
// active row exists for it. A row whose MAC fails to verify is reported as
// KindCorrupt rather than silently treated as absent.
func (s *Store) Get(ctx context.Context, id FileID) (FileMetadata, bool, error) {
	var payload, mac []byte
	row := s.DB.QueryRowContext(ctx, getActiveSQL, id)
	if err := row.Scan(&payload, &mac); err != nil {
		if err == sql.ErrNoRows {
			return FileMetadata{}, false, nil
		}
		return FileMetadata{}, false, ioErr("read active row", err)
	}

	meta, err := openRow(s.dbKey, id, payload)
	if err != nil {
		return FileMetadata{}, false, err
	}
	if !verifyRowMAC(s.macKey, id, meta, mac) {
		return FileMetadata{}, false, corrupt(fmt.Sprintf("row mac mismatch for file id %q", id), nil)
	}
	return meta, true, nil
}

// Remove deletes the active row for id (a no-op if absent) and recomputes
// the Merkle root.
func (s *Store) Remove(ctx context.Context, id FileID) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.DB.ExecContext(ctx, deleteActiveSQL, id); err != nil {
		return ioErr("delete active row", err)
	}
	return s.recomputeAndPersistRoot(ctx)
}

// ListAll returns every active (file id, metadata) pair, MAC-verified.
func (s *Store) ListAll(ctx context.Context) (map[FileID]FileMetadata, error) {
	return s.activeEntries(ctx)
}

// Len returns the number of active rows.
func (s *Store) Len(ctx context.Context) (int, error) {
	var count int
	row := s.DB.QueryRowContext(ctx, countActiveSQL)
	if err := row.Scan(&count); err != nil {
		return 0, ioErr("count active rows", err)
	}
	return count, nil
}

// IsEmpty reports whether the active set has zero rows.
func (s *Store) IsEmpty(ctx context.Context) (bool, error) {
	n, err := s.Len(ctx)
	return n == 0, err
}

// VerifyIntegrity rebuilds the Merkle root from the current active rows
// and compares it against the persisted root.
func (s *Store) VerifyIntegrity(ctx context.Context) (bool, error) {
	entries, err := s.activeEntries(ctx)
	if err != nil {
		return false, err
	}
	persisted, err := s.MerkleRoot(ctx)
	if err != nil {
		return false, err
	}
	return MerkleRoot(entries) == persisted, nil
}
