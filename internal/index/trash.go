// SPDX-License-Identifier: Apache-2.0

package index

import (
	"context"
	"database/sql"
	"fmt"
)

// MoveToTrash moves the active row for id into the trash tier, stamped
// with deletedAtUnix, and recomputes the Merkle root over the now-smaller
// active set. Trash rows are never counted in the Merkle root. Returns
// (false, nil) if no active row exists for id.
func (s *Store) MoveToTrash(ctx context.Context, id FileID, deletedAtUnix int64) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var payload, mac []byte
	row := s.DB.QueryRowContext(ctx, getActiveSQL, id)
	if err := row.Scan(&payload, &mac); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, ioErr("read active row for trash", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, ioErr("begin move-to-trash transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, insertTrashSQL, id, payload, mac, deletedAtUnix); err != nil {
		return false, ioErr("insert trash row", err)
	}
	if _, err := tx.ExecContext(ctx, deleteActiveSQL, id); err != nil {
		return false, ioErr("delete active row", err)
	}
	if err := tx.Commit(); err != nil {
		return false, ioErr("commit move-to-trash transaction", err)
	}

	return true, s.recomputeAndPersistRoot(ctx)
}

// RestoreFromTrash moves a trashed row back to the active set and
// recomputes the Merkle root. Returns (false, nil) if no trash row exists
// for id.
func (s *Store) RestoreFromTrash(ctx context.Context, id FileID) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var payload, mac []byte
	var deletedAt int64
	row := s.DB.QueryRowContext(ctx, getTrashSQL, id)
	if err := row.Scan(&payload, &mac, &deletedAt); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, ioErr("read trash row", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, ioErr("begin restore-from-trash transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, upsertActiveSQL, id, payload, mac); err != nil {
		return false, ioErr("insert restored active row", err)
	}
	if _, err := tx.ExecContext(ctx, deleteTrashSQL, id); err != nil {
		return false, ioErr("delete trash row", err)
	}
	if err := tx.Commit(); err != nil {
		return false, ioErr("commit restore-from-trash transaction", err)
	}

	return true, s.recomputeAndPersistRoot(ctx)
}

// ListTrash returns every trashed entry, MAC-verified.
func (s *Store) ListTrash(ctx context.Context) ([]TrashEntry, error) {
	rows, err := s.DB.QueryContext(ctx, listTrashSQL)
	if err != nil {
		return nil, ioErr("list trash rows", err)
	}
	defer rows.Close()

	var out []TrashEntry
	for rows.Next() {
		var id string
		var payload, mac []byte
		var deletedAt int64
		if err := rows.Scan(&id, &payload, &mac, &deletedAt); err != nil {
			return nil, ioErr("scan trash row", err)
		}
		meta, err := openRow(s.dbKey, id, payload)
		if err != nil {
			return nil, err
		}
		if !verifyRowMAC(s.macKey, id, meta, mac) {
			return nil, corrupt(fmt.Sprintf("trash row mac mismatch for file id %q", id), nil)
		}
		out = append(out, TrashEntry{FileID: id, FileMetadata: meta, DeletedAt: deletedAt})
	}
	if err := rows.Err(); err != nil {
		return nil, ioErr("iterate trash rows", err)
	}
	return out, nil
}

// RemoveFromTrash permanently deletes a trash entry (the "purged" state
// transition). Returns (false, nil) if no trash row exists for id. Does
// not touch the Merkle root, since trash rows are never counted in it.
func (s *Store) RemoveFromTrash(ctx context.Context, id FileID) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	res, err := s.DB.ExecContext(ctx, deleteTrashSQL, id)
	if err != nil {
		return false, ioErr("delete trash row", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, ioErr("read rows affected", err)
	}
	return affected > 0, nil
}

// EmptyTrash permanently deletes every trash row and returns the count
// removed.
func (s *Store) EmptyTrash(ctx context.Context) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var count int
	countRow := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM file_trash`)
	if err := countRow.Scan(&count); err != nil {
		return 0, ioErr("count trash rows", err)
	}

	if _, err := s.DB.ExecContext(ctx, emptyTrashSQL); err != nil {
		return 0, ioErr("empty trash", err)
	}
	return count, nil
}

// IsFolderMarker reports whether meta represents the presentation
// convention for an empty folder: zero encrypted size and a logical path
// ending in "/". This is purely informational bookkeeping layered on top
// of the flat file-id -> metadata mapping; the store itself treats all
// rows uniformly.
func IsFolderMarker(meta FileMetadata) bool {
	return meta.EncryptedSize == 0 && len(meta.LogicalPath) > 0 && meta.LogicalPath[len(meta.LogicalPath)-1] == '/'
}
