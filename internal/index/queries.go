// SPDX-License-Identifier: Apache-2.0

package index

const (
	createSchemaSQL = `
CREATE TABLE IF NOT EXISTS file_index (
	id TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	row_mac BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS file_trash (
	id TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	row_mac BLOB NOT NULL,
	deleted_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS index_meta (
	key TEXT PRIMARY KEY,
	value BLOB
);
`

	upsertActiveSQL = `INSERT INTO file_index (id, payload, row_mac) VALUES (?, ?, ?) ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, row_mac = excluded.row_mac`
	getActiveSQL    = `SELECT payload, row_mac FROM file_index WHERE id = ?`
	deleteActiveSQL = `DELETE FROM file_index WHERE id = ?`
	listActiveSQL   = `SELECT id, payload, row_mac FROM file_index`
	countActiveSQL  = `SELECT COUNT(*) FROM file_index`

	insertTrashSQL = `INSERT INTO file_trash (id, payload, row_mac, deleted_at) VALUES (?, ?, ?, ?)`
	getTrashSQL    = `SELECT payload, row_mac, deleted_at FROM file_trash WHERE id = ?`
	deleteTrashSQL = `DELETE FROM file_trash WHERE id = ?`
	listTrashSQL   = `SELECT id, payload, row_mac, deleted_at FROM file_trash`
	emptyTrashSQL  = `DELETE FROM file_trash`

	getMetaSQL    = `SELECT value FROM index_meta WHERE key = ?`
	upsertMetaSQL = `INSERT INTO index_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
)

const (
	metaKeyCanary        = "canary"
	metaKeySchemaVersion = "schema_version"
	metaKeyMerkleRoot    = "merkle_root"
)

// currentSchemaVersion is the only schema version this package writes.
// Migration from the source prototype's unkeyed, MAC-less V1 schema would
// add this column set and the metadata table; since this package never
// reads a V1 file written by the original Rust prototype directly (the
// storage formats are not wire-compatible), there is nothing to migrate
// from in practice, and Open always creates a fresh V1-shaped schema.
const currentSchemaVersion = 1
