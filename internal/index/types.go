// SPDX-License-Identifier: Apache-2.0

// Package index implements the encrypted metadata index: a persistent,
// MasterKey-derived-key store mapping file ids to logical-path/size
// metadata, with a per-row MAC, a Merkle-root integrity digest over the
// active row set, and a soft-delete trash tier.
package index

// FileID identifies one logical file within the index. It has no structure
// of its own beyond uniqueness; callers typically supply a UUID.
type FileID = string

// FileMetadata is the metadata the index stores about one active or
// trashed file-id. LogicalPath is the same string that feeds the Aether
// envelope's AAD (see package aether); EncryptedSize is the size in bytes
// of the corresponding envelope, not the plaintext.
type FileMetadata struct {
	LogicalPath   string
	EncryptedSize uint64
}

// TrashEntry is a FileMetadata plus the Unix timestamp (seconds) at which
// the file was moved to the trash tier.
type TrashEntry struct {
	FileID FileID
	FileMetadata
	DeletedAt int64
}
