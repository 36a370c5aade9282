// SPDX-License-Identifier: Apache-2.0

package index

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"sort"
)

var emptyMerkleRoot = sha256.Sum256([]byte("aether-drive:merkle:empty"))

// hashEntry computes the leaf hash for one active row:
// SHA-256("aether-drive:merkle:entry:" || file_id || ":" || logical_path || ":" || encrypted_size_le64).
func hashEntry(id FileID, meta FileMetadata) [32]byte {
	h := sha256.New()
	h.Write([]byte("aether-drive:merkle:entry:"))
	h.Write([]byte(id))
	h.Write([]byte(":"))
	h.Write([]byte(meta.LogicalPath))
	h.Write([]byte(":"))
	var sizeLE [8]byte
	binary.LittleEndian.PutUint64(sizeLE[:], meta.EncryptedSize)
	h.Write(sizeLE[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// hashNode computes an internal node's hash from its two children.
func hashNode(left, right [32]byte) [32]byte {
	h := sha256.New()
	h.Write([]byte("aether-drive:merkle:node:"))
	h.Write(left[:])
	h.Write(right[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// buildTree recursively folds a sorted slice of leaf hashes into a single
// root. The odd-count split at each level is mid=n/2, left=[0,mid),
// right=[mid,n) — no duplication of a dangling last leaf.
func buildTree(hashes [][32]byte) [32]byte {
	if len(hashes) == 1 {
		return hashes[0]
	}
	mid := len(hashes) / 2
	left := buildTree(hashes[:mid])
	right := buildTree(hashes[mid:])
	return hashNode(left, right)
}

// MerkleRoot computes the root hash over the given active entries. The
// entries are sorted by their leaf hash (lexicographic byte order) before
// the tree is built, so the result does not depend on map/slice iteration
// or insertion order. An empty entry set hashes to a fixed sentinel root.
func MerkleRoot(entries map[FileID]FileMetadata) [32]byte {
	if len(entries) == 0 {
		return emptyMerkleRoot
	}

	leaves := make([][32]byte, 0, len(entries))
	for id, meta := range entries {
		leaves = append(leaves, hashEntry(id, meta))
	}
	sort.Slice(leaves, func(i, j int) bool {
		return bytes.Compare(leaves[i][:], leaves[j][:]) < 0
	})

	return buildTree(leaves)
}
