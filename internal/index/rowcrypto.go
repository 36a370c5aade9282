// SPDX-License-Identifier: Apache-2.0

package index

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/aether-drive/vault-core/internal/cryptovault"
)

// rowMAC implements the hardened row MAC construction:
// HMAC-SHA256(IndexMacKey, file_id || logical_path || encrypted_size_le64).
// The spec's source construction was SHA-256(data || key); this package
// adopts the keyed-HMAC form per the v1 hardening note, at the same field
// width and position.
func rowMAC(key *cryptovault.IndexMacKey, id FileID, meta FileMetadata) []byte {
	mac := hmac.New(sha256.New, key.Bytes())
	mac.Write([]byte(id))
	mac.Write([]byte(meta.LogicalPath))
	var sizeLE [8]byte
	binary.LittleEndian.PutUint64(sizeLE[:], meta.EncryptedSize)
	mac.Write(sizeLE[:])
	return mac.Sum(nil)
}

// verifyRowMAC reports whether mac is the correct row MAC for id/meta under
// key, using a constant-time comparison.
func verifyRowMAC(key *cryptovault.IndexMacKey, id FileID, meta FileMetadata, mac []byte) bool {
	expected := rowMAC(key, id, meta)
	return subtle.ConstantTimeCompare(expected, mac) == 1
}

// encodeRowPlaintext serializes FileMetadata for application-layer
// encryption at rest: a length-prefixed logical path followed by the
// little-endian encrypted size.
func encodeRowPlaintext(meta FileMetadata) []byte {
	path := []byte(meta.LogicalPath)
	out := make([]byte, 0, 4+len(path)+8)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(path)))
	out = append(out, path...)
	out = binary.LittleEndian.AppendUint64(out, meta.EncryptedSize)
	return out
}

func decodeRowPlaintext(data []byte) (FileMetadata, error) {
	if len(data) < 4 {
		return FileMetadata{}, invariantViolation("row plaintext truncated before path length")
	}
	pathLen := binary.LittleEndian.Uint32(data[:4])
	data = data[4:]
	if uint64(len(data)) < uint64(pathLen)+8 {
		return FileMetadata{}, invariantViolation("row plaintext truncated before path or size")
	}
	path := string(data[:pathLen])
	size := binary.LittleEndian.Uint64(data[pathLen : pathLen+8])
	return FileMetadata{LogicalPath: path, EncryptedSize: size}, nil
}

// sealRow encrypts meta for storage in a single database row. The file id
// is bound in as AAD so a ciphertext blob copied into a different row's
// primary key fails to decrypt.
func sealRow(dbKey *cryptovault.DbKey, id FileID, meta FileMetadata) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(dbKey.Bytes())
	if err != nil {
		return nil, invariantViolation("construct index row aead")
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate row nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, encodeRowPlaintext(meta), []byte(id))
	return append(nonce, ciphertext...), nil
}

// openRow decrypts a row blob previously produced by sealRow.
func openRow(dbKey *cryptovault.DbKey, id FileID, blob []byte) (FileMetadata, error) {
	if len(blob) < chacha20poly1305.NonceSizeX {
		return FileMetadata{}, wrongKey("index row blob shorter than nonce", nil)
	}
	nonce := blob[:chacha20poly1305.NonceSizeX]
	ciphertext := blob[chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(dbKey.Bytes())
	if err != nil {
		return FileMetadata{}, invariantViolation("construct index row aead")
	}

	plain, err := aead.Open(nil, nonce, ciphertext, []byte(id))
	if err != nil {
		return FileMetadata{}, wrongKey("index row aead open failed", err)
	}

	return decodeRowPlaintext(plain)
}

// canaryPlaintext is the fixed value sealed into the canary row at schema
// creation time and checked on every subsequent open, so a wrong DbKey is
// detected before any real row is touched.
const canaryPlaintext = "aether-drive:index-canary:v1"

func sealCanary(dbKey *cryptovault.DbKey) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(dbKey.Bytes())
	if err != nil {
		return nil, invariantViolation("construct canary aead")
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate canary nonce: %w", err)
	}
	ciphertext := aead.Seal(nil, nonce, []byte(canaryPlaintext), nil)
	return append(nonce, ciphertext...), nil
}

func openCanary(dbKey *cryptovault.DbKey, blob []byte) error {
	if len(blob) < chacha20poly1305.NonceSizeX {
		return wrongKey("canary blob shorter than nonce", nil)
	}
	nonce := blob[:chacha20poly1305.NonceSizeX]
	ciphertext := blob[chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(dbKey.Bytes())
	if err != nil {
		return invariantViolation("construct canary aead")
	}
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return wrongKey("index canary open failed: wrong db key for this index file", err)
	}
	if string(plain) != canaryPlaintext {
		return corrupt("index canary decrypted to unexpected value", nil)
	}
	return nil
}
