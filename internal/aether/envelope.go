// SPDX-License-Identifier: Apache-2.0

package aether

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/aether-drive/vault-core/internal/cryptovault"
	"github.com/aether-drive/vault-core/internal/vaulterr"
)

const aadPrefix = "aether-drive:aad:v1:"

// buildAAD returns the additional authenticated data bound to a single
// logical path: a fixed domain prefix followed by the path's raw UTF-8
// bytes (no length prefix, no separator — the prefix's trailing colon
// bounds it). Encrypting or decrypting under the wrong logical path fails
// the AEAD tag check, so a ciphertext cannot be silently relinked to a
// different path.
func buildAAD(logicalPath string) []byte {
	return []byte(aadPrefix + logicalPath)
}

// commitmentMAC computes HMAC-SHA256(key=fileKey, data=header-fields). The
// original prototype instead hashed SHA256(header-fields || fileKey), a
// construction vulnerable to length-extension-style misuse when the key
// isn't last; this package uses the proper keyed-HMAC construction per the
// hardened v1 commitment scheme, which needs no header layout or offset
// change.
func commitmentMAC(fk *cryptovault.FileKey, h *Header) [commitmentLen]byte {
	mac := hmac.New(sha256.New, fk.Bytes())
	mac.Write(h.commitmentInput())
	sum := mac.Sum(nil)
	var out [commitmentLen]byte
	copy(out[:], sum)
	return out
}

// EncryptFile seals plaintext into a fresh Aether envelope bound to
// logicalPath. It draws a new file UUID, FileKey derivation salt, and AEAD
// nonce for every call; encrypting the same plaintext under the same path
// twice produces two unrelated ciphertexts.
func EncryptFile(mk *cryptovault.MasterKey, plaintext []byte, logicalPath string) ([]byte, error) {
	var uuid [uuidLen]byte
	if _, err := io.ReadFull(rand.Reader, uuid[:]); err != nil {
		return nil, fmt.Errorf("generate file uuid: %w", err)
	}

	fileSalt, err := cryptovault.RandomFileSalt()
	if err != nil {
		return nil, err
	}

	fk, err := cryptovault.DeriveFileKey(mk, fileSalt)
	if err != nil {
		return nil, err
	}
	defer fk.Zero()

	aead, err := chacha20poly1305.NewX(fk.Bytes())
	if err != nil {
		return nil, vaulterr.New(vaulterr.KindInvariantViolation, "construct envelope aead")
	}

	var nonce [nonceLen]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generate envelope nonce: %w", err)
	}

	h := &Header{Version: Version, CipherID: CipherID}
	copy(h.Magic[:], Magic)
	copy(h.UUID[:], uuid[:])
	copy(h.Salt[:], fileSalt)
	copy(h.Nonce[:], nonce[:])
	h.CommitmentMAC = commitmentMAC(fk, h)

	ciphertext := aead.Seal(nil, h.Nonce[:], plaintext, buildAAD(logicalPath))
	return Encode(h, ciphertext), nil
}

// DecryptFile opens an Aether envelope previously produced by EncryptFile.
// It re-derives the FileKey from the envelope's own salt, verifies the
// commitment MAC in constant time before attempting the AEAD open (so a
// bit-flipped header fails fast with KindInvalidFormat rather than feeding
// attacker-controlled bytes into the cipher first), then decrypts under
// logicalPath. A wrong MasterKey derives a different FileKey and so fails
// the commitment check; a mismatched logicalPath or tampered ciphertext
// fails at the AEAD-open step. Both report KindInvalidFormat.
func DecryptFile(mk *cryptovault.MasterKey, envelope []byte, logicalPath string) ([]byte, error) {
	h, ciphertext, err := Decode(envelope)
	if err != nil {
		return nil, err
	}

	fk, err := cryptovault.DeriveFileKey(mk, h.Salt[:])
	if err != nil {
		return nil, err
	}
	defer fk.Zero()

	expected := commitmentMAC(fk, &h)
	if subtle.ConstantTimeCompare(expected[:], h.CommitmentMAC[:]) != 1 {
		return nil, vaulterr.New(vaulterr.KindInvalidFormat, "commitment mac mismatch")
	}

	aead, err := chacha20poly1305.NewX(fk.Bytes())
	if err != nil {
		return nil, vaulterr.New(vaulterr.KindInvariantViolation, "construct envelope aead")
	}

	plaintext, err := aead.Open(nil, h.Nonce[:], ciphertext, buildAAD(logicalPath))
	if err != nil {
		return nil, vaulterr.Wrap(vaulterr.KindInvalidFormat, "envelope aead open failed", err)
	}
	return plaintext, nil
}
