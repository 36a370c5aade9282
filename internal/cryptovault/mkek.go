// SPDX-License-Identifier: Apache-2.0

package cryptovault

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// mkekNonceLen is the XChaCha20-Poly1305 nonce size (24 bytes).
const mkekNonceLen = chacha20poly1305.NonceSizeX

// SealedMasterKey is the on-disk encoding of the MasterKey wrapped under the
// KEK: a 24-byte XChaCha20-Poly1305 nonce followed by the sealed payload
// (MasterKey ciphertext + 16-byte Poly1305 tag). This is the "MKEK" artifact
// persisted next to the password salt and Argon2 parameters in the vault's
// key file.
type SealedMasterKey struct {
	Nonce   [mkekNonceLen]byte
	Payload []byte
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, invariantViolation("construct xchacha20-poly1305 aead")
	}
	return aead, nil
}

// SealMasterKey wraps mk under kek, producing the ciphertext persisted as
// the vault's MKEK. AAD is fixed at "aether-drive:mkek:v1" so an MKEK
// payload cannot be silently relocated to a different logical slot.
func SealMasterKey(kek *KEK, mk *MasterKey) (*SealedMasterKey, error) {
	aead, err := newAEAD(kek.Bytes())
	if err != nil {
		return nil, err
	}

	sealed := &SealedMasterKey{}
	if _, err := io.ReadFull(rand.Reader, sealed.Nonce[:]); err != nil {
		return nil, fmt.Errorf("generate mkek nonce: %w", err)
	}
	sealed.Payload = aead.Seal(nil, sealed.Nonce[:], mk.Bytes(), []byte(mkekAAD))
	return sealed, nil
}

// OpenMasterKey unwraps a SealedMasterKey under kek. A failed AEAD open
// (wrong passphrase, corrupted payload) is surfaced as KindInvalidPassphrase
// rather than KindCorrupt: from the caller's side of the API these are
// indistinguishable, and the spec treats "wrong passphrase" as the expected
// failure mode on unlock.
func OpenMasterKey(kek *KEK, sealed *SealedMasterKey) (*MasterKey, error) {
	aead, err := newAEAD(kek.Bytes())
	if err != nil {
		return nil, err
	}

	plain, err := aead.Open(nil, sealed.Nonce[:], sealed.Payload, []byte(mkekAAD))
	if err != nil {
		return nil, invalidPassphrase("mkek open failed", err)
	}
	defer zero(plain)

	mk, err := masterKeyFromBytes(plain)
	if err != nil {
		return nil, corrupt("unwrapped master key has unexpected length", err)
	}
	return mk, nil
}
