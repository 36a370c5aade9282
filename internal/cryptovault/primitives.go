// SPDX-License-Identifier: Apache-2.0

package cryptovault

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

// newSHA256 adapts sha256.New to the func() hash.Hash signature hkdf.New
// expects.
func newSHA256() hash.Hash { return sha256.New() }

// HKDF info strings. Each derivation is domain-separated by a distinct info
// string so that, even though they all descend from the same MasterKey,
// compromise of one derived key (e.g. DbKey) cannot be used to recover
// another (e.g. IndexMacKey) or the MasterKey itself.
const (
	fileKeyInfo     = "aether-drive:file-key:v1"
	dbKeyInfo       = "aether-drive:sqlcipher-key:v1"
	indexMacKeyInfo = "aether-drive:index-hmac-key:v1"
	mkekAAD         = "aether-drive:mkek:v1"
)

// Argon2Params tunes the Argon2id KDF used to derive a KEK from a
// passphrase. The zero value is invalid; use [DefaultArgon2Params] for the
// parameters fixed by the spec, or override them (e.g. in tests) via
// [Hierarchy] construction.
type Argon2Params struct {
	// TimeCost is the number of Argon2id iterations (spec: 3).
	TimeCost uint32
	// MemoryKiB is the memory cost in KiB (spec: 65536 = 64 MiB).
	MemoryKiB uint32
	// Threads is the degree of parallelism (spec: 1).
	Threads uint8
}

// DefaultArgon2Params returns the parameters fixed by the specification:
// Argon2id, version 0x13 (the only version golang.org/x/crypto/argon2
// implements), m=65536 KiB, t=3, p=1, 32-byte output. Changing these
// requires a format-version bump per §4.1.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{TimeCost: 3, MemoryKiB: 65536, Threads: 1}
}

// deriveKEK runs Argon2id(passphrase, salt) with params, producing a 32-byte
// KEK. Deterministic for fixed inputs.
func deriveKEK(passphrase *Passphrase, salt []byte, params Argon2Params) *KEK {
	out := argon2.IDKey(passphrase.Bytes(), salt, params.TimeCost, params.MemoryKiB, params.Threads, kekLen)
	k := &KEK{}
	copy(k.b[:], out)
	zero(out)
	return k
}

// generateMasterKey draws 32 random bytes from the OS CSPRNG.
func generateMasterKey() (*MasterKey, error) {
	buf := make([]byte, masterKeyLen)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("generate master key: %w", err)
	}
	mk, err := masterKeyFromBytes(buf)
	zero(buf)
	return mk, err
}

// randomBytes draws n cryptographically random bytes.
func randomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return buf, nil
}

// RandomPasswordSalt draws the 16-byte salt persisted alongside the MKEK.
func RandomPasswordSalt() ([]byte, error) {
	return randomBytes(passwordSaltLen)
}

// RandomFileSalt draws the 32-byte salt used to derive a FileKey.
func RandomFileSalt() ([]byte, error) {
	return randomBytes(fileSaltLen)
}

// hkdfExpand runs HKDF-SHA256(salt, ikm, info) and writes exactly len(out)
// bytes into out.
func hkdfExpand(salt, ikm []byte, info string, out []byte) error {
	reader := hkdf.New(newSHA256, ikm, salt, []byte(info))
	if _, err := io.ReadFull(reader, out); err != nil {
		return invariantViolation("hkdf output length invalid")
	}
	return nil
}

// DeriveFileKey implements §3/§4.3: FileKey = HKDF-SHA256(salt=fileSalt,
// ikm=mk, info="aether-drive:file-key:v1").
func DeriveFileKey(mk *MasterKey, fileSalt []byte) (*FileKey, error) {
	if len(mk.Bytes()) != masterKeyLen {
		return nil, invariantViolation("master key must be 32 bytes")
	}
	fk := &FileKey{}
	if err := hkdfExpand(fileSalt, mk.Bytes(), fileKeyInfo, fk.b[:]); err != nil {
		return nil, err
	}
	return fk, nil
}

// DeriveDbKey implements §3: DbKey = HKDF-SHA256(salt=∅, ikm=mk,
// info="aether-drive:sqlcipher-key:v1").
func DeriveDbKey(mk *MasterKey) (*DbKey, error) {
	dk := &DbKey{}
	if err := hkdfExpand(nil, mk.Bytes(), dbKeyInfo, dk.b[:]); err != nil {
		return nil, err
	}
	return dk, nil
}

// DeriveIndexMacKey implements §3: IndexMacKey = HKDF-SHA256(salt=∅,
// ikm=mk, info="aether-drive:index-hmac-key:v1").
func DeriveIndexMacKey(mk *MasterKey) (*IndexMacKey, error) {
	ik := &IndexMacKey{}
	if err := hkdfExpand(nil, mk.Bytes(), indexMacKeyInfo, ik.b[:]); err != nil {
		return nil, err
	}
	return ik, nil
}
