// SPDX-License-Identifier: Apache-2.0

// Package cryptovault implements the key hierarchy of the aether-drive
// vault core: passphrase → KEK → MKEK → MasterKey → per-purpose subkeys
// (FileKey, DbKey, IndexMacKey), plus the in-process session slot that
// holds the MasterKey between unlock and lock.
//
// Every secret type below is a thin wrapper around a fixed-size byte slice
// with an explicit Zero method, in the spirit of the Rust prototype's
// Zeroizing<Vec<u8>> wrappers (see original_source/crypto/mod.rs): Go has
// no compiler-enforced wipe-on-drop, so callers must defer Zero()
// themselves at the point a secret's lifetime ends.
package cryptovault

const (
	kekLen         = 32
	masterKeyLen   = 32
	fileKeyLen     = 32
	dbKeyLen       = 32
	indexMacKeyLen = 32
	passwordSaltLen = 16
	fileSaltLen     = 32
)

// Passphrase is the user's UTF-8 master secret, held only for the duration
// of a single derivation (bootstrap, unlock, or change-password).
type Passphrase struct {
	b []byte
}

// NewPassphrase copies s into a Passphrase. The caller's string is not
// wiped — Go strings are immutable — so callers should avoid retaining the
// original value longer than necessary.
func NewPassphrase(s string) *Passphrase {
	return &Passphrase{b: []byte(s)}
}

// Bytes exposes the underlying UTF-8 bytes for use by the KDF. Never log or
// serialize the result.
func (p *Passphrase) Bytes() []byte { return p.b }

// Zero overwrites the passphrase bytes with zeros.
func (p *Passphrase) Zero() {
	zero(p.b)
}

// KEK is the 32-byte Key Encryption Key derived from a passphrase and the
// password salt via Argon2id. It exists only for the duration of a single
// bootstrap/unlock/change-password call.
type KEK struct {
	b [kekLen]byte
}

func (k *KEK) Bytes() []byte { return k.b[:] }
func (k *KEK) Zero()         { zero(k.b[:]) }

// MasterKey (MK) is the 32-byte root of trust for the vault. It is created
// exactly once at bootstrap, never rotated, and held only in the [Session]
// slot between unlock and lock.
type MasterKey struct {
	b [masterKeyLen]byte
}

func (m *MasterKey) Bytes() []byte { return m.b[:] }
func (m *MasterKey) Zero()         { zero(m.b[:]) }

// Clone returns a deep copy of m. Used when handing a MasterKey to the
// session slot so the caller's stack-local copy can still be wiped
// independently.
func (m *MasterKey) Clone() *MasterKey {
	c := &MasterKey{}
	copy(c.b[:], m.b[:])
	return c
}

func masterKeyFromBytes(b []byte) (*MasterKey, error) {
	if len(b) != masterKeyLen {
		return nil, invariantViolation("master key must be 32 bytes")
	}
	m := &MasterKey{}
	copy(m.b[:], b)
	return m, nil
}

// FileKey is the ephemeral 32-byte key HKDF-derives per file from the
// MasterKey and a per-file salt; it encrypts exactly one Aether envelope.
type FileKey struct {
	b [fileKeyLen]byte
}

func (f *FileKey) Bytes() []byte { return f.b[:] }
func (f *FileKey) Zero()         { zero(f.b[:]) }

// DbKey is the 32-byte key used to encrypt the on-disk index rows, derived
// from the MasterKey via HKDF-SHA256 with an empty salt.
type DbKey struct {
	b [dbKeyLen]byte
}

func (d *DbKey) Bytes() []byte { return d.b[:] }
func (d *DbKey) Zero()         { zero(d.b[:]) }

// IndexMacKey is the 32-byte key used to MAC individual index rows,
// derived from the MasterKey via HKDF-SHA256 with an empty salt.
type IndexMacKey struct {
	b [indexMacKeyLen]byte
}

func (i *IndexMacKey) Bytes() []byte { return i.b[:] }
func (i *IndexMacKey) Zero()         { zero(i.b[:]) }

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
