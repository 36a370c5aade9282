// SPDX-License-Identifier: Apache-2.0

package cryptovault

// KeyFile is the persisted, non-secret material a vault needs to restore
// its key hierarchy from a passphrase on a later run: the Argon2 password
// salt, the tuning parameters used to derive the KEK, and the sealed
// MasterKey. None of these fields are confidential on their own — the
// passphrase is the only secret — so KeyFile is safe to marshal to disk
// alongside the index and object store configuration.
type KeyFile struct {
	PasswordSalt []byte
	Argon2       Argon2Params
	Sealed       *SealedMasterKey
}

// Hierarchy derives and restores the aether-drive key hierarchy:
// passphrase -> KEK -> MKEK -> MasterKey -> per-purpose subkeys. It holds no
// state of its own; every method is a pure function of its arguments, and
// callers are responsible for zeroing the MasterKey once it has been handed
// to the [Session] or consumed by a derivation.
type Hierarchy struct {
	argon2 Argon2Params
}

// NewHierarchy builds a Hierarchy with the given Argon2id tuning. Use
// [DefaultArgon2Params] in production; tests may pass cheaper parameters to
// keep suite runtime reasonable.
func NewHierarchy(params Argon2Params) *Hierarchy {
	return &Hierarchy{argon2: params}
}

// Bootstrap creates a brand-new vault key hierarchy: it generates a fresh
// MasterKey, draws a fresh password salt, derives the KEK from passphrase
// and that salt, and seals the MasterKey under the KEK. The returned
// MasterKey is the caller's to hold (typically immediately handed to a
// [Session]); the returned KeyFile is what gets persisted.
func (h *Hierarchy) Bootstrap(passphrase *Passphrase) (*MasterKey, *KeyFile, error) {
	salt, err := RandomPasswordSalt()
	if err != nil {
		return nil, nil, err
	}

	mk, err := generateMasterKey()
	if err != nil {
		return nil, nil, err
	}

	kek := deriveKEK(passphrase, salt, h.argon2)
	defer kek.Zero()

	sealed, err := SealMasterKey(kek, mk)
	if err != nil {
		mk.Zero()
		return nil, nil, err
	}

	return mk, &KeyFile{PasswordSalt: salt, Argon2: h.argon2, Sealed: sealed}, nil
}

// Unlock restores the MasterKey from a passphrase and a previously
// persisted KeyFile. Returns a KindInvalidPassphrase error if the
// passphrase does not match the one the vault was bootstrapped or last
// repassphrased with.
func (h *Hierarchy) Unlock(passphrase *Passphrase, kf *KeyFile) (*MasterKey, error) {
	kek := deriveKEK(passphrase, kf.PasswordSalt, kf.Argon2)
	defer kek.Zero()

	return OpenMasterKey(kek, kf.Sealed)
}

// ChangePassword re-derives the KEK under a new passphrase and a fresh
// password salt, then re-seals the existing MasterKey. The MasterKey
// itself, and therefore every key derived from it (FileKey, DbKey,
// IndexMacKey) and every envelope and index row already encrypted under
// those keys, is unchanged — only the passphrase→KEK→MKEK wrapping layer
// rotates. oldPassphrase must still open kf, or the call fails with
// KindInvalidPassphrase before any new material is derived.
func (h *Hierarchy) ChangePassword(oldPassphrase, newPassphrase *Passphrase, kf *KeyFile) (*KeyFile, error) {
	mk, err := h.Unlock(oldPassphrase, kf)
	if err != nil {
		return nil, err
	}
	defer mk.Zero()

	newSalt, err := RandomPasswordSalt()
	if err != nil {
		return nil, err
	}

	newKEK := deriveKEK(newPassphrase, newSalt, h.argon2)
	defer newKEK.Zero()

	sealed, err := SealMasterKey(newKEK, mk)
	if err != nil {
		return nil, err
	}

	return &KeyFile{PasswordSalt: newSalt, Argon2: h.argon2, Sealed: sealed}, nil
}
