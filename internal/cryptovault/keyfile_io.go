// SPDX-License-Identifier: Apache-2.0

package cryptovault

import (
	"encoding/json"
	"os"
)

// keyFileJSON is the on-disk JSON encoding of a [KeyFile]. Byte slices are
// base64-encoded by encoding/json's default []byte handling; nothing in
// this struct is confidential on its own (the sealed MasterKey payload
// cannot be opened without the passphrase), so it is safe to write in the
// clear.
type keyFileJSON struct {
	PasswordSalt    []byte `json:"password_salt"`
	Argon2TimeCost  uint32 `json:"argon2_time_cost"`
	Argon2MemoryKiB uint32 `json:"argon2_memory_kib"`
	Argon2Threads   uint8  `json:"argon2_threads"`
	Nonce           []byte `json:"nonce"`
	Payload         []byte `json:"payload"`
}

// SaveKeyFile marshals kf as indented JSON and writes it to path with
// owner-only permissions.
func SaveKeyFile(path string, kf *KeyFile) error {
	doc := keyFileJSON{
		PasswordSalt:    kf.PasswordSalt,
		Argon2TimeCost:  kf.Argon2.TimeCost,
		Argon2MemoryKiB: kf.Argon2.MemoryKiB,
		Argon2Threads:   kf.Argon2.Threads,
		Nonce:           kf.Sealed.Nonce[:],
		Payload:         kf.Sealed.Payload,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return corrupt("marshal key file", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ioErr("write key file", err)
	}
	return nil
}

// LoadKeyFile reads and decodes the key file at path.
func LoadKeyFile(path string) (*KeyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioErr("read key file", err)
	}

	var doc keyFileJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, corrupt("decode key file", err)
	}

	if len(doc.Nonce) != mkekNonceLen {
		return nil, corrupt("key file nonce has unexpected length", nil)
	}

	sealed := &SealedMasterKey{Payload: doc.Payload}
	copy(sealed.Nonce[:], doc.Nonce)

	return &KeyFile{
		PasswordSalt: doc.PasswordSalt,
		Argon2: Argon2Params{
			TimeCost:  doc.Argon2TimeCost,
			MemoryKiB: doc.Argon2MemoryKiB,
			Threads:   doc.Argon2Threads,
		},
		Sealed: sealed,
	}, nil
}

// KeyFileExists reports whether path refers to an existing, non-empty file.
func KeyFileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}
