package aether

import (
	"bytes"
	"testing"

	"github.com/aether-drive/vault-core/internal/cryptovault"
	"github.com/aether-drive/vault-core/internal/vaulterr"
)

func newMasterKey(t *testing.T, fill byte) *cryptovault.MasterKey {
	t.Helper()
	h := cryptovault.NewHierarchy(cryptovault.Argon2Params{TimeCost: 1, MemoryKiB: 8 * 1024, Threads: 1})
	mk, _, err := h.Bootstrap(cryptovault.NewPassphrase(string(rune(fill)) + "passphrase"))
	if err != nil {
		t.Fatalf("Bootstrap error: %v", err)
	}
	return mk
}

func TestEncryptDecryptFile_RoundTrip(t *testing.T) {
	mk := newMasterKey(t, 'a')
	plaintext := []byte("Hello, Aether Drive! This is a test file.")
	logicalPath := "/documents/test.txt"

	envelope, err := EncryptFile(mk, plaintext, logicalPath)
	if err != nil {
		t.Fatalf("EncryptFile error: %v", err)
	}

	h, _, err := Decode(envelope)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if string(h.Magic[:]) != Magic || h.Version != Version || h.CipherID != CipherID {
		t.Fatalf("unexpected header fields on a freshly encrypted envelope")
	}

	decrypted, err := DecryptFile(mk, envelope, logicalPath)
	if err != nil {
		t.Fatalf("DecryptFile error: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Fatalf("decrypted plaintext mismatch")
	}
}

func TestEncryptFile_TwoCallsProduceDifferentEnvelopes(t *testing.T) {
	mk := newMasterKey(t, 'b')
	plaintext := []byte("same content")

	e1, err := EncryptFile(mk, plaintext, "/a.txt")
	if err != nil {
		t.Fatalf("EncryptFile error: %v", err)
	}
	e2, err := EncryptFile(mk, plaintext, "/a.txt")
	if err != nil {
		t.Fatalf("EncryptFile error: %v", err)
	}

	if bytes.Equal(e1, e2) {
		t.Fatalf("expected two encryptions of the same plaintext+path to differ")
	}
}

func TestDecryptFile_WrongLogicalPathFails(t *testing.T) {
	mk := newMasterKey(t, 'c')
	envelope, err := EncryptFile(mk, []byte("Hello, Aether Drive!"), "/documents/test.txt")
	if err != nil {
		t.Fatalf("EncryptFile error: %v", err)
	}

	_, err = DecryptFile(mk, envelope, "/documents/different.txt")
	requireKind(t, err, vaulterr.KindInvalidFormat)
}

func TestDecryptFile_WrongMasterKeyFails(t *testing.T) {
	mk1 := newMasterKey(t, 'd')
	mk2 := newMasterKey(t, 'e')

	envelope, err := EncryptFile(mk1, []byte("Secret data"), "/documents/secret.txt")
	if err != nil {
		t.Fatalf("EncryptFile error: %v", err)
	}

	_, err = DecryptFile(mk2, envelope, "/documents/secret.txt")
	if err == nil {
		t.Fatalf("expected decryption under the wrong master key to fail")
	}
}

func TestDecryptFile_TamperedCiphertextFailsCommitmentOrAEAD(t *testing.T) {
	mk := newMasterKey(t, 'f')
	envelope, err := EncryptFile(mk, []byte("tamper me"), "/x.bin")
	if err != nil {
		t.Fatalf("EncryptFile error: %v", err)
	}
	envelope[len(envelope)-1] ^= 0xFF

	_, err = DecryptFile(mk, envelope, "/x.bin")
	requireKind(t, err, vaulterr.KindInvalidFormat)
}

func TestDecryptFile_TamperedHeaderFailsCommitmentCheck(t *testing.T) {
	mk := newMasterKey(t, 'g')
	envelope, err := EncryptFile(mk, []byte("tamper the header"), "/y.bin")
	if err != nil {
		t.Fatalf("EncryptFile error: %v", err)
	}
	envelope[10] ^= 0xFF // inside the UUID field

	_, err = DecryptFile(mk, envelope, "/y.bin")
	requireKind(t, err, vaulterr.KindInvalidFormat)
}

func TestEncryptFile_EmptyPlaintextRoundTrips(t *testing.T) {
	mk := newMasterKey(t, 'h')
	envelope, err := EncryptFile(mk, nil, "/empty.txt")
	if err != nil {
		t.Fatalf("EncryptFile error: %v", err)
	}

	decrypted, err := DecryptFile(mk, envelope, "/empty.txt")
	if err != nil {
		t.Fatalf("DecryptFile error: %v", err)
	}
	if len(decrypted) != 0 {
		t.Fatalf("expected empty plaintext round trip, got %d bytes", len(decrypted))
	}
}
