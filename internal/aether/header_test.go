package aether

import (
	"bytes"
	"testing"

	"github.com/aether-drive/vault-core/internal/vaulterr"
)

func sampleHeader() *Header {
	h := &Header{Version: Version, CipherID: CipherID}
	copy(h.Magic[:], Magic)
	for i := range h.UUID {
		h.UUID[i] = byte(i + 1)
	}
	for i := range h.Salt {
		h.Salt[i] = byte(i + 2)
	}
	for i := range h.CommitmentMAC {
		h.CommitmentMAC[i] = byte(i + 3)
	}
	for i := range h.Nonce {
		h.Nonce[i] = byte(i + 4)
	}
	return h
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	h := sampleHeader()
	ciphertext := bytes.Repeat([]byte{0xAA}, 64)

	encoded := Encode(h, ciphertext)
	if len(encoded) != FixedPrefixLen+len(ciphertext) {
		t.Fatalf("encoded length = %d, want %d", len(encoded), FixedPrefixLen+len(ciphertext))
	}

	decodedHeader, decodedCT, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if decodedHeader.Magic != h.Magic || decodedHeader.Version != h.Version || decodedHeader.CipherID != h.CipherID {
		t.Fatalf("decoded header fields mismatch")
	}
	if decodedHeader.UUID != h.UUID || decodedHeader.Salt != h.Salt || decodedHeader.Nonce != h.Nonce {
		t.Fatalf("decoded header variable fields mismatch")
	}
	if decodedHeader.CommitmentMAC != h.CommitmentMAC {
		t.Fatalf("decoded commitment mismatch")
	}
	if !bytes.Equal(decodedCT, ciphertext) {
		t.Fatalf("decoded ciphertext mismatch")
	}
}

func TestDecode_RejectsBadMagic(t *testing.T) {
	h := sampleHeader()
	encoded := Encode(h, []byte("x"))
	encoded[0] ^= 0xFF

	_, _, err := Decode(encoded)
	requireKind(t, err, vaulterr.KindInvalidFormat)
}

func TestDecode_RejectsUnsupportedVersion(t *testing.T) {
	h := sampleHeader()
	h.Version = 0x02
	encoded := Encode(h, []byte("x"))

	_, _, err := Decode(encoded)
	requireKind(t, err, vaulterr.KindInvalidFormat)
}

func TestDecode_RejectsUnsupportedCipherID(t *testing.T) {
	h := sampleHeader()
	h.CipherID = 0x99
	encoded := Encode(h, []byte("x"))

	_, _, err := Decode(encoded)
	requireKind(t, err, vaulterr.KindInvalidFormat)
}

func TestDecode_RejectsTruncatedInput(t *testing.T) {
	h := sampleHeader()
	encoded := Encode(h, []byte("hello world"))

	_, _, err := Decode(encoded[:len(encoded)-3])
	requireKind(t, err, vaulterr.KindInvalidFormat)
}

func TestDecode_RejectsLengthFieldMismatch(t *testing.T) {
	h := sampleHeader()
	encoded := Encode(h, []byte("hello world"))
	encoded = append(encoded, 0x00) // trailing byte not reflected in the length field

	_, _, err := Decode(encoded)
	requireKind(t, err, vaulterr.KindInvalidFormat)
}

func requireKind(t *testing.T, err error, want vaulterr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error, got nil")
	}
	kind, ok := vaulterr.Of(err)
	if !ok || kind != want {
		t.Fatalf("expected kind %v, got %v (ok=%v)", want, kind, ok)
	}
}
