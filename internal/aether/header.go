// SPDX-License-Identifier: Apache-2.0

// Package aether implements the Aether envelope: the self-describing binary
// file format an unlocked vault uses to encrypt one logical file's contents
// at rest. Every envelope carries its own UUID, FileKey derivation salt, a
// key-commitment tag, and an XChaCha20-Poly1305 nonce, so a ciphertext is
// decryptable given only the vault's MasterKey and the logical path it was
// written under.
package aether

import (
	"encoding/binary"

	"github.com/aether-drive/vault-core/internal/vaulterr"
)

const (
	// Magic is the 4-byte tag identifying an Aether envelope.
	Magic = "AETH"
	// Version is the only envelope format version this package produces or
	// accepts.
	Version = 0x01
	// CipherID identifies XChaCha20-Poly1305 as the body cipher.
	CipherID = 0x02

	uuidLen       = 16
	saltLen       = 32
	commitmentLen = 32
	nonceLen      = 24
	lengthLen     = 8

	// HeaderLen is the size of the fixed-layout header excluding the
	// trailing ciphertext-length field: magic(4) + version(1) + cipher(1) +
	// uuid(16) + salt(32) + commitment(32) + nonce(24) = 110 bytes.
	HeaderLen = 4 + 1 + 1 + uuidLen + saltLen + commitmentLen + nonceLen
	// FixedPrefixLen is HeaderLen plus the 8-byte little-endian ciphertext
	// length that precedes the ciphertext body: 118 bytes total.
	FixedPrefixLen = HeaderLen + lengthLen
)

// Header is the fixed-layout portion of an Aether envelope. Field order and
// widths are part of the wire format and must never change without a
// version bump.
type Header struct {
	Magic         [4]byte
	Version       uint8
	CipherID      uint8
	UUID          [uuidLen]byte
	Salt          [saltLen]byte
	CommitmentMAC [commitmentLen]byte
	Nonce         [nonceLen]byte
}

// commitmentInput returns the bytes the commitment MAC is computed over:
// magic, version, cipher id, UUID, and salt. The MAC itself and the nonce
// are not included. Magic, version, and cipher id are included so the
// commitment binds the envelope to this exact format revision, not just to
// this file's identity.
func (h *Header) commitmentInput() []byte {
	buf := make([]byte, 0, HeaderLen-commitmentLen)
	buf = append(buf, h.Magic[:]...)
	buf = append(buf, h.Version, h.CipherID)
	buf = append(buf, h.UUID[:]...)
	buf = append(buf, h.Salt[:]...)
	return buf
}

// encode appends the header's wire bytes (HeaderLen bytes) to dst.
func (h *Header) encode(dst []byte) []byte {
	dst = append(dst, h.Magic[:]...)
	dst = append(dst, h.Version, h.CipherID)
	dst = append(dst, h.UUID[:]...)
	dst = append(dst, h.Salt[:]...)
	dst = append(dst, h.CommitmentMAC[:]...)
	dst = append(dst, h.Nonce[:]...)
	return dst
}

// decodeHeader parses the fixed HeaderLen-byte prefix of data into a
// Header. Callers must check len(data) >= HeaderLen first.
func decodeHeader(data []byte) Header {
	var h Header
	off := 0
	copy(h.Magic[:], data[off:off+4])
	off += 4
	h.Version = data[off]
	off++
	h.CipherID = data[off]
	off++
	copy(h.UUID[:], data[off:off+uuidLen])
	off += uuidLen
	copy(h.Salt[:], data[off:off+saltLen])
	off += saltLen
	copy(h.CommitmentMAC[:], data[off:off+commitmentLen])
	off += commitmentLen
	copy(h.Nonce[:], data[off:off+nonceLen])
	return h
}

// Encode serializes a full envelope (header + length-prefixed ciphertext)
// per the wire layout:
// [Magic(4)][Version(1)][CipherID(1)][UUID(16)][Salt(32)][CommitmentMAC(32)][Nonce(24)][CiphertextLen(8,LE)][Ciphertext(N)]
func Encode(h *Header, ciphertext []byte) []byte {
	out := make([]byte, 0, FixedPrefixLen+len(ciphertext))
	out = h.encode(out)
	out = binary.LittleEndian.AppendUint64(out, uint64(len(ciphertext)))
	out = append(out, ciphertext...)
	return out
}

// Decode parses a full envelope. It validates magic, version, cipher id,
// and the declared ciphertext length against the actual buffer size, but
// does not verify the commitment MAC or decrypt — that happens in
// DecryptFile once the FileKey has been derived.
func Decode(data []byte) (Header, []byte, error) {
	if len(data) < FixedPrefixLen {
		return Header{}, nil, vaulterr.New(vaulterr.KindInvalidFormat, "envelope shorter than fixed header")
	}

	h := decodeHeader(data)
	if string(h.Magic[:]) != Magic {
		return Header{}, nil, vaulterr.New(vaulterr.KindInvalidFormat, "bad magic number")
	}
	if h.Version != Version {
		return Header{}, nil, vaulterr.New(vaulterr.KindInvalidFormat, "unsupported envelope version")
	}
	if h.CipherID != CipherID {
		return Header{}, nil, vaulterr.New(vaulterr.KindInvalidFormat, "unsupported cipher id")
	}

	ctLen := binary.LittleEndian.Uint64(data[HeaderLen : HeaderLen+lengthLen])
	rest := data[FixedPrefixLen:]
	if uint64(len(rest)) != ctLen {
		return Header{}, nil, vaulterr.New(vaulterr.KindInvalidFormat, "ciphertext length field does not match envelope size")
	}

	return h, rest, nil
}
