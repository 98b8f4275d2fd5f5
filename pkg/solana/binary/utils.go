// Package binary provides little-endian put/get helpers used by the
// per-program instruction encoders. All helpers advance the provided
// offset cursor so encoders read as a flat sequence of field writes.
package binary

import (
	"crypto/ed25519"
	"encoding/binary"
)

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[*offset] = v
	*offset += 1
}

func PutUint16(dst []byte, v uint16, offset *int) {
	binary.LittleEndian.PutUint16(dst[*offset:], v)
	*offset += 2
}

func PutUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst[*offset:], v)
	*offset += 4
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}

func PutBool(dst []byte, v bool, offset *int) {
	if v {
		dst[*offset] = 1
	}
	*offset += 1
}

func PutKey32(dst []byte, src ed25519.PublicKey, offset *int) {
	copy(dst[*offset:], src)
	*offset += ed25519.PublicKeySize
}

// PutOptionalKey32 writes a 1-byte presence flag followed, when src is
// set, by the 32-byte key.
func PutOptionalKey32(dst []byte, src ed25519.PublicKey, offset *int) {
	if len(src) > 0 {
		dst[*offset] = 1
		copy(dst[*offset+1:], src)
		*offset += 1 + ed25519.PublicKeySize
		return
	}
	*offset += 1
}

func PutData(dst []byte, src []byte, offset *int) {
	copy(dst[*offset:], src)
	*offset += len(src)
}

func GetUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[*offset]
	*offset += 1
}

func GetUint16(src []byte, dst *uint16, offset *int) {
	*dst = binary.LittleEndian.Uint16(src[*offset:])
	*offset += 2
}

func GetUint32(src []byte, dst *uint32, offset *int) {
	*dst = binary.LittleEndian.Uint32(src[*offset:])
	*offset += 4
}

func GetUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
}

func GetBool(src []byte, dst *bool, offset *int) {
	*dst = src[*offset] == 1
	*offset += 1
}

func GetKey32(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:])
	*offset += ed25519.PublicKeySize
}

func GetOptionalKey32(src []byte, dst *ed25519.PublicKey, offset *int) {
	present := src[*offset] == 1
	*offset += 1
	if !present {
		return
	}
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:])
	*offset += ed25519.PublicKeySize
}

func GetData(src []byte, dst []byte, length int, offset *int) {
	copy(dst[:length], src[*offset:*offset+length])
	*offset += length
}
