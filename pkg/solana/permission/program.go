// Package permission builds instructions for the permission program,
// which gates who may act on behalf of a delegated account.
package permission

import (
	"crypto/ed25519"
	"errors"
)

var (
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("Permission111111111111111111111111111111111")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

var (
	SYSTEM_PROGRAM_ID = ed25519.PublicKey(mustBase58Decode("11111111111111111111111111111111"))
)

// PermissionInstruction is the 8-byte little-endian discriminator
// prefixing every permission program instruction.
type PermissionInstruction uint64

const (
	PermissionInstructionCreate PermissionInstruction = iota
	PermissionInstructionUpdate
	PermissionInstructionClose
	PermissionInstructionDelegate
	PermissionInstructionUndelegate
)

// PermissionMask is a bitmask of operations the permission grants.
type PermissionMask uint32

const (
	PermissionCommit PermissionMask = 1 << iota
	PermissionUndelegate
	PermissionCloseEscrow
	PermissionSpendEscrow
)
