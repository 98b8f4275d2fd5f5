// Package dlp builds instructions for the delegation program, which
// holds write-authority over delegated accounts while they execute off
// the base layer.
package dlp

import (
	"crypto/ed25519"
	"errors"
)

var (
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("DELeGGvXpWV2fqJUhqcF5ZSYMS4JTLjteaAMARRSaeSh")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

var (
	SYSTEM_PROGRAM_ID = ed25519.PublicKey(mustBase58Decode("11111111111111111111111111111111"))
)

// DlpInstruction is the 8-byte little-endian discriminator prefixing
// every delegation program instruction.
type DlpInstruction uint64

const (
	DlpInstructionDelegate DlpInstruction = iota
	DlpInstructionCommitState
	DlpInstructionFinalize
	DlpInstructionUndelegate
)
