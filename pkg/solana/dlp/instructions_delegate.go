package dlp

import (
	"crypto/ed25519"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana"
	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana/binary"
)

type DelegateInstructionArgs struct {
	// CommitFrequencyMillis is how often the validator network commits
	// the delegated account's state back to the base layer.
	CommitFrequencyMillis uint32

	// Seeds re-derive the delegated account when it is a PDA of the
	// owner program. Empty for keypair accounts.
	Seeds [][]byte

	// Validator optionally pins the delegation to a specific validator.
	Validator ed25519.PublicKey
}

type DelegateInstructionAccounts struct {
	Payer              ed25519.PublicKey
	DelegatedAccount   ed25519.PublicKey
	OwnerProgram       ed25519.PublicKey
	DelegateBuffer     ed25519.PublicKey
	DelegationRecord   ed25519.PublicKey
	DelegationMetadata ed25519.PublicKey
}

func delegateInstructionArgsSize(args *DelegateInstructionArgs) int {
	size := (8 + // discriminator
		4 + // commit_frequency_ms
		8) // seed count
	for _, seed := range args.Seeds {
		size += 8 + len(seed)
	}
	size += 1 // validator option flag
	if len(args.Validator) > 0 {
		size += 32
	}
	return size
}

func NewDelegateInstruction(
	accounts *DelegateInstructionAccounts,
	args *DelegateInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte, delegateInstructionArgsSize(args))

	putDlpInstruction(data, DlpInstructionDelegate, &offset)
	binary.PutUint32(data, args.CommitFrequencyMillis, &offset)
	binary.PutUint64(data, uint64(len(args.Seeds)), &offset)
	for _, seed := range args.Seeds {
		binary.PutUint64(data, uint64(len(seed)), &offset)
		binary.PutData(data, seed, &offset)
	}
	binary.PutOptionalKey32(data, args.Validator, &offset)

	return solana.Instruction{
		Program: PROGRAM_ID,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Payer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.DelegatedAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.OwnerProgram,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.DelegateBuffer,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.DelegationRecord,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.DelegationMetadata,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

func DelegateInstructionFromBinary(data []byte) (*DelegateInstructionArgs, error) {
	var offset int

	if len(data) < 8+4+8+1 {
		return nil, ErrInvalidInstructionData
	}

	var discriminator DlpInstruction
	getDlpInstruction(data, &discriminator, &offset)
	if discriminator != DlpInstructionDelegate {
		return nil, ErrInvalidInstructionData
	}

	var args DelegateInstructionArgs
	binary.GetUint32(data, &args.CommitFrequencyMillis, &offset)

	var seedCount uint64
	binary.GetUint64(data, &seedCount, &offset)
	if seedCount > uint64(len(data)-offset) {
		return nil, ErrInvalidInstructionData
	}
	for i := uint64(0); i < seedCount; i++ {
		if len(data)-offset < 8 {
			return nil, ErrInvalidInstructionData
		}
		var seedLen uint64
		binary.GetUint64(data, &seedLen, &offset)
		if seedLen > uint64(len(data)-offset) {
			return nil, ErrInvalidInstructionData
		}
		seed := make([]byte, seedLen)
		binary.GetData(data, seed, int(seedLen), &offset)
		args.Seeds = append(args.Seeds, seed)
	}

	if len(data)-offset < 1 {
		return nil, ErrInvalidInstructionData
	}
	if data[offset] == 1 && len(data)-offset < 1+32 {
		return nil, ErrInvalidInstructionData
	}
	binary.GetOptionalKey32(data, &args.Validator, &offset)

	if offset != len(data) {
		return nil, ErrInvalidInstructionData
	}

	return &args, nil
}
