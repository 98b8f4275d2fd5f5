package permission

import (
	"crypto/ed25519"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana"
	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana/binary"
	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana/dlp"
)

type DelegateInstructionArgs struct {
	CommitFrequencyMillis uint32
	Validator             ed25519.PublicKey
}

type DelegateInstructionAccounts struct {
	Payer              ed25519.PublicKey
	Permission         ed25519.PublicKey
	DelegateBuffer     ed25519.PublicKey
	DelegationRecord   ed25519.PublicKey
	DelegationMetadata ed25519.PublicKey
}

func delegateInstructionArgsSize(args *DelegateInstructionArgs) int {
	size := 8 + 4 + 1
	if len(args.Validator) > 0 {
		size += 32
	}
	return size
}

// NewDelegateInstruction hands the permission account over to the
// delegation program so it can be enforced during ephemeral execution.
func NewDelegateInstruction(
	accounts *DelegateInstructionAccounts,
	args *DelegateInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte, delegateInstructionArgsSize(args))

	putPermissionInstruction(data, PermissionInstructionDelegate, &offset)
	binary.PutUint32(data, args.CommitFrequencyMillis, &offset)
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
				PublicKey:  accounts.Permission,
				IsWritable: true,
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
				PublicKey:  dlp.PROGRAM_ID,
				IsWritable: false,
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

	if len(data) < 8+4+1 {
		return nil, ErrInvalidInstructionData
	}

	var discriminator PermissionInstruction
	getPermissionInstruction(data, &discriminator, &offset)
	if discriminator != PermissionInstructionDelegate {
		return nil, ErrInvalidInstructionData
	}

	var args DelegateInstructionArgs
	binary.GetUint32(data, &args.CommitFrequencyMillis, &offset)

	if data[offset] == 1 && len(data)-offset < 1+32 {
		return nil, ErrInvalidInstructionData
	}
	binary.GetOptionalKey32(data, &args.Validator, &offset)

	if offset != len(data) {
		return nil, ErrInvalidInstructionData
	}

	return &args, nil
}
