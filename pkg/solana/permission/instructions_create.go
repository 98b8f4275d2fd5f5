package permission

import (
	"crypto/ed25519"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana"
	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana/binary"
)

const CreateInstructionArgsSize = 4 // permission mask

type CreateInstructionArgs struct {
	Permissions PermissionMask
}

type CreateInstructionAccounts struct {
	Payer      ed25519.PublicKey
	Permission ed25519.PublicKey
	Subject    ed25519.PublicKey
	Authority  ed25519.PublicKey
}

func NewCreateInstruction(
	accounts *CreateInstructionAccounts,
	args *CreateInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte, 8+CreateInstructionArgsSize)

	putPermissionInstruction(data, PermissionInstructionCreate, &offset)
	binary.PutUint32(data, uint32(args.Permissions), &offset)

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
				PublicKey:  accounts.Subject,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Authority,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}

func CreateInstructionFromBinary(data []byte) (*CreateInstructionArgs, error) {
	var offset int

	if len(data) != 8+CreateInstructionArgsSize {
		return nil, ErrInvalidInstructionData
	}

	var discriminator PermissionInstruction
	getPermissionInstruction(data, &discriminator, &offset)
	if discriminator != PermissionInstructionCreate {
		return nil, ErrInvalidInstructionData
	}

	var args CreateInstructionArgs
	var mask uint32
	binary.GetUint32(data, &mask, &offset)
	args.Permissions = PermissionMask(mask)

	return &args, nil
}
