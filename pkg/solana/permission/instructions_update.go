package permission

import (
	"crypto/ed25519"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana"
	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana/binary"
)

const UpdateInstructionArgsSize = 4 // permission mask

type UpdateInstructionArgs struct {
	Permissions PermissionMask
}

type UpdateInstructionAccounts struct {
	Authority  ed25519.PublicKey
	Permission ed25519.PublicKey
}

func NewUpdateInstruction(
	accounts *UpdateInstructionAccounts,
	args *UpdateInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte, 8+UpdateInstructionArgsSize)

	putPermissionInstruction(data, PermissionInstructionUpdate, &offset)
	binary.PutUint32(data, uint32(args.Permissions), &offset)

	return solana.Instruction{
		Program: PROGRAM_ID,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Authority,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Permission,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}

func UpdateInstructionFromBinary(data []byte) (*UpdateInstructionArgs, error) {
	var offset int

	if len(data) != 8+UpdateInstructionArgsSize {
		return nil, ErrInvalidInstructionData
	}

	var discriminator PermissionInstruction
	getPermissionInstruction(data, &discriminator, &offset)
	if discriminator != PermissionInstructionUpdate {
		return nil, ErrInvalidInstructionData
	}

	var args UpdateInstructionArgs
	var mask uint32
	binary.GetUint32(data, &mask, &offset)
	args.Permissions = PermissionMask(mask)

	return &args, nil
}
