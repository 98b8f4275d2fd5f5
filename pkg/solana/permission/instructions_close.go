package permission

import (
	"crypto/ed25519"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana"
)

type CloseInstructionAccounts struct {
	Authority       ed25519.PublicKey
	Permission      ed25519.PublicKey
	RentDestination ed25519.PublicKey
}

func NewCloseInstruction(accounts *CloseInstructionAccounts) solana.Instruction {
	var offset int

	data := make([]byte, 8)
	putPermissionInstruction(data, PermissionInstructionClose, &offset)

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
			{
				PublicKey:  accounts.RentDestination,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}
