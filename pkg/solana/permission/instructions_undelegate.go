package permission

import (
	"crypto/ed25519"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana"
)

type UndelegateInstructionAccounts struct {
	Validator         ed25519.PublicKey
	Permission        ed25519.PublicKey
	DelegationRecord  ed25519.PublicKey
	RentReimbursement ed25519.PublicKey
}

func NewUndelegateInstruction(accounts *UndelegateInstructionAccounts) solana.Instruction {
	var offset int

	data := make([]byte, 8)
	putPermissionInstruction(data, PermissionInstructionUndelegate, &offset)

	return solana.Instruction{
		Program: PROGRAM_ID,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Validator,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Permission,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.DelegationRecord,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.RentReimbursement,
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
