package dlp

import (
	"crypto/ed25519"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana"
)

const UndelegateInstructionSize = 8 // discriminator only

type UndelegateInstructionAccounts struct {
	Validator          ed25519.PublicKey
	DelegatedAccount   ed25519.PublicKey
	OwnerProgram       ed25519.PublicKey
	DelegateBuffer     ed25519.PublicKey
	CommitState        ed25519.PublicKey
	CommitRecord       ed25519.PublicKey
	DelegationRecord   ed25519.PublicKey
	DelegationMetadata ed25519.PublicKey
	RentReimbursement  ed25519.PublicKey
}

func NewUndelegateInstruction(accounts *UndelegateInstructionAccounts) solana.Instruction {
	var offset int

	data := make([]byte, UndelegateInstructionSize)
	putDlpInstruction(data, DlpInstructionUndelegate, &offset)

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
				PublicKey:  accounts.CommitState,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CommitRecord,
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
