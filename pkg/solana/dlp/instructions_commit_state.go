package dlp

import (
	"crypto/ed25519"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana"
	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana/binary"
)

type CommitStateInstructionArgs struct {
	// Slot is the ephemeral slot the committed state was captured at.
	Slot uint64

	// AllowUndelegation permits a later finalize to also undelegate.
	AllowUndelegation bool

	// Data is the full account data being committed.
	Data []byte
}

type CommitStateInstructionAccounts struct {
	Validator          ed25519.PublicKey
	DelegatedAccount   ed25519.PublicKey
	CommitState        ed25519.PublicKey
	CommitRecord       ed25519.PublicKey
	DelegationRecord   ed25519.PublicKey
	DelegationMetadata ed25519.PublicKey
}

func commitStateInstructionArgsSize(args *CommitStateInstructionArgs) int {
	return (8 + // discriminator
		8 + // slot
		1 + // allow_undelegation
		8 + // data length
		len(args.Data))
}

func NewCommitStateInstruction(
	accounts *CommitStateInstructionAccounts,
	args *CommitStateInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte, commitStateInstructionArgsSize(args))

	putDlpInstruction(data, DlpInstructionCommitState, &offset)
	binary.PutUint64(data, args.Slot, &offset)
	binary.PutBool(data, args.AllowUndelegation, &offset)
	binary.PutUint64(data, uint64(len(args.Data)), &offset)
	binary.PutData(data, args.Data, &offset)

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
				IsWritable: false,
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
				IsWritable: false,
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

func CommitStateInstructionFromBinary(data []byte) (*CommitStateInstructionArgs, error) {
	var offset int

	if len(data) < 8+8+1+8 {
		return nil, ErrInvalidInstructionData
	}

	var discriminator DlpInstruction
	getDlpInstruction(data, &discriminator, &offset)
	if discriminator != DlpInstructionCommitState {
		return nil, ErrInvalidInstructionData
	}

	var args CommitStateInstructionArgs
	binary.GetUint64(data, &args.Slot, &offset)
	binary.GetBool(data, &args.AllowUndelegation, &offset)

	var dataLen uint64
	binary.GetUint64(data, &dataLen, &offset)
	if dataLen != uint64(len(data)-offset) {
		return nil, ErrInvalidInstructionData
	}
	args.Data = make([]byte, dataLen)
	binary.GetData(data, args.Data, int(dataLen), &offset)

	return &args, nil
}
