package dlp

import (
	"crypto/ed25519"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana"
)

var (
	delegationRecordPrefix   = []byte("delegation")
	delegationMetadataPrefix = []byte("delegation-metadata")
	delegateBufferPrefix     = []byte("buffer")
	commitStatePrefix        = []byte("state-diff")
	commitRecordPrefix       = []byte("commit-state-record")
	feesVaultPrefix          = []byte("fees-vault")
	ephemeralBalancePrefix   = []byte("ephemeral-balance")
)

// GetDelegationRecordAddress derives the record account tracking the
// delegation of the given account.
func GetDelegationRecordAddress(delegatedAccount ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		delegationRecordPrefix,
		delegatedAccount,
	)
}

func GetDelegationMetadataAddress(delegatedAccount ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		delegationMetadataPrefix,
		delegatedAccount,
	)
}

// GetDelegateBufferAddress derives the buffer holding the delegated
// account's data while ownership transfers. The buffer lives under the
// owner program, not the delegation program.
func GetDelegateBufferAddress(delegatedAccount, ownerProgram ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		ownerProgram,
		delegateBufferPrefix,
		delegatedAccount,
	)
}

func GetCommitStateAddress(delegatedAccount ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		commitStatePrefix,
		delegatedAccount,
	)
}

func GetCommitRecordAddress(delegatedAccount ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		commitRecordPrefix,
		delegatedAccount,
	)
}

func GetFeesVaultAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		feesVaultPrefix,
	)
}

// GetEphemeralBalanceAddress derives the escrow funding ephemeral
// execution for the given payer. Multiple escrows are distinguished by
// index.
func GetEphemeralBalanceAddress(payer ed25519.PublicKey, index uint8) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		ephemeralBalancePrefix,
		payer,
		[]byte{index},
	)
}
