package magic

import (
	"crypto/ed25519"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana"
)

// ShortAccountMeta is a compact account reference carried inside a base
// action. There is no signer flag because only the validator network may
// sign for the accounts of a scheduled action.
type ShortAccountMeta struct {
	PublicKey  ed25519.PublicKey
	IsWritable bool
}

// BaseAction describes a call against a destination program that the
// validator network performs on the base layer on the bundle's behalf.
type BaseAction struct {
	DestinationProgram ed25519.PublicKey
	EscrowAuthority    solana.AccountMeta

	// EscrowIndex selects which escrow funds the action. NoEscrow (the
	// default) means the action runs without one.
	EscrowIndex uint8

	Data         []byte
	ComputeUnits uint32
	Accounts     []ShortAccountMeta
}

// NewBaseAction creates a base action with no escrow and no accounts.
// Accounts are added incrementally via AppendAccounts.
func NewBaseAction(
	destinationProgram ed25519.PublicKey,
	escrowAuthority solana.AccountMeta,
	data []byte,
	computeUnits uint32,
) BaseAction {
	return BaseAction{
		DestinationProgram: destinationProgram,
		EscrowAuthority:    escrowAuthority,
		EscrowIndex:        NoEscrow,
		Data:               data,
		ComputeUnits:       computeUnits,
	}
}

// AppendAccounts adds account references to the action. The per-action
// account list is capped; exceeding the cap is an error, never a silent
// truncation.
func (a *BaseAction) AppendAccounts(accounts ...ShortAccountMeta) error {
	if len(a.Accounts)+len(accounts) > MaxBaseActionAccounts {
		return ErrTooManyActionAccounts
	}

	a.Accounts = append(a.Accounts, accounts...)
	return nil
}
