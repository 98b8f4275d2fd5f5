package magic

import (
	"crypto/ed25519"
	"errors"
)

var (
	ErrInvalidInstructionData = errors.New("unexpected instruction data")

	ErrTooManyActionAccounts = errors.New("too many accounts in base action")
	ErrTooManyBundleAccounts = errors.New("too many accounts in intent bundle")

	ErrEmptyBundle              = errors.New("intent bundle is empty")
	ErrEmptyCommit              = errors.New("commit intent has no accounts")
	ErrEmptyCommitAndUndelegate = errors.New("commit and undelegate intent has no accounts")

	// ErrAccountNotInBundle indicates an internal invariant violation where
	// an account referenced by an intent was not assigned an index in the
	// flattened account list.
	ErrAccountNotInBundle = errors.New("account is not part of the flattened bundle account list")

	ErrMissingPayer        = errors.New("payer is required")
	ErrMissingMagicContext = errors.New("magic context is required")
	ErrAlreadyBuilt        = errors.New("bundle has already been built")
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("Magic11111111111111111111111111111111111111")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)

	CONTEXT_ADDRESS = mustBase58Decode("MagicContext1111111111111111111111111111111")
	CONTEXT_ID      = ed25519.PublicKey(CONTEXT_ADDRESS)
)

const (
	// ScheduleIntentBundleDiscriminant identifies the schedule-intent-bundle
	// instruction within the Magic program.
	ScheduleIntentBundleDiscriminant uint32 = 5

	// MaxBaseActionAccounts caps the per-action account list.
	MaxBaseActionAccounts = 16

	// MaxBundleAccounts caps the flattened CPI account list, payer and
	// magic context included. The runtime enforces a hard ceiling on CPI
	// account counts, so the cap is re-validated at collection time.
	MaxBundleAccounts = 64

	// NoEscrow marks a base action that runs without an escrow account.
	NoEscrow uint8 = 255
)
