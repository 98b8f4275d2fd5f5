package magic

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana"
)

// IntentBundleBuilder accumulates intents and produces the single
// schedule-intent-bundle instruction that carries them.
//
// The builder is single-use: Build consumes it, running the fixed
// normalize, validate, collect, index-resolve, encode pipeline. Skipping
// any of those steps would produce an instruction with wrong semantics,
// so there is no way to obtain the encoded bytes without them.
type IntentBundleBuilder struct {
	payer        ed25519.PublicKey
	magicContext ed25519.PublicKey
	bundle       MagicIntentBundle
	built        bool
}

// NewIntentBundleBuilder creates a builder for a bundle paid for by payer
// and scheduled through the shared magic context account.
func NewIntentBundleBuilder(payer, magicContext ed25519.PublicKey) *IntentBundleBuilder {
	return &IntentBundleBuilder{
		payer:        payer,
		magicContext: magicContext,
	}
}

// AddStandaloneActions appends fire-and-forget actions.
func (b *IntentBundleBuilder) AddStandaloneActions(actions ...BaseAction) *IntentBundleBuilder {
	b.bundle.AddStandaloneActions(actions...)
	return b
}

// AddCommit adds a commit intent, merging with any previously added one.
func (b *IntentBundleBuilder) AddCommit(intent CommitType) *IntentBundleBuilder {
	b.bundle.AddCommit(intent)
	return b
}

// AddCommitAndUndelegate adds a commit-and-undelegate intent, merging
// with any previously added one.
func (b *IntentBundleBuilder) AddCommitAndUndelegate(intent CommitAndUndelegate) *IntentBundleBuilder {
	b.bundle.AddCommitAndUndelegate(intent)
	return b
}

// Build consumes the builder and returns the schedule-intent-bundle
// instruction. The instruction's account list is ordered exactly as the
// indices embedded in its data expect, with payer and magic context
// always first and second.
func (b *IntentBundleBuilder) Build() (solana.Instruction, error) {
	if b.built {
		return solana.Instruction{}, ErrAlreadyBuilt
	}
	if len(b.payer) != ed25519.PublicKeySize {
		return solana.Instruction{}, ErrMissingPayer
	}
	if len(b.magicContext) != ed25519.PublicKeySize {
		return solana.Instruction{}, ErrMissingMagicContext
	}
	if b.bundle.IsEmpty() {
		return solana.Instruction{}, ErrEmptyBundle
	}
	b.built = true

	if err := b.bundle.normalize(); err != nil {
		return solana.Instruction{}, err
	}
	if err := b.bundle.validate(); err != nil {
		return solana.Instruction{}, err
	}

	accounts, err := b.bundle.collectUniqueAccounts(
		solana.NewAccountMeta(b.payer, true),
		solana.NewAccountMeta(b.magicContext, false),
	)
	if err != nil {
		return solana.Instruction{}, err
	}

	args, err := b.bundle.intoArgs(accountIndexMap(accounts))
	if err != nil {
		return solana.Instruction{}, errors.Wrap(err, "failed to resolve account indices")
	}

	return solana.NewInstruction(PROGRAM_ID, args.Marshal(), accounts...), nil
}

// NewCommitInstruction builds an instruction committing the given
// delegated accounts back to the base layer.
func NewCommitInstruction(payer ed25519.PublicKey, accounts ...solana.AccountMeta) (solana.Instruction, error) {
	return NewIntentBundleBuilder(payer, CONTEXT_ID).
		AddCommit(NewCommit(accounts...)).
		Build()
}

// NewCommitAndUndelegateInstruction builds an instruction committing the
// given delegated accounts and ending their delegation.
func NewCommitAndUndelegateInstruction(payer ed25519.PublicKey, accounts ...solana.AccountMeta) (solana.Instruction, error) {
	return NewIntentBundleBuilder(payer, CONTEXT_ID).
		AddCommitAndUndelegate(NewCommitAndUndelegate(accounts...)).
		Build()
}
