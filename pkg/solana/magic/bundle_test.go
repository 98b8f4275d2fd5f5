package magic

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana"
)

func generateAccountMeta(t *testing.T, isWritable bool) solana.AccountMeta {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	if isWritable {
		return solana.NewAccountMeta(pub, false)
	}
	return solana.NewReadonlyAccountMeta(pub, false)
}

func generateBaseAction(t *testing.T) BaseAction {
	program, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	return NewBaseAction(
		program,
		generateAccountMeta(t, false),
		[]byte("action data"),
		200_000,
	)
}

func TestBaseAction_AppendAccountsCapacity(t *testing.T) {
	action := generateBaseAction(t)

	for i := 0; i < MaxBaseActionAccounts; i++ {
		account := generateAccountMeta(t, true)
		require.NoError(t, action.AppendAccounts(ShortAccountMeta{
			PublicKey:  account.PublicKey,
			IsWritable: true,
		}))
	}

	overflow := generateAccountMeta(t, true)
	assert.Equal(t, ErrTooManyActionAccounts, action.AppendAccounts(ShortAccountMeta{
		PublicKey: overflow.PublicKey,
	}))
	assert.Len(t, action.Accounts, MaxBaseActionAccounts)
}

func TestAddCommit_MergesInInsertionOrder(t *testing.T) {
	a := generateAccountMeta(t, true)
	b := generateAccountMeta(t, true)
	actionX := generateBaseAction(t)
	actionY := generateBaseAction(t)

	var sequential MagicIntentBundle
	sequential.AddCommit(NewCommitWithActions([]solana.AccountMeta{a}, []BaseAction{actionX}))
	sequential.AddCommit(NewCommitWithActions([]solana.AccountMeta{b}, []BaseAction{actionY}))

	premerged := NewCommitWithActions([]solana.AccountMeta{a}, []BaseAction{actionX})
	premerged.merge(NewCommitWithActions([]solana.AccountMeta{b}, []BaseAction{actionY}))
	var direct MagicIntentBundle
	direct.AddCommit(premerged)

	assert.Equal(t, direct, sequential)
	assert.Equal(t, []solana.AccountMeta{a, b}, sequential.Commit.Accounts)
	assert.Len(t, sequential.Commit.Actions, 2)
}

func TestAddCommitAndUndelegate_UndelegateVariantMerge(t *testing.T) {
	a := generateAccountMeta(t, true)
	b := generateAccountMeta(t, true)
	action := generateBaseAction(t)

	// standalone + standalone stays standalone
	var bundle MagicIntentBundle
	bundle.AddCommitAndUndelegate(NewCommitAndUndelegate(a))
	bundle.AddCommitAndUndelegate(NewCommitAndUndelegate(b))
	assert.True(t, bundle.CommitAndUndelegate.Undelegate.IsStandalone())

	// any side with actions forces the action-carrying variant
	for _, ordering := range [][]CommitAndUndelegate{
		{
			NewCommitAndUndelegate(a),
			NewCommitAndUndelegateWithActions([]solana.AccountMeta{b}, nil, []BaseAction{action}),
		},
		{
			NewCommitAndUndelegateWithActions([]solana.AccountMeta{a}, nil, []BaseAction{action}),
			NewCommitAndUndelegate(b),
		},
		{
			NewCommitAndUndelegateWithActions([]solana.AccountMeta{a}, nil, []BaseAction{action}),
			NewCommitAndUndelegateWithActions([]solana.AccountMeta{b}, nil, []BaseAction{action}),
		},
	} {
		var merged MagicIntentBundle
		merged.AddCommitAndUndelegate(ordering[0])
		merged.AddCommitAndUndelegate(ordering[1])
		assert.False(t, merged.CommitAndUndelegate.Undelegate.IsStandalone())
	}
}

func TestNormalize_DedupIsIdempotent(t *testing.T) {
	a := generateAccountMeta(t, true)
	b := generateAccountMeta(t, true)
	c := generateAccountMeta(t, true)

	var bundle MagicIntentBundle
	bundle.AddCommit(NewCommit(a, b, a, c, b))

	require.NoError(t, bundle.normalize())
	assert.Equal(t, []solana.AccountMeta{a, b, c}, bundle.Commit.Accounts)

	once := bundle.Commit.Accounts
	require.NoError(t, bundle.normalize())
	assert.Equal(t, once, bundle.Commit.Accounts)
}

func TestNormalize_CommitAndUndelegateTakesPrecedence(t *testing.T) {
	a := generateAccountMeta(t, true)
	b := generateAccountMeta(t, true)
	d := generateAccountMeta(t, true)

	var bundle MagicIntentBundle
	bundle.AddCommit(NewCommit(a, b))
	bundle.AddCommitAndUndelegate(NewCommitAndUndelegate(b, d))

	require.NoError(t, bundle.normalize())

	assert.Equal(t, []solana.AccountMeta{a}, bundle.Commit.Accounts)
	assert.Equal(t, []solana.AccountMeta{b, d}, bundle.CommitAndUndelegate.Commit.Accounts)
}

func TestNormalize_OrphanedCommitRejected(t *testing.T) {
	a := generateAccountMeta(t, true)
	b := generateAccountMeta(t, true)

	var bundle MagicIntentBundle
	bundle.AddCommit(NewCommit(a, b))
	bundle.AddCommitAndUndelegate(NewCommitAndUndelegate(b, a))

	assert.Equal(t, ErrEmptyCommit, bundle.normalize())
}

func TestValidate_EmptyIntents(t *testing.T) {
	var withEmptyCommit MagicIntentBundle
	withEmptyCommit.AddCommit(CommitType{})
	assert.Equal(t, ErrEmptyCommit, withEmptyCommit.validate())

	var withEmptyCommitAndUndelegate MagicIntentBundle
	withEmptyCommitAndUndelegate.AddCommitAndUndelegate(CommitAndUndelegate{})
	assert.Equal(t, ErrEmptyCommitAndUndelegate, withEmptyCommitAndUndelegate.validate())
}

func TestCollectUniqueAccounts_FixedWalkOrder(t *testing.T) {
	payer := generateAccountMeta(t, true)
	payer.IsSigner = true
	magicContext := generateAccountMeta(t, true)

	standalone := generateBaseAction(t)

	commitAccount := generateAccountMeta(t, true)
	commitAction := generateBaseAction(t)

	cauAccount := generateAccountMeta(t, true)
	postCommitAction := generateBaseAction(t)
	postUndelegateAction := generateBaseAction(t)

	var bundle MagicIntentBundle
	bundle.AddStandaloneActions(standalone)
	bundle.AddCommit(NewCommitWithActions([]solana.AccountMeta{commitAccount}, []BaseAction{commitAction}))
	bundle.AddCommitAndUndelegate(NewCommitAndUndelegateWithActions(
		[]solana.AccountMeta{cauAccount},
		[]BaseAction{postCommitAction},
		[]BaseAction{postUndelegateAction},
	))

	require.NoError(t, bundle.normalize())
	accounts, err := bundle.collectUniqueAccounts(payer, magicContext)
	require.NoError(t, err)

	assert.Equal(t, []solana.AccountMeta{
		payer,
		magicContext,
		standalone.EscrowAuthority,
		commitAccount,
		commitAction.EscrowAuthority,
		cauAccount,
		postCommitAction.EscrowAuthority,
		postUndelegateAction.EscrowAuthority,
	}, accounts)
}

func TestCollectUniqueAccounts_MergesFlags(t *testing.T) {
	payer := generateAccountMeta(t, true)
	payer.IsSigner = true
	magicContext := generateAccountMeta(t, true)

	shared := generateAccountMeta(t, false)
	sharedWritable := shared
	sharedWritable.IsWritable = true

	action := generateBaseAction(t)
	action.EscrowAuthority = shared

	var bundle MagicIntentBundle
	bundle.AddStandaloneActions(action)
	bundle.AddCommit(NewCommit(sharedWritable))

	require.NoError(t, bundle.normalize())
	accounts, err := bundle.collectUniqueAccounts(payer, magicContext)
	require.NoError(t, err)

	require.Len(t, accounts, 3)
	assert.Equal(t, shared.PublicKey, accounts[2].PublicKey)
	assert.True(t, accounts[2].IsWritable)
}

func TestCollectUniqueAccounts_CapacityBoundary(t *testing.T) {
	payer := generateAccountMeta(t, true)
	payer.IsSigner = true
	magicContext := generateAccountMeta(t, true)

	atCapacity := make([]solana.AccountMeta, 0, MaxBundleAccounts-2)
	for i := 0; i < MaxBundleAccounts-2; i++ {
		atCapacity = append(atCapacity, generateAccountMeta(t, true))
	}

	var bundle MagicIntentBundle
	bundle.AddCommit(NewCommit(atCapacity...))
	require.NoError(t, bundle.normalize())
	accounts, err := bundle.collectUniqueAccounts(payer, magicContext)
	require.NoError(t, err)
	assert.Len(t, accounts, MaxBundleAccounts)

	var overflowing MagicIntentBundle
	overflowing.AddCommit(NewCommit(append(atCapacity, generateAccountMeta(t, true))...))
	require.NoError(t, overflowing.normalize())
	_, err = overflowing.collectUniqueAccounts(payer, magicContext)
	assert.Equal(t, ErrTooManyBundleAccounts, err)
}

func TestIntoArgs_MissingIndexIsAnError(t *testing.T) {
	a := generateAccountMeta(t, true)

	var bundle MagicIntentBundle
	bundle.AddCommit(NewCommit(a))

	_, err := bundle.intoArgs(map[string]uint8{})
	assert.Equal(t, ErrAccountNotInBundle, err)
}
