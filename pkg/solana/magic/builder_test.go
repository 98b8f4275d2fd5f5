package magic

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_RequiredFields(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	account := generateAccountMeta(t, true)

	_, err = NewIntentBundleBuilder(nil, CONTEXT_ID).
		AddCommit(NewCommit(account)).
		Build()
	assert.Equal(t, ErrMissingPayer, err)

	_, err = NewIntentBundleBuilder(payer, nil).
		AddCommit(NewCommit(account)).
		Build()
	assert.Equal(t, ErrMissingMagicContext, err)

	_, err = NewIntentBundleBuilder(payer, CONTEXT_ID).Build()
	assert.Equal(t, ErrEmptyBundle, err)
}

func TestBuilder_SingleUse(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	builder := NewIntentBundleBuilder(payer, CONTEXT_ID).
		AddCommit(NewCommit(generateAccountMeta(t, true)))

	_, err = builder.Build()
	require.NoError(t, err)

	_, err = builder.Build()
	assert.Equal(t, ErrAlreadyBuilt, err)
}

func TestBuilder_SequentialAddsMatchPremerged(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	x := generateAccountMeta(t, true)
	y := generateAccountMeta(t, true)

	sequential, err := NewIntentBundleBuilder(payer, CONTEXT_ID).
		AddCommit(NewCommit(x)).
		AddCommit(NewCommit(y)).
		Build()
	require.NoError(t, err)

	merged := NewCommit(x)
	merged.merge(NewCommit(y))
	premerged, err := NewIntentBundleBuilder(payer, CONTEXT_ID).
		AddCommit(merged).
		Build()
	require.NoError(t, err)

	assert.Equal(t, premerged, sequential)
}

func TestBuilder_OrphanedCommitFailsBuild(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	shared := generateAccountMeta(t, true)

	_, err = NewIntentBundleBuilder(payer, CONTEXT_ID).
		AddCommit(NewCommit(shared)).
		AddCommitAndUndelegate(NewCommitAndUndelegate(shared)).
		Build()
	assert.Equal(t, ErrEmptyCommit, err)
}

func TestBuilder_StandaloneActionsOnly(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	action := generateBaseAction(t)

	ixn, err := NewIntentBundleBuilder(payer, CONTEXT_ID).
		AddStandaloneActions(action).
		Build()
	require.NoError(t, err)

	decoded, err := ScheduleIntentBundleFromBinary(ixn.Data)
	require.NoError(t, err)
	assert.Nil(t, decoded.Commit)
	assert.Nil(t, decoded.CommitAndUndelegate)
	require.Len(t, decoded.StandaloneActions, 1)
	assert.Equal(t, NoEscrow, decoded.StandaloneActions[0].EscrowIndex)

	require.Len(t, ixn.Accounts, 3)
	assert.EqualValues(t, action.EscrowAuthority.PublicKey, ixn.Accounts[2].PublicKey)
}

func TestNewCommitInstruction(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	account := generateAccountMeta(t, true)

	ixn, err := NewCommitInstruction(payer, account)
	require.NoError(t, err)

	require.Len(t, ixn.Accounts, 3)
	assert.EqualValues(t, CONTEXT_ID, ixn.Accounts[1].PublicKey)

	decoded, err := ScheduleIntentBundleFromBinary(ixn.Data)
	require.NoError(t, err)
	require.NotNil(t, decoded.Commit)
	assert.Equal(t, []uint8{2}, decoded.Commit.CommittedAccounts)

	_, err = NewCommitInstruction(payer)
	assert.Equal(t, ErrEmptyCommit, err)
}

func TestNewCommitAndUndelegateInstruction(t *testing.T) {
	payer, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	account := generateAccountMeta(t, true)

	ixn, err := NewCommitAndUndelegateInstruction(payer, account)
	require.NoError(t, err)

	decoded, err := ScheduleIntentBundleFromBinary(ixn.Data)
	require.NoError(t, err)
	assert.Nil(t, decoded.Commit)
	require.NotNil(t, decoded.CommitAndUndelegate)
	assert.Equal(t, UndelegateTypeStandalone, decoded.CommitAndUndelegate.Undelegate.Variant)
	assert.Equal(t, []uint8{2}, decoded.CommitAndUndelegate.Commit.CommittedAccounts)
}
