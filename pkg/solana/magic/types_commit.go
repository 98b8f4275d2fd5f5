package magic

import (
	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana"
)

// CommitType describes a set of delegated accounts whose ephemeral state
// should be committed back to the base layer, with optional base actions
// to run after the commit lands.
//
// A commit with no actions encodes as the Standalone variant on the wire,
// otherwise as WithBaseActions.
type CommitType struct {
	Accounts []solana.AccountMeta
	Actions  []BaseAction
}

// NewCommit creates a standalone commit of the given accounts.
func NewCommit(accounts ...solana.AccountMeta) CommitType {
	return CommitType{Accounts: accounts}
}

// NewCommitWithActions creates a commit of the given accounts that runs
// the provided base actions after the commit lands.
func NewCommitWithActions(accounts []solana.AccountMeta, actions []BaseAction) CommitType {
	return CommitType{Accounts: accounts, Actions: actions}
}

// IsStandalone reports whether the commit carries no post-commit actions.
func (c *CommitType) IsStandalone() bool {
	return len(c.Actions) == 0
}

// merge concatenates another commit into this one, preserving insertion
// order. Order is not significant for correctness but keeps the encoded
// instruction bytes deterministic.
func (c *CommitType) merge(other CommitType) {
	c.Accounts = append(c.Accounts, other.Accounts...)
	c.Actions = append(c.Actions, other.Actions...)
}

// UndelegateType describes what happens after the undelegation phase of a
// commit-and-undelegate intent: either nothing (Standalone) or a list of
// base actions (WithBaseActions).
type UndelegateType struct {
	Actions []BaseAction
}

// IsStandalone reports whether the undelegation carries no
// post-undelegate actions.
func (u *UndelegateType) IsStandalone() bool {
	return len(u.Actions) == 0
}

// merge combines two undelegate types. The result is standalone only if
// both inputs are standalone, otherwise the action lists concatenate.
func (u *UndelegateType) merge(other UndelegateType) {
	u.Actions = append(u.Actions, other.Actions...)
}

// CommitAndUndelegate commits a set of delegated accounts and then ends
// their delegation, returning authority to the owner program.
type CommitAndUndelegate struct {
	Commit     CommitType
	Undelegate UndelegateType
}

// NewCommitAndUndelegate creates a standalone commit-and-undelegate of
// the given accounts.
func NewCommitAndUndelegate(accounts ...solana.AccountMeta) CommitAndUndelegate {
	return CommitAndUndelegate{
		Commit: CommitType{Accounts: accounts},
	}
}

// NewCommitAndUndelegateWithActions creates a commit-and-undelegate of
// the given accounts with post-commit and post-undelegate actions. Either
// action list may be empty.
func NewCommitAndUndelegateWithActions(
	accounts []solana.AccountMeta,
	postCommitActions []BaseAction,
	postUndelegateActions []BaseAction,
) CommitAndUndelegate {
	return CommitAndUndelegate{
		Commit:     CommitType{Accounts: accounts, Actions: postCommitActions},
		Undelegate: UndelegateType{Actions: postUndelegateActions},
	}
}

func (c *CommitAndUndelegate) merge(other CommitAndUndelegate) {
	c.Commit.merge(other.Commit)
	c.Undelegate.merge(other.Undelegate)
}
