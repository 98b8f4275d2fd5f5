package magic

import (
	"crypto/ed25519"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana"
)

// MagicIntentBundle aggregates the intents a program issues within a
// single instruction: at most one commit intent, at most one
// commit-and-undelegate intent, and any number of standalone actions.
//
// The bundle is a transient staging structure. It is populated through
// the Add* methods, normalized exactly once, and consumed into a single
// schedule-intent-bundle instruction.
type MagicIntentBundle struct {
	StandaloneActions   []BaseAction
	Commit              *CommitType
	CommitAndUndelegate *CommitAndUndelegate
}

// AddStandaloneActions appends fire-and-forget actions with no commit
// semantics.
func (b *MagicIntentBundle) AddStandaloneActions(actions ...BaseAction) {
	b.StandaloneActions = append(b.StandaloneActions, actions...)
}

// AddCommit installs a commit intent, or merges into the existing one. A
// program may request commits multiple times before finally invoking and
// all such requests accumulate.
func (b *MagicIntentBundle) AddCommit(intent CommitType) {
	if b.Commit == nil {
		b.Commit = &intent
		return
	}

	b.Commit.merge(intent)
}

// AddCommitAndUndelegate installs a commit-and-undelegate intent, or
// merges into the existing one.
func (b *MagicIntentBundle) AddCommitAndUndelegate(intent CommitAndUndelegate) {
	if b.CommitAndUndelegate == nil {
		b.CommitAndUndelegate = &intent
		return
	}

	b.CommitAndUndelegate.merge(intent)
}

// IsEmpty reports whether no intents have been added.
func (b *MagicIntentBundle) IsEmpty() bool {
	return len(b.StandaloneActions) == 0 && b.Commit == nil && b.CommitAndUndelegate == nil
}

// normalize resolves account overlap between the intents. Each intent's
// account list is deduplicated by address, first occurrence wins. An
// account claimed by both the commit intent and the commit-and-undelegate
// intent cannot be committed twice with different post-processing
// semantics, so commit-and-undelegate takes precedence (undelegation
// implies a commit as its first phase) and the account is removed from
// the plain commit intent.
//
// A commit intent left without accounts after overlap removal is a hard
// validation error rather than being merged away.
func (b *MagicIntentBundle) normalize() error {
	seen := make(map[string]struct{})

	if b.CommitAndUndelegate != nil {
		b.CommitAndUndelegate.Commit.Accounts = dedupeAccountMetas(b.CommitAndUndelegate.Commit.Accounts, seen)
	}

	if b.Commit == nil {
		return nil
	}

	b.Commit.Accounts = dedupeAccountMetas(b.Commit.Accounts, seen)
	if len(b.Commit.Accounts) == 0 {
		return ErrEmptyCommit
	}

	return nil
}

// validate checks that every present intent category commits at least one
// account. Empty categories are represented as absent, never encoded as
// zero-length.
func (b *MagicIntentBundle) validate() error {
	if b.Commit != nil && len(b.Commit.Accounts) == 0 {
		return ErrEmptyCommit
	}
	if b.CommitAndUndelegate != nil && len(b.CommitAndUndelegate.Commit.Accounts) == 0 {
		return ErrEmptyCommitAndUndelegate
	}
	return nil
}

// collectUniqueAccounts flattens every account the bundle references into
// a single ordered, deduplicated list. The walk order is fixed because it
// determines the index assigned to each account, which the Magic program
// depends on: payer, magic context, standalone action escrow authorities,
// commit intent accounts and escrow authorities, commit-and-undelegate
// accounts and escrow authorities.
//
// Duplicate references merge their writable/signer flags.
func (b *MagicIntentBundle) collectUniqueAccounts(payer, magicContext solana.AccountMeta) ([]solana.AccountMeta, error) {
	collector := newAccountCollector()
	collector.add(payer)
	collector.add(magicContext)

	for i := range b.StandaloneActions {
		collector.add(b.StandaloneActions[i].EscrowAuthority)
	}

	if b.Commit != nil {
		for _, account := range b.Commit.Accounts {
			collector.add(account)
		}
		for i := range b.Commit.Actions {
			collector.add(b.Commit.Actions[i].EscrowAuthority)
		}
	}

	if b.CommitAndUndelegate != nil {
		for _, account := range b.CommitAndUndelegate.Commit.Accounts {
			collector.add(account)
		}
		for i := range b.CommitAndUndelegate.Commit.Actions {
			collector.add(b.CommitAndUndelegate.Commit.Actions[i].EscrowAuthority)
		}
		for i := range b.CommitAndUndelegate.Undelegate.Actions {
			collector.add(b.CommitAndUndelegate.Undelegate.Actions[i].EscrowAuthority)
		}
	}

	if len(collector.accounts) > MaxBundleAccounts {
		return nil, ErrTooManyBundleAccounts
	}

	return collector.accounts, nil
}

// intoArgs replaces every account reference with its index in the
// flattened account list. A missing index indicates an internal invariant
// violation and is surfaced as an error rather than an unchecked access.
func (b *MagicIntentBundle) intoArgs(indexByAddress map[string]uint8) (*MagicIntentBundleArgs, error) {
	var args MagicIntentBundleArgs
	var err error

	args.StandaloneActions, err = baseActionsToArgs(b.StandaloneActions, indexByAddress)
	if err != nil {
		return nil, err
	}

	if b.Commit != nil {
		commitArgs, err := commitToArgs(b.Commit, indexByAddress)
		if err != nil {
			return nil, err
		}
		args.Commit = &commitArgs
	}

	if b.CommitAndUndelegate != nil {
		commitArgs, err := commitToArgs(&b.CommitAndUndelegate.Commit, indexByAddress)
		if err != nil {
			return nil, err
		}
		undelegateArgs, err := undelegateToArgs(&b.CommitAndUndelegate.Undelegate, indexByAddress)
		if err != nil {
			return nil, err
		}
		args.CommitAndUndelegate = &CommitAndUndelegateArgs{
			Commit:     commitArgs,
			Undelegate: undelegateArgs,
		}
	}

	return &args, nil
}

// dedupeAccountMetas removes accounts whose address is already in seen,
// preserving first-occurrence order, and records every surviving address
// in seen.
func dedupeAccountMetas(accounts []solana.AccountMeta, seen map[string]struct{}) []solana.AccountMeta {
	deduped := make([]solana.AccountMeta, 0, len(accounts))
	for _, account := range accounts {
		key := string(account.PublicKey)
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		deduped = append(deduped, account)
	}
	return deduped
}

type accountCollector struct {
	accounts       []solana.AccountMeta
	indexByAddress map[string]int
}

func newAccountCollector() *accountCollector {
	return &accountCollector{
		indexByAddress: make(map[string]int),
	}
}

func (c *accountCollector) add(account solana.AccountMeta) {
	key := string(account.PublicKey)
	if i, ok := c.indexByAddress[key]; ok {
		c.accounts[i].IsWritable = c.accounts[i].IsWritable || account.IsWritable
		c.accounts[i].IsSigner = c.accounts[i].IsSigner || account.IsSigner
		return
	}

	c.indexByAddress[key] = len(c.accounts)
	c.accounts = append(c.accounts, account)
}

// accountIndexMap maps each account's address to its position in the
// flattened list produced by collectUniqueAccounts.
func accountIndexMap(accounts []solana.AccountMeta) map[string]uint8 {
	indexByAddress := make(map[string]uint8, len(accounts))
	for i, account := range accounts {
		indexByAddress[string(account.PublicKey)] = uint8(i)
	}
	return indexByAddress
}

func lookupAccountIndex(indexByAddress map[string]uint8, key ed25519.PublicKey) (uint8, error) {
	index, ok := indexByAddress[string(key)]
	if !ok {
		return 0, ErrAccountNotInBundle
	}
	return index, nil
}

func baseActionsToArgs(actions []BaseAction, indexByAddress map[string]uint8) ([]BaseActionArgs, error) {
	if len(actions) == 0 {
		return nil, nil
	}

	args := make([]BaseActionArgs, 0, len(actions))
	for i := range actions {
		actionArgs, err := baseActionToArgs(&actions[i], indexByAddress)
		if err != nil {
			return nil, err
		}
		args = append(args, actionArgs)
	}
	return args, nil
}

func baseActionToArgs(action *BaseAction, indexByAddress map[string]uint8) (BaseActionArgs, error) {
	escrowAuthorityIndex, err := lookupAccountIndex(indexByAddress, action.EscrowAuthority.PublicKey)
	if err != nil {
		return BaseActionArgs{}, err
	}

	return BaseActionArgs{
		EscrowIndex:          action.EscrowIndex,
		Data:                 action.Data,
		ComputeUnits:         action.ComputeUnits,
		EscrowAuthorityIndex: escrowAuthorityIndex,
		DestinationProgram:   action.DestinationProgram,
		Accounts:             action.Accounts,
	}, nil
}

func commitToArgs(commit *CommitType, indexByAddress map[string]uint8) (CommitTypeArgs, error) {
	committedAccounts := make([]uint8, 0, len(commit.Accounts))
	for _, account := range commit.Accounts {
		index, err := lookupAccountIndex(indexByAddress, account.PublicKey)
		if err != nil {
			return CommitTypeArgs{}, err
		}
		committedAccounts = append(committedAccounts, index)
	}

	actions, err := baseActionsToArgs(commit.Actions, indexByAddress)
	if err != nil {
		return CommitTypeArgs{}, err
	}

	variant := CommitTypeStandalone
	if len(actions) > 0 {
		variant = CommitTypeWithBaseActions
	}

	return CommitTypeArgs{
		Variant:           variant,
		CommittedAccounts: committedAccounts,
		Actions:           actions,
	}, nil
}

func undelegateToArgs(undelegate *UndelegateType, indexByAddress map[string]uint8) (UndelegateTypeArgs, error) {
	actions, err := baseActionsToArgs(undelegate.Actions, indexByAddress)
	if err != nil {
		return UndelegateTypeArgs{}, err
	}

	variant := UndelegateTypeStandalone
	if len(actions) > 0 {
		variant = UndelegateTypeWithBaseActions
	}

	return UndelegateTypeArgs{
		Variant: variant,
		Actions: actions,
	}, nil
}
