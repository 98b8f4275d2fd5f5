package magic

import (
	"crypto/ed25519"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana/binary"
)

// The schedule-intent-bundle wire layout is a fixed contract with the
// Magic program and must be reproduced bit-exact:
//
//	[4]  instruction discriminant (u32 LE)
//	[1]  commit option flag, followed by CommitTypeArgs when present
//	[1]  commit-and-undelegate option flag, followed by CommitTypeArgs
//	     and UndelegateTypeArgs when present
//	[8]  standalone action count (u64 LE), followed by BaseActionArgs
//
// Account references are encoded as u8 indices into the flattened account
// list passed alongside the instruction, except the per-action account
// list and destination program, which carry full 32-byte addresses.

type CommitTypeVariant uint32

const (
	CommitTypeStandalone CommitTypeVariant = iota
	CommitTypeWithBaseActions
)

type UndelegateTypeVariant uint32

const (
	UndelegateTypeStandalone UndelegateTypeVariant = iota
	UndelegateTypeWithBaseActions
)

// BaseActionArgs is the wire form of a BaseAction with the escrow
// authority resolved to its index in the flattened account list.
type BaseActionArgs struct {
	EscrowIndex          uint8
	Data                 []byte
	ComputeUnits         uint32
	EscrowAuthorityIndex uint8
	DestinationProgram   ed25519.PublicKey
	Accounts             []ShortAccountMeta
}

const baseActionArgsFixedSize = (1 + // escrow_index
	8 + // data length
	4 + // compute_units
	1 + // escrow_authority index
	32 + // destination_program
	8) // accounts count

const shortAccountMetaSize = (32 + // address
	1) // is_writable

func (a *BaseActionArgs) Size() int {
	return baseActionArgsFixedSize + len(a.Data) + len(a.Accounts)*shortAccountMetaSize
}

func (a *BaseActionArgs) Marshal(dst []byte, offset *int) {
	binary.PutUint8(dst, a.EscrowIndex, offset)
	binary.PutUint64(dst, uint64(len(a.Data)), offset)
	binary.PutData(dst, a.Data, offset)
	binary.PutUint32(dst, a.ComputeUnits, offset)
	binary.PutUint8(dst, a.EscrowAuthorityIndex, offset)
	binary.PutKey32(dst, a.DestinationProgram, offset)
	binary.PutUint64(dst, uint64(len(a.Accounts)), offset)
	for _, account := range a.Accounts {
		binary.PutKey32(dst, account.PublicKey, offset)
		binary.PutBool(dst, account.IsWritable, offset)
	}
}

// CommitTypeArgs is the wire form of a CommitType with account references
// resolved to indices.
type CommitTypeArgs struct {
	Variant           CommitTypeVariant
	CommittedAccounts []uint8
	Actions           []BaseActionArgs
}

func (a *CommitTypeArgs) Size() int {
	size := (4 + // variant tag
		8 + // committed account count
		len(a.CommittedAccounts))
	if a.Variant == CommitTypeWithBaseActions {
		size += 8 // action count
		for i := range a.Actions {
			size += a.Actions[i].Size()
		}
	}
	return size
}

func (a *CommitTypeArgs) Marshal(dst []byte, offset *int) {
	binary.PutUint32(dst, uint32(a.Variant), offset)
	binary.PutUint64(dst, uint64(len(a.CommittedAccounts)), offset)
	for _, index := range a.CommittedAccounts {
		binary.PutUint8(dst, index, offset)
	}
	if a.Variant == CommitTypeWithBaseActions {
		binary.PutUint64(dst, uint64(len(a.Actions)), offset)
		for i := range a.Actions {
			a.Actions[i].Marshal(dst, offset)
		}
	}
}

// UndelegateTypeArgs is the wire form of an UndelegateType. The
// standalone variant carries no payload.
type UndelegateTypeArgs struct {
	Variant UndelegateTypeVariant
	Actions []BaseActionArgs
}

func (a *UndelegateTypeArgs) Size() int {
	size := 4 // variant tag
	if a.Variant == UndelegateTypeWithBaseActions {
		size += 8 // action count
		for i := range a.Actions {
			size += a.Actions[i].Size()
		}
	}
	return size
}

func (a *UndelegateTypeArgs) Marshal(dst []byte, offset *int) {
	binary.PutUint32(dst, uint32(a.Variant), offset)
	if a.Variant == UndelegateTypeWithBaseActions {
		binary.PutUint64(dst, uint64(len(a.Actions)), offset)
		for i := range a.Actions {
			a.Actions[i].Marshal(dst, offset)
		}
	}
}

type CommitAndUndelegateArgs struct {
	Commit     CommitTypeArgs
	Undelegate UndelegateTypeArgs
}

func (a *CommitAndUndelegateArgs) Size() int {
	return a.Commit.Size() + a.Undelegate.Size()
}

func (a *CommitAndUndelegateArgs) Marshal(dst []byte, offset *int) {
	a.Commit.Marshal(dst, offset)
	a.Undelegate.Marshal(dst, offset)
}

// MagicIntentBundleArgs is the fully index-resolved wire form of a
// MagicIntentBundle.
type MagicIntentBundleArgs struct {
	Commit              *CommitTypeArgs
	CommitAndUndelegate *CommitAndUndelegateArgs
	StandaloneActions   []BaseActionArgs
}

func (a *MagicIntentBundleArgs) Size() int {
	size := (4 + // discriminant
		1 + // commit option flag
		1 + // commit_and_undelegate option flag
		8) // standalone action count
	if a.Commit != nil {
		size += a.Commit.Size()
	}
	if a.CommitAndUndelegate != nil {
		size += a.CommitAndUndelegate.Size()
	}
	for i := range a.StandaloneActions {
		size += a.StandaloneActions[i].Size()
	}
	return size
}

// Marshal encodes the bundle as schedule-intent-bundle instruction data.
func (a *MagicIntentBundleArgs) Marshal() []byte {
	var offset int
	data := make([]byte, a.Size())

	binary.PutUint32(data, ScheduleIntentBundleDiscriminant, &offset)

	binary.PutBool(data, a.Commit != nil, &offset)
	if a.Commit != nil {
		a.Commit.Marshal(data, &offset)
	}

	binary.PutBool(data, a.CommitAndUndelegate != nil, &offset)
	if a.CommitAndUndelegate != nil {
		a.CommitAndUndelegate.Marshal(data, &offset)
	}

	binary.PutUint64(data, uint64(len(a.StandaloneActions)), &offset)
	for i := range a.StandaloneActions {
		a.StandaloneActions[i].Marshal(data, &offset)
	}

	return data
}

// ScheduleIntentBundleFromBinary decodes schedule-intent-bundle
// instruction data. Indices remain indices; resolving them requires the
// flattened account list the instruction was built against.
func ScheduleIntentBundleFromBinary(data []byte) (*MagicIntentBundleArgs, error) {
	var offset int

	if err := need(data, offset, 4); err != nil {
		return nil, err
	}
	var discriminant uint32
	binary.GetUint32(data, &discriminant, &offset)
	if discriminant != ScheduleIntentBundleDiscriminant {
		return nil, ErrInvalidInstructionData
	}

	var args MagicIntentBundleArgs

	hasCommit, err := getOptionFlag(data, &offset)
	if err != nil {
		return nil, err
	}
	if hasCommit {
		commit, err := getCommitTypeArgs(data, &offset)
		if err != nil {
			return nil, err
		}
		args.Commit = commit
	}

	hasCommitAndUndelegate, err := getOptionFlag(data, &offset)
	if err != nil {
		return nil, err
	}
	if hasCommitAndUndelegate {
		commit, err := getCommitTypeArgs(data, &offset)
		if err != nil {
			return nil, err
		}
		undelegate, err := getUndelegateTypeArgs(data, &offset)
		if err != nil {
			return nil, err
		}
		args.CommitAndUndelegate = &CommitAndUndelegateArgs{
			Commit:     *commit,
			Undelegate: *undelegate,
		}
	}

	count, err := getCount(data, &offset)
	if err != nil {
		return nil, err
	}
	for i := 0; i < count; i++ {
		action, err := getBaseActionArgs(data, &offset)
		if err != nil {
			return nil, err
		}
		args.StandaloneActions = append(args.StandaloneActions, *action)
	}

	if offset != len(data) {
		return nil, ErrInvalidInstructionData
	}

	return &args, nil
}

func getCommitTypeArgs(data []byte, offset *int) (*CommitTypeArgs, error) {
	if err := need(data, *offset, 4); err != nil {
		return nil, err
	}
	var variant uint32
	binary.GetUint32(data, &variant, offset)
	if variant > uint32(CommitTypeWithBaseActions) {
		return nil, ErrInvalidInstructionData
	}

	args := &CommitTypeArgs{Variant: CommitTypeVariant(variant)}

	count, err := getCount(data, offset)
	if err != nil {
		return nil, err
	}
	if err := need(data, *offset, count); err != nil {
		return nil, err
	}
	args.CommittedAccounts = make([]uint8, count)
	for i := 0; i < count; i++ {
		binary.GetUint8(data, &args.CommittedAccounts[i], offset)
	}

	if args.Variant == CommitTypeWithBaseActions {
		actionCount, err := getCount(data, offset)
		if err != nil {
			return nil, err
		}
		for i := 0; i < actionCount; i++ {
			action, err := getBaseActionArgs(data, offset)
			if err != nil {
				return nil, err
			}
			args.Actions = append(args.Actions, *action)
		}
	}

	return args, nil
}

func getUndelegateTypeArgs(data []byte, offset *int) (*UndelegateTypeArgs, error) {
	if err := need(data, *offset, 4); err != nil {
		return nil, err
	}
	var variant uint32
	binary.GetUint32(data, &variant, offset)
	if variant > uint32(UndelegateTypeWithBaseActions) {
		return nil, ErrInvalidInstructionData
	}

	args := &UndelegateTypeArgs{Variant: UndelegateTypeVariant(variant)}

	if args.Variant == UndelegateTypeWithBaseActions {
		actionCount, err := getCount(data, offset)
		if err != nil {
			return nil, err
		}
		for i := 0; i < actionCount; i++ {
			action, err := getBaseActionArgs(data, offset)
			if err != nil {
				return nil, err
			}
			args.Actions = append(args.Actions, *action)
		}
	}

	return args, nil
}

func getBaseActionArgs(data []byte, offset *int) (*BaseActionArgs, error) {
	var args BaseActionArgs

	if err := need(data, *offset, 1+8); err != nil {
		return nil, err
	}
	binary.GetUint8(data, &args.EscrowIndex, offset)

	dataLen, err := getCount(data, offset)
	if err != nil {
		return nil, err
	}
	if err := need(data, *offset, dataLen); err != nil {
		return nil, err
	}
	args.Data = make([]byte, dataLen)
	binary.GetData(data, args.Data, dataLen, offset)

	if err := need(data, *offset, 4+1+32+8); err != nil {
		return nil, err
	}
	binary.GetUint32(data, &args.ComputeUnits, offset)
	binary.GetUint8(data, &args.EscrowAuthorityIndex, offset)
	binary.GetKey32(data, &args.DestinationProgram, offset)

	accountCount, err := getCount(data, offset)
	if err != nil {
		return nil, err
	}
	if err := need(data, *offset, accountCount*shortAccountMetaSize); err != nil {
		return nil, err
	}
	args.Accounts = make([]ShortAccountMeta, accountCount)
	for i := 0; i < accountCount; i++ {
		binary.GetKey32(data, &args.Accounts[i].PublicKey, offset)
		binary.GetBool(data, &args.Accounts[i].IsWritable, offset)
	}

	return &args, nil
}

func getOptionFlag(data []byte, offset *int) (bool, error) {
	if err := need(data, *offset, 1); err != nil {
		return false, err
	}
	var flag bool
	binary.GetBool(data, &flag, offset)
	return flag, nil
}

// getCount reads a u64 LE element count, rejecting counts that cannot
// possibly fit in the remaining data.
func getCount(data []byte, offset *int) (int, error) {
	if err := need(data, *offset, 8); err != nil {
		return 0, err
	}
	var count uint64
	binary.GetUint64(data, &count, offset)
	if count > uint64(len(data)-*offset) {
		return 0, ErrInvalidInstructionData
	}
	return int(count), nil
}

func need(data []byte, offset int, size int) error {
	if len(data)-offset < size {
		return ErrInvalidInstructionData
	}
	return nil
}
