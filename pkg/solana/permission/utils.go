package permission

import (
	"github.com/mr-tron/base58"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana/binary"
)

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}

func putPermissionInstruction(dst []byte, v PermissionInstruction, offset *int) {
	binary.PutUint64(dst, uint64(v), offset)
}

func getPermissionInstruction(src []byte, dst *PermissionInstruction, offset *int) {
	var v uint64
	binary.GetUint64(src, &v, offset)
	*dst = PermissionInstruction(v)
}
