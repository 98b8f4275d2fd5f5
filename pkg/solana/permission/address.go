package permission

import (
	"crypto/ed25519"

	"github.com/magicblock-labs/ephemeral-sdk-go/pkg/solana"
)

var permissionPrefix = []byte("permission")

// GetPermissionAddress derives the permission account governing the
// given subject account.
func GetPermissionAddress(subject ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		permissionPrefix,
		subject,
	)
}
