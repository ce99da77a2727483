package ports

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/punkdirectory/punkauth/core"
)

// AssetIndex looks up the punks held directly by a single wallet
type AssetIndex interface {
	// PunkIDs returns the token IDs of the collection held by owner
	PunkIDs(ctx context.Context, owner common.Address) ([]int, error)
}

// DelegationRegistry lists the vaults that delegated asset rights to a wallet
type DelegationRegistry interface {
	// Delegations returns every delegation targeting delegate
	Delegations(ctx context.Context, delegate common.Address) ([]core.Delegation, error)
}
