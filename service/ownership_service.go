package service

import (
	"context"
	"log"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"

	"github.com/punkdirectory/punkauth/core"
	"github.com/punkdirectory/punkauth/ports"
)

// OwnershipService resolves which punks a wallet can act on, combining
// direct holdings with holdings delegated to it from vault wallets.
type OwnershipService struct {
	assetIndex ports.AssetIndex
	registries []ports.DelegationRegistry
}

// NewOwnershipService creates a new ownership service. Registries are
// queried in the order given, which fixes delegation precedence.
func NewOwnershipService(assetIndex ports.AssetIndex, registries ...ports.DelegationRegistry) *OwnershipService {
	return &OwnershipService{
		assetIndex: assetIndex,
		registries: registries,
	}
}

// ResolveDelegations queries every registry concurrently and returns the
// delegations targeting delegate, deduplicated by vault in first-seen
// order. A failing registry contributes an empty result: delegation is an
// enhancement to authentication, not a prerequisite.
func (s *OwnershipService) ResolveDelegations(ctx context.Context, delegate common.Address) []core.Delegation {
	results := make([][]core.Delegation, len(s.registries))

	g, ctx := errgroup.WithContext(ctx)
	for i, registry := range s.registries {
		g.Go(func() error {
			delegations, err := registry.Delegations(ctx, delegate)
			if err != nil {
				log.Printf("Warning: delegation registry unavailable: %v", err)
				return nil
			}
			results[i] = delegations
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[common.Address]bool)
	var unique []core.Delegation
	for _, delegations := range results {
		for _, d := range delegations {
			if seen[d.From] {
				continue
			}
			seen[d.From] = true
			unique = append(unique, d)
		}
	}

	return unique
}

// ResolveAllWallets returns the wallet itself plus every vault that
// delegated to it, deduplicated.
func (s *OwnershipService) ResolveAllWallets(ctx context.Context, wallet common.Address) []common.Address {
	wallets := []common.Address{wallet}
	for _, d := range s.ResolveDelegations(ctx, wallet) {
		if d.From != wallet {
			wallets = append(wallets, d.From)
		}
	}
	return wallets
}

// ResolveOwnership computes the full punk holdings of a wallet. The main
// wallet and every delegating vault are queried concurrently; merge
// precedence is fixed by list order, so a punk reachable both directly and
// through a vault is always claimed as owned. A failing index lookup
// contributes an empty list rather than aborting the resolution.
func (s *OwnershipService) ResolveOwnership(ctx context.Context, wallet common.Address) core.Ownership {
	delegations := s.ResolveDelegations(ctx, wallet)

	punksByWallet := make([][]int, len(delegations)+1)

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(i int, owner common.Address) {
		g.Go(func() error {
			ids, err := s.assetIndex.PunkIDs(gctx, owner)
			if err != nil {
				log.Printf("Warning: asset index unavailable for %s: %v", owner.Hex(), err)
				return nil
			}
			punksByWallet[i] = ids
			return nil
		})
	}
	fetch(0, wallet)
	for i, d := range delegations {
		fetch(i+1, d.From)
	}
	_ = g.Wait()

	seen := make(map[int]bool)

	owned := make([]int, 0, len(punksByWallet[0]))
	for _, id := range punksByWallet[0] {
		if seen[id] {
			continue
		}
		seen[id] = true
		owned = append(owned, id)
	}
	sort.Ints(owned)

	delegated := make([]core.DelegatedPunk, 0)
	for i, d := range delegations {
		for _, id := range punksByWallet[i+1] {
			if seen[id] {
				continue
			}
			seen[id] = true
			delegated = append(delegated, core.DelegatedPunk{PunkID: id, From: d.From})
		}
	}
	sort.Slice(delegated, func(i, j int) bool { return delegated[i].PunkID < delegated[j].PunkID })

	return core.Ownership{OwnedPunks: owned, DelegatedPunks: delegated}
}
