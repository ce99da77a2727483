package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/punkdirectory/punkauth/core"
)

var (
	walletA = common.HexToAddress("0xAAA0000000000000000000000000000000000aaa")
	vaultB  = common.HexToAddress("0xBBB0000000000000000000000000000000000bbb")
	vaultC  = common.HexToAddress("0xCCC0000000000000000000000000000000000ccc")
)

type fakeAssetIndex struct {
	punks map[common.Address][]int
	fail  map[common.Address]bool

	mu    sync.Mutex
	calls int
}

func (f *fakeAssetIndex) PunkIDs(ctx context.Context, owner common.Address) ([]int, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.fail[owner] {
		return nil, errors.New("index unavailable")
	}
	return f.punks[owner], nil
}

func (f *fakeAssetIndex) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeRegistry struct {
	delegations []core.Delegation
	err         error
}

func (f *fakeRegistry) Delegations(ctx context.Context, delegate common.Address) ([]core.Delegation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.delegations, nil
}

func delegation(from common.Address, source string) core.Delegation {
	return core.Delegation{From: from, To: walletA, Source: source}
}

func TestResolveOwnershipDirectAndDelegated(t *testing.T) {
	index := &fakeAssetIndex{punks: map[common.Address][]int{
		walletA: {5},
		vaultB:  {9},
	}}
	registry := &fakeRegistry{delegations: []core.Delegation{delegation(vaultB, core.SourceDelegateV1)}}

	svc := NewOwnershipService(index, registry)

	ownership := svc.ResolveOwnership(context.Background(), walletA)
	assert.Equal(t, []int{5}, ownership.OwnedPunks)
	assert.Equal(t, []core.DelegatedPunk{{PunkID: 9, From: vaultB}}, ownership.DelegatedPunks)
}

func TestResolveOwnershipDirectWins(t *testing.T) {
	// Punk 5 is both held directly and reachable through the vault
	index := &fakeAssetIndex{punks: map[common.Address][]int{
		walletA: {5},
		vaultB:  {5, 9},
	}}
	registry := &fakeRegistry{delegations: []core.Delegation{delegation(vaultB, core.SourceDelegateV1)}}

	svc := NewOwnershipService(index, registry)

	ownership := svc.ResolveOwnership(context.Background(), walletA)
	assert.Equal(t, []int{5}, ownership.OwnedPunks)
	assert.Equal(t, []core.DelegatedPunk{{PunkID: 9, From: vaultB}}, ownership.DelegatedPunks)
}

func TestResolveOwnershipSorted(t *testing.T) {
	index := &fakeAssetIndex{punks: map[common.Address][]int{
		walletA: {42, 5, 17},
		vaultB:  {99, 3},
	}}
	registry := &fakeRegistry{delegations: []core.Delegation{delegation(vaultB, core.SourceDelegateV2)}}

	svc := NewOwnershipService(index, registry)

	ownership := svc.ResolveOwnership(context.Background(), walletA)
	assert.Equal(t, []int{5, 17, 42}, ownership.OwnedPunks)
	assert.Equal(t, []core.DelegatedPunk{
		{PunkID: 3, From: vaultB},
		{PunkID: 99, From: vaultB},
	}, ownership.DelegatedPunks)
}

func TestResolveOwnershipIndexFailureIsSoft(t *testing.T) {
	index := &fakeAssetIndex{
		punks: map[common.Address][]int{vaultB: {9}},
		fail:  map[common.Address]bool{walletA: true},
	}
	registry := &fakeRegistry{delegations: []core.Delegation{delegation(vaultB, core.SourceDelegateV1)}}

	svc := NewOwnershipService(index, registry)

	// The failing main-wallet lookup contributes nothing, the vault still counts
	ownership := svc.ResolveOwnership(context.Background(), walletA)
	assert.Empty(t, ownership.OwnedPunks)
	assert.Equal(t, []core.DelegatedPunk{{PunkID: 9, From: vaultB}}, ownership.DelegatedPunks)
}

func TestResolveDelegationsDedupAcrossRegistries(t *testing.T) {
	v1 := &fakeRegistry{delegations: []core.Delegation{delegation(vaultB, core.SourceDelegateV1)}}
	v2 := &fakeRegistry{delegations: []core.Delegation{
		delegation(vaultB, core.SourceDelegateV2),
		delegation(vaultC, core.SourceDelegateV2),
	}}

	svc := NewOwnershipService(&fakeAssetIndex{}, v1, v2)

	delegations := svc.ResolveDelegations(context.Background(), walletA)
	require.Len(t, delegations, 2)
	// First-seen entry wins for a duplicated vault
	assert.Equal(t, delegation(vaultB, core.SourceDelegateV1), delegations[0])
	assert.Equal(t, delegation(vaultC, core.SourceDelegateV2), delegations[1])
}

func TestResolveDelegationsRegistryFailureIsSoft(t *testing.T) {
	v1 := &fakeRegistry{err: errors.New("registry down")}
	v2 := &fakeRegistry{delegations: []core.Delegation{delegation(vaultC, core.SourceDelegateV2)}}

	svc := NewOwnershipService(&fakeAssetIndex{}, v1, v2)

	delegations := svc.ResolveDelegations(context.Background(), walletA)
	assert.Equal(t, []core.Delegation{delegation(vaultC, core.SourceDelegateV2)}, delegations)
}

func TestResolveAllWallets(t *testing.T) {
	v1 := &fakeRegistry{delegations: []core.Delegation{
		delegation(vaultB, core.SourceDelegateV1),
		delegation(vaultB, core.SourceDelegateV1),
		delegation(vaultC, core.SourceDelegateV1),
	}}

	svc := NewOwnershipService(&fakeAssetIndex{}, v1)

	wallets := svc.ResolveAllWallets(context.Background(), walletA)
	assert.Equal(t, []common.Address{walletA, vaultB, vaultC}, wallets)
}

func TestResolveOwnershipNoDelegations(t *testing.T) {
	index := &fakeAssetIndex{punks: map[common.Address][]int{walletA: {7}}}

	svc := NewOwnershipService(index, &fakeRegistry{})

	ownership := svc.ResolveOwnership(context.Background(), walletA)
	assert.Equal(t, []int{7}, ownership.OwnedPunks)
	assert.Empty(t, ownership.DelegatedPunks)
	assert.False(t, ownership.Empty())
}
