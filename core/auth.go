package core

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Delegation source tags, matching the registry version that reported it.
const (
	SourceDelegateV1 = "delegatecash-v1"
	SourceDelegateV2 = "delegatecash-v2"
)

// Delegation represents a vault granting asset rights to a delegate
type Delegation struct {
	From   common.Address `json:"from"`   // vault wallet holding the punks
	To     common.Address `json:"to"`     // delegate wallet allowed to act
	Source string         `json:"source"` // registry version that reported it
}

// DelegatedPunk is a punk reachable through a delegation, tagged with its vault
type DelegatedPunk struct {
	PunkID int            `json:"punkId"`
	From   common.Address `json:"from"`
}

// Ownership is the resolved punk holdings of a wallet, split by how each
// punk is reachable. A punk held directly never appears in DelegatedPunks.
type Ownership struct {
	OwnedPunks     []int           `json:"ownedPunks"`
	DelegatedPunks []DelegatedPunk `json:"delegatedPunks"`
}

// Empty reports whether the wallet holds no punks directly or by delegation.
func (o Ownership) Empty() bool {
	return len(o.OwnedPunks) == 0 && len(o.DelegatedPunks) == 0
}

// AllPunkIDs returns every punk ID the wallet can act on, owned first.
func (o Ownership) AllPunkIDs() []int {
	ids := make([]int, 0, len(o.OwnedPunks)+len(o.DelegatedPunks))
	ids = append(ids, o.OwnedPunks...)
	for _, d := range o.DelegatedPunks {
		ids = append(ids, d.PunkID)
	}
	return ids
}

// Includes reports whether punkID is owned or delegated.
func (o Ownership) Includes(punkID int) bool {
	for _, id := range o.OwnedPunks {
		if id == punkID {
			return true
		}
	}
	for _, d := range o.DelegatedPunks {
		if d.PunkID == punkID {
			return true
		}
	}
	return false
}

// Session represents an authenticated user session
type Session struct {
	Wallet    common.Address // Ethereum address that signed the login message
	Ownership Ownership      // punk holdings at issuance time
	IssuedAt  time.Time      // When the session was created
	ExpiresAt time.Time      // When the session expires
}
