package tokenizer

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/punkdirectory/punkauth/core"
)

// SessionClaims combines standard claims with the punk-ownership payload
type SessionClaims struct {
	jwt.RegisteredClaims
	Wallet         string               `json:"wallet"`
	OwnedPunks     []int                `json:"ownedPunks"`
	DelegatedPunks []core.DelegatedPunk `json:"delegatedPunks"`
}
