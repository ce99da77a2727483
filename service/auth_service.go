package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/punkdirectory/punkauth/core"
	"github.com/punkdirectory/punkauth/internal/siwe"
	"github.com/punkdirectory/punkauth/ports"
)

// NonceTTL bounds how long an issued nonce stays usable.
const NonceTTL = 5 * time.Minute

// AuthService handles authentication business logic
type AuthService struct {
	tokenizer ports.Tokenizer
	ownership *OwnershipService
	eventPub  ports.EventPublisher

	sessionTTL time.Duration
}

// NewAuthService creates a new authentication service
func NewAuthService(
	tokenizer ports.Tokenizer,
	ownership *OwnershipService,
	eventPub ports.EventPublisher,
) *AuthService {
	return &AuthService{
		tokenizer:  tokenizer,
		ownership:  ownership,
		eventPub:   eventPub,
		sessionTTL: 24 * time.Hour,
	}
}

// IssueNonce generates a fresh single-use nonce: 16 random bytes, hex-encoded.
func (s *AuthService) IssueNonce() (string, error) {
	nonceBytes := make([]byte, 16)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(nonceBytes), nil
}

// Login authenticates a wallet from a signed sign-in message. issuedNonce
// is the nonce consumed from the caller's cookie; it is empty when none
// was issued or it already expired. On success it returns the session and
// its serialized bearer token.
//
// Every trust decision funnels through here: message shape, nonce
// binding, signature recovery and the punk-holder business gate.
func (s *AuthService) Login(ctx context.Context, message, signature, issuedNonce string) (*core.Session, string, error) {
	if message == "" || signature == "" {
		return nil, "", core.ErrMissingInput
	}

	msg, err := siwe.ParseMessage(message)
	if err != nil {
		return nil, "", err
	}

	if issuedNonce == "" || msg.Nonce != issuedNonce {
		return nil, "", core.ErrInvalidNonce
	}

	if err := msg.VerifySignature(signature); err != nil {
		return nil, "", err
	}

	ownership := s.ownership.ResolveOwnership(ctx, msg.Address)
	if ownership.Empty() {
		return nil, "", core.ErrNoQualifyingPunk
	}

	now := time.Now()
	session := &core.Session{
		Wallet:    msg.Address,
		Ownership: ownership,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	token, err := s.tokenizer.SessionToToken(session)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session token: %w", err)
	}

	if err := s.eventPub.PublishLogin(ctx, session.Wallet); err != nil {
		// The session is already issued, which is the critical part.
		log.Printf("Warning: failed to publish login event: %v", err)
	}

	return session, token, nil
}

// SessionFromToken decodes and validates a bearer token. It returns nil
// for any invalid, expired or malformed token so callers can treat "no
// session" uniformly as unauthenticated.
func (s *AuthService) SessionFromToken(token string) *core.Session {
	if token == "" {
		return nil
	}
	session, err := s.tokenizer.TokenToSession(token)
	if err != nil {
		return nil
	}
	return session
}

// Logout notifies observers that a wallet's session ended. The session
// itself dies with the cookie; an invalid token is not an error here.
func (s *AuthService) Logout(ctx context.Context, token string) {
	session := s.SessionFromToken(token)
	if session == nil {
		return
	}
	if err := s.eventPub.PublishLogout(ctx, session.Wallet); err != nil {
		log.Printf("Warning: failed to publish logout event: %v", err)
	}
}

// RefreshOwnership re-resolves the session wallet's holdings from the
// live external sources, bypassing the token's cached sets.
func (s *AuthService) RefreshOwnership(ctx context.Context, session *core.Session) core.Ownership {
	return s.ownership.ResolveOwnership(ctx, session.Wallet)
}

// AuthorizePunk checks that the session can act on punkID. The token's
// cached sets answer the common case; on a miss the wallet's current
// holdings are re-resolved live, so punks acquired after the token was
// issued still authorize.
func (s *AuthService) AuthorizePunk(ctx context.Context, session *core.Session, punkID int) error {
	if session.Ownership.Includes(punkID) {
		return nil
	}

	if s.ownership.ResolveOwnership(ctx, session.Wallet).Includes(punkID) {
		return nil
	}

	return core.ErrNotOwner
}
