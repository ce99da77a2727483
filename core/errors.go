package core

import "errors"

var (
	// ErrMissingInput is returned when the login request lacks a message or signature
	ErrMissingInput = errors.New("missing message or signature")

	// ErrMalformedMessage is returned when the sign-in message cannot be parsed
	ErrMalformedMessage = errors.New("malformed sign-in message")

	// ErrInvalidNonce is returned when the nonce is absent, expired or does not match
	ErrInvalidNonce = errors.New("invalid or expired nonce")

	// ErrInvalidSignature is returned when a signature is invalid
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrNoQualifyingPunk is returned when the wallet holds no punk, directly or by delegation
	ErrNoQualifyingPunk = errors.New("no qualifying punk")

	// ErrNotAuthenticated is returned when no session cookie is present
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionInvalid is returned when the session token is invalid or expired
	ErrSessionInvalid = errors.New("invalid or expired session")

	// ErrNotOwner is returned when the session cannot act on the requested punk
	ErrNotOwner = errors.New("punk not owned or delegated")

	// ErrInvalidToken is returned when a token is invalid
	ErrInvalidToken = errors.New("invalid token")
)
