package ports

import "github.com/punkdirectory/punkauth/core"

// Tokenizer converts between sessions and bearer tokens
type Tokenizer interface {
	// SessionToToken serializes a session into a signed bearer token
	SessionToToken(session *core.Session) (string, error)

	// TokenToSession verifies a bearer token and returns the session it encodes
	TokenToSession(token string) (*core.Session, error)
}
