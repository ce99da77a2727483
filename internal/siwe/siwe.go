// Package siwe implements parsing and verification of EIP-4361
// "Sign-In with Ethereum" messages signed via EIP-191 personal_sign.
package siwe

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/punkdirectory/punkauth/core"
)

const headerSuffix = " wants you to sign in with your Ethereum account:"

// Message is a parsed EIP-4361 sign-in message
type Message struct {
	Domain    string
	Address   common.Address
	Statement string
	URI       string
	Version   string
	ChainID   int
	Nonce     string
	IssuedAt  time.Time

	// raw is the exact text the wallet signed; verification must run
	// over it, not over a re-serialization.
	raw string
}

// ParseMessage parses the canonical EIP-4361 plaintext layout:
//
//	<domain> wants you to sign in with your Ethereum account:
//	<address>
//
//	<statement>
//
//	URI: <uri>
//	Version: <version>
//	Chain ID: <chain-id>
//	Nonce: <nonce>
//	Issued At: <timestamp>
func ParseMessage(raw string) (*Message, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: too short", core.ErrMalformedMessage)
	}

	domain, ok := strings.CutSuffix(lines[0], headerSuffix)
	if !ok || domain == "" {
		return nil, fmt.Errorf("%w: bad header line", core.ErrMalformedMessage)
	}

	addr := strings.TrimSpace(lines[1])
	if !common.IsHexAddress(addr) {
		return nil, fmt.Errorf("%w: bad address %q", core.ErrMalformedMessage, addr)
	}

	msg := &Message{
		Domain:  domain,
		Address: common.HexToAddress(addr),
		raw:     raw,
	}

	// Statement is every non-field line between the address and the
	// first "Key: value" field.
	var statement []string
	fields := map[string]string{}
	for _, line := range lines[2:] {
		if key, value, isField := cutField(line); isField {
			fields[key] = value
			continue
		}
		if len(fields) == 0 && strings.TrimSpace(line) != "" {
			statement = append(statement, line)
		}
	}
	msg.Statement = strings.Join(statement, "\n")

	msg.URI = fields["URI"]
	msg.Version = fields["Version"]
	msg.Nonce = fields["Nonce"]
	for _, required := range []string{"URI", "Version", "Chain ID", "Nonce", "Issued At"} {
		if fields[required] == "" {
			return nil, fmt.Errorf("%w: missing %s", core.ErrMalformedMessage, required)
		}
	}

	chainID, err := strconv.Atoi(fields["Chain ID"])
	if err != nil {
		return nil, fmt.Errorf("%w: bad chain id %q", core.ErrMalformedMessage, fields["Chain ID"])
	}
	msg.ChainID = chainID

	issuedAt, err := time.Parse(time.RFC3339, fields["Issued At"])
	if err != nil {
		return nil, fmt.Errorf("%w: bad issued-at %q", core.ErrMalformedMessage, fields["Issued At"])
	}
	msg.IssuedAt = issuedAt

	return msg, nil
}

func cutField(line string) (key, value string, ok bool) {
	for _, key := range []string{"URI", "Version", "Chain ID", "Nonce", "Issued At"} {
		if value, found := strings.CutPrefix(line, key+": "); found {
			return key, value, true
		}
	}
	return "", "", false
}

// String returns the canonical plaintext form of the message. For parsed
// messages the original raw text is returned unchanged, since that is
// what the wallet signed.
func (m *Message) String() string {
	if m.raw != "" {
		return m.raw
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s\n", m.Domain, headerSuffix)
	fmt.Fprintf(&b, "%s\n\n", m.Address.Hex())
	if m.Statement != "" {
		fmt.Fprintf(&b, "%s\n\n", m.Statement)
	}
	fmt.Fprintf(&b, "URI: %s\n", m.URI)
	fmt.Fprintf(&b, "Version: %s\n", m.Version)
	fmt.Fprintf(&b, "Chain ID: %d\n", m.ChainID)
	fmt.Fprintf(&b, "Nonce: %s\n", m.Nonce)
	fmt.Fprintf(&b, "Issued At: %s", m.IssuedAt.UTC().Format(time.RFC3339))
	return b.String()
}

// VerifySignature checks that signature is a valid EIP-191 personal_sign
// signature over the message text, produced by the message's address.
func (m *Message) VerifySignature(signature string) error {
	decodedSig, err := hexutil.Decode(signature)
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", core.ErrInvalidSignature)
	}
	if len(decodedSig) != 65 {
		return fmt.Errorf("signature must be 65 bytes: %w", core.ErrInvalidSignature)
	}

	// Wallets return V as 27/28; go-ethereum expects 0/1.
	sig := make([]byte, 65)
	copy(sig, decodedSig)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pubKey, err := crypto.SigToPub(accounts.TextHash([]byte(m.String())), sig)
	if err != nil {
		return fmt.Errorf("failed to recover signer: %w", core.ErrInvalidSignature)
	}

	if crypto.PubkeyToAddress(*pubKey) != m.Address {
		return core.ErrInvalidSignature
	}

	return nil
}
