// Package delegatexyz queries the delegate.xyz registries for vaults that
// delegated asset rights to a wallet.
package delegatexyz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/punkdirectory/punkauth/core"
	"github.com/punkdirectory/punkauth/ports"
)

const DefaultBaseURL = "https://api.delegate.xyz"

// V1Registry implements the DelegationRegistry interface against the
// delegate.xyz v1 API.
type V1Registry struct {
	client
}

// V2Registry implements the DelegationRegistry interface against the
// delegate.xyz v2 API.
type V2Registry struct {
	client
}

type client struct {
	httpClient *http.Client
	baseURL    string
}

// Option customizes a registry client
type Option func(*client)

// WithBaseURL overrides the delegate.xyz endpoint, used in tests
func WithBaseURL(baseURL string) Option {
	return func(c *client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) { c.httpClient = httpClient }
}

func newClient(opts []Option) client {
	c := client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewV1Registry creates a client for the v1 registry
func NewV1Registry(opts ...Option) ports.DelegationRegistry {
	return &V1Registry{client: newClient(opts)}
}

// NewV2Registry creates a client for the v2 registry
func NewV2Registry(opts ...Option) ports.DelegationRegistry {
	return &V2Registry{client: newClient(opts)}
}

func (c client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode registry response: %w", err)
	}

	return nil
}

// Delegations returns every v1 delegation targeting delegate
func (r *V1Registry) Delegations(ctx context.Context, delegate common.Address) ([]core.Delegation, error) {
	var payload []struct {
		Vault    string `json:"vault"`
		Delegate string `json:"delegate"`
	}
	if err := r.get(ctx, "/registry/v1/"+delegate.Hex(), &payload); err != nil {
		return nil, err
	}

	delegations := make([]core.Delegation, 0, len(payload))
	for _, d := range payload {
		delegations = append(delegations, core.Delegation{
			From:   common.HexToAddress(d.Vault),
			To:     common.HexToAddress(d.Delegate),
			Source: core.SourceDelegateV1,
		})
	}
	return delegations, nil
}

// Delegations returns every v2 delegation targeting delegate
func (r *V2Registry) Delegations(ctx context.Context, delegate common.Address) ([]core.Delegation, error) {
	var payload []struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := r.get(ctx, "/registry/v2/"+delegate.Hex(), &payload); err != nil {
		return nil, err
	}

	delegations := make([]core.Delegation, 0, len(payload))
	for _, d := range payload {
		delegations = append(delegations, core.Delegation{
			From:   common.HexToAddress(d.From),
			To:     common.HexToAddress(d.To),
			Source: core.SourceDelegateV2,
		})
	}
	return delegations, nil
}
