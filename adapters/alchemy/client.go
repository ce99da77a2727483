// Package alchemy queries the Alchemy NFT API for punks held by a wallet.
package alchemy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/punkdirectory/punkauth/ports"
)

const DefaultBaseURL = "https://eth-mainnet.g.alchemy.com"

// ErrMissingAPIKey is returned when the client was built without a credential
var ErrMissingAPIKey = errors.New("alchemy api key not configured")

// Client implements the AssetIndex interface against the Alchemy NFT API v3
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	contract   common.Address
}

// NewClient creates an asset-index client scoped to a single collection
func NewClient(apiKey string, contract common.Address, opts ...Option) ports.AssetIndex {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		contract:   contract,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option customizes the client
type Option func(*Client)

// WithBaseURL overrides the Alchemy endpoint, used in tests
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

type ownedNft struct {
	TokenID string `json:"tokenId"`
}

type ownedNftsResponse struct {
	OwnedNfts []ownedNft `json:"ownedNfts"`
}

// PunkIDs returns the token IDs of the collection held by owner
func (c *Client) PunkIDs(ctx context.Context, owner common.Address) ([]int, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	query := url.Values{}
	query.Set("owner", owner.Hex())
	query.Set("contractAddresses[]", c.contract.Hex())
	query.Set("withMetadata", "false")

	endpoint := fmt.Sprintf("%s/nft/v3/%s/getNFTsForOwner?%s", c.baseURL, c.apiKey, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alchemy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alchemy returned status %d", resp.StatusCode)
	}

	var payload ownedNftsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode alchemy response: %w", err)
	}

	ids := make([]int, 0, len(payload.OwnedNfts))
	for _, nft := range payload.OwnedNfts {
		id, err := strconv.Atoi(nft.TokenID)
		if err != nil {
			return nil, fmt.Errorf("unexpected token id %q: %w", nft.TokenID, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
