package events

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/punkdirectory/punkauth/ports"
)

// NoopPublisher discards every event. Used when no event stream is configured.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that does nothing
func NewNoopPublisher() ports.EventPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) PublishLogin(ctx context.Context, wallet common.Address) error {
	return nil
}

func (p *NoopPublisher) PublishLogout(ctx context.Context, wallet common.Address) error {
	return nil
}
