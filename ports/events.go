package ports

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// EventPublisher publishes auth events to notify other instances
type EventPublisher interface {
	PublishLogin(ctx context.Context, wallet common.Address) error
	PublishLogout(ctx context.Context, wallet common.Address) error
}
