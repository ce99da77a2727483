package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/punkdirectory/punkauth/ports"
)

// Topics for auth events
const (
	LoginTopic  = "punkauth.login"
	LogoutTopic = "punkauth.logout"
)

// AuthEvent represents a login or logout event
type AuthEvent struct {
	Wallet     string    `json:"wallet"`
	OccurredAt time.Time `json:"occurred_at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishLogin publishes a login event
func (p *WatermillPublisher) PublishLogin(ctx context.Context, wallet common.Address) error {
	return p.publish(LoginTopic, wallet)
}

// PublishLogout publishes a logout event
func (p *WatermillPublisher) PublishLogout(ctx context.Context, wallet common.Address) error {
	return p.publish(LogoutTopic, wallet)
}

func (p *WatermillPublisher) publish(topic string, wallet common.Address) error {
	event := AuthEvent{
		Wallet:     wallet.Hex(),
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
