package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillPublisher(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, LoginTopic)
	require.NoError(t, err)

	publisher := NewWatermillPublisher(pubSub)

	wallet := common.HexToAddress("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")
	require.NoError(t, publisher.PublishLogin(ctx, wallet))

	select {
	case msg := <-messages:
		var event AuthEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &event))
		assert.Equal(t, wallet.Hex(), event.Wallet)
		assert.WithinDuration(t, time.Now(), event.OccurredAt, time.Minute)
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("no login event received")
	}
}

func TestNoopPublisher(t *testing.T) {
	publisher := NewNoopPublisher()

	wallet := common.HexToAddress("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")
	assert.NoError(t, publisher.PublishLogin(context.Background(), wallet))
	assert.NoError(t, publisher.PublishLogout(context.Background(), wallet))
}
