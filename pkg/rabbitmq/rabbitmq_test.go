package rabbitmq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient(Config{URL: "http://not-amqp"}, nil)
	assert.Error(t, err)
}

func TestPublishWithoutChannel(t *testing.T) {
	c := &Client{exchange: ExchangeName}

	err := c.Publish(context.Background(), "video.published", map[string]string{"videoId": "1"})
	assert.EqualError(t, err, "RabbitMQ channel is not available")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Publish(ctx, "video.published", nil), context.Canceled)
}

func TestCloseWithoutConnection(t *testing.T) {
	assert.NoError(t, (&Client{}).Close())
}
