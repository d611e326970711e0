package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// ExchangeName is the durable topic exchange every lifecycle event is published to.
const ExchangeName = "vidtube.events"

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
}

// Client publishes lifecycle events over a single AMQP channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
	// amqp.Channel is not safe for concurrent publishes.
	mu sync.Mutex
}

// NewClient connects to RabbitMQ and declares the events exchange.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	exchange := cfg.Exchange
	if exchange == "" {
		exchange = ExchangeName
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	logger.Info("rabbitmq connected", zap.String("exchange", exchange))

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ client: %v", errs)
	}
	return nil
}

// Publish marshals payload to JSON and publishes it under routingKey.
func (c *Client) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", routingKey, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err = c.channel.Publish(
		c.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}

	c.logger.Debug("event published", zap.String("routing_key", routingKey))
	return nil
}
