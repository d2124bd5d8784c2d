package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/streadway/amqp"
)

const productQueue = "product_events"

// Client holds the RabbitMQ connection and channel used for product
// mutation events.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the product
// event queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		productQueue, // name
		true,         // durable
		false,        // delete when unused
		false,        // exclusive
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", productQueue, err)
	}

	return &Client{conn: conn, channel: ch}, nil
}

// PublishProductEvent publishes one mutation event (created, updated,
// deleted) to the product event queue.
func (c *Client) PublishProductEvent(event map[string]interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = c.channel.Publish(
		"",           // default exchange
		productQueue, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish product event: %w", err)
	}
	return nil
}

// ConsumeProductEvents delivers each queued event to messageHandler.
// Messages are acked when the handler returns nil and nacked (requeued)
// otherwise.
func (c *Client) ConsumeProductEvents(messageHandler func(amqp.Delivery) error) error {
	msgs, err := c.channel.Consume(
		productQueue, // queue
		"",           // consumer tag
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for msg := range msgs {
		if err := messageHandler(msg); err != nil {
			msg.Nack(false, true)
			continue
		}
		msg.Ack(false)
	}
	return nil
}

// Close shuts down the channel and the connection.
func (c *Client) Close() error {
	if err := c.channel.Close(); err != nil {
		c.conn.Close()
		return fmt.Errorf("failed to close channel: %w", err)
	}
	return c.conn.Close()
}
