// Package notify delivers persisted notifications to external transports.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/yigit/labmatch/internal/app/models"
)

// Sink is a delivery transport for notifications
type Sink interface {
	Name() string
	Deliver(ctx context.Context, n *models.Notification) error
}

// RedisPublisher is the part of *redis.Client the sink needs
type RedisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink publishes notifications as JSON on a pub/sub channel
type RedisSink struct {
	client  RedisPublisher
	channel string
}

// NewRedisSink creates a sink publishing on channel
func NewRedisSink(client RedisPublisher, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

// NewRedisClient connects and pings a Redis server
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// Name implements Sink
func (s *RedisSink) Name() string { return "redis" }

// Deliver implements Sink
func (s *RedisSink) Deliver(ctx context.Context, n *models.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish to %s: %w", s.channel, err)
	}
	return nil
}

// NATSPublisher is the part of *nats.Conn the sink needs
type NATSPublisher interface {
	Publish(subj string, data []byte) error
}

// NATSSink publishes notifications on a per-recipient subject,
// <prefix>.<recipientUserID>
type NATSSink struct {
	conn   NATSPublisher
	prefix string
}

// NewNATSSink creates a sink publishing under prefix
func NewNATSSink(conn NATSPublisher, prefix string) *NATSSink {
	return &NATSSink{conn: conn, prefix: prefix}
}

// ConnectNATS dials a NATS server with reconnects enabled
func ConnectNATS(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("labmatch"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	return conn, nil
}

// Name implements Sink
func (s *NATSSink) Name() string { return "nats" }

// Subject returns the subject a recipient's notifications are published on
func (s *NATSSink) Subject(recipientUserID string) string {
	return s.prefix + "." + recipientUserID
}

// Deliver implements Sink
func (s *NATSSink) Deliver(ctx context.Context, n *models.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	subject := s.Subject(n.RecipientUserID)
	if err := s.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("nats publish to %s: %w", subject, err)
	}
	return nil
}
