package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"libmanage/internal/microservices/http-api/models"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

const channelPrefix = "notifications:"

// Message is the wire form of a notification on a user's channel.
type Message struct {
	ID            int64                   `json:"id"`
	RecipientID   string                  `json:"recipient_id"`
	Type          models.NotificationType `json:"notification_type"`
	Title         string                  `json:"title"`
	Message       string                  `json:"message"`
	CreatedAt     time.Time               `json:"created_at"`
	RelatedBookID *int64                  `json:"related_book_id,omitempty"`
}

func Channel(userID string) string {
	return channelPrefix + userID
}

func Encode(n *models.Notification) ([]byte, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(Message{
		ID:            n.ID,
		RecipientID:   n.RecipientID,
		Type:          n.Type,
		Title:         n.Title,
		Message:       n.Message,
		CreatedAt:     n.CreatedAt,
		RelatedBookID: n.RelatedBookID,
	})
}

func Decode(data []byte) (*Message, error) {
	if !jsoniter.ConfigFastest.Valid(data) {
		return nil, fmt.Errorf("notification payload is not valid JSON")
	}
	var m Message
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode notification payload: %w", err)
	}
	return &m, nil
}

// RedisPublisher fans notifications out on per-user pub/sub channels.
// A nil *RedisPublisher or one without a client is a no-op.
type RedisPublisher struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisPublisher(client *redis.Client, logger *slog.Logger) *RedisPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisPublisher{client: client, logger: logger}
}

func (p *RedisPublisher) Publish(ctx context.Context, n *models.Notification) error {
	if p == nil || p.client == nil {
		return nil
	}
	payload, err := Encode(n)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, Channel(n.RecipientID), payload).Err()
}

// Subscribe streams the user's notifications until ctx ends or the returned
// close func is called.
func (p *RedisPublisher) Subscribe(ctx context.Context, userID string) (<-chan *Message, func() error) {
	out := make(chan *Message)
	if p == nil || p.client == nil {
		close(out)
		return out, func() error { return nil }
	}

	ps := p.client.Subscribe(ctx, Channel(userID))
	go func() {
		defer close(out)
		in := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-in:
				if !ok {
					return
				}
				m, err := Decode([]byte(raw.Payload))
				if err != nil {
					p.logger.Warn("notification_decode_failed", "channel", raw.Channel, "error", err)
					continue
				}
				select {
				case out <- m:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, ps.Close
}
