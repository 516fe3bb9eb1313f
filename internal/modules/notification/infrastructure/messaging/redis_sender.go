package messaging

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const replyStream = "chat:replies"

// RedisReplySender hands reply text to the chat service over a Redis
// stream. Delivery into the conversation itself is the chat service's job;
// a successful XADD is our success.
type RedisReplySender struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisReplySender(client *redis.Client) *RedisReplySender {
	return &RedisReplySender{client: client, now: time.Now}
}

func (s *RedisReplySender) Send(ctx context.Context, chatID, text string) error {
	if strings.TrimSpace(chatID) == "" {
		return fmt.Errorf("empty chat id")
	}
	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: replyStream,
		Values: map[string]interface{}{
			"chat_id": chatID,
			"text":    text,
			"sent_at": s.now().UTC().Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to enqueue reply: %w", err)
	}
	return nil
}
