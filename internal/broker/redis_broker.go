package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fellowshipfinder/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	chatChannelPrefix         = "chat:"
	notificationChannelPrefix = "notify:"
	unreadCountPrefix         = "unread:"
	unreadCountTTL            = 5 * time.Minute
)

// RedisEventBroker implements EventBroker on redis pub/sub.
type RedisEventBroker struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisEventBroker(redisURL string) (*RedisEventBroker, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisEventBroker{
		client: client,
		ctx:    ctx,
	}, nil
}

// Client exposes the underlying connection so middleware that needs
// raw Redis (the rate limiter) can share it.
func (r *RedisEventBroker) Client() *redis.Client {
	return r.client
}

func (r *RedisEventBroker) PublishChatMessage(msg *models.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return r.client.Publish(r.ctx, chatChannelPrefix+msg.ConversationID, data).Err()
}

// SubscribeConversation streams messages published on a conversation
// channel. The returned cancel func closes the subscription and the
// channel.
func (r *RedisEventBroker) SubscribeConversation(conversationID string) (<-chan *models.ChatMessage, func(), error) {
	pubsub := r.client.Subscribe(r.ctx, chatChannelPrefix+conversationID)

	msgChan := make(chan *models.ChatMessage, 100)

	go func() {
		defer close(msgChan)

		for redisMsg := range pubsub.Channel() {
			var msg models.ChatMessage
			if err := json.Unmarshal([]byte(redisMsg.Payload), &msg); err != nil {
				continue
			}
			msgChan <- &msg
		}
	}()

	cancel := func() { _ = pubsub.Close() }
	return msgChan, cancel, nil
}

func (r *RedisEventBroker) PublishNotification(n *models.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	return r.client.Publish(r.ctx, notificationChannelPrefix+n.RecipientUsername, data).Err()
}

func (r *RedisEventBroker) SetUnreadCount(username string, count int64) error {
	return r.client.Set(r.ctx, unreadCountPrefix+username, count, unreadCountTTL).Err()
}

func (r *RedisEventBroker) GetUnreadCount(username string) (int64, error) {
	count, err := r.client.Get(r.ctx, unreadCountPrefix+username).Int64()
	if err == redis.Nil {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return count, nil
}

func (r *RedisEventBroker) InvalidateUnreadCount(username string) error {
	return r.client.Del(r.ctx, unreadCountPrefix+username).Err()
}

func (r *RedisEventBroker) Close() error {
	return r.client.Close()
}
