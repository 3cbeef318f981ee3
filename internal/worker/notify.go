package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// 通知状态。
const (
	NotifyCompleted = "completed"
	NotifyError     = "error"
)

// ExportNotifyMessage 是通过 Redis Pub/Sub 转发给 WebSocket 客户端的导出结果。
type ExportNotifyMessage struct {
	Status        string `json:"status"`
	ResumeID      uint   `json:"resume_id"`
	CorrelationID string `json:"correlation_id"`
	Filename      string `json:"filename,omitempty"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
}

// NotifyChannel 返回用户的通知频道。
func NotifyChannel(ownerID uint) string {
	return fmt.Sprintf("user_notify:%d", ownerID)
}

// Notifier publishes export results to a user.
type Notifier interface {
	Notify(ctx context.Context, ownerID uint, msg ExportNotifyMessage) error
}

// RedisNotifier 通过 Redis Pub/Sub 发布通知。
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Notify(ctx context.Context, ownerID uint, msg ExportNotifyMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := NotifyChannel(ownerID)
	if err := n.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}
