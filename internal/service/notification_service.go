package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"schoolhub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// NotificationService 把评分、投影等事件发布到 Redis 频道，下游网关自行消费。
// 纯 fire-and-forget：失败只记日志，绝不回滚触发它的写入
type NotificationService struct {
	Redis *redis.Client
}

func NewNotificationService(rdb *redis.Client) *NotificationService {
	return &NotificationService{Redis: rdb}
}

type notificationMessage struct {
	Event   string      `json:"event"`
	TeamID  uint        `json:"teamId"`
	Payload interface{} `json:"payload,omitempty"`
	SentAt  time.Time   `json:"sentAt"`
}

func (s *NotificationService) Notify(teamID uint, event string, payload interface{}) {
	if s == nil || s.Redis == nil {
		return
	}

	go func() {
		msg := notificationMessage{
			Event:   event,
			TeamID:  teamID,
			Payload: payload,
			SentAt:  time.Now(),
		}
		data, err := json.Marshal(msg)
		if err != nil {
			logger.Log.Error("notification marshal failed", zap.Error(err))
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		channel := fmt.Sprintf("notifications:%d", teamID)
		if err := s.Redis.Publish(ctx, channel, data).Err(); err != nil {
			logger.Log.Error("notification publish failed",
				zap.String("channel", channel),
				zap.String("event", event),
				zap.Error(err))
		}
	}()
}
