package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vida-social/internal/config"
	"vida-social/internal/model"
	"vida-social/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NotificationEvent 通知创建事件消息体
type NotificationEvent struct {
	ID          int64     `json:"id"`
	RecipientID int64     `json:"recipient_id"`
	ActorID     int64     `json:"actor_id"`
	Type        string    `json:"type"`
	EntityID    int64     `json:"entity_id"`
	EntityType  string    `json:"entity_type"`
	Text        string    `json:"text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewNotificationEvent 由通知记录构造事件
func NewNotificationEvent(n *model.Notification) *NotificationEvent {
	return &NotificationEvent{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		ActorID:     n.ActorID,
		Type:        string(n.Type),
		EntityID:    n.EntityID,
		EntityType:  n.EntityType,
		Text:        n.Text,
		CreatedAt:   n.CreatedAt,
	}
}

// Producer 通知事件生产者
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer 初始化 Kafka 生产者
func NewProducer(cfg *config.KafkaConfig, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 2 * time.Second,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireOne,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", topic),
	)

	return &Producer{writer: writer, topic: topic}
}

// PublishNotifications 一次 WriteMessages 发送一批通知事件，按接收者分区以保证同一用户的事件有序
func (p *Producer) PublishNotifications(ctx context.Context, notifications ...*model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(notifications))
	for _, n := range notifications {
		msg, err := notificationMessage(n)
		if err != nil {
			return err
		}
		msg.Topic = p.topic
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to send %d notification events: %w", len(msgs), err)
	}

	logger.Debug("Notification events sent",
		zap.String("topic", p.topic),
		zap.Int("count", len(msgs)),
	)

	return nil
}

func notificationMessage(n *model.Notification) (kafka.Message, error) {
	payload, err := json.Marshal(NewNotificationEvent(n))
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal notification event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(fmt.Sprintf("user-%d", n.RecipientID)),
		Value: payload,
	}, nil
}

// Close 关闭生产者
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	logger.Info("Kafka producer closed")
	return p.writer.Close()
}
