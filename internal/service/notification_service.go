package service

import (
	"context"
	"time"

	"vida-social/internal/api/dto"
	"vida-social/internal/model"
	"vida-social/internal/repository"
	"vida-social/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// dispatchTimeout 提交后投递的最长等待时间，超时只记录日志
const dispatchTimeout = 2 * time.Second

// Publisher 通知事件投递（Kafka），一次调用发送一批
type Publisher interface {
	PublishNotifications(ctx context.Context, notifications ...*model.Notification) error
}

// UnreadCounter 未读数缓存（Redis）
type UnreadCounter interface {
	Incr(ctx context.Context, userIDs ...int64) error
	Get(ctx context.Context, userID int64) (int64, bool, error)
	Set(ctx context.Context, userID, count int64) error
}

type NotificationService struct {
	store     *repository.Store
	publisher Publisher
	unread    UnreadCounter
}

// NewNotificationService publisher 与 unread 均可为 nil，此时只落库
func NewNotificationService(store *repository.Store, publisher Publisher, unread UnreadCounter) *NotificationService {
	return &NotificationService{store: store, publisher: publisher, unread: unread}
}

// Create 在给定事务内写入一条通知
func (s *NotificationService) Create(ctx context.Context, tx *repository.Store, ev NotificationEvent) (*model.Notification, error) {
	n, err := ev.notification()
	if err != nil {
		return nil, err
	}
	if err := tx.Notifications.Create(ctx, n); err != nil {
		return nil, errors.Wrap(err, "create notification")
	}
	return n, nil
}

// CreateBatch 在给定事务内一次性写入多条通知，任一事件不合法则整体不写
func (s *NotificationService) CreateBatch(ctx context.Context, tx *repository.Store, events []NotificationEvent) ([]model.Notification, error) {
	if len(events) == 0 {
		return nil, nil
	}
	notifications := make([]model.Notification, 0, len(events))
	for _, ev := range events {
		n, err := ev.notification()
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	if err := tx.Notifications.CreateBatch(ctx, notifications); err != nil {
		return nil, errors.Wrap(err, "create notifications")
	}
	return notifications, nil
}

// Dispatch 事务提交后批量投递事件并累加未读数，失败只记录日志。
// 不继承请求的取消信号，总耗时受 dispatchTimeout 限制
func (s *NotificationService) Dispatch(ctx context.Context, notifications ...model.Notification) {
	if len(notifications) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
	defer cancel()

	if s.publisher != nil {
		batch := make([]*model.Notification, 0, len(notifications))
		for i := range notifications {
			batch = append(batch, &notifications[i])
		}
		if err := s.publisher.PublishNotifications(ctx, batch...); err != nil {
			logger.Warn("Publish notifications failed",
				zap.Int("count", len(batch)),
				zap.Int64("first_notification_id", batch[0].ID),
				zap.Error(err),
			)
		}
	}

	if s.unread != nil {
		recipients := make([]int64, 0, len(notifications))
		for i := range notifications {
			recipients = append(recipients, notifications[i].RecipientID)
		}
		if err := s.unread.Incr(ctx, recipients...); err != nil {
			logger.Warn("Increase unread count failed",
				zap.Int64s("recipient_ids", recipients),
				zap.Error(err),
			)
		}
	}
}

// List 获取通知列表（最新在前）
func (s *NotificationService) List(ctx context.Context, userID int64, skip, limit int) (*dto.NotificationListData, error) {
	notifications, total, err := s.store.Notifications.ListByRecipient(ctx, userID, skip, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list notifications")
	}

	items := make([]dto.NotificationInfo, 0, len(notifications))
	for i := range notifications {
		items = append(items, toNotificationInfo(&notifications[i]))
	}

	return &dto.NotificationListData{
		Notifications: items,
		TotalCount:    total,
		HasMore:       int64(skip+len(items)) < total,
	}, nil
}

// MarkRead 标记已读，ids 为空时标记全部，返回剩余未读数
func (s *NotificationService) MarkRead(ctx context.Context, userID int64, ids []int64) (int64, error) {
	if _, err := s.store.Notifications.MarkRead(ctx, userID, ids); err != nil {
		return 0, errors.Wrap(err, "mark notifications read")
	}
	return s.recount(ctx, userID)
}

// UnreadCount 未读数，优先读缓存，未命中时回源并回写
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if s.unread != nil {
		n, ok, err := s.unread.Get(ctx, userID)
		if err != nil {
			logger.Warn("Get unread count from cache failed", zap.Int64("user_id", userID), zap.Error(err))
		} else if ok {
			return n, nil
		}
	}
	return s.recount(ctx, userID)
}

func (s *NotificationService) recount(ctx context.Context, userID int64) (int64, error) {
	count, err := s.store.Notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.Wrap(err, "count unread notifications")
	}
	if s.unread != nil {
		if err := s.unread.Set(ctx, userID, count); err != nil {
			logger.Warn("Set unread count cache failed", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	return count, nil
}

func toNotificationInfo(n *model.Notification) dto.NotificationInfo {
	return dto.NotificationInfo{
		ID:         n.ID,
		Type:       string(n.Type),
		ActorID:    n.ActorID,
		EntityID:   n.EntityID,
		EntityType: n.EntityType,
		Text:       n.Text,
		Read:       n.Read,
		CreatedAt:  n.CreatedAt,
	}
}
