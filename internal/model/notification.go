package model

import "time"

// NotificationType 通知类型
type NotificationType string

const (
	NotificationFollow         NotificationType = "follow"
	NotificationFollowRequest  NotificationType = "follow_request"
	NotificationFollowAccepted NotificationType = "follow_accepted"
	NotificationComment        NotificationType = "comment"
	NotificationMention        NotificationType = "mention"
)

const (
	EntityUser          = "user"
	EntityFollowRequest = "follow_request"
	EntityComment       = "comment"
)

// Notification 通知记录
type Notification struct {
	ID          int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipientID int64            `gorm:"not null;index:idx_notifications_recipient_created,priority:1" json:"recipient_id"`
	ActorID     int64            `gorm:"not null" json:"actor_id"`
	Type        NotificationType `gorm:"size:30;not null" json:"type"`
	EntityID    int64            `gorm:"not null" json:"entity_id"`
	EntityType  string           `gorm:"size:30;not null" json:"entity_type"`
	Text        string           `gorm:"size:200;not null;default:''" json:"text"`
	Read        bool             `gorm:"column:is_read;not null;index:idx_notifications_is_read" json:"read"`
	CreatedAt   time.Time        `gorm:"autoCreateTime;index:idx_notifications_recipient_created,priority:2" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// All 返回需要自动迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&Video{},
		&Relation{},
		&FollowRequest{},
		&Block{},
		&Comment{},
		&CommentLike{},
		&Notification{},
	}
}
