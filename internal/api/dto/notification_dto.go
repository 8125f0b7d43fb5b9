package dto

import "time"

type NotificationInfo struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type"`
	ActorID    int64     `json:"actorId"`
	EntityID   int64     `json:"entityId"`
	EntityType string    `json:"entityType"`
	Text       string    `json:"text"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

type NotificationListData struct {
	Notifications []NotificationInfo `json:"notifications"`
	TotalCount    int64              `json:"totalCount"`
	HasMore       bool               `json:"hasMore"`
}

// MarkReadRequest ids 为空表示全部标记已读
type MarkReadRequest struct {
	IDs []int64 `json:"ids"`
}

type UnreadCountResult struct {
	UnreadCount int64 `json:"unreadCount"`
}
