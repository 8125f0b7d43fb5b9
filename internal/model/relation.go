package model

import "time"

// Relation 关注关系，记录存在即表示 FollowerID 正在关注 FollowingID
type Relation struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerID  int64     `gorm:"not null;uniqueIndex:uq_relations_pair,priority:1;index:idx_relations_follower_id" json:"follower_id"`
	FollowingID int64     `gorm:"not null;uniqueIndex:uq_relations_pair,priority:2;index:idx_relations_following_id" json:"following_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_relations_created_at" json:"created_at"`
}

func (Relation) TableName() string {
	return "relations"
}

// FollowRequestStatus 关注请求状态
type FollowRequestStatus string

const (
	FollowRequestPending  FollowRequestStatus = "pending"
	FollowRequestAccepted FollowRequestStatus = "accepted"
	FollowRequestRejected FollowRequestStatus = "rejected"
)

// FollowRequest 关注请求，每个 (RequesterID, RecipientID) 只有一行，重新申请时复用
type FollowRequest struct {
	ID          int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	RequesterID int64               `gorm:"not null;uniqueIndex:uq_follow_requests_pair,priority:1" json:"requester_id"`
	RecipientID int64               `gorm:"not null;uniqueIndex:uq_follow_requests_pair,priority:2;index:idx_follow_requests_recipient_status,priority:1" json:"recipient_id"`
	Status      FollowRequestStatus `gorm:"size:20;not null;default:'pending';index:idx_follow_requests_recipient_status,priority:2" json:"status"`
	RequestedAt time.Time           `gorm:"not null" json:"requested_at"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FollowRequest) TableName() string {
	return "follow_requests"
}

// Block 拉黑记录，方向由 BlockerID 指向 BlockedID，但校验时双向生效
type Block struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BlockerID int64     `gorm:"not null;uniqueIndex:uq_blocks_pair,priority:1" json:"blocker_id"`
	BlockedID int64     `gorm:"not null;uniqueIndex:uq_blocks_pair,priority:2;index:idx_blocks_blocked_id" json:"blocked_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Block) TableName() string {
	return "blocks"
}
