package model

import "time"

const (
	// CommentRemovedText 视频作者删除他人评论后的占位文本
	CommentRemovedText = "[removed]"
	// CommentDeletedText 作者删除仍有回复的评论后的占位文本
	CommentDeletedText = "[deleted]"
)

// Comment 评论模型
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID   int64     `gorm:"not null;index:idx_comments_video_created,priority:1" json:"video_id"`
	AuthorID  int64     `gorm:"not null;index:idx_comments_author_id" json:"author_id"`
	ParentID  *int64    `gorm:"index:idx_comments_parent_id" json:"parent_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	IsDeleted bool      `gorm:"not null" json:"is_deleted"`
	DeletedBy *int64    `json:"deleted_by"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_comments_video_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联关系
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentLike 评论点赞
type CommentLike struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CommentID int64     `gorm:"not null;uniqueIndex:uq_comment_likes_pair,priority:1" json:"comment_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uq_comment_likes_pair,priority:2;index:idx_comment_likes_user_id" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}
