package model

import "time"

const (
	VideoStatusPublished = "published"
	VideoStatusDeleted   = "deleted"
)

// Video 视频目录记录，仅保留评论引擎需要的字段（作者即评论管理员）
type Video struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorID  int64     `gorm:"not null;index:idx_videos_author_id" json:"author_id"`
	Title     string    `gorm:"size:200;not null;default:''" json:"title"`
	Status    string    `gorm:"size:20;not null;default:'published';index:idx_videos_status" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Video) TableName() string {
	return "videos"
}
