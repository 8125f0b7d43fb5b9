package model

import "time"

// CommentPermission 评论权限
type CommentPermission string

const (
	CommentEveryone  CommentPermission = "everyone"
	CommentFollowers CommentPermission = "followers"
	CommentNoOne     CommentPermission = "no_one"
)

func (p CommentPermission) Valid() bool {
	switch p {
	case CommentEveryone, CommentFollowers, CommentNoOne:
		return true
	}
	return false
}

// MentionPermission @提及权限
type MentionPermission string

const (
	MentionEveryone  MentionPermission = "everyone"
	MentionFollowers MentionPermission = "followers"
)

func (p MentionPermission) Valid() bool {
	return p == MentionEveryone || p == MentionFollowers
}

// PrivacySettings 用户隐私设置
//
// RequireFollowApproval 为 nil 表示未显式设置，此时由 IsPublic 决定是否需要审批。
type PrivacySettings struct {
	IsPublic              bool              `gorm:"not null" json:"is_public"`
	RequireFollowApproval *bool             `json:"require_follow_approval"`
	CommentPermission     CommentPermission `gorm:"size:20;not null;default:'everyone'" json:"comment_permission"`
	MentionPermission     MentionPermission `gorm:"size:20;not null;default:'everyone'" json:"mention_permission"`
	AppearInDiscover      bool              `gorm:"not null" json:"appear_in_discover"`
	AllowSuggestions      bool              `gorm:"not null" json:"allow_suggestions"`
}

// DefaultPrivacy 新用户的默认隐私设置
func DefaultPrivacy() PrivacySettings {
	return PrivacySettings{
		IsPublic:          true,
		CommentPermission: CommentEveryone,
		MentionPermission: MentionEveryone,
		AppearInDiscover:  true,
		AllowSuggestions:  true,
	}
}

// User 用户模型
type User struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserName       string          `gorm:"size:255;not null;uniqueIndex" json:"user_name"`
	DisplayName    string          `gorm:"size:255;not null;default:''" json:"display_name"`
	AvatarURL      *string         `gorm:"size:500" json:"avatar_url"`
	FollowingCount int64           `gorm:"not null;default:0" json:"following_count"`
	FollowerCount  int64           `gorm:"not null;default:0" json:"follower_count"`
	Privacy        PrivacySettings `gorm:"embedded" json:"privacy"`
	IsDelete       int64           `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
