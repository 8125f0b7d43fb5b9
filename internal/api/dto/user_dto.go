package dto

import (
	"bytes"
	"encoding/json"
)

// UserBrief 用户简要信息
type UserBrief struct {
	ID          int64   `json:"id"`
	DisplayName string  `json:"displayName"`
	Username    string  `json:"username"`
	AvatarURL   *string `json:"avatarUrl"`
}

// PrivacyInfo 隐私设置
type PrivacyInfo struct {
	IsPublic              bool   `json:"isPublic"`
	RequireFollowApproval *bool  `json:"requireFollowApproval"`
	CommentPermission     string `json:"commentPermission"`
	MentionPermission     string `json:"mentionPermission"`
	AppearInDiscover      bool   `json:"appearInDiscover"`
	AllowSuggestions      bool   `json:"allowSuggestions"`
}

// UserProfile 用户主页信息
type UserProfile struct {
	UserBrief
	FollowerCount  int64        `json:"followerCount"`
	FollowingCount int64        `json:"followingCount"`
	FollowStatus   string       `json:"followStatus"`
	IsFollowing    bool         `json:"isFollowing"`
	Privacy        *PrivacyInfo `json:"privacy,omitempty"`
}

// NullableBool 区分字段缺失、显式 null 与具体取值
type NullableBool struct {
	Set   bool
	Value *bool
}

func (n *NullableBool) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// PrivacyUpdateRequest 隐私设置局部更新，未出现的字段保持不变
type PrivacyUpdateRequest struct {
	IsPublic              *bool        `json:"isPublic"`
	RequireFollowApproval NullableBool `json:"requireFollowApproval"`
	CommentPermission     *string      `json:"commentPermission"`
	MentionPermission     *string      `json:"mentionPermission"`
	AppearInDiscover      *bool        `json:"appearInDiscover"`
	AllowSuggestions      *bool        `json:"allowSuggestions"`
}

// RelationUserInfo 关注/粉丝列表中的用户
type RelationUserInfo struct {
	UserBrief
	FollowerCount  int64 `json:"followerCount"`
	FollowingCount int64 `json:"followingCount"`
}

// RelationListData 关注/粉丝列表数据
type RelationListData struct {
	Users      []RelationUserInfo `json:"users"`
	TotalCount int64              `json:"totalCount"`
	HasMore    bool               `json:"hasMore"`
}
