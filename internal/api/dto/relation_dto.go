package dto

import "time"

// TargetRequest 以目标用户为参数的请求（关注、取关、拉黑、取消拉黑）
type TargetRequest struct {
	TargetID int64 `json:"targetId" binding:"required,min=1"`
}

// FollowResult 关注操作后的关系状态：following / requested / not_following
type FollowResult struct {
	Status  string `json:"status"`
	Created bool   `json:"-"`
}

// FollowCheckResult 是否已关注
type FollowCheckResult struct {
	IsFollowing bool `json:"isFollowing"`
}

// FollowRequestInfo 收到的关注请求
type FollowRequestInfo struct {
	ID          int64     `json:"id"`
	Requester   UserBrief `json:"requester"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requestedAt"`
}

// FollowRequestListData 关注请求列表
type FollowRequestListData struct {
	Requests   []FollowRequestInfo `json:"requests"`
	TotalCount int64               `json:"totalCount"`
	HasMore    bool                `json:"hasMore"`
}

// FollowRequestResult 审批结果：accepted / rejected
type FollowRequestResult struct {
	Status string `json:"status"`
}

// BlockResult 拉黑结果：blocked / unblocked
type BlockResult struct {
	Status string `json:"status"`
}
