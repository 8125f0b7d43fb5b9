package dto

import "time"

// CommentCreateRequest 发表评论请求，文本校验由服务层完成
type CommentCreateRequest struct {
	VideoID  int64  `json:"videoId" binding:"required,min=1"`
	Text     string `json:"text"`
	ParentID *int64 `json:"parentId"`
}

// CommentDeleteRequest 删除评论请求
type CommentDeleteRequest struct {
	CommentID int64 `json:"commentId" binding:"required,min=1"`
}

// CommentInfo 评论信息
type CommentInfo struct {
	ID         int64     `json:"id"`
	Author     UserBrief `json:"author"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
	ParentID   *int64    `json:"parentId"`
	LikeCount  int64     `json:"likeCount"`
	ReplyCount int64     `json:"replyCount"`
	IsLiked    bool      `json:"isLiked"`
	IsDeleted  bool      `json:"isDeleted"`
	DeletedBy  *int64    `json:"deletedBy"`
}

// CommentListData 评论列表数据
type CommentListData struct {
	Comments   []CommentInfo `json:"comments"`
	TotalCount int64         `json:"totalCount"`
	HasMore    bool          `json:"hasMore"`
}

// CommentCreateResult 发表评论结果
type CommentCreateResult struct {
	Comment    CommentInfo `json:"comment"`
	TotalCount int64       `json:"totalCount"`
}

// CommentDeleteResult 删除评论结果，Outcome 为 removed / deleted / purged
type CommentDeleteResult struct {
	Outcome    string `json:"-"`
	TotalCount int64  `json:"totalCount"`
}

// CommentLikeResult 点赞结果
type CommentLikeResult struct {
	LikeCount int64 `json:"likeCount"`
	IsLiked   bool  `json:"isLiked"`
}
