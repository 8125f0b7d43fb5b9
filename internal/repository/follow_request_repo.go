package repository

import (
	"context"
	"time"

	"vida-social/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRequestRepository struct {
	db *gorm.DB
}

func NewFollowRequestRepository(db *gorm.DB) *FollowRequestRepository {
	return &FollowRequestRepository{db: db}
}

// Open 将 (requester, recipient) 的关注请求置为 pending。
//
// 不存在时插入；已被接受或拒绝时原行重新打开并刷新 RequestedAt；已是 pending 时不做任何修改。
// 第二个返回值表示本次调用是否真的打开了请求，只有为 true 时调用方才应发送通知。
func (r *FollowRequestRepository) Open(ctx context.Context, requesterID, recipientID int64, at time.Time) (*model.FollowRequest, bool, error) {
	req := &model.FollowRequest{
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      model.FollowRequestPending,
		RequestedAt: at,
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "requester_id"}, {Name: "recipient_id"}},
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Neq{Column: clause.Column{Table: model.FollowRequest{}.TableName(), Name: "status"}, Value: model.FollowRequestPending},
		}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":       model.FollowRequestPending,
			"requested_at": at,
			"updated_at":   at,
		}),
	}).Create(req)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, false, nil
	}

	opened, err := r.GetByPair(ctx, requesterID, recipientID)
	if err != nil {
		return nil, false, err
	}
	return opened, true, nil
}

// GetByID 根据 ID 查询关注请求
func (r *FollowRequestRepository) GetByID(ctx context.Context, id int64) (*model.FollowRequest, error) {
	var req model.FollowRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetByPair 根据请求双方查询
func (r *FollowRequestRepository) GetByPair(ctx context.Context, requesterID, recipientID int64) (*model.FollowRequest, error) {
	var req model.FollowRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND recipient_id = ?", requesterID, recipientID).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// HasPending 是否存在待处理请求
func (r *FollowRequestRepository) HasPending(ctx context.Context, requesterID, recipientID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FollowRequest{}).
		Where("requester_id = ? AND recipient_id = ? AND status = ?", requesterID, recipientID, model.FollowRequestPending).
		Count(&count).Error
	return count > 0, err
}

// Transition 将 pending 请求改为 to，返回 false 表示请求已不是 pending（被并发处理或撤回）
func (r *FollowRequestRepository) Transition(ctx context.Context, id int64, to model.FollowRequestStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.FollowRequest{}).
		Where("id = ? AND status = ?", id, model.FollowRequestPending).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeletePending 撤回待处理请求，已处理的记录保留
func (r *FollowRequestRepository) DeletePending(ctx context.Context, requesterID, recipientID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("requester_id = ? AND recipient_id = ? AND status = ?", requesterID, recipientID, model.FollowRequestPending).
		Delete(&model.FollowRequest{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListPendingByRecipient 获取收到的待处理请求（按请求时间倒序）
func (r *FollowRequestRepository) ListPendingByRecipient(ctx context.Context, recipientID int64, skip, limit int) ([]model.FollowRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.FollowRequest{}).
		Where("recipient_id = ? AND status = ?", recipientID, model.FollowRequestPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []model.FollowRequest
	err := query.Order("requested_at DESC, id DESC").
		Offset(skip).Limit(limit).Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}
