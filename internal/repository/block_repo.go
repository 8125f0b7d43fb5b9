package repository

import (
	"context"

	"vida-social/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

// Create 拉黑，重复拉黑返回 false
func (r *BlockRepository) Create(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	block := &model.Block{BlockerID: blockerID, BlockedID: blockedID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(block)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 取消拉黑
func (r *BlockRepository) Delete(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&model.Block{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ExistsEither 两人之间任一方向存在拉黑
func (r *BlockRepository) ExistsEither(ctx context.Context, a, b int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// BlockedAmong 返回 others 中与 userID 存在任一方向拉黑关系的用户集合
func (r *BlockRepository) BlockedAmong(ctx context.Context, userID int64, others []int64) (map[int64]bool, error) {
	result := make(map[int64]bool)
	if len(others) == 0 {
		return result, nil
	}

	var blocks []model.Block
	err := r.db.WithContext(ctx).
		Where("(blocker_id = ? AND blocked_id IN ?) OR (blocked_id = ? AND blocker_id IN ?)", userID, others, userID, others).
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}

	for _, b := range blocks {
		if b.BlockerID == userID {
			result[b.BlockedID] = true
		} else {
			result[b.BlockerID] = true
		}
	}
	return result, nil
}
