package repository

import (
	"context"

	"vida-social/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RelationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(db *gorm.DB) *RelationRepository {
	return &RelationRepository{db: db}
}

// Create 创建关注关系。唯一索引冲突时不报错，返回 false 表示关系已存在
func (r *RelationRepository) Create(ctx context.Context, followerID, followingID int64) (bool, error) {
	relation := &model.Relation{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(relation)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 删除关注关系
func (r *RelationRepository) Delete(ctx context.Context, followerID, followingID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Relation{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查关注关系是否存在
func (r *RelationRepository) Exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Relation{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// GetFollowingList 获取用户的关注列表（分页）
func (r *RelationRepository) GetFollowingList(ctx context.Context, userID int64, skip, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Relation{}).
		Where("follower_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(skip).Limit(limit).
		Pluck("following_id", &ids).Error
	return ids, err
}

// GetFollowerList 获取用户的粉丝列表（分页）
func (r *RelationRepository) GetFollowerList(ctx context.Context, userID int64, skip, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Relation{}).
		Where("following_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(skip).Limit(limit).
		Pluck("follower_id", &ids).Error
	return ids, err
}

// CountFollowing 统计关注数（仅用于列表分页，计数展示以 users 表为准）
func (r *RelationRepository) CountFollowing(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Relation{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

// CountFollowers 统计粉丝数
func (r *RelationRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Relation{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

// BatchCheckFollowing 批量检查 followerID 是否关注了 followingIDs 中的用户
func (r *RelationRepository) BatchCheckFollowing(ctx context.Context, followerID int64, followingIDs []int64) (map[int64]bool, error) {
	if len(followingIDs) == 0 {
		return map[int64]bool{}, nil
	}

	var followedIDs []int64
	err := r.db.WithContext(ctx).Model(&model.Relation{}).
		Where("follower_id = ? AND following_id IN ?", followerID, followingIDs).
		Pluck("following_id", &followedIDs).Error
	if err != nil {
		return nil, err
	}

	followedSet := make(map[int64]bool, len(followedIDs))
	for _, id := range followedIDs {
		followedSet[id] = true
	}

	result := make(map[int64]bool, len(followingIDs))
	for _, id := range followingIDs {
		result[id] = followedSet[id]
	}
	return result, nil
}
