package repository

import (
	"context"

	"vida-social/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentLikeRepository struct {
	db *gorm.DB
}

func NewCommentLikeRepository(db *gorm.DB) *CommentLikeRepository {
	return &CommentLikeRepository{db: db}
}

// Create 点赞，重复点赞返回 false
func (r *CommentLikeRepository) Create(ctx context.Context, commentID, userID int64) (bool, error) {
	like := &model.CommentLike{CommentID: commentID, UserID: userID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *CommentLikeRepository) Delete(ctx context.Context, commentID, userID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&model.CommentLike{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteByComment 清除评论的全部点赞（评论被物理删除时调用）
func (r *CommentLikeRepository) DeleteByComment(ctx context.Context, commentID int64) error {
	return r.db.WithContext(ctx).Where("comment_id = ?", commentID).Delete(&model.CommentLike{}).Error
}

// CountByComment 统计评论点赞数
func (r *CommentLikeRepository) CountByComment(ctx context.Context, commentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}

// CountByComments 批量统计点赞数
func (r *CommentLikeRepository) CountByComments(ctx context.Context, commentIDs []int64) (map[int64]int64, error) {
	result := make(map[int64]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		CommentID int64
		Total     int64
	}
	err := r.db.WithContext(ctx).Model(&model.CommentLike{}).
		Select("comment_id, COUNT(*) AS total").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.CommentID] = row.Total
	}
	return result, nil
}

// BatchCheckLiked 批量查询点赞状态
func (r *CommentLikeRepository) BatchCheckLiked(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
	if len(commentIDs) == 0 {
		return map[int64]bool{}, nil
	}

	var likedIDs []int64
	err := r.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &likedIDs).Error
	if err != nil {
		return nil, err
	}

	likedSet := make(map[int64]bool, len(likedIDs))
	for _, id := range likedIDs {
		likedSet[id] = true
	}
	return likedSet, nil
}
