package repository

import (
	"context"
	"errors"

	"vida-social/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Omit("Author").Create(comment).Error
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepository) GetByIDWithAuthor(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// SoftDelete 软删除：保留 ID 与父子关系，替换为占位文本。
// 只作用于仍为正常状态的评论，返回 false 表示评论已被删除
func (r *CommentRepository) SoftDelete(ctx context.Context, id int64, placeholder string, deletedBy int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"text":       placeholder,
			"deleted_by": deletedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetForReply 读取父评论并加共享锁，直到事务结束前阻止其被物理删除或软删除
func (r *CommentRepository) GetForReply(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "SHARE"}).First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// PurgeLeaf 物理删除作者本人且没有任何回复的评论，必须在事务内调用。
// 先对目标行加排他锁，等待持有共享锁的回复事务结束；随后的删除语句使用新快照检查子评论，
// 存在回复时返回 false，由调用方改走软删除
func (r *CommentRepository) PurgeLeaf(ctx context.Context, id, authorID int64) (bool, error) {
	db := r.db.WithContext(ctx)

	var locked model.Comment
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").
		Where("id = ? AND author_id = ? AND is_deleted = ?", id, authorID, false).
		Take(&locked).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	result := db.
		Where("id = ? AND author_id = ? AND is_deleted = ?", id, authorID, false).
		Where("NOT EXISTS (SELECT 1 FROM comments AS child WHERE child.parent_id = ?)", id).
		Delete(&model.Comment{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByVideo 获取视频的全部评论行（含回复与已删除占位），按创建时间倒序
func (r *CommentRepository) ListByVideo(ctx context.Context, videoID int64, skip, limit int) ([]model.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Preload("Author").Order("created_at DESC, id DESC").
		Offset(skip).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// ListReplies 获取某条评论的直接回复（按时间正序）
func (r *CommentRepository) ListReplies(ctx context.Context, parentID int64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).
		Order("created_at ASC, id ASC").Find(&comments).Error
	return comments, err
}

// CountByVideo 统计视频下的评论行数
func (r *CommentRepository) CountByVideo(ctx context.Context, videoID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoID).Count(&count).Error
	return count, err
}

// CountReplies 批量统计直接回复数（含已删除占位）
func (r *CommentRepository) CountReplies(ctx context.Context, commentIDs []int64) (map[int64]int64, error) {
	result := make(map[int64]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ParentID int64
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Select("parent_id, COUNT(*) AS total").
		Where("parent_id IN ?", commentIDs).
		Group("parent_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ParentID] = row.Total
	}
	return result, nil
}
