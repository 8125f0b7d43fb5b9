package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store 聚合全部仓储，Transaction 内的所有仓储共享同一个数据库事务
type Store struct {
	db *gorm.DB

	Users          *UserRepository
	Videos         *VideoRepository
	Relations      *RelationRepository
	FollowRequests *FollowRequestRepository
	Blocks         *BlockRepository
	Comments       *CommentRepository
	CommentLikes   *CommentLikeRepository
	Notifications  *NotificationRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:             db,
		Users:          NewUserRepository(db),
		Videos:         NewVideoRepository(db),
		Relations:      NewRelationRepository(db),
		FollowRequests: NewFollowRequestRepository(db),
		Blocks:         NewBlockRepository(db),
		Comments:       NewCommentRepository(db),
		CommentLikes:   NewCommentLikeRepository(db),
		Notifications:  NewNotificationRepository(db),
	}
}

// DB 返回底层连接
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction 在单个事务中执行 fn，fn 返回错误时整体回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
