package service

import (
	"context"

	"vida-social/internal/api/dto"
	"vida-social/internal/repository"
	"vida-social/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type BlockService struct {
	store *repository.Store
}

func NewBlockService(store *repository.Store) *BlockService {
	return &BlockService{store: store}
}

// Block 拉黑用户，重复拉黑为空操作。已有的关注关系与请求不会被移除
func (s *BlockService) Block(ctx context.Context, actorID, targetID int64) (*dto.BlockResult, error) {
	if actorID == targetID {
		return nil, ErrCannotBlockSelf
	}
	if _, err := getUser(ctx, s.store, targetID); err != nil {
		return nil, err
	}

	created, err := s.store.Blocks.Create(ctx, actorID, targetID)
	if err != nil {
		return nil, errors.Wrap(err, "create block")
	}
	if created {
		logger.Info("User blocked", zap.Int64("blocker_id", actorID), zap.Int64("blocked_id", targetID))
	}

	return &dto.BlockResult{Status: "blocked"}, nil
}

// Unblock 取消拉黑，不存在时为空操作
func (s *BlockService) Unblock(ctx context.Context, actorID, targetID int64) (*dto.BlockResult, error) {
	if _, err := s.store.Blocks.Delete(ctx, actorID, targetID); err != nil {
		return nil, errors.Wrap(err, "delete block")
	}
	return &dto.BlockResult{Status: "unblocked"}, nil
}
