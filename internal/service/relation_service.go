package service

import (
	"context"
	"time"

	"vida-social/internal/api/dto"
	"vida-social/internal/model"
	"vida-social/internal/privacy"
	"vida-social/internal/repository"
	"vida-social/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 关注关系状态
const (
	FollowStatusNotFollowing = "not_following"
	FollowStatusRequested    = "requested"
	FollowStatusFollowing    = "following"
)

type RelationService struct {
	store         *repository.Store
	notifications *NotificationService
	now           func() time.Time
}

func NewRelationService(store *repository.Store, notifications *NotificationService) *RelationService {
	return &RelationService{
		store:         store,
		notifications: notifications,
		now:           time.Now,
	}
}

// Request 关注用户。
// 已关注或已有待处理请求时直接返回当前状态；目标需要审批时创建（或重新打开）关注请求，否则直接建立关注关系
func (s *RelationService) Request(ctx context.Context, actorID, targetID int64) (*dto.FollowResult, error) {
	if actorID == targetID {
		return nil, ErrCannotFollowSelf
	}

	result := &dto.FollowResult{}
	var created []model.Notification

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		target, err := getUser(ctx, tx, targetID)
		if err != nil {
			return err
		}

		blocked, err := tx.Blocks.ExistsEither(ctx, actorID, targetID)
		if err != nil {
			return errors.Wrap(err, "check block")
		}
		following, err := tx.Relations.Exists(ctx, actorID, targetID)
		if err != nil {
			return errors.Wrap(err, "check relation")
		}

		decision := privacy.Evaluate(privacy.Input{
			ActorID:   actorID,
			TargetID:  targetID,
			Target:    target.Privacy,
			Following: following,
			Blocked:   blocked,
		})
		if !decision.AllowFollow {
			return ErrBlocked
		}

		if following {
			result.Status = FollowStatusFollowing
			return nil
		}

		pending, err := tx.FollowRequests.HasPending(ctx, actorID, targetID)
		if err != nil {
			return errors.Wrap(err, "check follow request")
		}
		if pending {
			result.Status = FollowStatusRequested
			return nil
		}

		if decision.RequiresApproval {
			result.Status = FollowStatusRequested
			req, opened, err := tx.FollowRequests.Open(ctx, actorID, targetID, s.now())
			if err != nil {
				return errors.Wrap(err, "open follow request")
			}
			if !opened {
				return nil
			}
			n, err := s.notifications.Create(ctx, tx, FollowRequestEvent{
				RecipientID: targetID,
				ActorID:     actorID,
				RequestID:   req.ID,
			})
			if err != nil {
				return err
			}
			created = append(created, *n)
			return nil
		}

		result.Status = FollowStatusFollowing
		inserted, err := s.createEdge(ctx, tx, actorID, targetID)
		if err != nil || !inserted {
			return err
		}
		result.Created = true

		n, err := s.notifications.Create(ctx, tx, FollowEvent{RecipientID: targetID, ActorID: actorID})
		if err != nil {
			return err
		}
		created = append(created, *n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifications.Dispatch(ctx, created...)
	return result, nil
}

// Cancel 取消关注或撤回待处理请求，没有关系时为空操作
func (s *RelationService) Cancel(ctx context.Context, actorID, targetID int64) (*dto.FollowResult, error) {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		deleted, err := tx.Relations.Delete(ctx, actorID, targetID)
		if err != nil {
			return errors.Wrap(err, "delete relation")
		}
		if deleted {
			if err := tx.Users.DecrementFollowingCount(ctx, actorID); err != nil {
				return errors.Wrap(err, "decrement following count")
			}
			if err := tx.Users.DecrementFollowerCount(ctx, targetID); err != nil {
				return errors.Wrap(err, "decrement follower count")
			}
			return nil
		}

		if _, err := tx.FollowRequests.DeletePending(ctx, actorID, targetID); err != nil {
			return errors.Wrap(err, "withdraw follow request")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.FollowResult{Status: FollowStatusNotFollowing}, nil
}

// Approve 通过关注请求（仅请求接收者可操作）
func (s *RelationService) Approve(ctx context.Context, actorID, requestID int64) (*dto.FollowRequestResult, error) {
	var created []model.Notification

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		req, err := s.pendingRequestFor(ctx, tx, actorID, requestID)
		if err != nil {
			return err
		}

		blocked, err := tx.Blocks.ExistsEither(ctx, req.RequesterID, req.RecipientID)
		if err != nil {
			return errors.Wrap(err, "check block")
		}
		if blocked {
			return ErrBlocked
		}

		ok, err := tx.FollowRequests.Transition(ctx, req.ID, model.FollowRequestAccepted)
		if err != nil {
			return errors.Wrap(err, "accept follow request")
		}
		if !ok {
			return ErrFollowRequestNotFound
		}

		if _, err := s.createEdge(ctx, tx, req.RequesterID, req.RecipientID); err != nil {
			return err
		}

		n, err := s.notifications.Create(ctx, tx, FollowAcceptedEvent{
			RecipientID: req.RequesterID,
			ActorID:     actorID,
		})
		if err != nil {
			return err
		}
		created = append(created, *n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifications.Dispatch(ctx, created...)
	return &dto.FollowRequestResult{Status: string(model.FollowRequestAccepted)}, nil
}

// Reject 拒绝关注请求，记录保留
func (s *RelationService) Reject(ctx context.Context, actorID, requestID int64) (*dto.FollowRequestResult, error) {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		req, err := s.pendingRequestFor(ctx, tx, actorID, requestID)
		if err != nil {
			return err
		}
		ok, err := tx.FollowRequests.Transition(ctx, req.ID, model.FollowRequestRejected)
		if err != nil {
			return errors.Wrap(err, "reject follow request")
		}
		if !ok {
			return ErrFollowRequestNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Follow request rejected", zap.Int64("request_id", requestID), zap.Int64("recipient_id", actorID))
	return &dto.FollowRequestResult{Status: string(model.FollowRequestRejected)}, nil
}

// Status 查询 actor 对 target 的关系状态
func (s *RelationService) Status(ctx context.Context, actorID, targetID int64) (string, error) {
	return followStatus(ctx, s.store, actorID, targetID)
}

// IsFollowing 是否已关注
func (s *RelationService) IsFollowing(ctx context.Context, actorID, targetID int64) (*dto.FollowCheckResult, error) {
	exists, err := s.store.Relations.Exists(ctx, actorID, targetID)
	if err != nil {
		return nil, errors.Wrap(err, "check relation")
	}
	return &dto.FollowCheckResult{IsFollowing: exists}, nil
}

// GetFollowingList 获取关注列表
func (s *RelationService) GetFollowingList(ctx context.Context, userID int64, skip, limit int) (*dto.RelationListData, error) {
	if _, err := getUser(ctx, s.store, userID); err != nil {
		return nil, err
	}

	followingIDs, err := s.store.Relations.GetFollowingList(ctx, userID, skip, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list following")
	}
	total, err := s.store.Relations.CountFollowing(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "count following")
	}
	users, err := s.store.Users.GetByIDs(ctx, followingIDs)
	if err != nil {
		return nil, errors.Wrap(err, "get users")
	}

	return buildRelationListData(users, followingIDs, total, skip), nil
}

// GetFollowerList 获取粉丝列表
func (s *RelationService) GetFollowerList(ctx context.Context, userID int64, skip, limit int) (*dto.RelationListData, error) {
	if _, err := getUser(ctx, s.store, userID); err != nil {
		return nil, err
	}

	followerIDs, err := s.store.Relations.GetFollowerList(ctx, userID, skip, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list followers")
	}
	total, err := s.store.Relations.CountFollowers(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "count followers")
	}
	users, err := s.store.Users.GetByIDs(ctx, followerIDs)
	if err != nil {
		return nil, errors.Wrap(err, "get users")
	}

	return buildRelationListData(users, followerIDs, total, skip), nil
}

// IncomingRequests 获取收到的待处理关注请求
func (s *RelationService) IncomingRequests(ctx context.Context, actorID int64, skip, limit int) (*dto.FollowRequestListData, error) {
	requests, total, err := s.store.FollowRequests.ListPendingByRecipient(ctx, actorID, skip, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list follow requests")
	}

	requesterIDs := make([]int64, 0, len(requests))
	for i := range requests {
		requesterIDs = append(requesterIDs, requests[i].RequesterID)
	}
	users, err := s.store.Users.GetByIDs(ctx, requesterIDs)
	if err != nil {
		return nil, errors.Wrap(err, "get requesters")
	}
	userMap := make(map[int64]*model.User, len(users))
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	items := make([]dto.FollowRequestInfo, 0, len(requests))
	for i := range requests {
		info := dto.FollowRequestInfo{
			ID:          requests[i].ID,
			Requester:   dto.UserBrief{ID: requests[i].RequesterID},
			Status:      string(requests[i].Status),
			RequestedAt: requests[i].RequestedAt,
		}
		if u, ok := userMap[requests[i].RequesterID]; ok {
			info.Requester = toUserBrief(u)
		}
		items = append(items, info)
	}

	return &dto.FollowRequestListData{
		Requests:   items,
		TotalCount: total,
		HasMore:    int64(skip+len(requests)) < total,
	}, nil
}

// createEdge 建立关注关系，只有真正插入时才更新双方计数
func (s *RelationService) createEdge(ctx context.Context, tx *repository.Store, followerID, followingID int64) (bool, error) {
	inserted, err := tx.Relations.Create(ctx, followerID, followingID)
	if err != nil {
		return false, errors.Wrap(err, "create relation")
	}
	if !inserted {
		return false, nil
	}
	if err := tx.Users.IncrementFollowingCount(ctx, followerID); err != nil {
		return false, errors.Wrap(err, "increment following count")
	}
	if err := tx.Users.IncrementFollowerCount(ctx, followingID); err != nil {
		return false, errors.Wrap(err, "increment follower count")
	}
	return true, nil
}

func (s *RelationService) pendingRequestFor(ctx context.Context, tx *repository.Store, actorID, requestID int64) (*model.FollowRequest, error) {
	req, err := tx.FollowRequests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFollowRequestNotFound
		}
		return nil, errors.Wrap(err, "get follow request")
	}
	if req.RecipientID != actorID {
		return nil, ErrFollowRequestNoPermission
	}
	if req.Status != model.FollowRequestPending {
		return nil, ErrFollowRequestNotFound
	}
	return req, nil
}

func followStatus(ctx context.Context, store *repository.Store, actorID, targetID int64) (string, error) {
	following, err := store.Relations.Exists(ctx, actorID, targetID)
	if err != nil {
		return "", errors.Wrap(err, "check relation")
	}
	if following {
		return FollowStatusFollowing, nil
	}
	pending, err := store.FollowRequests.HasPending(ctx, actorID, targetID)
	if err != nil {
		return "", errors.Wrap(err, "check follow request")
	}
	if pending {
		return FollowStatusRequested, nil
	}
	return FollowStatusNotFollowing, nil
}

// buildRelationListData 构建关注/粉丝列表响应，按 orderedIDs 排序
func buildRelationListData(users []model.User, orderedIDs []int64, total int64, skip int) *dto.RelationListData {
	userMap := make(map[int64]dto.RelationUserInfo, len(users))
	for i := range users {
		userMap[users[i].ID] = dto.RelationUserInfo{
			UserBrief:      toUserBrief(&users[i]),
			FollowerCount:  users[i].FollowerCount,
			FollowingCount: users[i].FollowingCount,
		}
	}

	userList := make([]dto.RelationUserInfo, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		if info, ok := userMap[id]; ok {
			userList = append(userList, info)
		}
	}

	return &dto.RelationListData{
		Users:      userList,
		TotalCount: total,
		HasMore:    int64(skip+len(orderedIDs)) < total,
	}
}
