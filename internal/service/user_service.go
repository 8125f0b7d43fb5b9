package service

import (
	"context"

	"vida-social/internal/api/dto"
	"vida-social/internal/model"
	"vida-social/internal/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{store: store}
}

// GetProfile 获取用户主页，viewerID 为 0 表示匿名访问
func (s *UserService) GetProfile(ctx context.Context, viewerID, userID int64) (*dto.UserProfile, error) {
	user, err := getUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	profile := &dto.UserProfile{
		UserBrief:      toUserBrief(user),
		FollowerCount:  user.FollowerCount,
		FollowingCount: user.FollowingCount,
		FollowStatus:   FollowStatusNotFollowing,
		Privacy:        toPrivacyInfo(user.Privacy),
	}

	if viewerID > 0 && viewerID != userID {
		status, err := followStatus(ctx, s.store, viewerID, userID)
		if err != nil {
			return nil, err
		}
		profile.FollowStatus = status
		profile.IsFollowing = status == FollowStatusFollowing
	}

	return profile, nil
}

// UpdatePrivacy 局部更新隐私设置
func (s *UserService) UpdatePrivacy(ctx context.Context, userID int64, req *dto.PrivacyUpdateRequest) (*dto.PrivacyInfo, error) {
	updates := make(map[string]interface{})
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}
	if req.RequireFollowApproval.Set {
		updates["require_follow_approval"] = req.RequireFollowApproval.Value
	}
	if req.CommentPermission != nil {
		perm := model.CommentPermission(*req.CommentPermission)
		if !perm.Valid() {
			return nil, ErrInvalidPrivacy
		}
		updates["comment_permission"] = perm
	}
	if req.MentionPermission != nil {
		perm := model.MentionPermission(*req.MentionPermission)
		if !perm.Valid() {
			return nil, ErrInvalidPrivacy
		}
		updates["mention_permission"] = perm
	}
	if req.AppearInDiscover != nil {
		updates["appear_in_discover"] = *req.AppearInDiscover
	}
	if req.AllowSuggestions != nil {
		updates["allow_suggestions"] = *req.AllowSuggestions
	}

	if len(updates) > 0 {
		if err := s.store.Users.UpdatePrivacy(ctx, userID, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, errors.Wrap(err, "update privacy")
		}
	}

	user, err := getUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	return toPrivacyInfo(user.Privacy), nil
}

func getUser(ctx context.Context, store *repository.Store, id int64) (*model.User, error) {
	user, err := store.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}
	return user, nil
}

func toUserBrief(u *model.User) dto.UserBrief {
	return dto.UserBrief{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Username:    u.UserName,
		AvatarURL:   u.AvatarURL,
	}
}

func toPrivacyInfo(p model.PrivacySettings) *dto.PrivacyInfo {
	return &dto.PrivacyInfo{
		IsPublic:              p.IsPublic,
		RequireFollowApproval: p.RequireFollowApproval,
		CommentPermission:     string(p.CommentPermission),
		MentionPermission:     string(p.MentionPermission),
		AppearInDiscover:      p.AppearInDiscover,
		AllowSuggestions:      p.AllowSuggestions,
	}
}
