package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"vida-social/internal/api/dto"
	"vida-social/internal/model"
	"vida-social/internal/privacy"
	"vida-social/internal/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// 删除评论的三种结果
const (
	CommentOutcomeRemoved = "removed"
	CommentOutcomeDeleted = "deleted"
	CommentOutcomePurged  = "purged"
)

type CommentService struct {
	store         *repository.Store
	notifications *NotificationService
}

func NewCommentService(store *repository.Store, notifications *NotificationService) *CommentService {
	return &CommentService{store: store, notifications: notifications}
}

// Create 发表评论或回复，并通知视频作者与被 @ 的用户
func (s *CommentService) Create(ctx context.Context, actorID int64, req *dto.CommentCreateRequest) (*dto.CommentCreateResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrCommentEmpty
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	var (
		comment *model.Comment
		total   int64
		created []model.Notification
	)

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		video, err := getVideo(ctx, tx, req.VideoID)
		if err != nil {
			return err
		}
		owner, err := getUser(ctx, tx, video.AuthorID)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return ErrVideoNotFound
			}
			return err
		}

		decision, err := evaluate(ctx, tx, actorID, owner)
		if err != nil {
			return err
		}
		if !decision.AllowComment {
			return ErrCommentRestricted
		}

		if req.ParentID != nil {
			if err := checkParent(ctx, tx, *req.ParentID, video.ID); err != nil {
				return err
			}
		}

		comment = &model.Comment{
			VideoID:  video.ID,
			AuthorID: actorID,
			ParentID: req.ParentID,
			Text:     text,
		}
		if err := tx.Comments.Create(ctx, comment); err != nil {
			return errors.Wrap(err, "create comment")
		}

		if actorID != owner.ID {
			n, err := s.notifications.Create(ctx, tx, CommentEvent{
				RecipientID: owner.ID,
				ActorID:     actorID,
				CommentID:   comment.ID,
				Text:        text,
			})
			if err != nil {
				return err
			}
			created = append(created, *n)
		}

		mentions, err := mentionEvents(ctx, tx, actorID, comment)
		if err != nil {
			return err
		}
		batch, err := s.notifications.CreateBatch(ctx, tx, mentions)
		if err != nil {
			return err
		}
		created = append(created, batch...)

		if total, err = tx.Comments.CountByVideo(ctx, video.ID); err != nil {
			return errors.Wrap(err, "count comments")
		}
		if comment, err = tx.Comments.GetByIDWithAuthor(ctx, comment.ID); err != nil {
			return errors.Wrap(err, "reload comment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifications.Dispatch(ctx, created...)
	return &dto.CommentCreateResult{
		Comment:    toCommentInfo(comment, 0, 0, false),
		TotalCount: total,
	}, nil
}

// Delete 删除评论。
// 视频作者删除他人评论为软删除 [removed]；作者删除有回复的评论为软删除 [deleted]；作者删除无回复的评论直接物理删除
func (s *CommentService) Delete(ctx context.Context, actorID, commentID int64) (*dto.CommentDeleteResult, error) {
	result := &dto.CommentDeleteResult{}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		comment, err := getActiveComment(ctx, tx, commentID)
		if err != nil {
			return err
		}

		var ownerID int64
		video, err := tx.Videos.GetByID(ctx, comment.VideoID)
		switch {
		case err == nil:
			ownerID = video.AuthorID
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return errors.Wrap(err, "get video")
		}

		isAuthor := comment.AuthorID == actorID
		if !isAuthor && ownerID != actorID {
			return ErrCommentNoPermission
		}

		if !isAuthor {
			ok, err := tx.Comments.SoftDelete(ctx, comment.ID, model.CommentRemovedText, actorID)
			if err != nil {
				return errors.Wrap(err, "remove comment")
			}
			if !ok {
				return ErrCommentNotFound
			}
			result.Outcome = CommentOutcomeRemoved
		} else {
			purged, err := tx.Comments.PurgeLeaf(ctx, comment.ID, actorID)
			if err != nil {
				return errors.Wrap(err, "purge comment")
			}
			if purged {
				if err := tx.CommentLikes.DeleteByComment(ctx, comment.ID); err != nil {
					return errors.Wrap(err, "delete comment likes")
				}
				result.Outcome = CommentOutcomePurged
			} else {
				ok, err := tx.Comments.SoftDelete(ctx, comment.ID, model.CommentDeletedText, actorID)
				if err != nil {
					return errors.Wrap(err, "soft delete comment")
				}
				if !ok {
					return ErrCommentNotFound
				}
				result.Outcome = CommentOutcomeDeleted
			}
		}

		result.TotalCount, err = tx.Comments.CountByVideo(ctx, comment.VideoID)
		if err != nil {
			return errors.Wrap(err, "count comments")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// List 获取视频的全部评论行，按创建时间倒序；viewerID 为 0 表示匿名
func (s *CommentService) List(ctx context.Context, viewerID, videoID int64, skip, limit int) (*dto.CommentListData, error) {
	if _, err := getVideo(ctx, s.store, videoID); err != nil {
		return nil, err
	}

	comments, total, err := s.store.Comments.ListByVideo(ctx, videoID, skip, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list comments")
	}

	ids := make([]int64, 0, len(comments))
	for i := range comments {
		ids = append(ids, comments[i].ID)
	}

	likeCounts, err := s.store.CommentLikes.CountByComments(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "count comment likes")
	}
	replyCounts, err := s.store.Comments.CountReplies(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "count comment replies")
	}
	liked := map[int64]bool{}
	if viewerID > 0 {
		if liked, err = s.store.CommentLikes.BatchCheckLiked(ctx, viewerID, ids); err != nil {
			return nil, errors.Wrap(err, "check comment likes")
		}
	}

	items := make([]dto.CommentInfo, 0, len(comments))
	for i := range comments {
		items = append(items, toCommentInfo(&comments[i], likeCounts[comments[i].ID], replyCounts[comments[i].ID], liked[comments[i].ID]))
	}

	return &dto.CommentListData{
		Comments:   items,
		TotalCount: total,
		HasMore:    int64(skip+len(items)) < total,
	}, nil
}

// Like 点赞评论，重复点赞为空操作；与评论作者存在任一方向拉黑时禁止
func (s *CommentService) Like(ctx context.Context, actorID, commentID int64) (*dto.CommentLikeResult, error) {
	result := &dto.CommentLikeResult{IsLiked: true}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		comment, err := getActiveComment(ctx, tx, commentID)
		if err != nil {
			return err
		}
		if comment.AuthorID != actorID {
			blocked, err := tx.Blocks.ExistsEither(ctx, actorID, comment.AuthorID)
			if err != nil {
				return errors.Wrap(err, "check block")
			}
			if blocked {
				return ErrBlocked
			}
		}
		if _, err := tx.CommentLikes.Create(ctx, commentID, actorID); err != nil {
			return errors.Wrap(err, "like comment")
		}
		result.LikeCount, err = tx.CommentLikes.CountByComment(ctx, commentID)
		return errors.Wrap(err, "count comment likes")
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Unlike 取消点赞，未点赞时为空操作
func (s *CommentService) Unlike(ctx context.Context, actorID, commentID int64) (*dto.CommentLikeResult, error) {
	result := &dto.CommentLikeResult{}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := getActiveComment(ctx, tx, commentID); err != nil {
			return err
		}
		if _, err := tx.CommentLikes.Delete(ctx, commentID, actorID); err != nil {
			return errors.Wrap(err, "unlike comment")
		}
		var err error
		result.LikeCount, err = tx.CommentLikes.CountByComment(ctx, commentID)
		return errors.Wrap(err, "count comment likes")
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// mentionEvents 解析 @提及，过滤自己、不存在的用户与不允许被提及的用户
func mentionEvents(ctx context.Context, tx *repository.Store, actorID int64, comment *model.Comment) ([]NotificationEvent, error) {
	usernames := ParseMentions(comment.Text)
	if len(usernames) == 0 {
		return nil, nil
	}

	users, err := tx.Users.GetByUsernames(ctx, usernames)
	if err != nil {
		return nil, errors.Wrap(err, "resolve mentions")
	}

	targets := resolveMentions(usernames, users)
	ids := make([]int64, 0, len(targets))
	for _, u := range targets {
		ids = append(ids, u.ID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	following, err := tx.Relations.BatchCheckFollowing(ctx, actorID, ids)
	if err != nil {
		return nil, errors.Wrap(err, "check mention relations")
	}
	blocked, err := tx.Blocks.BlockedAmong(ctx, actorID, ids)
	if err != nil {
		return nil, errors.Wrap(err, "check mention blocks")
	}

	events := make([]NotificationEvent, 0, len(targets))
	for _, u := range targets {
		if u.ID == actorID {
			continue
		}
		decision := privacy.Evaluate(privacy.Input{
			ActorID:   actorID,
			TargetID:  u.ID,
			Target:    u.Privacy,
			Following: following[u.ID],
			Blocked:   blocked[u.ID],
		})
		if !decision.AllowMention {
			continue
		}
		events = append(events, MentionEvent{
			RecipientID: u.ID,
			ActorID:     actorID,
			CommentID:   comment.ID,
			Text:        comment.Text,
		})
	}
	return events, nil
}

// resolveMentions 按提及顺序匹配用户：拼写完全一致优先，否则仅在忽略大小写后唯一匹配时采用。
// 同一用户只返回一次
func resolveMentions(usernames []string, users []model.User) []*model.User {
	exact := make(map[string]*model.User, len(users))
	folded := make(map[string][]*model.User, len(users))
	for i := range users {
		u := &users[i]
		exact[u.UserName] = u
		key := strings.ToLower(u.UserName)
		folded[key] = append(folded[key], u)
	}

	seen := make(map[int64]struct{}, len(usernames))
	targets := make([]*model.User, 0, len(usernames))
	for _, name := range usernames {
		u, ok := exact[name]
		if !ok {
			candidates := folded[strings.ToLower(name)]
			if len(candidates) != 1 {
				continue
			}
			u = candidates[0]
		}
		if _, dup := seen[u.ID]; dup {
			continue
		}
		seen[u.ID] = struct{}{}
		targets = append(targets, u)
	}
	return targets
}

// evaluate 读取双方关系与拉黑状态后计算权限
func evaluate(ctx context.Context, tx *repository.Store, actorID int64, target *model.User) (privacy.Decision, error) {
	blocked, err := tx.Blocks.ExistsEither(ctx, actorID, target.ID)
	if err != nil {
		return privacy.Decision{}, errors.Wrap(err, "check block")
	}
	following, err := tx.Relations.Exists(ctx, actorID, target.ID)
	if err != nil {
		return privacy.Decision{}, errors.Wrap(err, "check relation")
	}
	return privacy.Evaluate(privacy.Input{
		ActorID:   actorID,
		TargetID:  target.ID,
		Target:    target.Privacy,
		Following: following,
		Blocked:   blocked,
	}), nil
}

// checkParent 校验父评论并持有共享锁，与 PurgeLeaf 的排他锁互斥，保证回复不会指向被删除的行
func checkParent(ctx context.Context, tx *repository.Store, parentID, videoID int64) error {
	parent, err := tx.Comments.GetForReply(ctx, parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParentNotFound
		}
		return errors.Wrap(err, "get parent comment")
	}
	if parent.VideoID != videoID {
		return ErrParentVideoMismatch
	}
	if parent.IsDeleted {
		return ErrParentDeleted
	}
	return nil
}

func getVideo(ctx context.Context, store *repository.Store, id int64) (*model.Video, error) {
	video, err := store.Videos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, errors.Wrap(err, "get video")
	}
	return video, nil
}

// getActiveComment 已软删除的评论视为不存在
func getActiveComment(ctx context.Context, store *repository.Store, id int64) (*model.Comment, error) {
	comment, err := store.Comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, errors.Wrap(err, "get comment")
	}
	if comment.IsDeleted {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}

func toCommentInfo(c *model.Comment, likeCount, replyCount int64, isLiked bool) dto.CommentInfo {
	author := dto.UserBrief{ID: c.AuthorID}
	if c.Author.ID != 0 {
		author = toUserBrief(&c.Author)
	}
	return dto.CommentInfo{
		ID:         c.ID,
		Author:     author,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
		ParentID:   c.ParentID,
		LikeCount:  likeCount,
		ReplyCount: replyCount,
		IsLiked:    isLiked,
		IsDeleted:  c.IsDeleted,
		DeletedBy:  c.DeletedBy,
	}
}
