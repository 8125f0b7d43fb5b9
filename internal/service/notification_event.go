package service

import (
	"vida-social/internal/model"

	"github.com/pkg/errors"
)

// NotificationEvent 通知事件，每种通知类型一个变体，各自声明必填字段
type NotificationEvent interface {
	notification() (*model.Notification, error)
}

// FollowEvent 直接关注
type FollowEvent struct {
	RecipientID int64
	ActorID     int64
}

// FollowRequestEvent 向需要审批的账号发起关注请求
type FollowRequestEvent struct {
	RecipientID int64
	ActorID     int64
	RequestID   int64
}

// FollowAcceptedEvent 关注请求被通过，通知请求发起人
type FollowAcceptedEvent struct {
	RecipientID int64
	ActorID     int64
}

// CommentEvent 视频收到新评论，通知视频作者
type CommentEvent struct {
	RecipientID int64
	ActorID     int64
	CommentID   int64
	Text        string
}

// MentionEvent 评论中 @ 了某个用户
type MentionEvent struct {
	RecipientID int64
	ActorID     int64
	CommentID   int64
	Text        string
}

func requireParties(recipientID, actorID int64) error {
	if recipientID <= 0 || actorID <= 0 {
		return errors.Errorf("notification requires recipient and actor, got recipient=%d actor=%d", recipientID, actorID)
	}
	return nil
}

func (e FollowEvent) notification() (*model.Notification, error) {
	if err := requireParties(e.RecipientID, e.ActorID); err != nil {
		return nil, err
	}
	return &model.Notification{
		RecipientID: e.RecipientID,
		ActorID:     e.ActorID,
		Type:        model.NotificationFollow,
		EntityID:    e.ActorID,
		EntityType:  model.EntityUser,
	}, nil
}

func (e FollowRequestEvent) notification() (*model.Notification, error) {
	if err := requireParties(e.RecipientID, e.ActorID); err != nil {
		return nil, err
	}
	if e.RequestID <= 0 {
		return nil, errors.New("follow_request notification requires request id")
	}
	return &model.Notification{
		RecipientID: e.RecipientID,
		ActorID:     e.ActorID,
		Type:        model.NotificationFollowRequest,
		EntityID:    e.RequestID,
		EntityType:  model.EntityFollowRequest,
	}, nil
}

func (e FollowAcceptedEvent) notification() (*model.Notification, error) {
	if err := requireParties(e.RecipientID, e.ActorID); err != nil {
		return nil, err
	}
	return &model.Notification{
		RecipientID: e.RecipientID,
		ActorID:     e.ActorID,
		Type:        model.NotificationFollowAccepted,
		EntityID:    e.ActorID,
		EntityType:  model.EntityUser,
	}, nil
}

func commentNotification(typ model.NotificationType, recipientID, actorID, commentID int64, text string) (*model.Notification, error) {
	if err := requireParties(recipientID, actorID); err != nil {
		return nil, err
	}
	if commentID <= 0 {
		return nil, errors.Errorf("%s notification requires comment id", typ)
	}
	return &model.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        typ,
		EntityID:    commentID,
		EntityType:  model.EntityComment,
		Text:        Snippet(text),
	}, nil
}

func (e CommentEvent) notification() (*model.Notification, error) {
	return commentNotification(model.NotificationComment, e.RecipientID, e.ActorID, e.CommentID, e.Text)
}

func (e MentionEvent) notification() (*model.Notification, error) {
	return commentNotification(model.NotificationMention, e.RecipientID, e.ActorID, e.CommentID, e.Text)
}
