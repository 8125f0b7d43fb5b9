package service

import (
	"context"
	"sync"
	"testing"

	"vida-social/internal/model"
	"vida-social/internal/repository"
	"vida-social/internal/repository/repotest"

	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu          sync.Mutex
	events      []model.Notification
	calls       int
	hasDeadline bool
	err         error
}

func (p *fakePublisher) PublishNotifications(ctx context.Context, notifications ...*model.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	_, p.hasDeadline = ctx.Deadline()
	if p.err != nil {
		return p.err
	}
	for _, n := range notifications {
		p.events = append(p.events, *n)
	}
	return nil
}

func (p *fakePublisher) batches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *fakePublisher) published() []model.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Notification(nil), p.events...)
}

// fakeCounter 与 Redis 实现一致：键不存在时 Incr 不生效
type fakeCounter struct {
	mu     sync.Mutex
	counts map[int64]int64
	getErr error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[int64]int64{}}
}

func (c *fakeCounter) Incr(_ context.Context, userIDs ...int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		if _, ok := c.counts[id]; ok {
			c.counts[id]++
		}
	}
	return nil
}

func (c *fakeCounter) Get(_ context.Context, userID int64) (int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	n, ok := c.counts[userID]
	return n, ok, nil
}

func (c *fakeCounter) Set(_ context.Context, userID, count int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[userID] = count
	return nil
}

type testEnv struct {
	ctx           context.Context
	store         *repository.Store
	publisher     *fakePublisher
	counter       *fakeCounter
	notifications *NotificationService
	relations     *RelationService
	comments      *CommentService
	blocks        *BlockService
	users         *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repotest.NewStore(t)
	publisher := &fakePublisher{}
	counter := newFakeCounter()
	notifications := NewNotificationService(store, publisher, counter)
	return &testEnv{
		ctx:           context.Background(),
		store:         store,
		publisher:     publisher,
		counter:       counter,
		notifications: notifications,
		relations:     NewRelationService(store, notifications),
		comments:      NewCommentService(store, notifications),
		blocks:        NewBlockService(store),
		users:         NewUserService(store),
	}
}

func (e *testEnv) count(t *testing.T, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := e.store.DB().Model(m)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func (e *testEnv) notificationsOf(t *testing.T, recipientID int64, typ model.NotificationType) []model.Notification {
	t.Helper()
	var list []model.Notification
	require.NoError(t, e.store.DB().
		Where("recipient_id = ? AND type = ?", recipientID, typ).
		Order("id").Find(&list).Error)
	return list
}

func (e *testEnv) follow(t *testing.T, actorID, targetID int64) {
	t.Helper()
	res, err := e.relations.Request(e.ctx, actorID, targetID)
	require.NoError(t, err)
	require.Equal(t, FollowStatusFollowing, res.Status)
}
