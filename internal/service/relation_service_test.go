package service

import (
	"sync"
	"testing"
	"time"

	"vida-social/internal/model"
	"vida-social/internal/repository/repotest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestPublicAccountIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	a := repotest.CreateUser(t, env.store, "alice")
	b := repotest.CreateUser(t, env.store, "bob", repotest.RequireApproval(false))

	first, err := env.relations.Request(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowStatusFollowing, first.Status)
	assert.True(t, first.Created)

	second, err := env.relations.Request(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowStatusFollowing, second.Status)
	assert.False(t, second.Created)

	assert.Equal(t, int64(1), env.count(t, &model.Relation{}, ""))
	assert.Len(t, env.notificationsOf(t, b.ID, model.NotificationFollow), 1)
	assert.Len(t, env.publisher.published(), 1)
	assert.Equal(t, int64(1), repotest.Reload(t, env.store, a.ID).FollowingCount)
	assert.Equal(t, int64(1), repotest.Reload(t, env.store, b.ID).FollowerCount)
}

func TestRequestConcurrentCallsCreateOneEdge(t *testing.T) {
	env := newTestEnv(t)
	a := repotest.CreateUser(t, env.store, "alice")
	b := repotest.CreateUser(t, env.store, "bob")

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.relations.Request(env.ctx, a.ID, b.ID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), env.count(t, &model.Relation{}, ""))
	assert.Len(t, env.notificationsOf(t, b.ID, model.NotificationFollow), 1)
	assert.Equal(t, int64(1), repotest.Reload(t, env.store, b.ID).FollowerCount)
}


func TestRequestConcurrentCallsCreateOneRequest(t *testing.T) {
	env := newTestEnv(t)
	a := repotest.CreateUser(t, env.store, "alice")
	b := repotest.CreateUser(t, env.store, "bob", repotest.Private())

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	statuses := make([]string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := env.relations.Request(env.ctx, a.ID, b.ID)
			errs[i] = err
			if res != nil {
				statuses[i] = res.Status
			}
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err)
		assert.Equal(t, FollowStatusRequested, statuses[i])
	}
	assert.Equal(t, int64(1), env.count(t, &model.FollowRequest{}, ""))
	assert.Zero(t, env.count(t, &model.Relation{}, ""))
	assert.Len(t, env.notificationsOf(t, b.ID, model.NotificationFollowRequest), 1)
	assert.Zero(t, repotest.Reload(t, env.store, b.ID).FollowerCount)
}

func TestRequestRequiresApproval(t *testing.T) {
	env := newTestEnv(t)
	a := repotest.CreateUser(t, env.store, "alice")
	b := repotest.CreateUser(t, env.store, "bob", repotest.RequireApproval(true))

	for i := 0; i < 2; i++ {
		res, err := env.relations.Request(env.ctx, a.ID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, FollowStatusRequested, res.Status)
		assert.False(t, res.Created)
	}

	assert.Zero(t, env.count(t, &model.Relation{}, ""))
	assert.Equal(t, int64(1), env.count(t, &model.FollowRequest{}, "status = ?", model.FollowRequestPending))
	assert.Len(t, env.notificationsOf(t, b.ID, model.NotificationFollowRequest), 1)
	assert.Zero(t, repotest.Reload(t, env.store, b.ID).FollowerCount)

	status, err := env.relations.Status(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowStatusRequested, status)
}

func TestRequiresApprovalDerivation(t *testing.T) {
	tests := []struct {
		name string
		opts []repotest.UserOption
		want string
	}{
		{"public default", nil, FollowStatusFollowing},
		{"private default", []repotest.UserOption{repotest.Private()}, FollowStatusRequested},
		{"private with approval disabled", []repotest.UserOption{repotest.Private(), repotest.RequireApproval(false)}, FollowStatusFollowing},
		{"public with approval enabled", []repotest.UserOption{repotest.RequireApproval(true)}, FollowStatusRequested},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			a := repotest.CreateUser(t, env.store, "alice")
			b := repotest.CreateUser(t, env.store, "bob", tt.opts...)

			res, err := env.relations.Request(env.ctx, a.ID, b.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
		})
	}
}

func TestRequestRejectsSelfAndMissingTarget(t *testing.T) {
	env := newTestEnv(t)
	a := repotest.CreateUser(t, env.store, "alice")

	_, err := env.relations.Request(env.ctx, a.ID, a.ID)
	assert.ErrorIs(t, err, ErrCannotFollowSelf)
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = env.relations.Request(env.ctx, a.ID, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRequestBlockedEitherDirection(t *testing.T) {
	for _, dir := range []string{"actor blocked target", "target blocked actor"} {
		t.Run(dir, func(t *testing.T) {
			env := newTestEnv(t)
			a := repotest.CreateUser(t, env.store, "alice")
			b := repotest.CreateUser(t, env.store, "bob", repotest.Private())
			if dir == "actor blocked target" {
				repotest.Block(t, env.store, a.ID, b.ID)
			} else {
				repotest.Block(t, env.store, b.ID, a.ID)
			}

			_, err := env.relations.Request(env.ctx, a.ID, b.ID)
			assert.ErrorIs(t, err, ErrBlocked)
			assert.Zero(t, env.count(t, &model.Relation{}, ""))
			assert.Zero(t, env.count(t, &model.FollowRequest{}, ""))
			assert.Zero(t, env.count(t, &model.Notification{}, ""))
		})
	}
}

func TestRequestBlockedAfterFollowing(t *testing.T) {
	env := newTestEnv(t)
	a := repotest.CreateUser(t, env.store, "alice")
	b := repotest.CreateUser(t, env.store, "bob")
	env.follow(t, a.ID, b.ID)

	_, err := env.blocks.Block(env.ctx, b.ID, a.ID)
	require.NoError(t, err)

	_, err = env.relations.Request(env.ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, ErrBlocked)
	assert.Equal(t, int64(1), env.count(t, &model.Relation{}, ""), "existing edges are not removed by a block")
}

func TestCancel(t *testing.T) {
	env := newTestEnv(t)
	a := repotest.CreateUser(t, env.store, "alice")
	b := repotest.CreateUser(t, env.store, "bob")
	env.follow(t, a.ID, b.ID)
	notificationsBefore := env.count(t, &model.Notification{}, "")

	res, err := env.relations.Cancel(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowStatusNotFollowing, res.Status)
	assert.Zero(t, env.count(t, &model.Relation{}, ""))
	assert.Zero(t, repotest.Reload(t, env.store, a.ID).FollowingCount)
	assert.Zero(t, repotest.Reload(t, env.store, b.ID).FollowerCount)

	res, err = env.relations.Cancel(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowStatusNotFollowing, res.Status)
	assert.Zero(t, repotest.Reload(t, env.store, a.ID).FollowingCount)
	assert.Zero(t, repotest.Reload(t, env.store, b.ID).FollowerCount)

	assert.Equal(t, notificationsBefore, env.count(t, &model.Notification{}, ""))
}

func TestCancelWithdrawsPendingRequest(t *testing.T) {
	env := newTestEnv(t)
	a := repotest.CreateUser(t, env.store, "alice")
	b := repotest.CreateUser(t, env.store, "bob", repotest.Private())

	_, err := env.relations.Request(env.ctx, a.ID, b.ID)
	require.NoError(t, err)

	_, err = env.relations.Cancel(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Zero(t, env.count(t, &model.FollowRequest{}, ""))

	status, err := env.relations.Status(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowStatusNotFollowing, status)
}

func TestApprove(t *testing.T) {
	env := newTestEnv(t)
	a := repotest.CreateUser(t, env.store, "alice")
	b := repotest.CreateUser(t, env.store, "bob", repotest.Private())
	c := repotest.CreateUser(t, env.store, "carol")

	_, err := env.relations.Request(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	req, err := env.store.FollowRequests.GetByPair(env.ctx, a.ID, b.ID)
	require.NoError(t, err)

	_, err = env.relations.Approve(env.ctx, c.ID, req.ID)
	assert.ErrorIs(t, err, ErrFollowRequestNoPermission)

	res, err := env.relations.Approve(env.ctx, b.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", res.Status)

	exists, err := env.store.Relations.Exists(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, int64(1), repotest.Reload(t, env.store, a.ID).FollowingCount)
	assert.Equal(t, int64(1), repotest.Reload(t, env.store, b.ID).FollowerCount)
	assert.Zero(t, env.count(t, &model.FollowRequest{}, "status = ?", model.FollowRequestPending))

	accepted := env.notificationsOf(t, a.ID, model.NotificationFollowAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, b.ID, accepted[0].ActorID)

	_, err = env.relations.Approve(env.ctx, b.ID, req.ID)
	assert.ErrorIs(t, err, ErrFollowRequestNotFound)

	_, err = env.relations.Approve(env.ctx, b.ID, 4242)
	assert.ErrorIs(t, err, ErrFollowRequestNotFound)
}

func TestApproveBlockedPair(t *testing.T) {
	env := newTestEnv(t)
	a := repotest.CreateUser(t, env.store, "alice")
	b := repotest.CreateUser(t, env.store, "bob", repotest.Private())

	_, err := env.relations.Request(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	req, err := env.store.FollowRequests.GetByPair(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	repotest.Block(t, env.store, a.ID, b.ID)

	_, err = env.relations.Approve(env.ctx, b.ID, req.ID)
	assert.ErrorIs(t, err, ErrBlocked)
	assert.Zero(t, env.count(t, &model.Relation{}, ""))
}

func TestRejectThenReRequest(t *testing.T) {
	env := newTestEnv(t)
	a := repotest.CreateUser(t, env.store, "alice")
	b := repotest.CreateUser(t, env.store, "bob", repotest.Private())

	clock := time.Now().Add(-time.Hour)
	env.relations.now = func() time.Time { return clock }

	_, err := env.relations.Request(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	req, err := env.store.FollowRequests.GetByPair(env.ctx, a.ID, b.ID)
	require.NoError(t, err)

	res, err := env.relations.Reject(env.ctx, b.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "rejected", res.Status)

	rejected, err := env.store.FollowRequests.GetByID(env.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FollowRequestRejected, rejected.Status)

	clock = clock.Add(30 * time.Minute)
	again, err := env.relations.Request(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowStatusRequested, again.Status)

	reopened, err := env.store.FollowRequests.GetByID(env.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FollowRequestPending, reopened.Status)
	assert.True(t, reopened.RequestedAt.After(req.RequestedAt))
	assert.Equal(t, int64(1), env.count(t, &model.FollowRequest{}, ""))
	assert.Len(t, env.notificationsOf(t, b.ID, model.NotificationFollowRequest), 2)
}

func TestAcceptedThenUnfollowedReRequestIsPending(t *testing.T) {
	env := newTestEnv(t)
	a := repotest.CreateUser(t, env.store, "alice")
	b := repotest.CreateUser(t, env.store, "bob", repotest.Private())

	_, err := env.relations.Request(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	req, err := env.store.FollowRequests.GetByPair(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = env.relations.Approve(env.ctx, b.ID, req.ID)
	require.NoError(t, err)
	_, err = env.relations.Cancel(env.ctx, a.ID, b.ID)
	require.NoError(t, err)

	res, err := env.relations.Request(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowStatusRequested, res.Status)

	reopened, err := env.store.FollowRequests.GetByID(env.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FollowRequestPending, reopened.Status)
}

func TestFollowLists(t *testing.T) {
	env := newTestEnv(t)
	a := repotest.CreateUser(t, env.store, "alice")
	b := repotest.CreateUser(t, env.store, "bob")
	c := repotest.CreateUser(t, env.store, "carol")
	env.follow(t, a.ID, b.ID)
	env.follow(t, c.ID, b.ID)
	env.follow(t, a.ID, c.ID)

	followers, err := env.relations.GetFollowerList(env.ctx, b.ID, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), followers.TotalCount)
	assert.True(t, followers.HasMore)
	require.Len(t, followers.Users, 1)
	assert.Equal(t, c.ID, followers.Users[0].ID, "newest follower first")

	following, err := env.relations.GetFollowingList(env.ctx, a.ID, 0, 20)
	require.NoError(t, err)
	assert.False(t, following.HasMore)
	require.Len(t, following.Users, 2)
	assert.Equal(t, c.ID, following.Users[0].ID)
	assert.Equal(t, b.ID, following.Users[1].ID)
	assert.Equal(t, int64(2), following.Users[1].FollowerCount)

	_, err = env.relations.GetFollowerList(env.ctx, 9999, 0, 20)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestIncomingRequests(t *testing.T) {
	env := newTestEnv(t)
	a := repotest.CreateUser(t, env.store, "alice")
	c := repotest.CreateUser(t, env.store, "carol")
	b := repotest.CreateUser(t, env.store, "bob", repotest.Private())

	_, err := env.relations.Request(env.ctx, a.ID, b.ID)
	require.NoError(t, err)
	_, err = env.relations.Request(env.ctx, c.ID, b.ID)
	require.NoError(t, err)

	list, err := env.relations.IncomingRequests(env.ctx, b.ID, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.TotalCount)
	require.Len(t, list.Requests, 2)
	assert.Equal(t, "carol", list.Requests[0].Requester.Username)
	assert.Equal(t, "alice", list.Requests[1].Requester.Username)

	empty, err := env.relations.IncomingRequests(env.ctx, a.ID, 0, 20)
	require.NoError(t, err)
	assert.Empty(t, empty.Requests)
}
