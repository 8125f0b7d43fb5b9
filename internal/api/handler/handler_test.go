package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vida-social/internal/api/handler"
	"vida-social/internal/api/middleware"
	"vida-social/internal/api/router"
	"vida-social/internal/model"
	"vida-social/internal/repository"
	"vida-social/internal/repository/repotest"
	"vida-social/internal/service"
	"vida-social/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type server struct {
	t      *testing.T
	store  *repository.Store
	engine *gin.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repotest.NewStore(t)
	notifications := service.NewNotificationService(store, nil, nil)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery())
	router.Setup(r,
		testSecret,
		handler.NewUserHandler(service.NewUserService(store)),
		handler.NewRelationHandler(service.NewRelationService(store, notifications)),
		handler.NewBlockHandler(service.NewBlockService(store)),
		handler.NewCommentHandler(service.NewCommentService(store, notifications)),
		handler.NewNotificationHandler(notifications),
	)

	return &server{t: t, store: store, engine: r}
}

func (s *server) token(userID int64) string {
	s.t.Helper()
	token, err := utils.GenerateToken(userID, testSecret, "test", time.Hour)
	require.NoError(s.t, err)
	return token
}

// do 发送请求，actorID 为 0 时不携带 Token
func (s *server) do(method, path string, actorID int64, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actorID > 0 {
		req.Header.Set("Authorization", "Bearer "+s.token(actorID))
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func errorType(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, w)
	errBody, ok := body["error"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	return errBody["type"].(string)
}

func TestAuthRequired(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/v1/follows", 0, map[string]int64{"targetId": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", errorType(t, w))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFollowEndpoints(t *testing.T) {
	s := newServer(t)
	a := repotest.CreateUser(t, s.store, "alice")
	b := repotest.CreateUser(t, s.store, "bob")

	w := s.do(http.MethodPost, "/api/v1/follows", a.ID, map[string]int64{"targetId": b.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "following", decode(t, w)["status"])

	w = s.do(http.MethodPost, "/api/v1/follows", a.ID, map[string]int64{"targetId": b.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "following", decode(t, w)["status"])

	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/follows?targetId=%d", b.ID), a.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["isFollowing"])

	w = s.do(http.MethodDelete, "/api/v1/follows", a.ID, map[string]int64{"targetId": b.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "not_following", decode(t, w)["status"])

	w = s.do(http.MethodDelete, "/api/v1/follows", a.ID, map[string]int64{"targetId": b.ID})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/api/v1/follows", a.ID, map[string]int64{"targetId": a.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/v1/follows", a.ID, map[string]int64{"targetId": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/follows", a.ID, map[string]string{"targetId": "bob"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/follows?targetId=abc", a.ID, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFollowRequestEndpoints(t *testing.T) {
	s := newServer(t)
	a := repotest.CreateUser(t, s.store, "alice")
	b := repotest.CreateUser(t, s.store, "bob", repotest.Private())

	w := s.do(http.MethodPost, "/api/v1/follows", a.ID, map[string]int64{"targetId": b.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "requested", decode(t, w)["status"])

	w = s.do(http.MethodGet, "/api/v1/follow-requests", b.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["totalCount"])
	requests := body["requests"].([]interface{})
	require.Len(t, requests, 1)
	requestID := int64(requests[0].(map[string]interface{})["id"].(float64))

	w = s.do(http.MethodPost, fmt.Sprintf("/api/v1/follow-requests/%d/approve", requestID), a.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/v1/follow-requests/%d/approve", requestID), b.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "accepted", decode(t, w)["status"])

	w = s.do(http.MethodPost, fmt.Sprintf("/api/v1/follow-requests/%d/reject", requestID), b.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/followers", b.ID), 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, float64(1), body["totalCount"])
	assert.Equal(t, false, body["hasMore"])
}

func TestBlockEndpoints(t *testing.T) {
	s := newServer(t)
	a := repotest.CreateUser(t, s.store, "alice")
	b := repotest.CreateUser(t, s.store, "bob")

	w := s.do(http.MethodPost, "/api/v1/blocks", b.ID, map[string]int64{"targetId": a.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "blocked", decode(t, w)["status"])

	w = s.do(http.MethodPost, "/api/v1/follows", a.ID, map[string]int64{"targetId": b.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", errorType(t, w))

	w = s.do(http.MethodDelete, "/api/v1/blocks", b.ID, map[string]int64{"targetId": a.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "unblocked", decode(t, w)["status"])

	w = s.do(http.MethodPost, "/api/v1/follows", a.ID, map[string]int64{"targetId": b.ID})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUserEndpoints(t *testing.T) {
	s := newServer(t)
	a := repotest.CreateUser(t, s.store, "alice")

	w := s.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d", a.ID), 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "not_following", body["followStatus"])

	w = s.do(http.MethodPut, "/api/v1/users/me/privacy", a.ID, map[string]interface{}{
		"commentPermission":     "followers",
		"requireFollowApproval": nil,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decode(t, w)
	assert.Equal(t, "followers", body["commentPermission"])
	assert.Nil(t, body["requireFollowApproval"])

	w = s.do(http.MethodPut, "/api/v1/users/me/privacy", a.ID, map[string]interface{}{"mentionPermission": "nobody"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/users/9999", 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentEndpoints(t *testing.T) {
	s := newServer(t)
	owner := repotest.CreateUser(t, s.store, "owner")
	a := repotest.CreateUser(t, s.store, "alice")
	video := repotest.CreateVideo(t, s.store, owner.ID)

	w := s.do(http.MethodPost, "/api/v1/comments", a.ID, map[string]interface{}{"videoId": video.ID, "text": "hello @owner"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, float64(1), body["totalCount"])
	comment := body["comment"].(map[string]interface{})
	commentID := int64(comment["id"].(float64))
	assert.Equal(t, "hello @owner", comment["text"])
	assert.Nil(t, comment["parentId"])
	assert.Equal(t, false, comment["isDeleted"])
	assert.Equal(t, "alice", comment["author"].(map[string]interface{})["username"])

	w = s.do(http.MethodPost, "/api/v1/comments", a.ID, map[string]interface{}{"videoId": video.ID, "text": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/comments", a.ID, map[string]interface{}{"videoId": 9999, "text": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, fmt.Sprintf("/api/v1/comments/%d/like", commentID), owner.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["likeCount"])

	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/comments?videoId=%d", video.ID), 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, float64(1), body["totalCount"])
	assert.Equal(t, false, body["hasMore"])
	rows := body["comments"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, float64(1), rows[0].(map[string]interface{})["likeCount"])
	assert.Equal(t, false, rows[0].(map[string]interface{})["isLiked"])

	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/comments?videoId=%d", video.ID), owner.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows = decode(t, w)["comments"].([]interface{})
	assert.Equal(t, true, rows[0].(map[string]interface{})["isLiked"])

	w = s.do(http.MethodDelete, "/api/v1/comments", owner.ID, map[string]int64{"commentId": commentID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["totalCount"])

	w = s.do(http.MethodDelete, "/api/v1/comments", owner.ID, map[string]int64{"commentId": commentID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/comments", 0, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentRestrictedMessage(t *testing.T) {
	s := newServer(t)
	owner := repotest.CreateUser(t, s.store, "owner", repotest.CommentPermission(model.CommentFollowers))
	c := repotest.CreateUser(t, s.store, "carol")
	video := repotest.CreateVideo(t, s.store, owner.ID)
	body := map[string]interface{}{"videoId": video.ID, "text": "let me in"}

	w := s.do(http.MethodPost, "/api/v1/comments", c.ID, body)
	require.Equal(t, http.StatusForbidden, w.Code)
	errBody := decode(t, w)["error"].(map[string]interface{})
	assert.Equal(t, service.ErrCommentRestricted.Error(), errBody["message"])

	w = s.do(http.MethodPost, "/api/v1/follows", c.ID, map[string]int64{"targetId": owner.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/api/v1/comments", c.ID, body)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestNotificationEndpoints(t *testing.T) {
	s := newServer(t)
	a := repotest.CreateUser(t, s.store, "alice")
	b := repotest.CreateUser(t, s.store, "bob")

	w := s.do(http.MethodPost, "/api/v1/follows", a.ID, map[string]int64{"targetId": b.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/v1/notifications/unread-count", b.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["unreadCount"])

	w = s.do(http.MethodGet, "/api/v1/notifications?limit=500", b.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)["notifications"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "follow", list[0].(map[string]interface{})["type"])

	w = s.do(http.MethodPost, "/api/v1/notifications/read", b.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["unreadCount"])
}
