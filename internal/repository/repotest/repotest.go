// Package repotest 提供基于内存 SQLite 的仓储测试夹具
package repotest

import (
	"context"
	"testing"

	"vida-social/internal/infra/database"
	"vida-social/internal/model"
	"vida-social/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewStore 为每个测试创建独立的内存数据库并完成迁移。
// 内存库只存在于单个连接上，因此连接池固定为 1
func NewStore(t testing.TB) *repository.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return repository.NewStore(db)
}

// UserOption 调整测试用户
type UserOption func(*model.User)

// Private 私密账号（未显式设置审批，由 IsPublic 推导为需要审批）
func Private() UserOption {
	return func(u *model.User) { u.Privacy.IsPublic = false }
}

// RequireApproval 显式设置是否需要审批
func RequireApproval(v bool) UserOption {
	return func(u *model.User) { u.Privacy.RequireFollowApproval = &v }
}

// CommentPermission 设置评论权限
func CommentPermission(p model.CommentPermission) UserOption {
	return func(u *model.User) { u.Privacy.CommentPermission = p }
}

// MentionPermission 设置 @提及权限
func MentionPermission(p model.MentionPermission) UserOption {
	return func(u *model.User) { u.Privacy.MentionPermission = p }
}

// CreateUser 创建测试用户
func CreateUser(t testing.TB, store *repository.Store, username string, opts ...UserOption) *model.User {
	t.Helper()
	user := &model.User{
		UserName:    username,
		DisplayName: username,
		Privacy:     model.DefaultPrivacy(),
	}
	for _, opt := range opts {
		opt(user)
	}
	require.NoError(t, store.Users.Create(context.Background(), user))
	return user
}

// CreateVideo 创建测试视频
func CreateVideo(t testing.TB, store *repository.Store, authorID int64) *model.Video {
	t.Helper()
	video := &model.Video{AuthorID: authorID, Title: "clip", Status: model.VideoStatusPublished}
	require.NoError(t, store.Videos.Create(context.Background(), video))
	return video
}

// Block 创建拉黑记录
func Block(t testing.TB, store *repository.Store, blockerID, blockedID int64) {
	t.Helper()
	_, err := store.Blocks.Create(context.Background(), blockerID, blockedID)
	require.NoError(t, err)
}

// Reload 重新读取用户
func Reload(t testing.TB, store *repository.Store, id int64) *model.User {
	t.Helper()
	user, err := store.Users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return user
}
