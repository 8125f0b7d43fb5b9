package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 仅在缓存已存在时自增，避免在冷缓存上写入一个偏小的未读数
var incrIfExists = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("INCR", KEYS[1])
end
return false
`)

const (
	unreadKeyPrefix   = "notify:unread:"
	userChannelPrefix = "notify:user:"
)

func unreadKey(userID int64) string {
	return fmt.Sprintf("%s%d", unreadKeyPrefix, userID)
}

// UserChannel 用户实时通知频道
func UserChannel(userID int64) string {
	return fmt.Sprintf("%s%d", userChannelPrefix, userID)
}

// UnreadCounter 基于 Redis 的未读通知数缓存
type UnreadCounter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUnreadCounter(client *redis.Client, ttl time.Duration) *UnreadCounter {
	return &UnreadCounter{client: client, ttl: ttl}
}

// Incr 每个用户未读数 +1（同一用户出现多次则累加多次），一次管道往返完成。
// 缓存不存在时忽略，下次读取时回源重建
func (u *UnreadCounter) Incr(ctx context.Context, userIDs ...int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	pipe := u.client.Pipeline()
	for _, id := range userIDs {
		incrIfExists.Eval(ctx, pipe, []string{unreadKey(id)})
	}
	cmds, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	for _, cmd := range cmds {
		if err := cmd.Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
	}
	return nil
}

// Get 读取未读数，第二个返回值表示是否命中缓存
func (u *UnreadCounter) Get(ctx context.Context, userID int64) (int64, bool, error) {
	n, err := u.client.Get(ctx, unreadKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// Set 写入未读数
func (u *UnreadCounter) Set(ctx context.Context, userID, count int64) error {
	return u.client.Set(ctx, unreadKey(userID), count, u.ttl).Err()
}

// Publish 向用户实时频道推送一条已编码的通知
func Publish(ctx context.Context, client *redis.Client, userID int64, payload []byte) error {
	return client.Publish(ctx, UserChannel(userID), payload).Err()
}
