// Package tokendeny 维护已注销令牌的 Redis 黑名单。
//
// 注销时按令牌 jti 写入一个带 TTL 的键，TTL 取令牌剩余有效期，
// 令牌自然过期后键也随之消失，无需清理任务。
package tokendeny

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cutshort:tokendeny:"

// Denylist 基于 Redis 的令牌黑名单。
type Denylist struct {
	rdb *redis.Client
}

// NewDenylist 创建黑名单。
func NewDenylist(rdb *redis.Client) *Denylist {
	return &Denylist{rdb: rdb}
}

// Deny 将 jti 加入黑名单，直到 ttl 之后自动移除。
func (d *Denylist) Deny(ctx context.Context, jti string, ttl time.Duration) error {
	if d == nil || d.rdb == nil || jti == "" {
		return nil
	}
	if ttl <= 0 {
		// 已过期的令牌本来就无法通过校验
		return nil
	}
	if err := d.rdb.Set(ctx, keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("tokendeny set: %w", err)
	}
	return nil
}

// IsDenied 判断 jti 是否在黑名单内。
func (d *Denylist) IsDenied(ctx context.Context, jti string) (bool, error) {
	if d == nil || d.rdb == nil || jti == "" {
		return false, nil
	}
	n, err := d.rdb.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("tokendeny exists: %w", err)
	}
	return n > 0, nil
}
