// Package ratelimit 实现基于 Redis 的固定窗口限流。
//
// 登录这类场景超限时应当直接拒绝而不是排队等待，所以这里用
// INCR+PEXPIRE 的固定窗口计数而非令牌桶。
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const fixedWindowLua = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window_ms = tonumber(ARGV[2])

local count = redis.call("INCR", key)
if count == 1 then
  redis.call("PEXPIRE", key, window_ms)
end

if count > limit then
  return 0
end
return 1
`

// Limiter 固定窗口限流器。
type Limiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
	script *redis.Script
}

// NewFixedWindowLimiter 创建限流器。
//
// 参数:
//
//	rdb: Redis 客户端
//	prefix: 键前缀（按业务区分，如 "cutshort:ratelimit:login:"）
//	limit: 窗口内允许的次数
//	window: 窗口长度
func NewFixedWindowLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) *Limiter {
	if prefix == "" {
		prefix = "cutshort:ratelimit:"
	}
	if window <= 0 {
		window = time.Minute
	}
	return &Limiter{
		rdb:    rdb,
		prefix: prefix,
		limit:  limit,
		window: window,
		script: redis.NewScript(fixedWindowLua),
	}
}

// Allow 报告 key 在当前窗口内是否还允许一次尝试。
//
// limit <= 0 或未配置 Redis 时限流关闭，总是放行。
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.rdb == nil || l.limit <= 0 {
		return true, nil
	}

	res, err := l.script.Run(ctx, l.rdb, []string{l.prefix + key}, l.limit, l.window.Milliseconds()).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit eval: %w", err)
	}

	allowed, ok := res.(int64)
	if !ok {
		return false, fmt.Errorf("ratelimit invalid result")
	}
	return allowed == 1, nil
}
