package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	rediskey "PulseServer/consts/redisKey"
	"PulseServer/pkg/logger"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// luaTokenBucket 令牌桶限流脚本
// KEYS[1]: 限流 key
// ARGV[1]: 桶容量
// ARGV[2]: 每秒补充速率
// ARGV[3]: 当前时间戳（毫秒）
// 返回: 1 允许, 0 拒绝
const luaTokenBucket = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local bucket = redis.call('HMGET', key, 'tokens', 'last_time')
local tokens = tonumber(bucket[1])
local last_time = tonumber(bucket[2])

if tokens == nil then
    tokens = capacity
    last_time = now
end

-- 按时间差补充令牌（毫秒精度）
local delta = math.max(0, now - last_time)
tokens = math.min(capacity, tokens + delta * rate / 1000)

local allowed = 0
if tokens >= 1 then
    tokens = tokens - 1
    allowed = 1
end

redis.call('HMSET', key, 'tokens', tokens, 'last_time', now)
-- 过期时间取桶填满所需时间的 2 倍，至少 60 秒
redis.call('EXPIRE', key, math.max(60, math.ceil(capacity / rate) * 2))

return allowed
`

const redisRateLimitTimeout = 50 * time.Millisecond

// localLimiterCacheSize 本地降级限流器缓存的客户端数量上限
const localLimiterCacheSize = 4096

// RateLimiter 分布式限流器
// 优先走 Redis 令牌桶保证多实例一致；Redis 不可用时降级为
// 进程内 x/time 令牌桶（按客户端 LRU 缓存），而不是直接放行。
type RateLimiter struct {
	redisClient *redis.Client
	rate        float64 // 每秒补充令牌数
	capacity    int     // 桶容量
	local       *lru.Cache[string, *rate.Limiter]
	mu          sync.Mutex
}

// NewRateLimiter 创建限流器
// redisClient 可以为 nil，此时只使用本地令牌桶
func NewRateLimiter(redisClient *redis.Client, ratePerSec float64, capacity int) *RateLimiter {
	localCache, _ := lru.New[string, *rate.Limiter](localLimiterCacheSize)
	return &RateLimiter{
		redisClient: redisClient,
		rate:        ratePerSec,
		capacity:    capacity,
		local:       localCache,
	}
}

// Allow 判断指定 key 是否允许通过
func (r *RateLimiter) Allow(ctx context.Context, key string) bool {
	if r.redisClient != nil {
		// Redis 查询加短超时，避免限流器本身拖慢请求
		timeoutCtx, cancel := context.WithTimeout(ctx, redisRateLimitTimeout)
		defer cancel()

		now := time.Now().UnixMilli()
		result, err := r.redisClient.Eval(timeoutCtx, luaTokenBucket, []string{key},
			r.capacity, r.rate, now).Int64()
		if err == nil {
			return result == 1
		}
		logger.Warn(ctx, "限流 Redis 查询失败，降级为本地限流",
			logger.String("key", key),
			logger.ErrorField("error", err),
		)
	}
	return r.allowLocal(key)
}

// allowLocal 本地令牌桶降级
func (r *RateLimiter) allowLocal(key string) bool {
	r.mu.Lock()
	limiter, ok := r.local.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(r.rate), r.capacity)
		r.local.Add(key, limiter)
	}
	r.mu.Unlock()
	return limiter.Allow()
}

var (
	ipRateLimiter   *RateLimiter
	userRateLimiter *RateLimiter
	rateLimiterOnce sync.Once
)

// InitRateLimiters 初始化全局限流器，需在路由注册前调用
func InitRateLimiters(redisClient *redis.Client, ratePerSec float64, capacity int) {
	rateLimiterOnce.Do(func() {
		ipRateLimiter = NewRateLimiter(redisClient, ratePerSec, capacity)
		userRateLimiter = NewRateLimiter(redisClient, ratePerSec, capacity)
	})
}

// IPRateLimitMiddleware 基于客户端 IP 的限流中间件
// 用于公开接口（注册、邀请码查询等），防止未登录流量刷接口
func IPRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ipRateLimiter == nil {
			c.Next()
			return
		}

		ip := GetClientIP(c)
		key := rediskey.IPRateLimitKey(ip)
		if !ipRateLimiter.Allow(c.Request.Context(), key) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    10005,
				"message": "请求过于频繁，请稍后再试",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserRateLimitMiddleware 基于用户 UUID 的限流中间件
// 必须挂在 JWTAuthMiddleware 之后
func UserRateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userRateLimiter == nil {
			c.Next()
			return
		}

		userUUID, ok := GetUserUUID(c)
		if !ok {
			// 未认证的请求交给认证中间件处理
			c.Next()
			return
		}

		key := rediskey.UserRateLimitKey(userUUID)
		if !userRateLimiter.Allow(c.Request.Context(), key) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    10005,
				"message": "请求过于频繁，请稍后再试",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
