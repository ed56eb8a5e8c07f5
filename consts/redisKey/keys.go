package rediskey

import (
	"fmt"
	"time"
)

// ==================== TTL 常量 ====================

const (
	// UserInfoTTL 用户信息缓存 TTL
	UserInfoTTL = 1 * time.Hour
	// UserInfoEmptyTTL 用户信息空值缓存 TTL
	UserInfoEmptyTTL = 5 * time.Minute

	// GroupInfoTTL 小组展示信息缓存 TTL
	GroupInfoTTL = 30 * time.Minute
	// GroupInfoEmptyTTL 小组展示信息空值缓存 TTL
	GroupInfoEmptyTTL = 5 * time.Minute

	// WormLeaderboardTTL 街机排行榜缓存 TTL
	WormLeaderboardTTL = 5 * time.Minute
)

// ==================== Key 构造函数 ====================

// UserInfoKey 生成用户信息缓存 Key: user:info:{uuid}
func UserInfoKey(uuid string) string {
	return fmt.Sprintf("user:info:%s", uuid)
}

// GroupInfoKey 生成小组展示信息缓存 Key: group:info:{uuid}
func GroupInfoKey(uuid string) string {
	return fmt.Sprintf("group:info:%s", uuid)
}

// WormLeaderboardKey 生成街机排行榜缓存 Key: worm:leaderboard:{level_id}
func WormLeaderboardKey(levelID string) string {
	return fmt.Sprintf("worm:leaderboard:%s", levelID)
}

// ==================== 限流 Key 构造函数 ====================

// UserRateLimitKey 用户限流 Key: rate:limit:user:{user_uuid}
func UserRateLimitKey(userUUID string) string {
	return fmt.Sprintf("rate:limit:user:%s", userUUID)
}

// IPRateLimitKey IP 限流 Key: rate:limit:ip:{ip}
func IPRateLimitKey(ip string) string {
	return fmt.Sprintf("rate:limit:ip:%s", ip)
}
