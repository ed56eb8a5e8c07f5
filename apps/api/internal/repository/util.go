package repository

import (
	"encoding/json"
	"math/rand"
	"strings"
	"time"

	"PulseServer/model"
)

// userInfoCache 用户信息缓存结构（string 存 JSON）。
// 只存展示字段，邮箱/登录码这类自读字段永远不进缓存。
type userInfoCache struct {
	Uuid        string `json:"uuid"`
	DisplayName string `json:"display_name"`
	AvatarUrl   string `json:"avatar_url"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

// cacheEmptyMarker 空值缓存哨兵，防止缓存穿透。
const cacheEmptyMarker = "__EMPTY__"

func buildUserInfoJSON(u *model.UserInfo) string {
	c := userInfoCache{
		Uuid:        u.Uuid,
		DisplayName: u.DisplayName,
		AvatarUrl:   u.AvatarUrl,
		CreatedAt:   u.CreatedAt.Unix(),
		UpdatedAt:   u.UpdatedAt.UnixMilli(),
	}
	data, err := json.Marshal(&c)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func parseUserInfoJSON(raw string) (*userInfoCache, error) {
	var c userInfoCache
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// groupInfoCache 小组展示信息缓存结构。
// 创建者不可变，缓存它用于组长权限判断是安全的；成员关系从不缓存。
type groupInfoCache struct {
	Uuid          string `json:"uuid"`
	Name          string `json:"name"`
	CreatedByUuid string `json:"created_by_uuid"`
	InviteCode    string `json:"invite_code"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

func buildGroupInfoJSON(g *model.GroupInfo) string {
	c := groupInfoCache{
		Uuid:          g.Uuid,
		Name:          g.Name,
		CreatedByUuid: g.CreatedByUuid,
		CreatedAt:     g.CreatedAt.Unix(),
		UpdatedAt:     g.UpdatedAt.UnixMilli(),
	}
	if g.InviteCode != nil {
		c.InviteCode = *g.InviteCode
	}
	data, err := json.Marshal(&c)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func parseGroupInfoJSON(raw string) (*groupInfoCache, error) {
	var c groupInfoCache
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func isRedisWrongType(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "WRONGTYPE")
}

// getRandomExpireTime 生成带随机抖动的过期时间
// baseExpire: 基础过期时间
// 返回: 基础过期时间 ± 10% 的随机时间
func getRandomExpireTime(baseExpire time.Duration) time.Duration {
	// 计算随机抖动范围（±10%）
	jitterRange := float64(baseExpire) * 0.1
	jitter := time.Duration(rand.Float64()*float64(jitterRange)*2 - float64(jitterRange))

	return baseExpire + jitter
}

// getRandomBool 生成随机布尔值
// probability: 概率
func getRandomBool(probability float64) bool {
	return rand.Float64() < probability
}
