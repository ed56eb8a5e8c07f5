package repository

import (
	"testing"
	"time"

	"PulseServer/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserInfoCacheJSON(t *testing.T) {
	t.Run("展示字段完整往返", func(t *testing.T) {
		created := time.Unix(1700000000, 0)
		raw := buildUserInfoJSON(&model.UserInfo{
			Uuid:        "user-1",
			DisplayName: "Alice",
			AvatarUrl:   "http://cdn.example.com/a.png",
			CreatedAt:   created,
			UpdatedAt:   created,
		})

		cached, err := parseUserInfoJSON(raw)
		require.NoError(t, err)
		assert.Equal(t, "user-1", cached.Uuid)
		assert.Equal(t, "Alice", cached.DisplayName)
		assert.Equal(t, "http://cdn.example.com/a.png", cached.AvatarUrl)
		assert.Equal(t, created.Unix(), cached.CreatedAt)
	})

	t.Run("自读字段不进缓存", func(t *testing.T) {
		email := "alice@example.com"
		loginCode := "calm-owl-7"
		raw := buildUserInfoJSON(&model.UserInfo{
			Uuid:        "user-1",
			DisplayName: "Alice",
			Email:       &email,
			UniqueCode:  &loginCode,
		})

		assert.NotContains(t, raw, email)
		assert.NotContains(t, raw, loginCode)
	})
}

func TestGroupInfoCacheJSON(t *testing.T) {
	t.Run("创建时间随缓存往返", func(t *testing.T) {
		created := time.Unix(1690000000, 0)
		code := "abc123"
		raw := buildGroupInfoJSON(&model.GroupInfo{
			Uuid:          "group-1",
			Name:          "小组",
			CreatedByUuid: "owner-1",
			InviteCode:    &code,
			CreatedAt:     created,
			UpdatedAt:     created,
		})

		cached, err := parseGroupInfoJSON(raw)
		require.NoError(t, err)
		assert.Equal(t, "group-1", cached.Uuid)
		assert.Equal(t, "小组", cached.Name)
		assert.Equal(t, "owner-1", cached.CreatedByUuid)
		assert.Equal(t, "abc123", cached.InviteCode)
		assert.Equal(t, created.Unix(), cached.CreatedAt)
	})

	t.Run("缓存内容损坏返回错误", func(t *testing.T) {
		_, err := parseGroupInfoJSON("not-json")
		require.Error(t, err)
	})
}
