package model

import (
	"time"

	"gorm.io/gorm"
)

// UserInfo 用户信息表。
// 无密码产品：账号通过邀请码/小组码认领，Token 即凭证。
// Email 与 UniqueCode 用指针，避免空字符串撞唯一索引。
type UserInfo struct {
	Id             int64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	Uuid           string         `gorm:"column:uuid;type:char(20);not null;uniqueIndex;comment:用户对外id"`
	DisplayName    string         `gorm:"column:display_name;type:varchar(64);not null;comment:昵称"`
	AvatarUrl      string         `gorm:"column:avatar_url;type:varchar(255);comment:头像地址"`
	Email          *string        `gorm:"column:email;type:varchar(128);uniqueIndex;comment:绑定邮箱"`
	UniqueCode     *string        `gorm:"column:unique_code;type:varchar(32);uniqueIndex;comment:可记忆登录码"`
	FeatureFlags   string         `gorm:"column:feature_flags;type:varchar(255);comment:功能开关，逗号分隔"`
	UsedInviteUuid string         `gorm:"column:used_invite_uuid;type:char(20);comment:注册时使用的邀请码id"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (UserInfo) TableName() string { return "user_info" }
