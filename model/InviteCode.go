package model

import "time"

// InviteCode 应用级邀请码（形如 happy-tree-42）。
// 过期通过 ExpiresAt 判断；作废即把 ExpiresAt 置为当前时间。
type InviteCode struct {
	Id            int64      `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	Uuid          string     `gorm:"column:uuid;type:char(20);not null;uniqueIndex;comment:邀请码对外id"`
	Code          string     `gorm:"column:code;type:varchar(64);not null;uniqueIndex;comment:邀请码内容，小写存储"`
	CreatedByUuid string     `gorm:"column:created_by_uuid;type:char(20);not null;index;comment:创建者uuid"`
	ExpiresAt     *time.Time `gorm:"column:expires_at;comment:过期时间，空为永久有效"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (InviteCode) TableName() string { return "invite_code" }
