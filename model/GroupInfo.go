package model

import (
	"time"

	"gorm.io/gorm"
)

// GroupInfo 小组表。
// InviteCode 可随时重置，旧码立即失效；存储统一为小写。
type GroupInfo struct {
	Id            int64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	Uuid          string         `gorm:"column:uuid;type:char(20);not null;uniqueIndex;comment:小组对外id"`
	Name          string         `gorm:"column:name;type:varchar(64);not null;comment:小组名称"`
	CreatedByUuid string         `gorm:"column:created_by_uuid;type:char(20);not null;index;comment:创建者uuid"`
	InviteCode    *string        `gorm:"column:invite_code;type:varchar(32);uniqueIndex;comment:加入码，小写存储"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (GroupInfo) TableName() string { return "group_info" }
