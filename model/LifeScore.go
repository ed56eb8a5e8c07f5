package model

import (
	"time"

	"gorm.io/gorm"
)

// LifeScore 生活评分表。
// 创建后不可修改（只能删除）；分享关系见 LifeScoreGroup。
type LifeScore struct {
	Id         int64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	Uuid       string         `gorm:"column:uuid;type:char(20);not null;uniqueIndex;comment:评分对外id"`
	UserUuid   string         `gorm:"column:user_uuid;type:char(20);not null;index:idx_user_created;comment:作者uuid"`
	Score      float64        `gorm:"column:score;type:decimal(4,2);not null;comment:分值 0-10"`
	StatusText string         `gorm:"column:status_text;type:varchar(280);comment:状态文字，按可见性规则下发"`
	MediaUrl   string         `gorm:"column:media_url;type:varchar(255);comment:附图地址"`
	CreatedAt  time.Time      `gorm:"column:created_at;index:idx_user_created;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (LifeScore) TableName() string { return "life_score" }
