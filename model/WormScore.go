package model

import "time"

// WormScore 街机（贪吃蛇）成绩表。
// 只保留每个 (用户, 关卡) 的最高分：提交分数不高于现有记录时不落库。
type WormScore struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	Uuid      string    `gorm:"column:uuid;type:char(20);not null;uniqueIndex;comment:成绩对外id"`
	UserUuid  string    `gorm:"column:user_uuid;type:char(20);not null;index:idx_user_level;comment:用户uuid"`
	LevelId   string    `gorm:"column:level_id;type:varchar(64);not null;index;index:idx_user_level;comment:关卡id"`
	Score     int64     `gorm:"column:score;not null;comment:分数"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (WormScore) TableName() string { return "worm_score" }
