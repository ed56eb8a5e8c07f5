package model

import "time"

// ScoreCommentRead 评论已读检查点。
// 约束：uniqueIndex:uidx_user_score_group 每个 (用户, 评分, 小组) 一条；
// 标记已读时 upsert LastReadAt，只用于未读计算，不直接展示。
type ScoreCommentRead struct {
	Id            int64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	UserUuid      string    `gorm:"column:user_uuid;type:char(20);not null;uniqueIndex:uidx_user_score_group;comment:用户uuid"`
	LifeScoreUuid string    `gorm:"column:life_score_uuid;type:char(20);not null;uniqueIndex:uidx_user_score_group;comment:评分uuid"`
	GroupUuid     string    `gorm:"column:group_uuid;type:char(20);not null;default:'';index;uniqueIndex:uidx_user_score_group;comment:小组uuid"`
	LastReadAt    time.Time `gorm:"column:last_read_at;not null;comment:最近已读时间"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ScoreCommentRead) TableName() string { return "score_comment_read" }
