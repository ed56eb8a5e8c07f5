package model

import "time"

// LifeScoreGroup 评分与小组的分享关系表。
// 约束：uniqueIndex:uidx_score_group 保证同一评分对同一小组只有一条分享记录。
// 创建后不更新；随评分或小组删除时级联清理。
type LifeScoreGroup struct {
	Id            int64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	LifeScoreUuid string    `gorm:"column:life_score_uuid;type:char(20);not null;uniqueIndex:uidx_score_group;comment:评分uuid"`
	GroupUuid     string    `gorm:"column:group_uuid;type:char(20);not null;index;uniqueIndex:uidx_score_group;comment:小组uuid"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (LifeScoreGroup) TableName() string { return "life_score_group" }
