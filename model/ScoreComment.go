package model

import (
	"time"

	"gorm.io/gorm"
)

// ScoreComment 评分下的评论。
// GroupUuid 标识评论所在的小组上下文；为空表示旧版无小组评论（好友可见）。
type ScoreComment struct {
	Id            int64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	Uuid          string         `gorm:"column:uuid;type:char(20);not null;uniqueIndex;comment:评论对外id"`
	LifeScoreUuid string         `gorm:"column:life_score_uuid;type:char(20);not null;index:idx_score_group;comment:评分uuid"`
	GroupUuid     string         `gorm:"column:group_uuid;type:char(20);not null;default:'';index:idx_score_group;comment:所在小组uuid，空为旧版评论"`
	AuthorUuid    string         `gorm:"column:author_uuid;type:char(20);not null;index;comment:作者uuid"`
	Content       string         `gorm:"column:content;type:varchar(500);comment:评论内容"`
	MediaUrl      string         `gorm:"column:media_url;type:varchar(255);comment:附图地址"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (ScoreComment) TableName() string { return "score_comment" }
