package model

import "time"

// ScoreReaction 评分表态（emoji）。
// 约束：uniqueIndex:uidx_score_user_group 同一用户对同一 (评分, 小组) 只保留一条，
// 切换 emoji 时原地更新；并发重复创建靠该唯一键 + upsert 收敛。
type ScoreReaction struct {
	Id            int64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	LifeScoreUuid string    `gorm:"column:life_score_uuid;type:char(20);not null;uniqueIndex:uidx_score_user_group;comment:评分uuid"`
	UserUuid      string    `gorm:"column:user_uuid;type:char(20);not null;index;uniqueIndex:uidx_score_user_group;comment:用户uuid"`
	GroupUuid     string    `gorm:"column:group_uuid;type:char(20);not null;default:'';uniqueIndex:uidx_score_user_group;comment:小组uuid"`
	Emoji         string    `gorm:"column:emoji;type:varchar(32);not null;comment:表情内容"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ScoreReaction) TableName() string { return "score_reaction" }

// 表态切换结果
const (
	ReactionAdded    = "added"    // 新增
	ReactionRemoved  = "removed"  // 取消（同 emoji 再点一次）
	ReactionReplaced = "replaced" // 换成了另一个 emoji
)
