package model

import "time"

// CommentReaction 评论表态。
// 约束：uniqueIndex:uidx_comment_user 同一用户对同一评论只保留一条。
type CommentReaction struct {
	Id          int64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	CommentUuid string    `gorm:"column:comment_uuid;type:char(20);not null;uniqueIndex:uidx_comment_user;comment:评论uuid"`
	UserUuid    string    `gorm:"column:user_uuid;type:char(20);not null;index;uniqueIndex:uidx_comment_user;comment:用户uuid"`
	Emoji       string    `gorm:"column:emoji;type:varchar(32);not null;comment:表情内容"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CommentReaction) TableName() string { return "comment_reaction" }
