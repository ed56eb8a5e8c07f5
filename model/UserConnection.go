package model

import "time"

// UserConnection 旧版好友对关系（新小组模型的前身，保留兼容）。
// 同一对用户只允许一条逻辑关系，方向不限，由应用层双向查询保证。
type UserConnection struct {
	Id           int64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	Uuid         string    `gorm:"column:uuid;type:char(20);not null;uniqueIndex;comment:关系对外id"`
	SenderUuid   string    `gorm:"column:sender_uuid;type:char(20);not null;uniqueIndex:uidx_sender_receiver;comment:发起方uuid"`
	ReceiverUuid string    `gorm:"column:receiver_uuid;type:char(20);not null;index;uniqueIndex:uidx_sender_receiver;comment:接收方uuid"`
	Status       int8      `gorm:"column:status;not null;default:0;comment:状态 0.待处理 1.已接受 2.已拒绝"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserConnection) TableName() string { return "user_connection" }

// 连接状态
const (
	ConnectionPending  int8 = 0 // 待处理
	ConnectionAccepted int8 = 1 // 已接受
	ConnectionRejected int8 = 2 // 已拒绝（可再次发起，复用同一行）
)
