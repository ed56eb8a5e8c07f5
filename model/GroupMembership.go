package model

import "time"

// GroupMembership 小组成员关系表。
// 约束：uniqueIndex:uidx_group_user 保证同一用户在同一小组最多一条记录。
// 记录为硬删除（拒绝/退出/移除直接删行），唯一键可立即复用。
type GroupMembership struct {
	Id            int64      `gorm:"column:id;primaryKey;autoIncrement;comment:自增id"`
	GroupUuid     string     `gorm:"column:group_uuid;type:char(20);not null;uniqueIndex:uidx_group_user;comment:小组uuid"`
	UserUuid      string     `gorm:"column:user_uuid;type:char(20);not null;index;uniqueIndex:uidx_group_user;comment:用户uuid"`
	Role          int8       `gorm:"column:role;not null;default:2;comment:角色 1.组长 2.成员"`
	Status        int8       `gorm:"column:status;not null;default:0;comment:状态 0.待接受 1.已接受"`
	InvitedByUuid string     `gorm:"column:invited_by_uuid;type:char(20);comment:邀请人uuid"`
	JoinedAt      *time.Time `gorm:"column:joined_at;comment:接受邀请时间"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (GroupMembership) TableName() string { return "group_membership" }

// 成员角色
const (
	GroupRoleOwner  int8 = 1 // 组长（创建者）
	GroupRoleMember int8 = 2 // 普通成员
)

// 成员状态
const (
	MembershipPending  int8 = 0 // 待接受邀请
	MembershipAccepted int8 = 1 // 已接受
)
