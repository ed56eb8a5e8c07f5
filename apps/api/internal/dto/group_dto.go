package dto

// ==================== 小组相关 DTO ====================

// CreateGroupRequest 创建小组请求 DTO
type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,min=1,max=64"` // 小组名称（必填）
}

// UpdateGroupRequest 重命名小组请求 DTO
type UpdateGroupRequest struct {
	Name string `json:"name" binding:"required,min=1,max=64"` // 新名称（必填）
}

// GroupInfo 小组信息 DTO
type GroupInfo struct {
	Uuid          string `json:"uuid"`          // 小组UUID
	Name          string `json:"name"`          // 名称
	CreatedByUuid string `json:"createdByUuid"` // 创建者UUID
	InviteCode    string `json:"inviteCode"`    // 加入码（仅成员可见）
	MemberCount   int64  `json:"memberCount"`   // 已接受成员数
	CreatedAt     int64  `json:"createdAt"`     // 创建时间戳（秒）
}

// GroupMember 小组成员 DTO
type GroupMember struct {
	UserUuid    string `json:"userUuid"`    // 用户UUID
	DisplayName string `json:"displayName"` // 昵称
	AvatarUrl   string `json:"avatarUrl"`   // 头像地址
	Role        int8   `json:"role"`        // 角色 1.组长 2.成员
	JoinedAt    int64  `json:"joinedAt"`    // 加入时间戳（秒），0 表示未记录
}

// GroupDetailResponse 小组详情响应 DTO
type GroupDetailResponse struct {
	Group              *GroupInfo     `json:"group"`              // 小组信息
	Members            []*GroupMember `json:"members"`            // 已接受成员列表
	MyRole             int8           `json:"myRole"`             // 我的角色
	MyLatestScore      *ScoreInfo     `json:"myLatestScore"`      // 我在组内最新评分
	UnreadCommentCount int64          `json:"unreadCommentCount"` // 未读评论总数（按每成员最新评分）
	RecentActivityAt   int64          `json:"recentActivityAt"`   // 最近分享时间戳（秒），0 表示无
}

// GroupListResponse 我的小组列表响应 DTO
type GroupListResponse struct {
	Groups []*GroupListItem `json:"groups"` // 小组列表
}

// GroupListItem 小组列表项 DTO
type GroupListItem struct {
	Group              *GroupInfo `json:"group"`              // 小组信息
	MyRole             int8       `json:"myRole"`             // 我的角色
	UnreadCommentCount int64      `json:"unreadCommentCount"` // 未读评论总数
}

// PendingInviteItem 待处理小组邀请 DTO
type PendingInviteItem struct {
	Group         *GroupInfo `json:"group"`         // 小组信息
	InvitedByUuid string     `json:"invitedByUuid"` // 邀请人UUID
	InvitedByName string     `json:"invitedByName"` // 邀请人昵称
	InvitedAt     int64      `json:"invitedAt"`     // 邀请时间戳（秒）
}

// PendingInviteListResponse 待处理邀请列表响应 DTO
type PendingInviteListResponse struct {
	Invites []*PendingInviteItem `json:"invites"` // 邀请列表
}

// InviteMemberRequest 邀请成员请求 DTO
type InviteMemberRequest struct {
	UserUuid string `json:"userUuid" binding:"required,min=1"` // 被邀请用户UUID
}

// RemoveMemberRequest 移除成员请求 DTO
type RemoveMemberRequest struct {
	UserUuid string `json:"userUuid" binding:"required,min=1"` // 被移除用户UUID
}

// JoinByCodeRequest 按加入码入组请求 DTO
type JoinByCodeRequest struct {
	Code string `json:"code" binding:"required,min=1,max=64"` // 小组加入码
}

// JoinWithAccountRequest 开户入组请求 DTO（新用户凭小组码一步注册并入组）
type JoinWithAccountRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=64"`        // 小组加入码
	DisplayName string `json:"displayName" binding:"required,min=1,max=64"` // 昵称
	AvatarUrl   string `json:"avatarUrl" binding:"omitempty,max=255"`       // 头像地址（可选）
	Email       string `json:"email" binding:"omitempty,email"`             // 邮箱（可选）
}

// JoinWithAccountResponse 开户入组响应 DTO
type JoinWithAccountResponse struct {
	AccessToken string     `json:"accessToken"` // 访问令牌
	TokenType   string     `json:"tokenType"`   // 令牌类型
	UserInfo    *UserInfo  `json:"userInfo"`    // 用户信息
	Group       *GroupInfo `json:"group"`       // 加入的小组
}

// GroupPreviewResponse 加入码预览响应 DTO（公开，入组前展示）
type GroupPreviewResponse struct {
	Name        string `json:"name"`        // 小组名称
	MemberCount int64  `json:"memberCount"` // 成员数
}

// RotateCodeResponse 重置加入码响应 DTO
type RotateCodeResponse struct {
	InviteCode string `json:"inviteCode"` // 新加入码
}
