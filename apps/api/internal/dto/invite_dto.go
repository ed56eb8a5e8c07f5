package dto

// ==================== 应用邀请码相关 DTO ====================

// CreateInviteRequest 创建邀请码请求 DTO
type CreateInviteRequest struct {
	ExpiresInHours int64 `json:"expiresInHours" binding:"omitempty,min=1"` // 有效小时数（可选，0 为永久）
}

// InviteInfo 邀请码 DTO
type InviteInfo struct {
	Uuid          string `json:"uuid"`          // 邀请码UUID
	Code          string `json:"code"`          // 邀请码内容
	CreatedByUuid string `json:"createdByUuid"` // 创建者UUID
	ExpiresAt     int64  `json:"expiresAt"`     // 过期时间戳（秒），0 为永久
	Expired       bool   `json:"expired"`       // 是否已过期
	CreatedAt     int64  `json:"createdAt"`     // 创建时间戳（秒）
}

// InviteListResponse 我创建的邀请码列表响应 DTO
type InviteListResponse struct {
	Invites []*InviteInfo `json:"invites"` // 邀请码列表
}

// InviteLookupResponse 邀请码查询响应 DTO（公开，注册前校验）
type InviteLookupResponse struct {
	Valid       bool   `json:"valid"`       // 是否可用
	CreatorName string `json:"creatorName"` // 创建者昵称
}
