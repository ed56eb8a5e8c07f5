package dto

// ==================== 用户相关 DTO ====================

// RegisterRequest 注册请求 DTO（无密码产品，注册即发 Token）
type RegisterRequest struct {
	DisplayName string `json:"displayName" binding:"required,min=1,max=64"` // 昵称（必填）
	AvatarUrl   string `json:"avatarUrl" binding:"omitempty,max=255"`       // 头像地址（可选）
	Email       string `json:"email" binding:"omitempty,email"`             // 邮箱（可选，用于通知）
	InviteCode  string `json:"inviteCode" binding:"omitempty,max=64"`       // 应用邀请码（可选）
}

// RegisterResponse 注册响应 DTO
type RegisterResponse struct {
	AccessToken string    `json:"accessToken"` // 访问令牌
	TokenType   string    `json:"tokenType"`   // 令牌类型
	UserInfo    *UserInfo `json:"userInfo"`    // 用户信息
}

// UserInfo 用户信息 DTO
type UserInfo struct {
	Uuid         string   `json:"uuid"`                   // 用户UUID
	DisplayName  string   `json:"displayName"`            // 昵称
	AvatarUrl    string   `json:"avatarUrl"`              // 头像地址
	Email        string   `json:"email"`                  // 邮箱（仅本人可见）
	UniqueCode   string   `json:"uniqueCode"`             // 登录码（仅本人可见）
	FeatureFlags []string `json:"featureFlags,omitempty"` // 功能开关（仅本人可见）
	CreatedAt    int64    `json:"createdAt"`              // 创建时间戳（秒）
}

// LoginWithCodeRequest 登录码登录请求 DTO
type LoginWithCodeRequest struct {
	Code string `json:"code" binding:"required,max=64"` // 登录码
}

// LoginWithCodeResponse 登录码登录响应 DTO
type LoginWithCodeResponse struct {
	AccessToken string    `json:"accessToken"` // 访问令牌
	TokenType   string    `json:"tokenType"`   // 令牌类型
	UserInfo    *UserInfo `json:"userInfo"`    // 用户信息
}

// RegenerateCodeResponse 重置登录码响应 DTO
type RegenerateCodeResponse struct {
	UniqueCode string `json:"uniqueCode"` // 新登录码，旧码立即失效
}

// UpdateProfileRequest 更新资料请求 DTO
type UpdateProfileRequest struct {
	DisplayName  string   `json:"displayName" binding:"omitempty,min=1,max=64"`        // 昵称
	AvatarUrl    string   `json:"avatarUrl" binding:"omitempty,max=255"`               // 头像地址
	Email        string   `json:"email" binding:"omitempty,email"`                     // 邮箱
	FeatureFlags []string `json:"featureFlags" binding:"omitempty,max=32,dive,max=64"` // 功能开关（传空数组清空，不传保持不变）
}

// GetUserResponse 获取用户响应 DTO
type GetUserResponse struct {
	UserInfo *UserInfo `json:"userInfo"` // 用户信息
}
