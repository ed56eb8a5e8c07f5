package dto

// ==================== 连接（旧版好友对）相关 DTO ====================

// SendConnectionRequest 发起连接请求 DTO
type SendConnectionRequest struct {
	UserUuid string `json:"userUuid" binding:"required,min=1"` // 对方用户UUID
}

// ConnectionInfo 连接关系 DTO
type ConnectionInfo struct {
	Uuid       string `json:"uuid"`       // 关系UUID
	PeerUuid   string `json:"peerUuid"`   // 对方UUID
	PeerName   string `json:"peerName"`   // 对方昵称
	PeerAvatar string `json:"peerAvatar"` // 对方头像
	Status     int8   `json:"status"`     // 状态 0.待处理 1.已接受 2.已拒绝
	IAmSender  bool   `json:"iAmSender"`  // 我是否发起方
	CreatedAt  int64  `json:"createdAt"`  // 创建时间戳（秒）
}

// ConnectionListResponse 连接列表响应 DTO
type ConnectionListResponse struct {
	Connections []*ConnectionInfo `json:"connections"` // 连接列表
}

// ConnectionStatusResponse 两人关系状态响应 DTO
type ConnectionStatusResponse struct {
	Connected  bool            `json:"connected"`  // 是否已建立连接
	Connection *ConnectionInfo `json:"connection"` // 关系详情（无关系时为空）
}
