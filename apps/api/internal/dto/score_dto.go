package dto

// ==================== 评分相关 DTO ====================

// CreateScoreRequest 发布评分请求 DTO
type CreateScoreRequest struct {
	Score      float64  `json:"score" binding:"min=0,max=10"`           // 分值 0-10
	StatusText string   `json:"statusText" binding:"omitempty,max=280"` // 状态文字（可选）
	MediaUrl   string   `json:"mediaUrl" binding:"omitempty,max=255"`   // 附图地址（可选）
	GroupUuids []string `json:"groupUuids" binding:"required,min=1"`    // 分享目标小组（至少一个）
}

// ScoreInfo 评分 DTO
type ScoreInfo struct {
	Uuid         string  `json:"uuid"`         // 评分UUID
	UserUuid     string  `json:"userUuid"`     // 作者UUID
	AuthorName   string  `json:"authorName"`   // 作者昵称
	AuthorAvatar string  `json:"authorAvatar"` // 作者头像
	Score        float64 `json:"score"`        // 分值
	StatusText   string  `json:"statusText"`   // 状态文字（无权查看时为空）
	MediaUrl     string  `json:"mediaUrl"`     // 附图地址
	CreatedAt    int64   `json:"createdAt"`    // 创建时间戳（秒）
}

// CreateScoreResponse 发布评分响应 DTO
type CreateScoreResponse struct {
	Score      *ScoreInfo `json:"score"`      // 评分
	GroupUuids []string   `json:"groupUuids"` // 实际分享到的小组
}

// GroupFeedResponse 小组评分流响应 DTO
type GroupFeedResponse struct {
	Scores []*ScoreInfo `json:"scores"` // 评分列表（创建时间倒序）
}

// MyScoresResponse 我的评分列表响应 DTO
type MyScoresResponse struct {
	Scores []*ScoreInfo `json:"scores"` // 评分列表（创建时间倒序）
}

// GetScoreResponse 获取单条评分响应 DTO
type GetScoreResponse struct {
	Score *ScoreInfo `json:"score"` // 评分
}
