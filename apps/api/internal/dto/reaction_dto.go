package dto

// ==================== 表态相关 DTO ====================

// ToggleScoreReactionRequest 评分表态切换请求 DTO
type ToggleScoreReactionRequest struct {
	ScoreUuid string `json:"scoreUuid" binding:"required,min=1"` // 评分UUID
	GroupUuid string `json:"groupUuid" binding:"omitempty"`      // 小组UUID
	Emoji     string `json:"emoji" binding:"required,min=1"`     // 表情
}

// ToggleCommentReactionRequest 评论表态切换请求 DTO
type ToggleCommentReactionRequest struct {
	CommentUuid string `json:"commentUuid" binding:"required,min=1"` // 评论UUID
	Emoji       string `json:"emoji" binding:"required,min=1"`       // 表情
}

// ToggleReactionResponse 表态切换响应 DTO
type ToggleReactionResponse struct {
	Action string `json:"action"` // added / removed / replaced
	Emoji  string `json:"emoji"`  // 生效的表情（removed 时为被取消的表情）
}

// ReactionSummary 单个表情的汇总 DTO
type ReactionSummary struct {
	Emoji      string   `json:"emoji"`      // 表情
	Count      int64    `json:"count"`      // 数量
	HasReacted bool     `json:"hasReacted"` // 当前用户是否已表态
	UserUuids  []string `json:"userUuids"`  // 表态用户UUID列表
}

// ScoreReactionSummaryResponse 评分表态汇总响应 DTO
type ScoreReactionSummaryResponse struct {
	Reactions []*ReactionSummary `json:"reactions"` // 按表情聚合
}
