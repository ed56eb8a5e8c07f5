package dto

// ==================== 评论相关 DTO ====================

// CreateCommentRequest 发表评论请求 DTO
type CreateCommentRequest struct {
	ScoreUuid string `json:"scoreUuid" binding:"required,min=1"`   // 评分UUID
	GroupUuid string `json:"groupUuid" binding:"omitempty"`        // 小组UUID（空为旧版无小组评论）
	Content   string `json:"content" binding:"omitempty,max=500"`  // 内容（有附图时可为空）
	MediaUrl  string `json:"mediaUrl" binding:"omitempty,max=255"` // 附图地址（可选）
}

// CommentInfo 评论 DTO
type CommentInfo struct {
	Uuid         string             `json:"uuid"`         // 评论UUID
	ScoreUuid    string             `json:"scoreUuid"`    // 评分UUID
	GroupUuid    string             `json:"groupUuid"`    // 小组UUID
	AuthorUuid   string             `json:"authorUuid"`   // 作者UUID
	AuthorName   string             `json:"authorName"`   // 作者昵称
	AuthorAvatar string             `json:"authorAvatar"` // 作者头像
	Content      string             `json:"content"`      // 内容
	MediaUrl     string             `json:"mediaUrl"`     // 附图地址
	Reactions    []*ReactionSummary `json:"reactions"`    // 表态汇总
	CreatedAt    int64              `json:"createdAt"`    // 创建时间戳（秒）
}

// ThreadResponse 评论线程响应 DTO
type ThreadResponse struct {
	Comments    []*CommentInfo `json:"comments"`    // 评论列表（创建时间正序）
	UnreadCount int64          `json:"unreadCount"` // 当前未读数（读取时刻快照）
}

// MarkReadRequest 标记已读请求 DTO
type MarkReadRequest struct {
	ScoreUuid string `json:"scoreUuid" binding:"required,min=1"` // 评分UUID
	GroupUuid string `json:"groupUuid" binding:"omitempty"`      // 小组UUID
}
