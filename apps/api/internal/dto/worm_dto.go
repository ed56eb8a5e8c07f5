package dto

// ==================== 街机成绩相关 DTO ====================

// SubmitWormScoreRequest 提交成绩请求 DTO
type SubmitWormScoreRequest struct {
	LevelId string `json:"levelId" binding:"required,min=1,max=64"` // 关卡ID
	Score   int64  `json:"score" binding:"min=0"`                   // 分数
}

// SubmitWormScoreResponse 提交成绩响应 DTO
type SubmitWormScoreResponse struct {
	NewRecord bool  `json:"newRecord"` // 是否刷新了个人纪录
	BestScore int64 `json:"bestScore"` // 当前个人最高分
}

// WormScoreInfo 成绩 DTO
type WormScoreInfo struct {
	UserUuid    string `json:"userUuid"`    // 用户UUID
	DisplayName string `json:"displayName"` // 昵称
	AvatarUrl   string `json:"avatarUrl"`   // 头像
	LevelId     string `json:"levelId"`     // 关卡ID
	Score       int64  `json:"score"`       // 分数
}

// LeaderboardResponse 关卡排行榜响应 DTO
type LeaderboardResponse struct {
	LevelId string           `json:"levelId"` // 关卡ID
	Entries []*WormScoreInfo `json:"entries"` // 排行榜（每用户最高分，降序）
}

// MyHighScoreResponse 我的最高分响应 DTO
type MyHighScoreResponse struct {
	LevelId   string `json:"levelId"`   // 关卡ID
	BestScore int64  `json:"bestScore"` // 最高分，无记录为 0
	HasScore  bool   `json:"hasScore"`  // 是否有记录
}
