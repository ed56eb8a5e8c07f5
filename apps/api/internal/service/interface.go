package service

import (
	"context"

	"PulseServer/apps/api/internal/dto"
)

// UserService 用户服务接口
type UserService interface {
	// Register 注册并签发 Token（无密码产品，注册即登录）
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	// LoginWithCode 凭登录码重新进入账号（公开接口）
	LoginWithCode(ctx context.Context, req *dto.LoginWithCodeRequest) (*dto.LoginWithCodeResponse, error)
	// RegenerateCode 重置登录码（旧码立即失效）
	RegenerateCode(ctx context.Context) (*dto.RegenerateCodeResponse, error)
	// GetMe 获取本人信息（含邮箱与登录码）
	GetMe(ctx context.Context) (*dto.GetUserResponse, error)
	// GetUser 获取他人公开信息
	GetUser(ctx context.Context, userUuid string) (*dto.GetUserResponse, error)
	// UpdateProfile 更新本人资料
	UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.GetUserResponse, error)
	// UploadAvatar 将已上传到对象存储的头像地址写入资料
	UploadAvatar(ctx context.Context, avatarUrl string) (string, error)
}

// GroupService 小组服务接口
type GroupService interface {
	// CreateGroup 创建小组（创建者成为组长，事务写入）
	CreateGroup(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupInfo, error)
	// UpdateGroup 重命名小组（仅创建者）
	UpdateGroup(ctx context.Context, groupUuid string, req *dto.UpdateGroupRequest) error
	// DeleteGroup 删除小组及其全部数据（仅创建者）
	DeleteGroup(ctx context.Context, groupUuid string) error
	// GetGroupDetail 小组详情（成员、我的角色、未读数、最近动态）
	GetGroupDetail(ctx context.Context, groupUuid string) (*dto.GroupDetailResponse, error)
	// ListMyGroups 我加入的小组列表
	ListMyGroups(ctx context.Context) (*dto.GroupListResponse, error)
	// ListPendingInvites 我收到的待处理小组邀请
	ListPendingInvites(ctx context.Context) (*dto.PendingInviteListResponse, error)
	// InviteMember 邀请用户入组（仅创建者，生成待处理记录）
	InviteMember(ctx context.Context, groupUuid string, req *dto.InviteMemberRequest) error
	// AcceptInvite 接受小组邀请（仅被邀请人）
	AcceptInvite(ctx context.Context, groupUuid string) error
	// DeclineInvite 拒绝小组邀请（仅被邀请人，删行）
	DeclineInvite(ctx context.Context, groupUuid string) error
	// LeaveGroup 退出小组（组长不可退出）
	LeaveGroup(ctx context.Context, groupUuid string) error
	// RemoveMember 移除成员（仅创建者，不能移除自己）
	RemoveMember(ctx context.Context, groupUuid string, req *dto.RemoveMemberRequest) error
	// RotateInviteCode 重置加入码（任意已接受成员，旧码立即失效）
	RotateInviteCode(ctx context.Context, groupUuid string) (*dto.RotateCodeResponse, error)
	// JoinByCode 按加入码入组（直接已接受；已有待处理邀请则升级）
	JoinByCode(ctx context.Context, req *dto.JoinByCodeRequest) (*dto.GroupInfo, error)
	// JoinWithAccount 凭加入码一步开户并入组（公开接口）
	JoinWithAccount(ctx context.Context, req *dto.JoinWithAccountRequest) (*dto.JoinWithAccountResponse, error)
	// PreviewByCode 加入码预览（公开接口，仅名称与成员数）
	PreviewByCode(ctx context.Context, code string) (*dto.GroupPreviewResponse, error)
}

// ScoreService 生活评分服务接口
type ScoreService interface {
	// CreateScore 发布评分并分享到目标小组（全或无）
	CreateScore(ctx context.Context, req *dto.CreateScoreRequest) (*dto.CreateScoreResponse, error)
	// DeleteScore 删除评分（仅作者）
	DeleteScore(ctx context.Context, scoreUuid string) error
	// GetGroupFeed 小组评分流（仅已接受成员）
	GetGroupFeed(ctx context.Context, groupUuid string) (*dto.GroupFeedResponse, error)
	// GetScore 获取单条评分（按可见性规则，无权时状态文字置空）
	GetScore(ctx context.Context, scoreUuid string) (*dto.GetScoreResponse, error)
	// ListMyScores 我的评分列表
	ListMyScores(ctx context.Context) (*dto.MyScoresResponse, error)
}

// CommentService 评论服务接口
type CommentService interface {
	// GetThread 评论线程（严格鉴权，含表态汇总与未读快照）
	GetThread(ctx context.Context, scoreUuid, groupUuid string) (*dto.ThreadResponse, error)
	// CreateComment 发表评论
	CreateComment(ctx context.Context, req *dto.CreateCommentRequest) (*dto.CommentInfo, error)
	// DeleteComment 删除评论（仅作者）
	DeleteComment(ctx context.Context, commentUuid string) error
	// MarkRead 标记线程已读（推进检查点）
	MarkRead(ctx context.Context, req *dto.MarkReadRequest) error
}

// ReactionService 表态服务接口
type ReactionService interface {
	// ToggleScoreReaction 评分表态切换（同表情取消/换表情替换/无则新增）
	ToggleScoreReaction(ctx context.Context, req *dto.ToggleScoreReactionRequest) (*dto.ToggleReactionResponse, error)
	// ToggleCommentReaction 评论表态切换
	ToggleCommentReaction(ctx context.Context, req *dto.ToggleCommentReactionRequest) (*dto.ToggleReactionResponse, error)
	// GetScoreReactionSummary 评分表态按表情汇总
	GetScoreReactionSummary(ctx context.Context, scoreUuid, groupUuid string) (*dto.ScoreReactionSummaryResponse, error)
}

// ConnectionService 旧版连接服务接口
type ConnectionService interface {
	// SendRequest 发起连接请求（拒绝后重发复用原行）
	SendRequest(ctx context.Context, req *dto.SendConnectionRequest) (*dto.ConnectionInfo, error)
	// Accept 接受连接请求（仅接收方）
	Accept(ctx context.Context, connUuid string) error
	// Reject 拒绝连接请求（仅接收方）
	Reject(ctx context.Context, connUuid string) error
	// Remove 删除连接（双方任一方）
	Remove(ctx context.Context, connUuid string) error
	// ListConnections 已建立的连接列表
	ListConnections(ctx context.Context) (*dto.ConnectionListResponse, error)
	// ListPendingReceived 收到的待处理请求
	ListPendingReceived(ctx context.Context) (*dto.ConnectionListResponse, error)
	// ListPendingSent 发出的待处理请求
	ListPendingSent(ctx context.Context) (*dto.ConnectionListResponse, error)
	// GetStatusWith 与某用户的关系状态
	GetStatusWith(ctx context.Context, peerUuid string) (*dto.ConnectionStatusResponse, error)
}

// InviteService 应用邀请码服务接口
type InviteService interface {
	// CreateInvite 创建邀请码（易记短码，可选有效期）
	CreateInvite(ctx context.Context, req *dto.CreateInviteRequest) (*dto.InviteInfo, error)
	// ListMyInvites 我创建的邀请码列表
	ListMyInvites(ctx context.Context) (*dto.InviteListResponse, error)
	// ExpireInvite 作废邀请码（仅创建者）
	ExpireInvite(ctx context.Context, inviteUuid string) error
	// Lookup 邀请码查询（公开接口，注册前校验）
	Lookup(ctx context.Context, code string) (*dto.InviteLookupResponse, error)
}

// WormService 街机成绩服务接口
type WormService interface {
	// Submit 提交成绩（仅严格高于个人纪录时落库）
	Submit(ctx context.Context, req *dto.SubmitWormScoreRequest) (*dto.SubmitWormScoreResponse, error)
	// Leaderboard 关卡排行榜（公开接口，每用户最高分）
	Leaderboard(ctx context.Context, levelId string, limit int) (*dto.LeaderboardResponse, error)
	// MyHighScore 我的关卡最高分
	MyHighScore(ctx context.Context, levelId string) (*dto.MyHighScoreResponse, error)
}
