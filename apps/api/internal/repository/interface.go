package repository

import (
	"context"
	"time"

	"PulseServer/model"
)

// IUserRepository 用户数据访问层接口
type IUserRepository interface {
	// Create 创建用户
	Create(ctx context.Context, user *model.UserInfo) error
	// GetByUuid 按对外 id 获取用户（走缓存，只保证展示字段完整）
	GetByUuid(ctx context.Context, uuid string) (*model.UserInfo, error)
	// GetFullByUuid 获取完整用户行（含邮箱/登录码等自读字段，直接回源 DB）
	GetFullByUuid(ctx context.Context, uuid string) (*model.UserInfo, error)
	// BatchGetByUuids 批量获取用户（只回源 DB，用于列表组装）
	BatchGetByUuids(ctx context.Context, uuids []string) (map[string]*model.UserInfo, error)
	// GetByUniqueCode 按登录码获取用户
	GetByUniqueCode(ctx context.Context, code string) (*model.UserInfo, error)
	// EmailExists 邮箱是否已被占用
	EmailExists(ctx context.Context, email string) (bool, error)
	// UniqueCodeExists 登录码是否已被占用
	UniqueCodeExists(ctx context.Context, code string) (bool, error)
	// Update 更新用户字段并失效缓存
	Update(ctx context.Context, uuid string, fields map[string]interface{}) error
}

// IGroupRepository 小组数据访问层接口
type IGroupRepository interface {
	// CreateWithOwner 创建小组并在同一事务中写入组长成员记录
	CreateWithOwner(ctx context.Context, group *model.GroupInfo, owner *model.GroupMembership) error
	// GetByUuid 获取小组（走缓存；创建者字段不可变，可用于权限判断）
	GetByUuid(ctx context.Context, uuid string) (*model.GroupInfo, error)
	// GetByInviteCode 按加入码获取小组（入参需已小写去空格）
	GetByInviteCode(ctx context.Context, code string) (*model.GroupInfo, error)
	// UpdateName 重命名小组
	UpdateName(ctx context.Context, uuid, name string) error
	// UpdateInviteCode 重置/清除加入码
	UpdateInviteCode(ctx context.Context, uuid string, code *string) error
	// InviteCodeExists 加入码是否已被占用
	InviteCodeExists(ctx context.Context, code string) (bool, error)
	// CountAcceptedMembers 统计已接受成员数
	CountAcceptedMembers(ctx context.Context, uuid string) (int64, error)
	// Delete 删除小组并级联清理成员、分享、评论、表态、已读记录
	Delete(ctx context.Context, uuid string) error
}

// IMembershipRepository 小组成员数据访问层接口
type IMembershipRepository interface {
	// Get 获取成员记录（不存在返回 ErrRecordNotFound）
	Get(ctx context.Context, groupUuid, userUuid string) (*model.GroupMembership, error)
	// IsAcceptedMember 是否为已接受成员
	IsAcceptedMember(ctx context.Context, groupUuid, userUuid string) (bool, error)
	// ListAcceptedByGroup 列出小组已接受成员
	ListAcceptedByGroup(ctx context.Context, groupUuid string) ([]*model.GroupMembership, error)
	// ListByUser 列出用户指定状态的成员记录
	ListByUser(ctx context.Context, userUuid string, status int8) ([]*model.GroupMembership, error)
	// Create 创建成员记录（同组同人重复时返回 ErrDuplicateKey）
	Create(ctx context.Context, m *model.GroupMembership) error
	// Accept 把待处理邀请置为已接受（不存在待处理记录返回 ErrRecordNotFound）
	Accept(ctx context.Context, groupUuid, userUuid string, joinedAt time.Time) error
	// Delete 删除成员记录（拒绝/退出/移除）
	Delete(ctx context.Context, groupUuid, userUuid string) error
	// CreateUserAndJoin 事务创建新用户及其已接受的成员记录（按码开户入组）
	CreateUserAndJoin(ctx context.Context, user *model.UserInfo, m *model.GroupMembership) error
}

// IScoreRepository 生活评分数据访问层接口
type IScoreRepository interface {
	// CreateWithGroups 事务创建评分及其全部分享记录（要么全有要么全无）
	CreateWithGroups(ctx context.Context, score *model.LifeScore, shares []*model.LifeScoreGroup) error
	// GetByUuid 获取评分
	GetByUuid(ctx context.Context, uuid string) (*model.LifeScore, error)
	// ListByGroup 列出分享到小组的评分（创建时间倒序）
	ListByGroup(ctx context.Context, groupUuid string) ([]*model.LifeScore, error)
	// ListByUser 列出用户的评分（创建时间倒序）
	ListByUser(ctx context.Context, userUuid string) ([]*model.LifeScore, error)
	// IsSharedToGroup 评分是否分享到该小组
	IsSharedToGroup(ctx context.Context, scoreUuid, groupUuid string) (bool, error)
	// ListGroupUuidsForScore 评分分享到的全部小组
	ListGroupUuidsForScore(ctx context.Context, scoreUuid string) ([]string, error)
	// Delete 删除评分并级联清理分享、评论、表态、已读记录
	Delete(ctx context.Context, uuid string) error
}

// ICommentRepository 评论与已读检查点数据访问层接口
type ICommentRepository interface {
	// Create 创建评论
	Create(ctx context.Context, c *model.ScoreComment) error
	// GetByUuid 获取评论
	GetByUuid(ctx context.Context, uuid string) (*model.ScoreComment, error)
	// ListByThread 列出 (评分, 小组) 线程内的评论（创建时间正序）
	ListByThread(ctx context.Context, scoreUuid, groupUuid string) ([]*model.ScoreComment, error)
	// Delete 删除评论并清理其表态
	Delete(ctx context.Context, uuid string) error
	// CountUnread 统计他人评论中晚于 since 的数量；since 为 nil 表示从未读过
	CountUnread(ctx context.Context, scoreUuid, groupUuid, viewerUuid string, since *time.Time) (int64, error)
	// GetReadMark 获取已读检查点（无记录返回 nil）
	GetReadMark(ctx context.Context, userUuid, scoreUuid, groupUuid string) (*time.Time, error)
	// ListReadMarks 获取用户在小组内的全部已读检查点 map[scoreUuid]lastReadAt
	ListReadMarks(ctx context.Context, userUuid, groupUuid string) (map[string]time.Time, error)
	// UpsertReadMark 写入/推进已读检查点
	UpsertReadMark(ctx context.Context, userUuid, scoreUuid, groupUuid string, at time.Time) error
}

// IReactionRepository 表态数据访问层接口
type IReactionRepository interface {
	// GetScoreReaction 获取用户对 (评分, 小组) 的表态（无则 ErrRecordNotFound）
	GetScoreReaction(ctx context.Context, scoreUuid, userUuid, groupUuid string) (*model.ScoreReaction, error)
	// UpsertScoreReaction 创建或更新表态（并发重复创建收敛为更新）
	UpsertScoreReaction(ctx context.Context, reaction *model.ScoreReaction) error
	// DeleteScoreReaction 删除表态
	DeleteScoreReaction(ctx context.Context, scoreUuid, userUuid, groupUuid string) error
	// ListScoreReactions 列出 (评分, 小组) 的全部表态
	ListScoreReactions(ctx context.Context, scoreUuid, groupUuid string) ([]*model.ScoreReaction, error)
	// GetCommentReaction 获取用户对评论的表态（无则 ErrRecordNotFound）
	GetCommentReaction(ctx context.Context, commentUuid, userUuid string) (*model.CommentReaction, error)
	// UpsertCommentReaction 创建或更新评论表态
	UpsertCommentReaction(ctx context.Context, reaction *model.CommentReaction) error
	// DeleteCommentReaction 删除评论表态
	DeleteCommentReaction(ctx context.Context, commentUuid, userUuid string) error
	// ListCommentReactions 批量列出多条评论的表态
	ListCommentReactions(ctx context.Context, commentUuids []string) ([]*model.CommentReaction, error)
}

// IConnectionRepository 旧版好友对关系数据访问层接口
type IConnectionRepository interface {
	// GetByUuid 按关系对外 id 获取（不存在返回 ErrRecordNotFound）
	GetByUuid(ctx context.Context, uuid string) (*model.UserConnection, error)
	// GetBetween 查询两用户间的关系（方向不限；不存在返回 nil, nil）
	GetBetween(ctx context.Context, userUuid, peerUuid string) (*model.UserConnection, error)
	// AreConnected 两用户是否已建立连接（已接受，方向不限）
	AreConnected(ctx context.Context, userUuid, peerUuid string) (bool, error)
	// Create 创建待处理请求
	Create(ctx context.Context, c *model.UserConnection) error
	// UpdateStatus 更新关系状态
	UpdateStatus(ctx context.Context, uuid string, status int8) error
	// Repoint 拒绝后重新发起：复用原行，重置方向与状态
	Repoint(ctx context.Context, uuid, senderUuid, receiverUuid string) error
	// Delete 删除关系（双方任一方可删）
	Delete(ctx context.Context, uuid string) error
	// ListAccepted 已建立的连接
	ListAccepted(ctx context.Context, userUuid string) ([]*model.UserConnection, error)
	// ListPendingReceived 收到的待处理请求
	ListPendingReceived(ctx context.Context, userUuid string) ([]*model.UserConnection, error)
	// ListPendingSent 发出的待处理请求
	ListPendingSent(ctx context.Context, userUuid string) ([]*model.UserConnection, error)
}

// IInviteRepository 应用级邀请码数据访问层接口
type IInviteRepository interface {
	// Create 创建邀请码
	Create(ctx context.Context, invite *model.InviteCode) error
	// GetByCode 按码查询（入参需已小写去空格）
	GetByCode(ctx context.Context, code string) (*model.InviteCode, error)
	// CodeExists 码是否已存在
	CodeExists(ctx context.Context, code string) (bool, error)
	// ListByCreator 列出用户创建的邀请码
	ListByCreator(ctx context.Context, userUuid string) ([]*model.InviteCode, error)
	// Expire 作废邀请码（把过期时间置为 at）
	Expire(ctx context.Context, uuid string, at time.Time) error
}

// IWormScoreRepository 街机成绩数据访问层接口
type IWormScoreRepository interface {
	// BestForUserLevel 用户在关卡的最高成绩（无则 ErrRecordNotFound）
	BestForUserLevel(ctx context.Context, userUuid, levelId string) (*model.WormScore, error)
	// TopForLevel 关卡排行榜：每用户取最高分，降序取前 limit（走缓存）
	TopForLevel(ctx context.Context, levelId string, limit int) ([]*model.WormScore, error)
	// Create 写入一条新的最高成绩并失效排行榜缓存
	Create(ctx context.Context, w *model.WormScore) error
}
