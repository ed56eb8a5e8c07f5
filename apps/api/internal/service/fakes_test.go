package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"PulseServer/apps/api/internal/repository"
	"PulseServer/apps/api/internal/utils"
	"PulseServer/config"
	"PulseServer/model"
	"PulseServer/pkg/logger"
	"PulseServer/pkg/util"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var serviceTestOnce sync.Once

func initServiceTest() {
	serviceTestOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
		utils.InitJWT(config.DefaultJWTConfig())
		_ = util.InitSnowflake(1)
	})
}

func withUserUUID(userUUID string) context.Context {
	return context.WithValue(context.Background(), "user_uuid", userUUID)
}

func requireBizCode(t *testing.T, err error, wantGRPC codes.Code, wantBizCode int) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok)
	require.Equal(t, wantGRPC, st.Code())
	gotCode, convErr := strconv.Atoi(st.Message())
	require.NoError(t, convErr)
	require.Equal(t, wantBizCode, gotCode)
}

// ==================== 用户 ====================

type fakeUserRepo struct {
	createFn           func(context.Context, *model.UserInfo) error
	getByUuidFn        func(context.Context, string) (*model.UserInfo, error)
	getFullByUuidFn    func(context.Context, string) (*model.UserInfo, error)
	batchGetByUuidsFn  func(context.Context, []string) (map[string]*model.UserInfo, error)
	getByUniqueCodeFn  func(context.Context, string) (*model.UserInfo, error)
	emailExistsFn      func(context.Context, string) (bool, error)
	uniqueCodeExistsFn func(context.Context, string) (bool, error)
	updateFn           func(context.Context, string, map[string]interface{}) error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.UserInfo) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, user)
}

func (f *fakeUserRepo) GetByUuid(ctx context.Context, uuid string) (*model.UserInfo, error) {
	if f.getByUuidFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByUuidFn(ctx, uuid)
}

func (f *fakeUserRepo) GetFullByUuid(ctx context.Context, uuid string) (*model.UserInfo, error) {
	if f.getFullByUuidFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getFullByUuidFn(ctx, uuid)
}

func (f *fakeUserRepo) BatchGetByUuids(ctx context.Context, uuids []string) (map[string]*model.UserInfo, error) {
	if f.batchGetByUuidsFn == nil {
		return map[string]*model.UserInfo{}, nil
	}
	return f.batchGetByUuidsFn(ctx, uuids)
}

func (f *fakeUserRepo) GetByUniqueCode(ctx context.Context, code string) (*model.UserInfo, error) {
	if f.getByUniqueCodeFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByUniqueCodeFn(ctx, code)
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if f.emailExistsFn == nil {
		return false, nil
	}
	return f.emailExistsFn(ctx, email)
}

func (f *fakeUserRepo) UniqueCodeExists(ctx context.Context, code string) (bool, error) {
	if f.uniqueCodeExistsFn == nil {
		return false, nil
	}
	return f.uniqueCodeExistsFn(ctx, code)
}

func (f *fakeUserRepo) Update(ctx context.Context, uuid string, fields map[string]interface{}) error {
	if f.updateFn == nil {
		return nil
	}
	return f.updateFn(ctx, uuid, fields)
}

// ==================== 小组 ====================

type fakeGroupRepo struct {
	createWithOwnerFn      func(context.Context, *model.GroupInfo, *model.GroupMembership) error
	getByUuidFn            func(context.Context, string) (*model.GroupInfo, error)
	getByInviteCodeFn      func(context.Context, string) (*model.GroupInfo, error)
	updateNameFn           func(context.Context, string, string) error
	updateInviteCodeFn     func(context.Context, string, *string) error
	inviteCodeExistsFn     func(context.Context, string) (bool, error)
	countAcceptedMembersFn func(context.Context, string) (int64, error)
	deleteFn               func(context.Context, string) error
}

func (f *fakeGroupRepo) CreateWithOwner(ctx context.Context, group *model.GroupInfo, owner *model.GroupMembership) error {
	if f.createWithOwnerFn == nil {
		return nil
	}
	return f.createWithOwnerFn(ctx, group, owner)
}

func (f *fakeGroupRepo) GetByUuid(ctx context.Context, uuid string) (*model.GroupInfo, error) {
	if f.getByUuidFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByUuidFn(ctx, uuid)
}

func (f *fakeGroupRepo) GetByInviteCode(ctx context.Context, code string) (*model.GroupInfo, error) {
	if f.getByInviteCodeFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByInviteCodeFn(ctx, code)
}

func (f *fakeGroupRepo) UpdateName(ctx context.Context, uuid, name string) error {
	if f.updateNameFn == nil {
		return nil
	}
	return f.updateNameFn(ctx, uuid, name)
}

func (f *fakeGroupRepo) UpdateInviteCode(ctx context.Context, uuid string, code *string) error {
	if f.updateInviteCodeFn == nil {
		return nil
	}
	return f.updateInviteCodeFn(ctx, uuid, code)
}

func (f *fakeGroupRepo) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	if f.inviteCodeExistsFn == nil {
		return false, nil
	}
	return f.inviteCodeExistsFn(ctx, code)
}

func (f *fakeGroupRepo) CountAcceptedMembers(ctx context.Context, uuid string) (int64, error) {
	if f.countAcceptedMembersFn == nil {
		return 0, nil
	}
	return f.countAcceptedMembersFn(ctx, uuid)
}

func (f *fakeGroupRepo) Delete(ctx context.Context, uuid string) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, uuid)
}

// ==================== 小组成员 ====================

type fakeMembershipRepo struct {
	getFn                 func(context.Context, string, string) (*model.GroupMembership, error)
	isAcceptedMemberFn    func(context.Context, string, string) (bool, error)
	listAcceptedByGroupFn func(context.Context, string) ([]*model.GroupMembership, error)
	listByUserFn          func(context.Context, string, int8) ([]*model.GroupMembership, error)
	createFn              func(context.Context, *model.GroupMembership) error
	acceptFn              func(context.Context, string, string, time.Time) error
	deleteFn              func(context.Context, string, string) error
	createUserAndJoinFn   func(context.Context, *model.UserInfo, *model.GroupMembership) error
}

func (f *fakeMembershipRepo) Get(ctx context.Context, groupUuid, userUuid string) (*model.GroupMembership, error) {
	if f.getFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getFn(ctx, groupUuid, userUuid)
}

func (f *fakeMembershipRepo) IsAcceptedMember(ctx context.Context, groupUuid, userUuid string) (bool, error) {
	if f.isAcceptedMemberFn == nil {
		return false, nil
	}
	return f.isAcceptedMemberFn(ctx, groupUuid, userUuid)
}

func (f *fakeMembershipRepo) ListAcceptedByGroup(ctx context.Context, groupUuid string) ([]*model.GroupMembership, error) {
	if f.listAcceptedByGroupFn == nil {
		return nil, nil
	}
	return f.listAcceptedByGroupFn(ctx, groupUuid)
}

func (f *fakeMembershipRepo) ListByUser(ctx context.Context, userUuid string, status int8) ([]*model.GroupMembership, error) {
	if f.listByUserFn == nil {
		return nil, nil
	}
	return f.listByUserFn(ctx, userUuid, status)
}

func (f *fakeMembershipRepo) Create(ctx context.Context, m *model.GroupMembership) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, m)
}

func (f *fakeMembershipRepo) Accept(ctx context.Context, groupUuid, userUuid string, joinedAt time.Time) error {
	if f.acceptFn == nil {
		return nil
	}
	return f.acceptFn(ctx, groupUuid, userUuid, joinedAt)
}

func (f *fakeMembershipRepo) Delete(ctx context.Context, groupUuid, userUuid string) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, groupUuid, userUuid)
}

func (f *fakeMembershipRepo) CreateUserAndJoin(ctx context.Context, user *model.UserInfo, m *model.GroupMembership) error {
	if f.createUserAndJoinFn == nil {
		return nil
	}
	return f.createUserAndJoinFn(ctx, user, m)
}

// ==================== 评分 ====================

type fakeScoreRepo struct {
	createWithGroupsFn       func(context.Context, *model.LifeScore, []*model.LifeScoreGroup) error
	getByUuidFn              func(context.Context, string) (*model.LifeScore, error)
	listByGroupFn            func(context.Context, string) ([]*model.LifeScore, error)
	listByUserFn             func(context.Context, string) ([]*model.LifeScore, error)
	isSharedToGroupFn        func(context.Context, string, string) (bool, error)
	listGroupUuidsForScoreFn func(context.Context, string) ([]string, error)
	deleteFn                 func(context.Context, string) error
}

func (f *fakeScoreRepo) CreateWithGroups(ctx context.Context, score *model.LifeScore, shares []*model.LifeScoreGroup) error {
	if f.createWithGroupsFn == nil {
		return nil
	}
	return f.createWithGroupsFn(ctx, score, shares)
}

func (f *fakeScoreRepo) GetByUuid(ctx context.Context, uuid string) (*model.LifeScore, error) {
	if f.getByUuidFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByUuidFn(ctx, uuid)
}

func (f *fakeScoreRepo) ListByGroup(ctx context.Context, groupUuid string) ([]*model.LifeScore, error) {
	if f.listByGroupFn == nil {
		return nil, nil
	}
	return f.listByGroupFn(ctx, groupUuid)
}

func (f *fakeScoreRepo) ListByUser(ctx context.Context, userUuid string) ([]*model.LifeScore, error) {
	if f.listByUserFn == nil {
		return nil, nil
	}
	return f.listByUserFn(ctx, userUuid)
}

func (f *fakeScoreRepo) IsSharedToGroup(ctx context.Context, scoreUuid, groupUuid string) (bool, error) {
	if f.isSharedToGroupFn == nil {
		return false, nil
	}
	return f.isSharedToGroupFn(ctx, scoreUuid, groupUuid)
}

func (f *fakeScoreRepo) ListGroupUuidsForScore(ctx context.Context, scoreUuid string) ([]string, error) {
	if f.listGroupUuidsForScoreFn == nil {
		return nil, nil
	}
	return f.listGroupUuidsForScoreFn(ctx, scoreUuid)
}

func (f *fakeScoreRepo) Delete(ctx context.Context, uuid string) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, uuid)
}

// ==================== 评论与已读 ====================

type fakeCommentRepo struct {
	createFn         func(context.Context, *model.ScoreComment) error
	getByUuidFn      func(context.Context, string) (*model.ScoreComment, error)
	listByThreadFn   func(context.Context, string, string) ([]*model.ScoreComment, error)
	deleteFn         func(context.Context, string) error
	countUnreadFn    func(context.Context, string, string, string, *time.Time) (int64, error)
	getReadMarkFn    func(context.Context, string, string, string) (*time.Time, error)
	listReadMarksFn  func(context.Context, string, string) (map[string]time.Time, error)
	upsertReadMarkFn func(context.Context, string, string, string, time.Time) error
}

func (f *fakeCommentRepo) Create(ctx context.Context, c *model.ScoreComment) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, c)
}

func (f *fakeCommentRepo) GetByUuid(ctx context.Context, uuid string) (*model.ScoreComment, error) {
	if f.getByUuidFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByUuidFn(ctx, uuid)
}

func (f *fakeCommentRepo) ListByThread(ctx context.Context, scoreUuid, groupUuid string) ([]*model.ScoreComment, error) {
	if f.listByThreadFn == nil {
		return nil, nil
	}
	return f.listByThreadFn(ctx, scoreUuid, groupUuid)
}

func (f *fakeCommentRepo) Delete(ctx context.Context, uuid string) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, uuid)
}

func (f *fakeCommentRepo) CountUnread(ctx context.Context, scoreUuid, groupUuid, viewerUuid string, since *time.Time) (int64, error) {
	if f.countUnreadFn == nil {
		return 0, nil
	}
	return f.countUnreadFn(ctx, scoreUuid, groupUuid, viewerUuid, since)
}

func (f *fakeCommentRepo) GetReadMark(ctx context.Context, userUuid, scoreUuid, groupUuid string) (*time.Time, error) {
	if f.getReadMarkFn == nil {
		return nil, nil
	}
	return f.getReadMarkFn(ctx, userUuid, scoreUuid, groupUuid)
}

func (f *fakeCommentRepo) ListReadMarks(ctx context.Context, userUuid, groupUuid string) (map[string]time.Time, error) {
	if f.listReadMarksFn == nil {
		return map[string]time.Time{}, nil
	}
	return f.listReadMarksFn(ctx, userUuid, groupUuid)
}

func (f *fakeCommentRepo) UpsertReadMark(ctx context.Context, userUuid, scoreUuid, groupUuid string, at time.Time) error {
	if f.upsertReadMarkFn == nil {
		return nil
	}
	return f.upsertReadMarkFn(ctx, userUuid, scoreUuid, groupUuid, at)
}

// ==================== 表态 ====================

type fakeReactionRepo struct {
	getScoreReactionFn      func(context.Context, string, string, string) (*model.ScoreReaction, error)
	upsertScoreReactionFn   func(context.Context, *model.ScoreReaction) error
	deleteScoreReactionFn   func(context.Context, string, string, string) error
	listScoreReactionsFn    func(context.Context, string, string) ([]*model.ScoreReaction, error)
	getCommentReactionFn    func(context.Context, string, string) (*model.CommentReaction, error)
	upsertCommentReactionFn func(context.Context, *model.CommentReaction) error
	deleteCommentReactionFn func(context.Context, string, string) error
	listCommentReactionsFn  func(context.Context, []string) ([]*model.CommentReaction, error)
}

func (f *fakeReactionRepo) GetScoreReaction(ctx context.Context, scoreUuid, userUuid, groupUuid string) (*model.ScoreReaction, error) {
	if f.getScoreReactionFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getScoreReactionFn(ctx, scoreUuid, userUuid, groupUuid)
}

func (f *fakeReactionRepo) UpsertScoreReaction(ctx context.Context, reaction *model.ScoreReaction) error {
	if f.upsertScoreReactionFn == nil {
		return nil
	}
	return f.upsertScoreReactionFn(ctx, reaction)
}

func (f *fakeReactionRepo) DeleteScoreReaction(ctx context.Context, scoreUuid, userUuid, groupUuid string) error {
	if f.deleteScoreReactionFn == nil {
		return nil
	}
	return f.deleteScoreReactionFn(ctx, scoreUuid, userUuid, groupUuid)
}

func (f *fakeReactionRepo) ListScoreReactions(ctx context.Context, scoreUuid, groupUuid string) ([]*model.ScoreReaction, error) {
	if f.listScoreReactionsFn == nil {
		return nil, nil
	}
	return f.listScoreReactionsFn(ctx, scoreUuid, groupUuid)
}

func (f *fakeReactionRepo) GetCommentReaction(ctx context.Context, commentUuid, userUuid string) (*model.CommentReaction, error) {
	if f.getCommentReactionFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getCommentReactionFn(ctx, commentUuid, userUuid)
}

func (f *fakeReactionRepo) UpsertCommentReaction(ctx context.Context, reaction *model.CommentReaction) error {
	if f.upsertCommentReactionFn == nil {
		return nil
	}
	return f.upsertCommentReactionFn(ctx, reaction)
}

func (f *fakeReactionRepo) DeleteCommentReaction(ctx context.Context, commentUuid, userUuid string) error {
	if f.deleteCommentReactionFn == nil {
		return nil
	}
	return f.deleteCommentReactionFn(ctx, commentUuid, userUuid)
}

func (f *fakeReactionRepo) ListCommentReactions(ctx context.Context, commentUuids []string) ([]*model.CommentReaction, error) {
	if f.listCommentReactionsFn == nil {
		return nil, nil
	}
	return f.listCommentReactionsFn(ctx, commentUuids)
}

// ==================== 连接 ====================

type fakeConnectionRepo struct {
	getByUuidFn           func(context.Context, string) (*model.UserConnection, error)
	getBetweenFn          func(context.Context, string, string) (*model.UserConnection, error)
	areConnectedFn        func(context.Context, string, string) (bool, error)
	createFn              func(context.Context, *model.UserConnection) error
	updateStatusFn        func(context.Context, string, int8) error
	repointFn             func(context.Context, string, string, string) error
	deleteFn              func(context.Context, string) error
	listAcceptedFn        func(context.Context, string) ([]*model.UserConnection, error)
	listPendingReceivedFn func(context.Context, string) ([]*model.UserConnection, error)
	listPendingSentFn     func(context.Context, string) ([]*model.UserConnection, error)
}

func (f *fakeConnectionRepo) GetByUuid(ctx context.Context, uuid string) (*model.UserConnection, error) {
	if f.getByUuidFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByUuidFn(ctx, uuid)
}

func (f *fakeConnectionRepo) GetBetween(ctx context.Context, userUuid, peerUuid string) (*model.UserConnection, error) {
	if f.getBetweenFn == nil {
		return nil, nil
	}
	return f.getBetweenFn(ctx, userUuid, peerUuid)
}

func (f *fakeConnectionRepo) AreConnected(ctx context.Context, userUuid, peerUuid string) (bool, error) {
	if f.areConnectedFn == nil {
		return false, nil
	}
	return f.areConnectedFn(ctx, userUuid, peerUuid)
}

func (f *fakeConnectionRepo) Create(ctx context.Context, c *model.UserConnection) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, c)
}

func (f *fakeConnectionRepo) UpdateStatus(ctx context.Context, uuid string, status int8) error {
	if f.updateStatusFn == nil {
		return nil
	}
	return f.updateStatusFn(ctx, uuid, status)
}

func (f *fakeConnectionRepo) Repoint(ctx context.Context, uuid, senderUuid, receiverUuid string) error {
	if f.repointFn == nil {
		return nil
	}
	return f.repointFn(ctx, uuid, senderUuid, receiverUuid)
}

func (f *fakeConnectionRepo) Delete(ctx context.Context, uuid string) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, uuid)
}

func (f *fakeConnectionRepo) ListAccepted(ctx context.Context, userUuid string) ([]*model.UserConnection, error) {
	if f.listAcceptedFn == nil {
		return nil, nil
	}
	return f.listAcceptedFn(ctx, userUuid)
}

func (f *fakeConnectionRepo) ListPendingReceived(ctx context.Context, userUuid string) ([]*model.UserConnection, error) {
	if f.listPendingReceivedFn == nil {
		return nil, nil
	}
	return f.listPendingReceivedFn(ctx, userUuid)
}

func (f *fakeConnectionRepo) ListPendingSent(ctx context.Context, userUuid string) ([]*model.UserConnection, error) {
	if f.listPendingSentFn == nil {
		return nil, nil
	}
	return f.listPendingSentFn(ctx, userUuid)
}

// ==================== 应用邀请码 ====================

type fakeInviteRepo struct {
	createFn        func(context.Context, *model.InviteCode) error
	getByCodeFn     func(context.Context, string) (*model.InviteCode, error)
	codeExistsFn    func(context.Context, string) (bool, error)
	listByCreatorFn func(context.Context, string) ([]*model.InviteCode, error)
	expireFn        func(context.Context, string, time.Time) error
}

func (f *fakeInviteRepo) Create(ctx context.Context, invite *model.InviteCode) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, invite)
}

func (f *fakeInviteRepo) GetByCode(ctx context.Context, code string) (*model.InviteCode, error) {
	if f.getByCodeFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getByCodeFn(ctx, code)
}

func (f *fakeInviteRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	if f.codeExistsFn == nil {
		return false, nil
	}
	return f.codeExistsFn(ctx, code)
}

func (f *fakeInviteRepo) ListByCreator(ctx context.Context, userUuid string) ([]*model.InviteCode, error) {
	if f.listByCreatorFn == nil {
		return nil, nil
	}
	return f.listByCreatorFn(ctx, userUuid)
}

func (f *fakeInviteRepo) Expire(ctx context.Context, uuid string, at time.Time) error {
	if f.expireFn == nil {
		return nil
	}
	return f.expireFn(ctx, uuid, at)
}

// ==================== 街机成绩 ====================

type fakeWormRepo struct {
	bestForUserLevelFn func(context.Context, string, string) (*model.WormScore, error)
	topForLevelFn      func(context.Context, string, int) ([]*model.WormScore, error)
	createFn           func(context.Context, *model.WormScore) error
}

func (f *fakeWormRepo) BestForUserLevel(ctx context.Context, userUuid, levelId string) (*model.WormScore, error) {
	if f.bestForUserLevelFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.bestForUserLevelFn(ctx, userUuid, levelId)
}

func (f *fakeWormRepo) TopForLevel(ctx context.Context, levelId string, limit int) ([]*model.WormScore, error) {
	if f.topForLevelFn == nil {
		return nil, nil
	}
	return f.topForLevelFn(ctx, levelId, limit)
}

func (f *fakeWormRepo) Create(ctx context.Context, w *model.WormScore) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, w)
}
