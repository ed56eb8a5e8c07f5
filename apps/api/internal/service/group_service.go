package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"PulseServer/apps/api/internal/dto"
	"PulseServer/apps/api/internal/repository"
	"PulseServer/apps/api/internal/utils"
	"PulseServer/consts"
	"PulseServer/model"
	"PulseServer/pkg/async"
	"PulseServer/pkg/logger"
	"PulseServer/pkg/mail"
	"PulseServer/pkg/util"

	"google.golang.org/grpc/codes"
)

// groupServiceImpl 小组服务实现
type groupServiceImpl struct {
	groupRepo      repository.IGroupRepository
	membershipRepo repository.IMembershipRepository
	userRepo       repository.IUserRepository
	scoreRepo      repository.IScoreRepository
	commentRepo    repository.ICommentRepository
	mailer         *mail.Mailer
}

// NewGroupService 创建小组服务实例
func NewGroupService(
	groupRepo repository.IGroupRepository,
	membershipRepo repository.IMembershipRepository,
	userRepo repository.IUserRepository,
	scoreRepo repository.IScoreRepository,
	commentRepo repository.ICommentRepository,
	mailer *mail.Mailer,
) GroupService {
	return &groupServiceImpl{
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		scoreRepo:      scoreRepo,
		commentRepo:    commentRepo,
		mailer:         mailer,
	}
}

// CreateGroup 创建小组
// 小组行与组长成员行同一事务写入；加入码创建时即生成。
func (s *groupServiceImpl) CreateGroup(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupInfo, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, bizError(codes.InvalidArgument, consts.CodeGroupNameRequired)
	}

	inviteCode, err := utils.GenerateUniqueCode(ctx, s.groupRepo.InviteCodeExists)
	if err != nil {
		logger.Error(ctx, "生成加入码失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	now := time.Now()
	group := &model.GroupInfo{
		Uuid:          util.GenEntityID(),
		Name:          name,
		CreatedByUuid: userUuid,
		InviteCode:    &inviteCode,
	}
	owner := &model.GroupMembership{
		GroupUuid: group.Uuid,
		UserUuid:  userUuid,
		Role:      model.GroupRoleOwner,
		Status:    model.MembershipAccepted,
		JoinedAt:  &now,
	}

	if err := s.groupRepo.CreateWithOwner(ctx, group, owner); err != nil {
		logger.Error(ctx, "创建小组失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	logger.Info(ctx, "小组创建成功", logger.String("group_uuid", group.Uuid))
	group.CreatedAt = now
	return modelToGroupInfo(group, 1, true), nil
}

// UpdateGroup 重命名小组（仅创建者）
func (s *groupServiceImpl) UpdateGroup(ctx context.Context, groupUuid string, req *dto.UpdateGroupRequest) error {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return bizError(codes.InvalidArgument, consts.CodeGroupNameRequired)
	}

	if err := s.requireCreator(ctx, groupUuid, userUuid); err != nil {
		return err
	}

	if err := s.groupRepo.UpdateName(ctx, groupUuid, name); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.NotFound, consts.CodeGroupNotFound)
		}
		logger.Error(ctx, "重命名小组失败", logger.ErrorField("error", err))
		return errInternal()
	}
	return nil
}

// DeleteGroup 删除小组及其全部数据（仅创建者）
func (s *groupServiceImpl) DeleteGroup(ctx context.Context, groupUuid string) error {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.requireCreator(ctx, groupUuid, userUuid); err != nil {
		return err
	}

	if err := s.groupRepo.Delete(ctx, groupUuid); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.NotFound, consts.CodeGroupNotFound)
		}
		logger.Error(ctx, "删除小组失败", logger.ErrorField("error", err))
		return errInternal()
	}

	logger.Info(ctx, "小组已删除", logger.String("group_uuid", groupUuid))
	return nil
}

// GetGroupDetail 小组详情
// 仅已接受成员可见；未读数只统计每个成员在组内的最新一条评分。
func (s *groupServiceImpl) GetGroupDetail(ctx context.Context, groupUuid string) (*dto.GroupDetailResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.getGroupOrBizError(ctx, groupUuid)
	if err != nil {
		return nil, err
	}

	myMembership, err := s.membershipRepo.Get(ctx, groupUuid, userUuid)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, bizError(codes.PermissionDenied, consts.CodeNotGroupMember)
		}
		logger.Error(ctx, "查询成员记录失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}
	if myMembership.Status != model.MembershipAccepted {
		return nil, bizError(codes.PermissionDenied, consts.CodeNotGroupMember)
	}

	members, err := s.membershipRepo.ListAcceptedByGroup(ctx, groupUuid)
	if err != nil {
		logger.Error(ctx, "查询成员列表失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	memberUuids := make([]string, 0, len(members))
	for _, m := range members {
		memberUuids = append(memberUuids, m.UserUuid)
	}
	users, err := s.userRepo.BatchGetByUuids(ctx, memberUuids)
	if err != nil {
		logger.Error(ctx, "批量查询用户失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	memberDTOs := make([]*dto.GroupMember, 0, len(members))
	for _, m := range members {
		item := &dto.GroupMember{
			UserUuid: m.UserUuid,
			Role:     m.Role,
		}
		if m.JoinedAt != nil {
			item.JoinedAt = m.JoinedAt.Unix()
		}
		if u, ok := users[m.UserUuid]; ok {
			item.DisplayName = u.DisplayName
			item.AvatarUrl = u.AvatarUrl
		}
		memberDTOs = append(memberDTOs, item)
	}

	stats, err := s.collectGroupStats(ctx, groupUuid, userUuid)
	if err != nil {
		return nil, err
	}

	resp := &dto.GroupDetailResponse{
		Group:              modelToGroupInfo(group, int64(len(members)), true),
		Members:            memberDTOs,
		MyRole:             myMembership.Role,
		UnreadCommentCount: stats.unreadCount,
		RecentActivityAt:   stats.recentActivityAt,
	}
	if stats.myLatest != nil {
		resp.MyLatestScore = modelToScoreInfo(stats.myLatest, users[userUuid])
	}
	return resp, nil
}

// ListMyGroups 我加入的小组列表
func (s *groupServiceImpl) ListMyGroups(ctx context.Context) (*dto.GroupListResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	memberships, err := s.membershipRepo.ListByUser(ctx, userUuid, model.MembershipAccepted)
	if err != nil {
		logger.Error(ctx, "查询我的小组失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	items := make([]*dto.GroupListItem, 0, len(memberships))
	for _, m := range memberships {
		group, gerr := s.groupRepo.GetByUuid(ctx, m.GroupUuid)
		if gerr != nil {
			if errors.Is(gerr, repository.ErrRecordNotFound) {
				continue // 小组刚被删除，跳过
			}
			logger.Error(ctx, "查询小组失败", logger.ErrorField("error", gerr))
			return nil, errInternal()
		}

		memberCount, cerr := s.groupRepo.CountAcceptedMembers(ctx, m.GroupUuid)
		if cerr != nil {
			logger.Error(ctx, "统计成员数失败", logger.ErrorField("error", cerr))
			return nil, errInternal()
		}

		stats, serr := s.collectGroupStats(ctx, m.GroupUuid, userUuid)
		if serr != nil {
			return nil, serr
		}

		items = append(items, &dto.GroupListItem{
			Group:              modelToGroupInfo(group, memberCount, true),
			MyRole:             m.Role,
			UnreadCommentCount: stats.unreadCount,
		})
	}
	return &dto.GroupListResponse{Groups: items}, nil
}

// ListPendingInvites 我收到的待处理小组邀请
func (s *groupServiceImpl) ListPendingInvites(ctx context.Context) (*dto.PendingInviteListResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	memberships, err := s.membershipRepo.ListByUser(ctx, userUuid, model.MembershipPending)
	if err != nil {
		logger.Error(ctx, "查询待处理邀请失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	items := make([]*dto.PendingInviteItem, 0, len(memberships))
	for _, m := range memberships {
		group, gerr := s.groupRepo.GetByUuid(ctx, m.GroupUuid)
		if gerr != nil {
			if errors.Is(gerr, repository.ErrRecordNotFound) {
				continue
			}
			logger.Error(ctx, "查询小组失败", logger.ErrorField("error", gerr))
			return nil, errInternal()
		}
		memberCount, cerr := s.groupRepo.CountAcceptedMembers(ctx, m.GroupUuid)
		if cerr != nil {
			logger.Error(ctx, "统计成员数失败", logger.ErrorField("error", cerr))
			return nil, errInternal()
		}

		item := &dto.PendingInviteItem{
			// 未入组前不下发加入码
			Group:         modelToGroupInfo(group, memberCount, false),
			InvitedByUuid: m.InvitedByUuid,
			InvitedAt:     m.CreatedAt.Unix(),
		}
		if m.InvitedByUuid != "" {
			if inviter, uerr := s.userRepo.GetByUuid(ctx, m.InvitedByUuid); uerr == nil {
				item.InvitedByName = inviter.DisplayName
			}
		}
		items = append(items, item)
	}
	return &dto.PendingInviteListResponse{Invites: items}, nil
}

// InviteMember 邀请用户入组（仅创建者）
// 被邀请人绑定了邮箱时异步发送通知邮件。
func (s *groupServiceImpl) InviteMember(ctx context.Context, groupUuid string, req *dto.InviteMemberRequest) error {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return err
	}

	group, err := s.getGroupOrBizError(ctx, groupUuid)
	if err != nil {
		return err
	}
	if group.CreatedByUuid != userUuid {
		return bizError(codes.PermissionDenied, consts.CodeNoPermission)
	}

	// 完整行读取：邮箱不进缓存，走缓存会拿不到、邮件被静默跳过
	invitee, err := s.userRepo.GetFullByUuid(ctx, req.UserUuid)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.NotFound, consts.CodeUserNotFound)
		}
		logger.Error(ctx, "查询被邀请用户失败", logger.ErrorField("error", err))
		return errInternal()
	}

	existing, err := s.membershipRepo.Get(ctx, groupUuid, req.UserUuid)
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		logger.Error(ctx, "查询成员记录失败", logger.ErrorField("error", err))
		return errInternal()
	}
	if existing != nil {
		if existing.Status == model.MembershipAccepted {
			return bizError(codes.AlreadyExists, consts.CodeAlreadyGroupMember)
		}
		return bizError(codes.AlreadyExists, consts.CodeInviteAlreadyExists)
	}

	m := &model.GroupMembership{
		GroupUuid:     groupUuid,
		UserUuid:      req.UserUuid,
		Role:          model.GroupRoleMember,
		Status:        model.MembershipPending,
		InvitedByUuid: userUuid,
	}
	if err := s.membershipRepo.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return bizError(codes.AlreadyExists, consts.CodeInviteAlreadyExists)
		}
		logger.Error(ctx, "创建邀请失败", logger.ErrorField("error", err))
		return errInternal()
	}

	s.sendInviteMailAsync(ctx, group, userUuid, invitee)
	return nil
}

// AcceptInvite 接受小组邀请
func (s *groupServiceImpl) AcceptInvite(ctx context.Context, groupUuid string) error {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return err
	}

	m, err := s.membershipRepo.Get(ctx, groupUuid, userUuid)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.NotFound, consts.CodeInviteNotFound)
		}
		logger.Error(ctx, "查询邀请失败", logger.ErrorField("error", err))
		return errInternal()
	}
	if m.Status == model.MembershipAccepted {
		return bizError(codes.AlreadyExists, consts.CodeAlreadyGroupMember)
	}

	if err := s.membershipRepo.Accept(ctx, groupUuid, userUuid, time.Now()); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.NotFound, consts.CodeInviteNotFound)
		}
		logger.Error(ctx, "接受邀请失败", logger.ErrorField("error", err))
		return errInternal()
	}
	return nil
}

// DeclineInvite 拒绝小组邀请（删行，后续可再次被邀请）
func (s *groupServiceImpl) DeclineInvite(ctx context.Context, groupUuid string) error {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return err
	}

	m, err := s.membershipRepo.Get(ctx, groupUuid, userUuid)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.NotFound, consts.CodeInviteNotFound)
		}
		logger.Error(ctx, "查询邀请失败", logger.ErrorField("error", err))
		return errInternal()
	}
	if m.Status == model.MembershipAccepted {
		return bizError(codes.AlreadyExists, consts.CodeAlreadyGroupMember)
	}

	if err := s.membershipRepo.Delete(ctx, groupUuid, userUuid); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.NotFound, consts.CodeInviteNotFound)
		}
		logger.Error(ctx, "拒绝邀请失败", logger.ErrorField("error", err))
		return errInternal()
	}
	return nil
}

// LeaveGroup 退出小组
// 组长不能退出：小组必须有组长，要散伙请直接删除小组。
func (s *groupServiceImpl) LeaveGroup(ctx context.Context, groupUuid string) error {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return err
	}

	m, err := s.membershipRepo.Get(ctx, groupUuid, userUuid)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.PermissionDenied, consts.CodeNotGroupMember)
		}
		logger.Error(ctx, "查询成员记录失败", logger.ErrorField("error", err))
		return errInternal()
	}
	if m.Role == model.GroupRoleOwner {
		return bizError(codes.FailedPrecondition, consts.CodeOwnerCannotLeave)
	}

	if err := s.membershipRepo.Delete(ctx, groupUuid, userUuid); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.PermissionDenied, consts.CodeNotGroupMember)
		}
		logger.Error(ctx, "退出小组失败", logger.ErrorField("error", err))
		return errInternal()
	}
	return nil
}

// RemoveMember 移除成员（仅创建者；移除自己要走退出或删除路径）
func (s *groupServiceImpl) RemoveMember(ctx context.Context, groupUuid string, req *dto.RemoveMemberRequest) error {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.requireCreator(ctx, groupUuid, userUuid); err != nil {
		return err
	}
	if req.UserUuid == userUuid {
		return bizError(codes.FailedPrecondition, consts.CodeCannotRemoveSelf)
	}

	if err := s.membershipRepo.Delete(ctx, groupUuid, req.UserUuid); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.NotFound, consts.CodeNotGroupMember)
		}
		logger.Error(ctx, "移除成员失败", logger.ErrorField("error", err))
		return errInternal()
	}
	return nil
}

// RotateInviteCode 重置加入码（任意已接受成员，旧码立即失效）
func (s *groupServiceImpl) RotateInviteCode(ctx context.Context, groupUuid string) (*dto.RotateCodeResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.getGroupOrBizError(ctx, groupUuid); err != nil {
		return nil, err
	}

	ok, err := s.membershipRepo.IsAcceptedMember(ctx, groupUuid, userUuid)
	if err != nil {
		logger.Error(ctx, "查询成员记录失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}
	if !ok {
		return nil, bizError(codes.PermissionDenied, consts.CodeNotGroupMember)
	}

	newCode, err := utils.GenerateUniqueCode(ctx, s.groupRepo.InviteCodeExists)
	if err != nil {
		logger.Error(ctx, "生成加入码失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	if err := s.groupRepo.UpdateInviteCode(ctx, groupUuid, &newCode); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, bizError(codes.NotFound, consts.CodeGroupNotFound)
		}
		logger.Error(ctx, "重置加入码失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}
	return &dto.RotateCodeResponse{InviteCode: newCode}, nil
}

// JoinByCode 按加入码入组
// 直接成为已接受成员；如已有待处理邀请则原地升级为已接受。
func (s *groupServiceImpl) JoinByCode(ctx context.Context, req *dto.JoinByCodeRequest) (*dto.GroupInfo, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.getGroupByCodeOrBizError(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	existing, err := s.membershipRepo.Get(ctx, group.Uuid, userUuid)
	if err != nil && !errors.Is(err, repository.ErrRecordNotFound) {
		logger.Error(ctx, "查询成员记录失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	switch {
	case existing == nil:
		m := &model.GroupMembership{
			GroupUuid: group.Uuid,
			UserUuid:  userUuid,
			Role:      model.GroupRoleMember,
			Status:    model.MembershipAccepted,
			JoinedAt:  &now,
		}
		if cerr := s.membershipRepo.Create(ctx, m); cerr != nil {
			if errors.Is(cerr, repository.ErrDuplicateKey) {
				return nil, bizError(codes.AlreadyExists, consts.CodeAlreadyGroupMember)
			}
			logger.Error(ctx, "入组失败", logger.ErrorField("error", cerr))
			return nil, errInternal()
		}
	case existing.Status == model.MembershipAccepted:
		return nil, bizError(codes.AlreadyExists, consts.CodeAlreadyGroupMember)
	default:
		// 待处理邀请凭码升级为已接受
		if aerr := s.membershipRepo.Accept(ctx, group.Uuid, userUuid, now); aerr != nil {
			logger.Error(ctx, "升级邀请失败", logger.ErrorField("error", aerr))
			return nil, errInternal()
		}
	}

	memberCount, err := s.groupRepo.CountAcceptedMembers(ctx, group.Uuid)
	if err != nil {
		logger.Error(ctx, "统计成员数失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}
	return modelToGroupInfo(group, memberCount, true), nil
}

// JoinWithAccount 凭加入码一步开户并入组（公开接口）
// 用户行与成员行同一事务：不允许出现建了号却没进组的中间态。
func (s *groupServiceImpl) JoinWithAccount(ctx context.Context, req *dto.JoinWithAccountRequest) (*dto.JoinWithAccountResponse, error) {
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, bizError(codes.InvalidArgument, consts.CodeDisplayNameRequired)
	}

	group, err := s.getGroupByCodeOrBizError(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		taken, eerr := s.userRepo.EmailExists(ctx, req.Email)
		if eerr != nil {
			logger.Error(ctx, "查询邮箱占用失败", logger.ErrorField("error", eerr))
			return nil, errInternal()
		}
		if taken {
			return nil, bizError(codes.AlreadyExists, consts.CodeEmailAlreadyUsed)
		}
	}

	uniqueCode, err := utils.GenerateUniqueCode(ctx, s.userRepo.UniqueCodeExists)
	if err != nil {
		logger.Error(ctx, "生成登录码失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	now := time.Now()
	user := &model.UserInfo{
		Uuid:        util.GenEntityID(),
		DisplayName: displayName,
		AvatarUrl:   req.AvatarUrl,
		UniqueCode:  &uniqueCode,
	}
	if req.Email != "" {
		email := req.Email
		user.Email = &email
	}
	m := &model.GroupMembership{
		GroupUuid: group.Uuid,
		UserUuid:  user.Uuid,
		Role:      model.GroupRoleMember,
		Status:    model.MembershipAccepted,
		JoinedAt:  &now,
	}

	if err := s.membershipRepo.CreateUserAndJoin(ctx, user, m); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, bizError(codes.AlreadyExists, consts.CodeEmailAlreadyUsed)
		}
		logger.Error(ctx, "开户入组失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	token, err := utils.GenerateToken(user.Uuid)
	if err != nil {
		logger.Error(ctx, "签发 Token 失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	memberCount, err := s.groupRepo.CountAcceptedMembers(ctx, group.Uuid)
	if err != nil {
		logger.Error(ctx, "统计成员数失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	user.CreatedAt = now
	logger.Info(ctx, "开户入组成功",
		logger.String("new_user_uuid", user.Uuid),
		logger.String("group_uuid", group.Uuid),
	)
	return &dto.JoinWithAccountResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		UserInfo:    modelToSelfUserInfo(user),
		Group:       modelToGroupInfo(group, memberCount, true),
	}, nil
}

// PreviewByCode 加入码预览（公开接口）
func (s *groupServiceImpl) PreviewByCode(ctx context.Context, code string) (*dto.GroupPreviewResponse, error) {
	group, err := s.getGroupByCodeOrBizError(ctx, code)
	if err != nil {
		return nil, err
	}

	memberCount, err := s.groupRepo.CountAcceptedMembers(ctx, group.Uuid)
	if err != nil {
		logger.Error(ctx, "统计成员数失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}
	return &dto.GroupPreviewResponse{
		Name:        group.Name,
		MemberCount: memberCount,
	}, nil
}

// ==================== 内部辅助 ====================

// groupStats 小组统计：未读数、最近动态、我的最新评分
type groupStats struct {
	unreadCount      int64
	recentActivityAt int64
	myLatest         *model.LifeScore
}

// collectGroupStats 一次扫描组内评分流，取每成员最新一条算未读
// 未读只看最新评分：旧评分的讨论已经翻篇，不计入小组角标。
func (s *groupServiceImpl) collectGroupStats(ctx context.Context, groupUuid, viewerUuid string) (*groupStats, error) {
	scores, err := s.scoreRepo.ListByGroup(ctx, groupUuid)
	if err != nil {
		logger.Error(ctx, "查询小组评分流失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	stats := &groupStats{}
	if len(scores) == 0 {
		return stats, nil
	}
	stats.recentActivityAt = scores[0].CreatedAt.Unix()

	// 倒序流里每个作者第一次出现即其最新评分
	latestPerUser := make(map[string]*model.LifeScore)
	for _, score := range scores {
		if _, seen := latestPerUser[score.UserUuid]; !seen {
			latestPerUser[score.UserUuid] = score
		}
	}
	if latest, ok := latestPerUser[viewerUuid]; ok {
		stats.myLatest = latest
	}

	readMarks, err := s.commentRepo.ListReadMarks(ctx, viewerUuid, groupUuid)
	if err != nil {
		logger.Error(ctx, "查询已读检查点失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	for _, latest := range latestPerUser {
		var since *time.Time
		if at, ok := readMarks[latest.Uuid]; ok {
			t := at
			since = &t
		}
		count, cerr := s.commentRepo.CountUnread(ctx, latest.Uuid, groupUuid, viewerUuid, since)
		if cerr != nil {
			logger.Error(ctx, "统计未读评论失败", logger.ErrorField("error", cerr))
			return nil, errInternal()
		}
		stats.unreadCount += count
	}
	return stats, nil
}

// requireCreator 校验操作者是小组创建者
func (s *groupServiceImpl) requireCreator(ctx context.Context, groupUuid, userUuid string) error {
	group, err := s.getGroupOrBizError(ctx, groupUuid)
	if err != nil {
		return err
	}
	if group.CreatedByUuid != userUuid {
		return bizError(codes.PermissionDenied, consts.CodeNoPermission)
	}
	return nil
}

// getGroupOrBizError 读小组并把 NotFound 映射成业务错误
func (s *groupServiceImpl) getGroupOrBizError(ctx context.Context, groupUuid string) (*model.GroupInfo, error) {
	group, err := s.groupRepo.GetByUuid(ctx, groupUuid)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, bizError(codes.NotFound, consts.CodeGroupNotFound)
		}
		logger.Error(ctx, "查询小组失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}
	return group, nil
}

// getGroupByCodeOrBizError 按加入码读小组（码统一小写去空格）
func (s *groupServiceImpl) getGroupByCodeOrBizError(ctx context.Context, code string) (*model.GroupInfo, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return nil, bizError(codes.InvalidArgument, consts.CodeInvalidInviteCode)
	}
	group, err := s.groupRepo.GetByInviteCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, bizError(codes.NotFound, consts.CodeInvalidInviteCode)
		}
		logger.Error(ctx, "按加入码查询小组失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}
	return group, nil
}

// sendInviteMailAsync 异步发送入组邀请邮件（未配置 SMTP 或无邮箱时跳过）
func (s *groupServiceImpl) sendInviteMailAsync(ctx context.Context, group *model.GroupInfo, inviterUuid string, invitee *model.UserInfo) {
	if s.mailer == nil || !s.mailer.Enabled() {
		return
	}
	if invitee.Email == nil || *invitee.Email == "" {
		return
	}

	to := *invitee.Email
	groupName := group.Name
	async.RunSafe(ctx, func(runCtx context.Context) {
		inviterName := ""
		if inviter, err := s.userRepo.GetByUuid(runCtx, inviterUuid); err == nil {
			inviterName = inviter.DisplayName
		}
		if err := s.mailer.SendGroupInvite(runCtx, to, inviterName, groupName); err != nil {
			logger.Warn(runCtx, "邀请邮件发送失败",
				logger.String("to", utils.MaskEmail(to)),
				logger.ErrorField("error", err),
			)
		}
	}, 10*time.Second)
}
