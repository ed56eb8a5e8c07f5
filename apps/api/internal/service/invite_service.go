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
	"PulseServer/pkg/logger"
	"PulseServer/pkg/util"

	"google.golang.org/grpc/codes"
)

// inviteServiceImpl 应用邀请码服务实现
type inviteServiceImpl struct {
	inviteRepo repository.IInviteRepository
	userRepo   repository.IUserRepository
}

// NewInviteService 创建邀请码服务实例
func NewInviteService(inviteRepo repository.IInviteRepository, userRepo repository.IUserRepository) InviteService {
	return &inviteServiceImpl{
		inviteRepo: inviteRepo,
		userRepo:   userRepo,
	}
}

// CreateInvite 创建邀请码（易记短码，可选有效期）
func (s *inviteServiceImpl) CreateInvite(ctx context.Context, req *dto.CreateInviteRequest) (*dto.InviteInfo, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	code, err := utils.GenerateUniqueCode(ctx, s.inviteRepo.CodeExists)
	if err != nil {
		logger.Error(ctx, "生成邀请码失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	now := time.Now()
	invite := &model.InviteCode{
		Uuid:          util.GenEntityID(),
		Code:          code,
		CreatedByUuid: userUuid,
	}
	if req.ExpiresInHours > 0 {
		expiresAt := now.Add(time.Duration(req.ExpiresInHours) * time.Hour)
		invite.ExpiresAt = &expiresAt
	}

	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		logger.Error(ctx, "创建邀请码失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	invite.CreatedAt = now
	return modelToInviteInfo(invite, now.Unix()), nil
}

// ListMyInvites 我创建的邀请码列表
func (s *inviteServiceImpl) ListMyInvites(ctx context.Context) (*dto.InviteListResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	invites, err := s.inviteRepo.ListByCreator(ctx, userUuid)
	if err != nil {
		logger.Error(ctx, "查询邀请码列表失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	now := time.Now().Unix()
	items := make([]*dto.InviteInfo, 0, len(invites))
	for _, invite := range invites {
		items = append(items, modelToInviteInfo(invite, now))
	}
	return &dto.InviteListResponse{Invites: items}, nil
}

// ExpireInvite 作废邀请码（仅创建者；把过期时间置为当前时刻）
func (s *inviteServiceImpl) ExpireInvite(ctx context.Context, inviteUuid string) error {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return err
	}

	invites, err := s.inviteRepo.ListByCreator(ctx, userUuid)
	if err != nil {
		logger.Error(ctx, "查询邀请码失败", logger.ErrorField("error", err))
		return errInternal()
	}
	var target *model.InviteCode
	for _, invite := range invites {
		if invite.Uuid == inviteUuid {
			target = invite
			break
		}
	}
	if target == nil {
		// 不区分"不存在"和"不是创建者"，避免探测他人邀请码
		return bizError(codes.NotFound, consts.CodeAppInviteNotFound)
	}

	if err := s.inviteRepo.Expire(ctx, inviteUuid, time.Now()); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return bizError(codes.NotFound, consts.CodeAppInviteNotFound)
		}
		logger.Error(ctx, "作废邀请码失败", logger.ErrorField("error", err))
		return errInternal()
	}
	return nil
}

// Lookup 邀请码查询（公开接口，注册前校验）
func (s *inviteServiceImpl) Lookup(ctx context.Context, code string) (*dto.InviteLookupResponse, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return nil, bizError(codes.NotFound, consts.CodeAppInviteNotFound)
	}

	invite, err := s.inviteRepo.GetByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, bizError(codes.NotFound, consts.CodeAppInviteNotFound)
		}
		logger.Error(ctx, "查询邀请码失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	resp := &dto.InviteLookupResponse{
		Valid: invite.ExpiresAt == nil || invite.ExpiresAt.After(time.Now()),
	}
	if creator, cerr := s.userRepo.GetByUuid(ctx, invite.CreatedByUuid); cerr == nil {
		resp.CreatorName = creator.DisplayName
	}
	return resp, nil
}
