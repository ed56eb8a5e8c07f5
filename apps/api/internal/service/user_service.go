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

// userServiceImpl 用户服务实现
type userServiceImpl struct {
	userRepo   repository.IUserRepository
	inviteRepo repository.IInviteRepository
}

// NewUserService 创建用户服务实例
func NewUserService(userRepo repository.IUserRepository, inviteRepo repository.IInviteRepository) UserService {
	return &userServiceImpl{
		userRepo:   userRepo,
		inviteRepo: inviteRepo,
	}
}

// Register 用户注册
// 业务流程：
//  1. 校验昵称与可选邮箱
//  2. 如带应用邀请码，校验其存在且未过期
//  3. 生成可记忆登录码并创建用户
//  4. 签发 Token
//
// 错误码映射：
//   - codes.InvalidArgument: 昵称为空
//   - codes.AlreadyExists: 邮箱已被占用
//   - codes.NotFound / codes.FailedPrecondition: 邀请码不存在/已过期
func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, bizError(codes.InvalidArgument, consts.CodeDisplayNameRequired)
	}

	logger.Info(ctx, "用户注册请求",
		logger.String("display_name", displayName),
		logger.String("email", utils.MaskEmail(req.Email)),
	)

	// 可选邀请码校验
	var usedInviteUuid string
	if code := strings.ToLower(strings.TrimSpace(req.InviteCode)); code != "" {
		invite, err := s.inviteRepo.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, repository.ErrRecordNotFound) {
				return nil, bizError(codes.NotFound, consts.CodeAppInviteNotFound)
			}
			logger.Error(ctx, "查询邀请码失败", logger.ErrorField("error", err))
			return nil, errInternal()
		}
		if invite.ExpiresAt != nil && !invite.ExpiresAt.After(time.Now()) {
			return nil, bizError(codes.FailedPrecondition, consts.CodeAppInviteExpired)
		}
		usedInviteUuid = invite.Uuid
	}

	// 邮箱占用检查（唯一索引仍兜底并发）
	if req.Email != "" {
		taken, err := s.userRepo.EmailExists(ctx, req.Email)
		if err != nil {
			logger.Error(ctx, "查询邮箱占用失败", logger.ErrorField("error", err))
			return nil, errInternal()
		}
		if taken {
			return nil, bizError(codes.AlreadyExists, consts.CodeEmailAlreadyUsed)
		}
	}

	// 生成可记忆登录码
	uniqueCode, err := utils.GenerateUniqueCode(ctx, s.userRepo.UniqueCodeExists)
	if err != nil {
		logger.Error(ctx, "生成登录码失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	user := &model.UserInfo{
		Uuid:           util.GenEntityID(),
		DisplayName:    displayName,
		AvatarUrl:      req.AvatarUrl,
		UniqueCode:     &uniqueCode,
		UsedInviteUuid: usedInviteUuid,
	}
	if req.Email != "" {
		email := req.Email
		user.Email = &email
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, bizError(codes.AlreadyExists, consts.CodeEmailAlreadyUsed)
		}
		logger.Error(ctx, "创建用户失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	token, err := utils.GenerateToken(user.Uuid)
	if err != nil {
		logger.Error(ctx, "签发 Token 失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	logger.Info(ctx, "用户注册成功", logger.String("new_user_uuid", user.Uuid))
	return &dto.RegisterResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		UserInfo:    modelToSelfUserInfo(user),
	}, nil
}

// LoginWithCode 凭登录码重新进入账号
// 码找不到统一返回"登录码无效"，不区分不存在与格式错误，避免探测。
func (s *userServiceImpl) LoginWithCode(ctx context.Context, req *dto.LoginWithCodeRequest) (*dto.LoginWithCodeResponse, error) {
	code := strings.ToLower(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, bizError(codes.InvalidArgument, consts.CodeLoginCodeInvalid)
	}

	user, err := s.userRepo.GetByUniqueCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, bizError(codes.NotFound, consts.CodeLoginCodeInvalid)
		}
		logger.Error(ctx, "按登录码查询用户失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	token, err := utils.GenerateToken(user.Uuid)
	if err != nil {
		logger.Error(ctx, "签发 Token 失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	logger.Info(ctx, "登录码登录成功", logger.String("user_uuid", user.Uuid))
	return &dto.LoginWithCodeResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		UserInfo:    modelToSelfUserInfo(user),
	}, nil
}

// RegenerateCode 重置登录码
// 生成新的可记忆短码并覆盖写入，旧码随即失效。
func (s *userServiceImpl) RegenerateCode(ctx context.Context) (*dto.RegenerateCodeResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	code, err := utils.GenerateUniqueCode(ctx, s.userRepo.UniqueCodeExists)
	if err != nil {
		logger.Error(ctx, "生成登录码失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	if err := s.userRepo.Update(ctx, userUuid, map[string]interface{}{"unique_code": code}); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, bizError(codes.NotFound, consts.CodeUserNotFound)
		}
		logger.Error(ctx, "重置登录码失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}

	logger.Info(ctx, "登录码已重置", logger.String("user_uuid", userUuid))
	return &dto.RegenerateCodeResponse{UniqueCode: code}, nil
}

// GetMe 获取本人信息
// 邮箱/登录码不进缓存，这里必须读完整行，不能走 GetByUuid 的缓存路径。
func (s *userServiceImpl) GetMe(ctx context.Context) (*dto.GetUserResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetFullByUuid(ctx, userUuid)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, bizError(codes.NotFound, consts.CodeUserNotFound)
		}
		logger.Error(ctx, "查询用户失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}
	return &dto.GetUserResponse{UserInfo: modelToSelfUserInfo(user)}, nil
}

// GetUser 获取他人公开信息
func (s *userServiceImpl) GetUser(ctx context.Context, userUuid string) (*dto.GetUserResponse, error) {
	if _, err := userUUIDFromContext(ctx); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUuid(ctx, userUuid)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, bizError(codes.NotFound, consts.CodeUserNotFound)
		}
		logger.Error(ctx, "查询用户失败", logger.ErrorField("error", err))
		return nil, errInternal()
	}
	return &dto.GetUserResponse{UserInfo: modelToUserInfo(user)}, nil
}

// UpdateProfile 更新本人资料
// 只更新请求里出现的字段；改邮箱要重新做占用检查。
func (s *userServiceImpl) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.GetUserResponse, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.DisplayName != "" {
		name := strings.TrimSpace(req.DisplayName)
		if name == "" {
			return nil, bizError(codes.InvalidArgument, consts.CodeDisplayNameRequired)
		}
		fields["display_name"] = name
	}
	if req.AvatarUrl != "" {
		fields["avatar_url"] = req.AvatarUrl
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
		fields["email"] = req.Email
	}
	if req.FeatureFlags != nil {
		// 传空数组表示清空，不传（nil）保持不变
		fields["feature_flags"] = strings.Join(req.FeatureFlags, ",")
	}

	if len(fields) > 0 {
		if err := s.userRepo.Update(ctx, userUuid, fields); err != nil {
			if errors.Is(err, repository.ErrRecordNotFound) {
				return nil, bizError(codes.NotFound, consts.CodeUserNotFound)
			}
			if errors.Is(err, repository.ErrDuplicateKey) {
				return nil, bizError(codes.AlreadyExists, consts.CodeEmailAlreadyUsed)
			}
			logger.Error(ctx, "更新用户失败", logger.ErrorField("error", err))
			return nil, errInternal()
		}
	}

	return s.GetMe(ctx)
}

// UploadAvatar 更新头像地址（文件本体已由 handler 上传到对象存储）
func (s *userServiceImpl) UploadAvatar(ctx context.Context, avatarUrl string) (string, error) {
	userUuid, err := userUUIDFromContext(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(avatarUrl) == "" {
		return "", bizError(codes.InvalidArgument, consts.CodeParamError)
	}

	if err := s.userRepo.Update(ctx, userUuid, map[string]interface{}{"avatar_url": avatarUrl}); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return "", bizError(codes.NotFound, consts.CodeUserNotFound)
		}
		logger.Error(ctx, "更新头像失败", logger.ErrorField("error", err))
		return "", errInternal()
	}

	logger.Info(ctx, "头像更新成功", logger.String("avatar_url", avatarUrl))
	return avatarUrl, nil
}
