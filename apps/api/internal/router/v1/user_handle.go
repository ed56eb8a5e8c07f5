package v1

import (
	"fmt"
	"path/filepath"
	"time"

	"PulseServer/apps/api/internal/dto"
	"PulseServer/apps/api/internal/middleware"
	"PulseServer/apps/api/internal/service"
	"PulseServer/apps/api/internal/utils"
	"PulseServer/consts"
	"PulseServer/pkg/logger"
	pkgminio "PulseServer/pkg/minio"
	"PulseServer/pkg/result"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建用户处理器
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Register 用户注册接口
// @Summary 用户注册
// @Description 无密码注册，成功后直接返回访问令牌
// @Tags 用户接口
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "注册请求"
// @Success 200 {object} dto.RegisterResponse
// @Router /api/v1/public/user/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 参数错误由客户端输入导致,属于正常业务流程,不记录日志
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	registerResp, err := h.userService.Register(ctx, &req)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如邮箱已占用、邀请码无效等）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "用户注册服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, registerResp)
}

// LoginWithCode 登录码登录接口
// @Summary 登录码登录
// @Description 凭可记忆登录码重新进入账号，成功后返回访问令牌
// @Tags 用户接口
// @Accept json
// @Produce json
// @Param request body dto.LoginWithCodeRequest true "登录请求"
// @Success 200 {object} dto.LoginWithCodeResponse
// @Router /api/v1/public/user/login_with_code [post]
func (h *UserHandler) LoginWithCode(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.LoginWithCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 参数错误由客户端输入导致,属于正常业务流程,不记录日志
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	loginResp, err := h.userService.LoginWithCode(ctx, &req)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如登录码无效）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "登录码登录服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, loginResp)
}

// RegenerateCode 重置登录码接口
// @Summary 重置登录码
// @Description 生成新的可记忆登录码，旧码立即失效
// @Tags 用户接口
// @Accept json
// @Produce json
// @Success 200 {object} dto.RegenerateCodeResponse
// @Router /api/v1/auth/user/regenerate_code [post]
func (h *UserHandler) RegenerateCode(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 调用服务层处理业务逻辑（依赖注入）
	codeResp, err := h.userService.RegenerateCode(ctx)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "重置登录码服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 2. 返回成功响应
	result.Success(c, codeResp)
}

// GetMe 获取本人信息接口
// @Summary 获取本人信息
// @Description 获取当前登录用户的完整资料（含邮箱与登录码）
// @Tags 用户接口
// @Accept json
// @Produce json
// @Success 200 {object} dto.GetUserResponse
// @Router /api/v1/auth/user/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 调用服务层处理业务逻辑（依赖注入）
	userResp, err := h.userService.GetMe(ctx)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取本人信息服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 2. 返回成功响应
	result.Success(c, userResp)
}

// UploadAvatar 上传头像接口
// @Summary 上传并更新用户头像
// @Description 上传图片文件到对象存储并更新用户头像
// @Tags 用户接口
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "头像文件(jpg/png,最大2MB)"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/auth/user/avatar [post]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 解析上传的文件
	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		logger.Warn(ctx, "无法读取上传的文件",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeParamError)
		return
	}
	defer file.Close()

	// 2. 验证文件大小（最大 2MB）
	const maxSize = 2 * 1024 * 1024 // 2MB
	if header.Size > maxSize {
		logger.Warn(ctx, "文件大小超过限制",
			logger.Int64("size", header.Size),
			logger.Int64("max_size", maxSize),
		)
		result.Fail(c, nil, consts.CodeBodyTooLarge)
		return
	}

	// 3. 验证文件类型（只支持 jpg/png）
	contentType := header.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" {
		logger.Warn(ctx, "不支持的文件类型",
			logger.String("content_type", contentType),
		)
		result.Fail(c, nil, consts.CodeFileFormatNotSupport)
		return
	}

	// 4. 获取 MinIO 客户端
	minioClient := pkgminio.Client()
	if minioClient == nil {
		logger.Error(ctx, "MinIO 客户端未初始化")
		result.Fail(c, nil, consts.CodeServiceUnavailable)
		return
	}

	// 5. 生成文件名（保留历史）
	// 格式: avatars/{user_uuid}/{timestamp}.{ext}
	userUuid, exists := middleware.GetUserUUID(c)
	if !exists || userUuid == "" {
		result.Fail(c, nil, consts.CodeUnauthorized)
		return
	}

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		if contentType == "image/jpeg" {
			ext = ".jpg"
		} else {
			ext = ".png"
		}
	}

	fileName := fmt.Sprintf("%d%s", time.Now().Unix(), ext)
	pathPrefix := fmt.Sprintf("avatars/%s/", userUuid)

	// 6. 上传到 MinIO
	uploadResult, err := minioClient.Upload(ctx, file, header.Size, pkgminio.UploadOptions{
		PathPrefix:  pathPrefix,
		FileName:    fileName,
		ContentType: contentType,
	})
	if err != nil {
		logger.Error(ctx, "上传文件到 MinIO 失败",
			logger.String("user_uuid", userUuid),
			logger.String("file_name", header.Filename),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeAvatarUploadFail)
		return
	}

	// 7. 调用服务层更新数据库
	avatarUrl, err := h.userService.UploadAvatar(ctx, uploadResult.URL)
	if err != nil {
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		logger.Error(ctx, "更新头像服务内部错误",
			logger.String("avatar_url", uploadResult.URL),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 8. 返回成功响应
	result.Success(c, gin.H{
		"avatarUrl": avatarUrl,
	})
}

// GetUser 获取用户公开信息接口
// @Summary 获取用户公开信息
// @Description 按 UUID 获取用户的公开资料
// @Tags 用户接口
// @Accept json
// @Produce json
// @Param uuid path string true "用户UUID"
// @Success 200 {object} dto.GetUserResponse
// @Router /api/v1/auth/user/{uuid} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	userUuid := c.Param("uuid")
	if userUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	userResp, err := h.userService.GetUser(ctx, userUuid)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如用户不存在）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取用户信息服务内部错误",
			logger.String("user_uuid", userUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, userResp)
}

// UpdateProfile 更新本人资料接口
// @Summary 更新本人资料
// @Description 更新昵称、头像或邮箱，未传字段保持不变
// @Tags 用户接口
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "更新资料请求"
// @Success 200 {object} dto.GetUserResponse
// @Router /api/v1/auth/user/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 参数错误由客户端输入导致,属于正常业务流程,不记录日志
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	userResp, err := h.userService.UpdateProfile(ctx, &req)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如邮箱已占用）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "更新用户资料服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, userResp)
}
