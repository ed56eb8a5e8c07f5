package v1

import (
	"PulseServer/apps/api/internal/dto"
	"PulseServer/apps/api/internal/middleware"
	"PulseServer/apps/api/internal/service"
	"PulseServer/apps/api/internal/utils"
	"PulseServer/consts"
	"PulseServer/pkg/logger"
	"PulseServer/pkg/result"

	"github.com/gin-gonic/gin"
)

// InviteHandler 应用邀请码处理器
type InviteHandler struct {
	inviteService service.InviteService
}

// NewInviteHandler 创建邀请码处理器
func NewInviteHandler(inviteService service.InviteService) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
	}
}

// CreateInvite 创建邀请码接口
// @Summary 创建邀请码
// @Description 生成易记的注册邀请码，可选有效期
// @Tags 邀请码接口
// @Accept json
// @Produce json
// @Param request body dto.CreateInviteRequest true "创建邀请码请求"
// @Success 200 {object} dto.InviteInfo
// @Router /api/v1/auth/invite [post]
func (h *InviteHandler) CreateInvite(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 参数错误由客户端输入导致,属于正常业务流程,不记录日志
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	inviteResp, err := h.inviteService.CreateInvite(ctx, &req)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "创建邀请码服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, inviteResp)
}

// ListMyInvites 我的邀请码列表接口
// @Summary 我的邀请码列表
// @Description 获取当前用户创建的全部邀请码
// @Tags 邀请码接口
// @Accept json
// @Produce json
// @Success 200 {object} dto.InviteListResponse
// @Router /api/v1/auth/invite/list [get]
func (h *InviteHandler) ListMyInvites(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 调用服务层处理业务逻辑（依赖注入）
	listResp, err := h.inviteService.ListMyInvites(ctx)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取邀请码列表服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 2. 返回成功响应
	result.Success(c, listResp)
}

// ExpireInvite 作废邀请码接口
// @Summary 作废邀请码
// @Description 立即作废邀请码，仅创建者可操作
// @Tags 邀请码接口
// @Accept json
// @Produce json
// @Param uuid path string true "邀请码UUID"
// @Success 200 {object} nil
// @Router /api/v1/auth/invite/{uuid}/expire [post]
func (h *InviteHandler) ExpireInvite(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	inviteUuid := c.Param("uuid")
	if inviteUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	if err := h.inviteService.ExpireInvite(ctx, inviteUuid); err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如邀请码不存在）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "作废邀请码服务内部错误",
			logger.String("invite_uuid", inviteUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, nil)
}

// Lookup 邀请码查询接口
// @Summary 邀请码查询
// @Description 注册前校验邀请码有效性（公开接口）
// @Tags 邀请码接口
// @Accept json
// @Produce json
// @Param code path string true "邀请码"
// @Success 200 {object} dto.InviteLookupResponse
// @Router /api/v1/public/invite/{code} [get]
func (h *InviteHandler) Lookup(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	inviteCode := c.Param("code")
	if inviteCode == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	lookupResp, err := h.inviteService.Lookup(ctx, inviteCode)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如邀请码不存在）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "邀请码查询服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, lookupResp)
}
