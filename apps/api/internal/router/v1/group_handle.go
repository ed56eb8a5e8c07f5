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

// GroupHandler 小组处理器
type GroupHandler struct {
	groupService service.GroupService
}

// NewGroupHandler 创建小组处理器
func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

// CreateGroup 创建小组接口
// @Summary 创建小组
// @Description 创建小组，创建者自动成为组长
// @Tags 小组接口
// @Accept json
// @Produce json
// @Param request body dto.CreateGroupRequest true "创建小组请求"
// @Success 200 {object} dto.GroupInfo
// @Router /api/v1/auth/group [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 参数错误由客户端输入导致,属于正常业务流程,不记录日志
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	groupResp, err := h.groupService.CreateGroup(ctx, &req)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "创建小组服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, groupResp)
}

// UpdateGroup 重命名小组接口
// @Summary 重命名小组
// @Description 修改小组名称，仅创建者可操作
// @Tags 小组接口
// @Accept json
// @Produce json
// @Param uuid path string true "小组UUID"
// @Param request body dto.UpdateGroupRequest true "重命名请求"
// @Success 200 {object} nil
// @Router /api/v1/auth/group/{uuid} [put]
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数并绑定请求数据
	groupUuid := c.Param("uuid")
	var req dto.UpdateGroupRequest
	if groupUuid == "" || c.ShouldBindJSON(&req) != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	if err := h.groupService.UpdateGroup(ctx, groupUuid, &req); err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如小组不存在、非创建者）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "重命名小组服务内部错误",
			logger.String("group_uuid", groupUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, nil)
}

// DeleteGroup 删除小组接口
// @Summary 删除小组
// @Description 删除小组及其成员、分享、评论与表态，仅创建者可操作
// @Tags 小组接口
// @Accept json
// @Produce json
// @Param uuid path string true "小组UUID"
// @Success 200 {object} nil
// @Router /api/v1/auth/group/{uuid} [delete]
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	groupUuid := c.Param("uuid")
	if groupUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	if err := h.groupService.DeleteGroup(ctx, groupUuid); err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "删除小组服务内部错误",
			logger.String("group_uuid", groupUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, nil)
}

// GetGroupDetail 小组详情接口
// @Summary 小组详情
// @Description 获取小组信息、成员列表、我的角色、未读数与最近动态
// @Tags 小组接口
// @Accept json
// @Produce json
// @Param uuid path string true "小组UUID"
// @Success 200 {object} dto.GroupDetailResponse
// @Router /api/v1/auth/group/{uuid} [get]
func (h *GroupHandler) GetGroupDetail(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	groupUuid := c.Param("uuid")
	if groupUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	detailResp, err := h.groupService.GetGroupDetail(ctx, groupUuid)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如小组不存在、非成员）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取小组详情服务内部错误",
			logger.String("group_uuid", groupUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, detailResp)
}

// ListMyGroups 我的小组列表接口
// @Summary 我的小组列表
// @Description 获取当前用户加入的全部小组（含未读数与最近动态）
// @Tags 小组接口
// @Accept json
// @Produce json
// @Success 200 {object} dto.GroupListResponse
// @Router /api/v1/auth/group/list [get]
func (h *GroupHandler) ListMyGroups(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 调用服务层处理业务逻辑（依赖注入）
	listResp, err := h.groupService.ListMyGroups(ctx)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取小组列表服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 2. 返回成功响应
	result.Success(c, listResp)
}

// ListPendingInvites 待处理小组邀请接口
// @Summary 待处理小组邀请
// @Description 获取当前用户收到的待处理小组邀请
// @Tags 小组接口
// @Accept json
// @Produce json
// @Success 200 {object} dto.PendingInviteListResponse
// @Router /api/v1/auth/group/invites [get]
func (h *GroupHandler) ListPendingInvites(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 调用服务层处理业务逻辑（依赖注入）
	invitesResp, err := h.groupService.ListPendingInvites(ctx)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取待处理邀请服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 2. 返回成功响应
	result.Success(c, invitesResp)
}

// InviteMember 邀请成员接口
// @Summary 邀请成员
// @Description 邀请指定用户入组，仅创建者可操作
// @Tags 小组接口
// @Accept json
// @Produce json
// @Param uuid path string true "小组UUID"
// @Param request body dto.InviteMemberRequest true "邀请成员请求"
// @Success 200 {object} nil
// @Router /api/v1/auth/group/{uuid}/invite [post]
func (h *GroupHandler) InviteMember(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数并绑定请求数据
	groupUuid := c.Param("uuid")
	var req dto.InviteMemberRequest
	if groupUuid == "" || c.ShouldBindJSON(&req) != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	if err := h.groupService.InviteMember(ctx, groupUuid, &req); err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如已是成员、非创建者）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "邀请成员服务内部错误",
			logger.String("group_uuid", groupUuid),
			logger.String("user_uuid", req.UserUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, nil)
}

// AcceptInvite 接受小组邀请接口
// @Summary 接受小组邀请
// @Description 接受收到的小组邀请，成为正式成员
// @Tags 小组接口
// @Accept json
// @Produce json
// @Param uuid path string true "小组UUID"
// @Success 200 {object} nil
// @Router /api/v1/auth/group/{uuid}/accept [post]
func (h *GroupHandler) AcceptInvite(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	groupUuid := c.Param("uuid")
	if groupUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	if err := h.groupService.AcceptInvite(ctx, groupUuid); err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "接受小组邀请服务内部错误",
			logger.String("group_uuid", groupUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, nil)
}

// DeclineInvite 拒绝小组邀请接口
// @Summary 拒绝小组邀请
// @Description 拒绝收到的小组邀请
// @Tags 小组接口
// @Accept json
// @Produce json
// @Param uuid path string true "小组UUID"
// @Success 200 {object} nil
// @Router /api/v1/auth/group/{uuid}/decline [post]
func (h *GroupHandler) DeclineInvite(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	groupUuid := c.Param("uuid")
	if groupUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	if err := h.groupService.DeclineInvite(ctx, groupUuid); err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "拒绝小组邀请服务内部错误",
			logger.String("group_uuid", groupUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, nil)
}

// LeaveGroup 退出小组接口
// @Summary 退出小组
// @Description 退出指定小组，组长不可退出
// @Tags 小组接口
// @Accept json
// @Produce json
// @Param uuid path string true "小组UUID"
// @Success 200 {object} nil
// @Router /api/v1/auth/group/{uuid}/leave [post]
func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	groupUuid := c.Param("uuid")
	if groupUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	if err := h.groupService.LeaveGroup(ctx, groupUuid); err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如组长不可退出）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "退出小组服务内部错误",
			logger.String("group_uuid", groupUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, nil)
}

// RemoveMember 移除成员接口
// @Summary 移除成员
// @Description 将成员移出小组，仅创建者可操作，不能移除自己
// @Tags 小组接口
// @Accept json
// @Produce json
// @Param uuid path string true "小组UUID"
// @Param request body dto.RemoveMemberRequest true "移除成员请求"
// @Success 200 {object} nil
// @Router /api/v1/auth/group/{uuid}/remove [post]
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数并绑定请求数据
	groupUuid := c.Param("uuid")
	var req dto.RemoveMemberRequest
	if groupUuid == "" || c.ShouldBindJSON(&req) != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	if err := h.groupService.RemoveMember(ctx, groupUuid, &req); err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "移除成员服务内部错误",
			logger.String("group_uuid", groupUuid),
			logger.String("user_uuid", req.UserUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, nil)
}

// RotateInviteCode 重置加入码接口
// @Summary 重置加入码
// @Description 生成新的加入码，旧码立即失效，任意已接受成员可操作
// @Tags 小组接口
// @Accept json
// @Produce json
// @Param uuid path string true "小组UUID"
// @Success 200 {object} dto.RotateCodeResponse
// @Router /api/v1/auth/group/{uuid}/rotate_code [post]
func (h *GroupHandler) RotateInviteCode(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	groupUuid := c.Param("uuid")
	if groupUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	rotateResp, err := h.groupService.RotateInviteCode(ctx, groupUuid)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "重置加入码服务内部错误",
			logger.String("group_uuid", groupUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, rotateResp)
}

// JoinByCode 按加入码入组接口
// @Summary 按加入码入组
// @Description 凭加入码加入小组，直接成为已接受成员
// @Tags 小组接口
// @Accept json
// @Produce json
// @Param request body dto.JoinByCodeRequest true "加入码请求"
// @Success 200 {object} dto.GroupInfo
// @Router /api/v1/auth/group/join [post]
func (h *GroupHandler) JoinByCode(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.JoinByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	groupResp, err := h.groupService.JoinByCode(ctx, &req)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如加入码无效、已是成员）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "按加入码入组服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, groupResp)
}

// JoinWithAccount 开户并入组接口
// @Summary 开户并入组
// @Description 凭加入码一步注册账号并加入小组（公开接口）
// @Tags 小组接口
// @Accept json
// @Produce json
// @Param request body dto.JoinWithAccountRequest true "开户入组请求"
// @Success 200 {object} dto.JoinWithAccountResponse
// @Router /api/v1/public/group/join_with_account [post]
func (h *GroupHandler) JoinWithAccount(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.JoinWithAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	joinResp, err := h.groupService.JoinWithAccount(ctx, &req)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如加入码无效、邮箱已占用）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "开户入组服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, joinResp)
}

// PreviewByCode 加入码预览接口
// @Summary 加入码预览
// @Description 注册前预览加入码对应的小组名称与成员数（公开接口）
// @Tags 小组接口
// @Accept json
// @Produce json
// @Param code path string true "加入码"
// @Success 200 {object} dto.GroupPreviewResponse
// @Router /api/v1/public/group/preview/{code} [get]
func (h *GroupHandler) PreviewByCode(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	joinCode := c.Param("code")
	if joinCode == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	previewResp, err := h.groupService.PreviewByCode(ctx, joinCode)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如加入码无效）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "加入码预览服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, previewResp)
}
