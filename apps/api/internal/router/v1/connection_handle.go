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

// ConnectionHandler 旧版连接处理器
type ConnectionHandler struct {
	connectionService service.ConnectionService
}

// NewConnectionHandler 创建连接处理器
func NewConnectionHandler(connectionService service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
	}
}

// SendRequest 发起连接请求接口
// @Summary 发起连接请求
// @Description 向目标用户发起一对一连接请求，被拒绝后可重发
// @Tags 连接接口
// @Accept json
// @Produce json
// @Param request body dto.SendConnectionRequest true "发起连接请求"
// @Success 200 {object} dto.ConnectionInfo
// @Router /api/v1/auth/connection [post]
func (h *ConnectionHandler) SendRequest(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.SendConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 参数错误由客户端输入导致,属于正常业务流程,不记录日志
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	connResp, err := h.connectionService.SendRequest(ctx, &req)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如已连接、请求已发出）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "发起连接请求服务内部错误",
			logger.String("user_uuid", req.UserUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, connResp)
}

// Accept 接受连接请求接口
// @Summary 接受连接请求
// @Description 接受收到的连接请求，仅接收方可操作
// @Tags 连接接口
// @Accept json
// @Produce json
// @Param uuid path string true "连接UUID"
// @Success 200 {object} nil
// @Router /api/v1/auth/connection/{uuid}/accept [post]
func (h *ConnectionHandler) Accept(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	connUuid := c.Param("uuid")
	if connUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	if err := h.connectionService.Accept(ctx, connUuid); err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如非接收方、状态不是待处理）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "接受连接请求服务内部错误",
			logger.String("connection_uuid", connUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, nil)
}

// Reject 拒绝连接请求接口
// @Summary 拒绝连接请求
// @Description 拒绝收到的连接请求，仅接收方可操作
// @Tags 连接接口
// @Accept json
// @Produce json
// @Param uuid path string true "连接UUID"
// @Success 200 {object} nil
// @Router /api/v1/auth/connection/{uuid}/reject [post]
func (h *ConnectionHandler) Reject(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	connUuid := c.Param("uuid")
	if connUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	if err := h.connectionService.Reject(ctx, connUuid); err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "拒绝连接请求服务内部错误",
			logger.String("connection_uuid", connUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, nil)
}

// Remove 删除连接接口
// @Summary 删除连接
// @Description 删除已建立的连接，双方任一方可操作
// @Tags 连接接口
// @Accept json
// @Produce json
// @Param uuid path string true "连接UUID"
// @Success 200 {object} nil
// @Router /api/v1/auth/connection/{uuid} [delete]
func (h *ConnectionHandler) Remove(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	connUuid := c.Param("uuid")
	if connUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	if err := h.connectionService.Remove(ctx, connUuid); err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "删除连接服务内部错误",
			logger.String("connection_uuid", connUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, nil)
}

// ListConnections 连接列表接口
// @Summary 连接列表
// @Description 获取已建立的连接列表
// @Tags 连接接口
// @Accept json
// @Produce json
// @Success 200 {object} dto.ConnectionListResponse
// @Router /api/v1/auth/connection/list [get]
func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 调用服务层处理业务逻辑（依赖注入）
	listResp, err := h.connectionService.ListConnections(ctx)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取连接列表服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 2. 返回成功响应
	result.Success(c, listResp)
}

// ListPendingReceived 收到的待处理请求接口
// @Summary 收到的待处理请求
// @Description 获取收到的待处理连接请求列表
// @Tags 连接接口
// @Accept json
// @Produce json
// @Success 200 {object} dto.ConnectionListResponse
// @Router /api/v1/auth/connection/pending/received [get]
func (h *ConnectionHandler) ListPendingReceived(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 调用服务层处理业务逻辑（依赖注入）
	listResp, err := h.connectionService.ListPendingReceived(ctx)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取收到的待处理请求服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 2. 返回成功响应
	result.Success(c, listResp)
}

// ListPendingSent 发出的待处理请求接口
// @Summary 发出的待处理请求
// @Description 获取发出的待处理连接请求列表
// @Tags 连接接口
// @Accept json
// @Produce json
// @Success 200 {object} dto.ConnectionListResponse
// @Router /api/v1/auth/connection/pending/sent [get]
func (h *ConnectionHandler) ListPendingSent(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 调用服务层处理业务逻辑（依赖注入）
	listResp, err := h.connectionService.ListPendingSent(ctx)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取发出的待处理请求服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 2. 返回成功响应
	result.Success(c, listResp)
}

// GetStatusWith 关系状态接口
// @Summary 关系状态
// @Description 获取与指定用户的连接关系状态
// @Tags 连接接口
// @Accept json
// @Produce json
// @Param uuid path string true "对方用户UUID"
// @Success 200 {object} dto.ConnectionStatusResponse
// @Router /api/v1/auth/connection/status/{uuid} [get]
func (h *ConnectionHandler) GetStatusWith(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	peerUuid := c.Param("uuid")
	if peerUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	statusResp, err := h.connectionService.GetStatusWith(ctx, peerUuid)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取关系状态服务内部错误",
			logger.String("peer_uuid", peerUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, statusResp)
}
