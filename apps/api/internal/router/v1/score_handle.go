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

// ScoreHandler 生活评分处理器
type ScoreHandler struct {
	scoreService service.ScoreService
}

// NewScoreHandler 创建生活评分处理器
func NewScoreHandler(scoreService service.ScoreService) *ScoreHandler {
	return &ScoreHandler{
		scoreService: scoreService,
	}
}

// CreateScore 发布评分接口
// @Summary 发布评分
// @Description 发布 0-10 的生活评分并分享到目标小组（全或无）
// @Tags 评分接口
// @Accept json
// @Produce json
// @Param request body dto.CreateScoreRequest true "发布评分请求"
// @Success 200 {object} dto.CreateScoreResponse
// @Router /api/v1/auth/score [post]
func (h *ScoreHandler) CreateScore(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.CreateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 参数错误由客户端输入导致,属于正常业务流程,不记录日志
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	scoreResp, err := h.scoreService.CreateScore(ctx, &req)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如分值越界、非小组成员）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "发布评分服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, scoreResp)
}

// DeleteScore 删除评分接口
// @Summary 删除评分
// @Description 删除自己发布的评分及其分享、评论与表态
// @Tags 评分接口
// @Accept json
// @Produce json
// @Param uuid path string true "评分UUID"
// @Success 200 {object} nil
// @Router /api/v1/auth/score/{uuid} [delete]
func (h *ScoreHandler) DeleteScore(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	scoreUuid := c.Param("uuid")
	if scoreUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	if err := h.scoreService.DeleteScore(ctx, scoreUuid); err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如评分不存在、非作者）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "删除评分服务内部错误",
			logger.String("score_uuid", scoreUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, nil)
}

// GetGroupFeed 小组评分流接口
// @Summary 小组评分流
// @Description 获取小组内分享的评分（按时间倒序，仅已接受成员）
// @Tags 评分接口
// @Accept json
// @Produce json
// @Param uuid path string true "小组UUID"
// @Success 200 {object} dto.GroupFeedResponse
// @Router /api/v1/auth/score/group/{uuid} [get]
func (h *ScoreHandler) GetGroupFeed(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	groupUuid := c.Param("uuid")
	if groupUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	feedResp, err := h.scoreService.GetGroupFeed(ctx, groupUuid)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如非小组成员）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取小组评分流服务内部错误",
			logger.String("group_uuid", groupUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, feedResp)
}

// GetScore 获取单条评分接口
// @Summary 获取单条评分
// @Description 按可见性规则获取评分，无权查看时状态文字置空
// @Tags 评分接口
// @Accept json
// @Produce json
// @Param uuid path string true "评分UUID"
// @Success 200 {object} dto.GetScoreResponse
// @Router /api/v1/auth/score/{uuid} [get]
func (h *ScoreHandler) GetScore(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	scoreUuid := c.Param("uuid")
	if scoreUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	scoreResp, err := h.scoreService.GetScore(ctx, scoreUuid)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如评分不存在）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取评分服务内部错误",
			logger.String("score_uuid", scoreUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, scoreResp)
}

// ListMyScores 我的评分列表接口
// @Summary 我的评分列表
// @Description 获取当前用户发布的全部评分（按时间倒序）
// @Tags 评分接口
// @Accept json
// @Produce json
// @Success 200 {object} dto.MyScoresResponse
// @Router /api/v1/auth/score/mine [get]
func (h *ScoreHandler) ListMyScores(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 调用服务层处理业务逻辑（依赖注入）
	scoresResp, err := h.scoreService.ListMyScores(ctx)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取我的评分列表服务内部错误",
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 2. 返回成功响应
	result.Success(c, scoresResp)
}
