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

// ReactionHandler 表态处理器
type ReactionHandler struct {
	reactionService service.ReactionService
}

// NewReactionHandler 创建表态处理器
func NewReactionHandler(reactionService service.ReactionService) *ReactionHandler {
	return &ReactionHandler{
		reactionService: reactionService,
	}
}

// ToggleScoreReaction 评分表态切换接口
// @Summary 评分表态切换
// @Description 同表情取消、换表情替换、无表态则新增
// @Tags 表态接口
// @Accept json
// @Produce json
// @Param request body dto.ToggleScoreReactionRequest true "评分表态请求"
// @Success 200 {object} dto.ToggleReactionResponse
// @Router /api/v1/auth/reaction/score [post]
func (h *ReactionHandler) ToggleScoreReaction(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.ToggleScoreReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 参数错误由客户端输入导致,属于正常业务流程,不记录日志
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	toggleResp, err := h.reactionService.ToggleScoreReaction(ctx, &req)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如表情无效、无线程访问权限）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "评分表态服务内部错误",
			logger.String("score_uuid", req.ScoreUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, toggleResp)
}

// ToggleCommentReaction 评论表态切换接口
// @Summary 评论表态切换
// @Description 同表情取消、换表情替换、无表态则新增
// @Tags 表态接口
// @Accept json
// @Produce json
// @Param request body dto.ToggleCommentReactionRequest true "评论表态请求"
// @Success 200 {object} dto.ToggleReactionResponse
// @Router /api/v1/auth/reaction/comment [post]
func (h *ReactionHandler) ToggleCommentReaction(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.ToggleCommentReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	toggleResp, err := h.reactionService.ToggleCommentReaction(ctx, &req)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如表情无效、评论不存在）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "评论表态服务内部错误",
			logger.String("comment_uuid", req.CommentUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, toggleResp)
}

// GetScoreReactionSummary 评分表态汇总接口
// @Summary 评分表态汇总
// @Description 按表情汇总评分的表态（含数量与表态用户）
// @Tags 表态接口
// @Accept json
// @Produce json
// @Param score_uuid query string true "评分UUID"
// @Param group_uuid query string false "小组UUID"
// @Success 200 {object} dto.ScoreReactionSummaryResponse
// @Router /api/v1/auth/reaction/score/summary [get]
func (h *ReactionHandler) GetScoreReactionSummary(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取查询参数
	scoreUuid := c.Query("score_uuid")
	groupUuid := c.Query("group_uuid")
	if scoreUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	summaryResp, err := h.reactionService.GetScoreReactionSummary(ctx, scoreUuid, groupUuid)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取评分表态汇总服务内部错误",
			logger.String("score_uuid", scoreUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, summaryResp)
}
