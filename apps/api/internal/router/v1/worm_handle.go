package v1

import (
	"strconv"

	"PulseServer/apps/api/internal/dto"
	"PulseServer/apps/api/internal/middleware"
	"PulseServer/apps/api/internal/service"
	"PulseServer/apps/api/internal/utils"
	"PulseServer/consts"
	"PulseServer/pkg/logger"
	"PulseServer/pkg/result"

	"github.com/gin-gonic/gin"
)

// WormHandler 街机成绩处理器
type WormHandler struct {
	wormService service.WormService
}

// NewWormHandler 创建街机成绩处理器
func NewWormHandler(wormService service.WormService) *WormHandler {
	return &WormHandler{
		wormService: wormService,
	}
}

// Submit 提交成绩接口
// @Summary 提交成绩
// @Description 提交关卡成绩，仅在高于个人纪录时刷新
// @Tags 街机接口
// @Accept json
// @Produce json
// @Param request body dto.SubmitWormScoreRequest true "提交成绩请求"
// @Success 200 {object} dto.SubmitWormScoreResponse
// @Router /api/v1/auth/worm/score [post]
func (h *WormHandler) Submit(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.SubmitWormScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 参数错误由客户端输入导致,属于正常业务流程,不记录日志
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	submitResp, err := h.wormService.Submit(ctx, &req)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "提交成绩服务内部错误",
			logger.String("level_id", req.LevelId),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, submitResp)
}

// Leaderboard 关卡排行榜接口
// @Summary 关卡排行榜
// @Description 获取关卡排行榜，每用户取最高分（公开接口）
// @Tags 街机接口
// @Accept json
// @Produce json
// @Param level path string true "关卡ID"
// @Param limit query int false "条数(默认10)"
// @Success 200 {object} dto.LeaderboardResponse
// @Router /api/v1/public/worm/leaderboard/{level} [get]
func (h *WormHandler) Leaderboard(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径与查询参数
	levelId := c.Param("level")
	if levelId == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	// 2. 调用服务层处理业务逻辑（依赖注入）
	boardResp, err := h.wormService.Leaderboard(ctx, levelId, limit)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取排行榜服务内部错误",
			logger.String("level_id", levelId),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, boardResp)
}

// MyHighScore 我的最高分接口
// @Summary 我的最高分
// @Description 获取当前用户在指定关卡的最高分
// @Tags 街机接口
// @Accept json
// @Produce json
// @Param level path string true "关卡ID"
// @Success 200 {object} dto.MyHighScoreResponse
// @Router /api/v1/auth/worm/highscore/{level} [get]
func (h *WormHandler) MyHighScore(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	levelId := c.Param("level")
	if levelId == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	scoreResp, err := h.wormService.MyHighScore(ctx, levelId)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取我的最高分服务内部错误",
			logger.String("level_id", levelId),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, scoreResp)
}
