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

// CommentHandler 评论处理器
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler 创建评论处理器
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// GetThread 获取评论线程接口
// @Summary 获取评论线程
// @Description 获取评分在指定小组下的评论线程（含表态汇总与未读快照）
// @Tags 评论接口
// @Accept json
// @Produce json
// @Param score_uuid query string true "评分UUID"
// @Param group_uuid query string false "小组UUID(旧版连接线程不传)"
// @Success 200 {object} dto.ThreadResponse
// @Router /api/v1/auth/comment/thread [get]
func (h *CommentHandler) GetThread(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取查询参数
	scoreUuid := c.Query("score_uuid")
	groupUuid := c.Query("group_uuid")
	if scoreUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	threadResp, err := h.commentService.GetThread(ctx, scoreUuid, groupUuid)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如非小组成员、评分未分享到该组）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "获取评论线程服务内部错误",
			logger.String("score_uuid", scoreUuid),
			logger.String("group_uuid", groupUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, threadResp)
}

// CreateComment 发表评论接口
// @Summary 发表评论
// @Description 在评分线程下发表评论，正文与媒体至少有其一
// @Tags 评论接口
// @Accept json
// @Produce json
// @Param request body dto.CreateCommentRequest true "发表评论请求"
// @Success 200 {object} dto.CommentInfo
// @Router /api/v1/auth/comment [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 参数错误由客户端输入导致,属于正常业务流程,不记录日志
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	commentResp, err := h.commentService.CreateComment(ctx, &req)
	if err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如内容为空、无线程访问权限）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "发表评论服务内部错误",
			logger.String("score_uuid", req.ScoreUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, commentResp)
}

// DeleteComment 删除评论接口
// @Summary 删除评论
// @Description 删除自己发表的评论及其表态
// @Tags 评论接口
// @Accept json
// @Produce json
// @Param uuid path string true "评论UUID"
// @Success 200 {object} nil
// @Router /api/v1/auth/comment/{uuid} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 获取路径参数
	commentUuid := c.Param("uuid")
	if commentUuid == "" {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	if err := h.commentService.DeleteComment(ctx, commentUuid); err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			// 业务逻辑失败（如评论不存在、非作者）
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "删除评论服务内部错误",
			logger.String("comment_uuid", commentUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, nil)
}

// MarkRead 标记线程已读接口
// @Summary 标记线程已读
// @Description 将线程未读检查点推进到当前时间
// @Tags 评论接口
// @Accept json
// @Produce json
// @Param request body dto.MarkReadRequest true "标记已读请求"
// @Success 200 {object} nil
// @Router /api/v1/auth/comment/read [post]
func (h *CommentHandler) MarkRead(c *gin.Context) {
	ctx := middleware.NewContextWithGin(c)

	// 1. 绑定请求数据
	var req dto.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		result.Fail(c, nil, consts.CodeParamError)
		return
	}

	// 2. 调用服务层处理业务逻辑（依赖注入）
	if err := h.commentService.MarkRead(ctx, &req); err != nil {
		// 检查是否为业务错误
		code := utils.ExtractErrorCode(err)
		if consts.IsNonServerError(int(code)) {
			result.Fail(c, nil, code)
			return
		}

		// 其他内部错误
		logger.Error(ctx, "标记线程已读服务内部错误",
			logger.String("score_uuid", req.ScoreUuid),
			logger.ErrorField("error", err),
		)
		result.Fail(c, nil, consts.CodeInternalError)
		return
	}

	// 3. 返回成功响应
	result.Success(c, nil)
}
