package router

import (
	"PulseServer/apps/api/internal/middleware"
	v1 "PulseServer/apps/api/internal/router/v1"
	"PulseServer/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers 路由依赖的全部处理器（依赖注入）
type Handlers struct {
	User       *v1.UserHandler
	Group      *v1.GroupHandler
	Score      *v1.ScoreHandler
	Comment    *v1.CommentHandler
	Reaction   *v1.ReactionHandler
	Connection *v1.ConnectionHandler
	Invite     *v1.InviteHandler
	Worm       *v1.WormHandler
}

// InitRouter 初始化路由
func InitRouter(h *Handlers) *gin.Engine {
	r := gin.New()

	// 恢复中间件
	r.Use(middleware.GinRecovery(true))

	// 追踪中间件 (生成 trace_id)
	r.Use(util.TraceLogger())

	// 客户端 IP 中间件
	r.Use(middleware.ClientIPMiddleware())

	// 日志中间件
	r.Use(middleware.GinLogger())

	// Prometheus 监控中间件
	r.Use(middleware.PrometheusMiddleware())

	// 跨域中间件
	r.Use(middleware.CorsMiddleware())

	// 健康检查（无需认证）
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Prometheus 指标暴露接口
	// Prometheus 会定时访问这个接口来拉取监控数据
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API 路由组
	api := r.Group("/api/v1")
	{
		// 公开接口（不需要认证，按 IP 限流）
		public := api.Group("/public")
		public.Use(middleware.IPRateLimitMiddleware())
		{
			public.POST("/user/register", h.User.Register)
			public.POST("/user/login_with_code", h.User.LoginWithCode)
			public.POST("/group/join_with_account", h.Group.JoinWithAccount)
			public.GET("/group/preview/:code", h.Group.PreviewByCode)
			public.GET("/invite/:code", h.Invite.Lookup)
			public.GET("/worm/leaderboard/:level", h.Worm.Leaderboard)
		}

		// 需要认证的接口（按用户限流）
		auth := api.Group("/auth")
		auth.Use(middleware.JWTAuthMiddleware())
		auth.Use(middleware.UserRateLimitMiddleware())
		{
			// 用户相关接口
			user := auth.Group("/user")
			{
				user.GET("/me", h.User.GetMe)
				user.PUT("/profile", h.User.UpdateProfile)
				user.POST("/avatar", h.User.UploadAvatar)
				user.POST("/regenerate_code", h.User.RegenerateCode)
				user.GET("/:uuid", h.User.GetUser)
			}

			// 小组相关接口
			group := auth.Group("/group")
			{
				group.POST("", h.Group.CreateGroup)
				group.GET("/list", h.Group.ListMyGroups)
				group.GET("/invites", h.Group.ListPendingInvites)
				group.POST("/join", h.Group.JoinByCode)
				group.GET("/:uuid", h.Group.GetGroupDetail)
				group.PUT("/:uuid", h.Group.UpdateGroup)
				group.DELETE("/:uuid", h.Group.DeleteGroup)
				group.POST("/:uuid/invite", h.Group.InviteMember)
				group.POST("/:uuid/accept", h.Group.AcceptInvite)
				group.POST("/:uuid/decline", h.Group.DeclineInvite)
				group.POST("/:uuid/leave", h.Group.LeaveGroup)
				group.POST("/:uuid/remove", h.Group.RemoveMember)
				group.POST("/:uuid/rotate_code", h.Group.RotateInviteCode)
			}

			// 评分相关接口
			score := auth.Group("/score")
			{
				score.POST("", h.Score.CreateScore)
				score.GET("/mine", h.Score.ListMyScores)
				score.GET("/group/:uuid", h.Score.GetGroupFeed)
				score.GET("/:uuid", h.Score.GetScore)
				score.DELETE("/:uuid", h.Score.DeleteScore)
			}

			// 评论相关接口
			comment := auth.Group("/comment")
			{
				comment.GET("/thread", h.Comment.GetThread)
				comment.POST("", h.Comment.CreateComment)
				comment.POST("/read", h.Comment.MarkRead)
				comment.DELETE("/:uuid", h.Comment.DeleteComment)
			}

			// 表态相关接口
			reaction := auth.Group("/reaction")
			{
				reaction.POST("/score", h.Reaction.ToggleScoreReaction)
				reaction.GET("/score/summary", h.Reaction.GetScoreReactionSummary)
				reaction.POST("/comment", h.Reaction.ToggleCommentReaction)
			}

			// 连接相关接口（旧版一对一关系）
			connection := auth.Group("/connection")
			{
				connection.POST("", h.Connection.SendRequest)
				connection.GET("/list", h.Connection.ListConnections)
				connection.GET("/pending/received", h.Connection.ListPendingReceived)
				connection.GET("/pending/sent", h.Connection.ListPendingSent)
				connection.GET("/status/:uuid", h.Connection.GetStatusWith)
				connection.POST("/:uuid/accept", h.Connection.Accept)
				connection.POST("/:uuid/reject", h.Connection.Reject)
				connection.DELETE("/:uuid", h.Connection.Remove)
			}

			// 邀请码相关接口
			invite := auth.Group("/invite")
			{
				invite.POST("", h.Invite.CreateInvite)
				invite.GET("/list", h.Invite.ListMyInvites)
				invite.POST("/:uuid/expire", h.Invite.ExpireInvite)
			}

			// 街机相关接口
			worm := auth.Group("/worm")
			{
				worm.POST("/score", h.Worm.Submit)
				worm.GET("/highscore/:level", h.Worm.MyHighScore)
			}
		}
	}

	return r
}
