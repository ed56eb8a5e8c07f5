package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"PulseServer/apps/api/internal/middleware"
	"PulseServer/apps/api/internal/repository"
	"PulseServer/apps/api/internal/router"
	v1 "PulseServer/apps/api/internal/router/v1"
	"PulseServer/apps/api/internal/service"
	"PulseServer/apps/api/internal/utils"
	"PulseServer/apps/api/mq"
	"PulseServer/config"
	"PulseServer/model"
	"PulseServer/pkg/async"
	"PulseServer/pkg/kafka"
	"PulseServer/pkg/logger"
	"PulseServer/pkg/mail"
	pkgminio "PulseServer/pkg/minio"
	"PulseServer/pkg/mysql"
	pkgredis "PulseServer/pkg/redis"
	"PulseServer/pkg/util"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 1. 初始化日志
	logCfg := config.DefaultLoggerConfig()
	zl, err := logger.Build(logCfg)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	logger.ReplaceGlobal(zl)
	defer zl.Sync()

	// 2. 初始化MySQL
	dbCfg := config.DefaultMySQLConfig()
	db, err := mysql.Build(dbCfg)
	if err != nil {
		log.Fatalf("初始化MySQL失败: %v", err)
	}
	mysql.ReplaceGlobal(db)

	// 2.1 同步表结构
	if err := db.AutoMigrate(
		&model.UserInfo{},
		&model.GroupInfo{},
		&model.GroupMembership{},
		&model.LifeScore{},
		&model.LifeScoreGroup{},
		&model.ScoreComment{},
		&model.ScoreCommentRead{},
		&model.ScoreReaction{},
		&model.CommentReaction{},
		&model.UserConnection{},
		&model.InviteCode{},
		&model.WormScore{},
	); err != nil {
		log.Fatalf("同步表结构失败: %v", err)
	}

	// 3. 初始化Redis
	redisCfg := config.DefaultRedisConfig()
	// 调整 Redis 读写超时时间为 50ms（快速失败）
	redisCfg.ReadTimeout = 50 * time.Millisecond
	redisCfg.WriteTimeout = 50 * time.Millisecond

	redisClient, err := pkgredis.Build(redisCfg)
	if err != nil {
		// Redis 初始化失败不阻塞启动（降级到只用 MySQL）
		logger.Warn(ctx, "Redis 初始化失败，将降级到 MySQL-Only 模式",
			logger.ErrorField("error", err),
		)
		redisClient = nil
	} else {
		pkgredis.ReplaceGlobal(redisClient)
		logger.Info(ctx, "Redis 初始化成功",
			logger.String("addr", redisCfg.Addr),
		)
	}

	// 4. 初始化 Kafka（仅在 Redis 可用时启动）
	var kafkaProducer *kafka.Producer
	var redisConsumer *mq.RedisRetryConsumer
	if redisClient != nil {
		kafkaCfg := config.DefaultKafkaConfig()

		// 创建 Kafka Producer
		kafkaProducer = kafka.NewProducer(kafkaCfg.Brokers, kafkaCfg.RedisRetryTopic)
		mq.SetGlobalProducer(kafkaProducer)
		logger.Info(ctx, "Kafka Producer 初始化成功",
			logger.String("brokers", kafkaCfg.Brokers[0]),
			logger.String("topic", kafkaCfg.RedisRetryTopic),
		)

		// 创建 Redis 重试消费者
		zapLogger := kafka.NewZapLoggerAdapter(logger.L())
		redisConsumer = mq.NewRedisRetryConsumer(
			kafkaCfg.Brokers,
			kafkaCfg.RedisRetryTopic,
			kafkaCfg.ConsumerConfig.GroupID,
			redisClient,
			kafkaProducer,
			zapLogger,
		)

		// 启动消费者（在后台 goroutine 中运行）
		go func() {
			logger.Info(ctx, "Redis 重试消费者启动中",
				logger.String("topic", kafkaCfg.RedisRetryTopic),
				logger.String("group_id", kafkaCfg.ConsumerConfig.GroupID),
			)
			if err := redisConsumer.Start(ctx); err != nil {
				logger.Error(ctx, "Redis 重试消费者运行错误", logger.ErrorField("error", err))
			}
		}()

		// 确保程序退出时关闭 Kafka 连接
		defer func() {
			if kafkaProducer != nil {
				if err := kafkaProducer.Close(); err != nil {
					logger.Error(ctx, "关闭 Kafka Producer 失败", logger.ErrorField("error", err))
				}
			}
			if redisConsumer != nil {
				if err := redisConsumer.Close(); err != nil {
					logger.Error(ctx, "关闭 Redis 重试消费者失败", logger.ErrorField("error", err))
				}
			}
		}()
	}

	// 5. 初始化协程池（异步缓存重建、邀请邮件等）
	if err := async.Init(config.DefaultAsyncConfig()); err != nil {
		log.Fatalf("初始化协程池失败: %v", err)
	}
	defer async.Release()

	// 异步任务继承 trace_id，方便串联日志
	async.SetContextPropagator(func(src context.Context) context.Context {
		dst := context.Background()
		if traceId := src.Value("trace_id"); traceId != nil {
			dst = context.WithValue(dst, "trace_id", traceId)
		}
		if userUUID := src.Value("user_uuid"); userUUID != nil {
			dst = context.WithValue(dst, "user_uuid", userUUID)
		}
		return dst
	})

	// 6. 初始化小组件
	util.InitSnowflake(1) // 雪花算法
	utils.InitJWT(config.DefaultJWTConfig())

	// 7. 初始化对象存储（配置不全时自动禁用，头像上传接口返回服务不可用）
	if minioClient, merr := pkgminio.Build(config.DefaultMinIOConfig()); merr != nil {
		logger.Warn(ctx, "MinIO 初始化失败，头像上传已禁用",
			logger.ErrorField("error", merr),
		)
	} else {
		pkgminio.ReplaceGlobal(minioClient)
		logger.Info(ctx, "MinIO 初始化成功",
			logger.String("bucket", minioClient.GetBucketName()),
		)
	}

	// 8. 初始化邮件（未配置 SMTP 时自动禁用）
	mailer := mail.New(config.DefaultMailConfig())
	if mailer.Enabled() {
		logger.Info(ctx, "邮件发送已启用")
	} else {
		logger.Info(ctx, "未配置 SMTP，邮件发送已禁用")
	}

	// 9. 初始化限流器
	srvCfg := config.DefaultServerConfig()
	middleware.InitRateLimiters(redisClient, srvCfg.RateLimitRate, srvCfg.RateLimitCapacity)

	// 10. 组装依赖 - Repository 层
	userRepo := repository.NewUserRepository(db, redisClient)
	groupRepo := repository.NewGroupRepository(db, redisClient)
	membershipRepo := repository.NewMembershipRepository(db, redisClient)
	scoreRepo := repository.NewScoreRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db, redisClient)
	reactionRepo := repository.NewReactionRepository(db, redisClient)
	connectionRepo := repository.NewConnectionRepository(db, redisClient)
	inviteRepo := repository.NewInviteRepository(db, redisClient)
	wormRepo := repository.NewWormScoreRepository(db, redisClient)

	// 11. 组装依赖 - Service 层
	userService := service.NewUserService(userRepo, inviteRepo)
	groupService := service.NewGroupService(groupRepo, membershipRepo, userRepo, scoreRepo, commentRepo, mailer)
	scoreService := service.NewScoreService(scoreRepo, membershipRepo, userRepo, connectionRepo)
	commentService := service.NewCommentService(commentRepo, reactionRepo, userRepo, scoreRepo, membershipRepo, connectionRepo)
	reactionService := service.NewReactionService(reactionRepo, commentRepo, scoreRepo, membershipRepo, connectionRepo)
	connectionService := service.NewConnectionService(connectionRepo, userRepo)
	inviteService := service.NewInviteService(inviteRepo, userRepo)
	wormService := service.NewWormService(wormRepo, userRepo)

	// 12. 组装依赖 - Handler 层
	handlers := &router.Handlers{
		User:       v1.NewUserHandler(userService),
		Group:      v1.NewGroupHandler(groupService),
		Score:      v1.NewScoreHandler(scoreService),
		Comment:    v1.NewCommentHandler(commentService),
		Reaction:   v1.NewReactionHandler(reactionService),
		Connection: v1.NewConnectionHandler(connectionService),
		Invite:     v1.NewInviteHandler(inviteService),
		Worm:       v1.NewWormHandler(wormService),
	}

	// 13. 初始化路由并启动 HTTP Server
	engine := router.InitRouter(handlers)
	server := &http.Server{
		Addr:         srvCfg.Addr,
		Handler:      engine,
		ReadTimeout:  srvCfg.ReadTimeout,
		WriteTimeout: srvCfg.WriteTimeout,
	}

	go func() {
		logger.Info(ctx, "API 服务启动中", logger.String("address", srvCfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "API 服务启动失败", logger.ErrorField("error", err))
			cancel()
		}
	}()

	// 14. 启动 Metrics HTTP Server（暴露 Prometheus 指标）
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	metricsServer := &http.Server{
		Addr:    srvCfg.MetricsAddr,
		Handler: metricsMux,
	}

	go func() {
		logger.Info(ctx, "Metrics HTTP Server 启动中", logger.String("address", srvCfg.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Metrics HTTP Server 启动失败", logger.ErrorField("error", err))
		}
	}()

	logger.Info(ctx, "API 服务启动成功",
		logger.String("address", srvCfg.Addr),
		logger.String("metrics_address", srvCfg.MetricsAddr),
	)

	// 15. 等待退出信号，优雅关闭
	<-ctx.Done()
	logger.Info(context.Background(), "收到退出信号，开始优雅关闭")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), srvCfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "API 服务关闭失败", logger.ErrorField("error", err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Metrics HTTP Server 关闭失败", logger.ErrorField("error", err))
	}

	logger.Info(context.Background(), "服务已退出")
}
