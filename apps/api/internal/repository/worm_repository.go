package repository

import (
	"context"
	"encoding/json"

	"PulseServer/apps/api/mq"
	rediskey "PulseServer/consts/redisKey"
	"PulseServer/model"
	"PulseServer/pkg/async"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// wormScoreRepositoryImpl 街机成绩数据访问层实现
type wormScoreRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewWormScoreRepository 创建街机成绩仓储实例
func NewWormScoreRepository(db *gorm.DB, redisClient *redis.Client) IWormScoreRepository {
	return &wormScoreRepositoryImpl{db: db, redisClient: redisClient}
}

// wormLeaderboardCacheDepth 排行榜缓存深度，回源统一查这么多条
const wormLeaderboardCacheDepth = 100

// wormLeaderboardEntry 排行榜缓存条目
type wormLeaderboardEntry struct {
	Uuid     string `json:"uuid"`
	UserUuid string `json:"user_uuid"`
	LevelId  string `json:"level_id"`
	Score    int64  `json:"score"`
}

// BestForUserLevel 用户在关卡的最高成绩
func (r *wormScoreRepositoryImpl) BestForUserLevel(ctx context.Context, userUuid, levelId string) (*model.WormScore, error) {
	var score model.WormScore
	if err := r.db.WithContext(ctx).
		Where("user_uuid = ? AND level_id = ?", userUuid, levelId).
		Order("score DESC, id DESC").
		First(&score).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &score, nil
}

// TopForLevel 关卡排行榜
// 每用户只取最高分，降序取前 limit。榜单读多写少，走 Redis 缓存，
// 新纪录写入时失效。缓存 key 只按关卡区分，命中后在内存里按 limit 截断，
// 不同 limit 的请求共用同一份缓存。
func (r *wormScoreRepositoryImpl) TopForLevel(ctx context.Context, levelId string, limit int) ([]*model.WormScore, error) {
	if r.redisClient != nil {
		cacheKey := rediskey.WormLeaderboardKey(levelId)
		raw, err := r.redisClient.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			var entries []wormLeaderboardEntry
			if perr := json.Unmarshal([]byte(raw), &entries); perr == nil {
				if len(entries) > limit {
					entries = entries[:limit]
				}
				scores := make([]*model.WormScore, 0, len(entries))
				for _, e := range entries {
					scores = append(scores, &model.WormScore{
						Uuid:     e.Uuid,
						UserUuid: e.UserUuid,
						LevelId:  e.LevelId,
						Score:    e.Score,
					})
				}
				return scores, nil
			}
			_ = r.redisClient.Del(ctx, cacheKey).Err()
		case err == redis.Nil:
			// 未命中，回源
		case isRedisWrongType(err):
			_ = r.redisClient.Del(ctx, cacheKey).Err()
		default:
			LogRedisError(ctx, err)
		}
	}

	// 回源固定查 cacheDepth 条再截断，保证缓存对任意 limit <= cacheDepth 都可用
	scores, err := r.queryTopForLevel(ctx, levelId, wormLeaderboardCacheDepth)
	if err != nil {
		return nil, err
	}

	r.setLeaderboardCacheAsync(ctx, levelId, scores)
	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

// queryTopForLevel 回源查询：按用户分组取最高分
func (r *wormScoreRepositoryImpl) queryTopForLevel(ctx context.Context, levelId string, limit int) ([]*model.WormScore, error) {
	var scores []*model.WormScore
	if err := r.db.WithContext(ctx).
		Model(&model.WormScore{}).
		Select("user_uuid, level_id, MAX(score) AS score").
		Where("level_id = ?", levelId).
		Group("user_uuid").
		Order("score DESC").
		Limit(limit).
		Find(&scores).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return scores, nil
}

// Create 写入一条新的最高成绩并失效排行榜缓存
func (r *wormScoreRepositoryImpl) Create(ctx context.Context, w *model.WormScore) error {
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		return WrapDBError(err)
	}

	r.invalidateLeaderboardCacheAsync(ctx, w.LevelId)
	return nil
}

// setLeaderboardCacheAsync 异步回填排行榜缓存
func (r *wormScoreRepositoryImpl) setLeaderboardCacheAsync(ctx context.Context, levelId string, scores []*model.WormScore) {
	if r.redisClient == nil {
		return
	}
	entries := make([]wormLeaderboardEntry, 0, len(scores))
	for _, s := range scores {
		entries = append(entries, wormLeaderboardEntry{
			Uuid:     s.Uuid,
			UserUuid: s.UserUuid,
			LevelId:  s.LevelId,
			Score:    s.Score,
		})
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}
	cacheKey := rediskey.WormLeaderboardKey(levelId)
	async.RunSafe(ctx, func(runCtx context.Context) {
		if serr := r.redisClient.Set(runCtx, cacheKey, string(payload), getRandomExpireTime(rediskey.WormLeaderboardTTL)).Err(); serr != nil {
			LogRedisError(runCtx, serr)
		}
	}, 0)
}

// invalidateLeaderboardCacheAsync 异步失效排行榜缓存，失败走 Kafka 重试队列
func (r *wormScoreRepositoryImpl) invalidateLeaderboardCacheAsync(ctx context.Context, levelId string) {
	if r.redisClient == nil {
		return
	}
	cacheKey := rediskey.WormLeaderboardKey(levelId)
	async.RunSafe(ctx, func(runCtx context.Context) {
		if err := r.redisClient.Del(runCtx, cacheKey).Err(); err != nil {
			LogAndRetryRedisError(runCtx, mq.BuildDelTask(cacheKey).WithSource("worm_repository"), err)
		}
	}, 0)
}
