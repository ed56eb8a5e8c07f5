package repository

import (
	"context"
	"time"

	"PulseServer/apps/api/mq"
	rediskey "PulseServer/consts/redisKey"
	"PulseServer/model"
	"PulseServer/pkg/async"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// userRepositoryImpl 用户数据访问层实现
type userRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewUserRepository 创建用户仓储实例
func NewUserRepository(db *gorm.DB, redisClient *redis.Client) IUserRepository {
	return &userRepositoryImpl{db: db, redisClient: redisClient}
}

// Create 创建用户
func (r *userRepositoryImpl) Create(ctx context.Context, user *model.UserInfo) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return WrapDBError(err)
	}
	return nil
}

// GetByUuid 获取用户信息
// 采用 Cache-Aside Pattern：优先查 Redis（string 存 JSON），未命中回源 MySQL 并异步回填。
// 缓存只存展示字段（昵称/头像/注册时间），需要完整行的场景走
// GetFullByUuid（单个）或 BatchGetByUuids（列表组装）。
func (r *userRepositoryImpl) GetByUuid(ctx context.Context, uuid string) (*model.UserInfo, error) {
	if r.redisClient != nil {
		cacheKey := rediskey.UserInfoKey(uuid)

		// 概率续期优化：1% 的概率在读取时顺便续期
		if getRandomBool(0.01) {
			_ = r.redisClient.Expire(ctx, cacheKey, getRandomExpireTime(rediskey.UserInfoTTL)).Err()
		}

		raw, err := r.redisClient.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			if raw == cacheEmptyMarker {
				// 空值缓存命中，防止穿透
				return nil, ErrRecordNotFound
			}
			if cached, perr := parseUserInfoJSON(raw); perr == nil {
				u := &model.UserInfo{
					Uuid:        cached.Uuid,
					DisplayName: cached.DisplayName,
					AvatarUrl:   cached.AvatarUrl,
				}
				if cached.CreatedAt > 0 {
					u.CreatedAt = time.Unix(cached.CreatedAt, 0)
				}
				return u, nil
			}
			// 缓存内容损坏，删掉走回源
			_ = r.redisClient.Del(ctx, cacheKey).Err()
		case err == redis.Nil:
			// 未命中，回源
		case isRedisWrongType(err):
			_ = r.redisClient.Del(ctx, cacheKey).Err()
		default:
			// Redis 挂了，记录日志，降级去查 DB
			LogRedisError(ctx, err)
		}
	}

	var user model.UserInfo
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&user).Error; err != nil {
		wrapped := WrapDBError(err)
		if wrapped == ErrRecordNotFound {
			r.setUserCacheAsync(ctx, rediskey.UserInfoKey(uuid), cacheEmptyMarker, rediskey.UserInfoEmptyTTL)
		}
		return nil, wrapped
	}

	r.setUserCacheAsync(ctx, rediskey.UserInfoKey(uuid), buildUserInfoJSON(&user), rediskey.UserInfoTTL)
	return &user, nil
}

// GetFullByUuid 获取完整用户行（本人资料、邀请邮件等需要邮箱/登录码的场景，不走缓存）
func (r *userRepositoryImpl) GetFullByUuid(ctx context.Context, uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&user).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &user, nil
}

// BatchGetByUuids 批量获取用户（列表组装用，直接回源 DB）
func (r *userRepositoryImpl) BatchGetByUuids(ctx context.Context, uuids []string) (map[string]*model.UserInfo, error) {
	result := make(map[string]*model.UserInfo, len(uuids))
	if len(uuids) == 0 {
		return result, nil
	}

	var users []*model.UserInfo
	if err := r.db.WithContext(ctx).Where("uuid IN ?", uuids).Find(&users).Error; err != nil {
		return nil, WrapDBError(err)
	}
	for _, u := range users {
		result[u.Uuid] = u
	}
	return result, nil
}

// GetByUniqueCode 按登录码获取用户
func (r *userRepositoryImpl) GetByUniqueCode(ctx context.Context, code string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.WithContext(ctx).Where("unique_code = ?", code).First(&user).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &user, nil
}

// EmailExists 邮箱是否已被占用
func (r *userRepositoryImpl) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.UserInfo{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, WrapDBError(err)
	}
	return count > 0, nil
}

// UniqueCodeExists 登录码是否已被占用
func (r *userRepositoryImpl) UniqueCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.UserInfo{}).
		Where("unique_code = ?", code).
		Count(&count).Error; err != nil {
		return false, WrapDBError(err)
	}
	return count > 0, nil
}

// Update 更新用户字段并失效缓存
func (r *userRepositoryImpl) Update(ctx context.Context, uuid string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).
		Model(&model.UserInfo{}).
		Where("uuid = ?", uuid).
		Updates(fields)
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	r.invalidateUserCacheAsync(ctx, uuid)
	return nil
}

// setUserCacheAsync 异步写入用户信息缓存（带 TTL 抖动）
func (r *userRepositoryImpl) setUserCacheAsync(ctx context.Context, cacheKey, value string, ttl time.Duration) {
	if r.redisClient == nil {
		return
	}
	async.RunSafe(ctx, func(runCtx context.Context) {
		expire := getRandomExpireTime(ttl)
		if err := r.redisClient.Set(runCtx, cacheKey, value, expire).Err(); err != nil {
			// 回填失败可以容忍，下次未命中会再试，不走重试队列
			LogRedisError(runCtx, err)
		}
	}, 0)
}

// invalidateUserCacheAsync 异步失效用户缓存
// 失效必须可靠（否则读到旧昵称/头像直到 TTL），失败时走 Kafka 重试队列。
func (r *userRepositoryImpl) invalidateUserCacheAsync(ctx context.Context, uuid string) {
	if r.redisClient == nil {
		return
	}
	cacheKey := rediskey.UserInfoKey(uuid)
	async.RunSafe(ctx, func(runCtx context.Context) {
		if err := r.redisClient.Del(runCtx, cacheKey).Err(); err != nil {
			LogAndRetryRedisError(runCtx, mq.BuildDelTask(cacheKey).WithSource("user_repository"), err)
		}
	}, 0)
}
