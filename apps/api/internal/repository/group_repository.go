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

// groupRepositoryImpl 小组数据访问层实现
type groupRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewGroupRepository 创建小组仓储实例
func NewGroupRepository(db *gorm.DB, redisClient *redis.Client) IGroupRepository {
	return &groupRepositoryImpl{db: db, redisClient: redisClient}
}

// CreateWithOwner 创建小组并写入组长成员记录
// 两行必须同一事务：不允许出现没有组长的小组。
func (r *groupRepositoryImpl) CreateWithOwner(ctx context.Context, group *model.GroupInfo, owner *model.GroupMembership) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		return tx.Create(owner).Error
	})
	if err != nil {
		return WrapDBError(err)
	}
	return nil
}

// GetByUuid 获取小组信息
// Cache-Aside：展示信息（名称/创建者/加入码）走 Redis string 缓存。
// 创建者不可变，命中缓存做组长判断是安全的；成员关系从不走缓存。
func (r *groupRepositoryImpl) GetByUuid(ctx context.Context, uuid string) (*model.GroupInfo, error) {
	if r.redisClient != nil {
		cacheKey := rediskey.GroupInfoKey(uuid)

		// 概率续期优化：1% 的概率在读取时顺便续期
		if getRandomBool(0.01) {
			_ = r.redisClient.Expire(ctx, cacheKey, getRandomExpireTime(rediskey.GroupInfoTTL)).Err()
		}

		raw, err := r.redisClient.Get(ctx, cacheKey).Result()
		switch {
		case err == nil:
			if raw == cacheEmptyMarker {
				return nil, ErrRecordNotFound
			}
			if cached, perr := parseGroupInfoJSON(raw); perr == nil {
				g := &model.GroupInfo{
					Uuid:          cached.Uuid,
					Name:          cached.Name,
					CreatedByUuid: cached.CreatedByUuid,
				}
				if cached.InviteCode != "" {
					code := cached.InviteCode
					g.InviteCode = &code
				}
				if cached.CreatedAt > 0 {
					g.CreatedAt = time.Unix(cached.CreatedAt, 0)
				}
				return g, nil
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

	var group model.GroupInfo
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&group).Error; err != nil {
		wrapped := WrapDBError(err)
		if wrapped == ErrRecordNotFound {
			r.setGroupCacheAsync(ctx, uuid, cacheEmptyMarker, true)
		}
		return nil, wrapped
	}

	r.setGroupCacheAsync(ctx, uuid, buildGroupInfoJSON(&group), false)
	return &group, nil
}

// GetByInviteCode 按加入码获取小组（码已小写去空格）
func (r *groupRepositoryImpl) GetByInviteCode(ctx context.Context, code string) (*model.GroupInfo, error) {
	var group model.GroupInfo
	if err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&group).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &group, nil
}

// UpdateName 重命名小组
func (r *groupRepositoryImpl) UpdateName(ctx context.Context, uuid, name string) error {
	result := r.db.WithContext(ctx).
		Model(&model.GroupInfo{}).
		Where("uuid = ?", uuid).
		Update("name", name)
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	r.invalidateGroupCacheAsync(ctx, uuid)
	return nil
}

// UpdateInviteCode 重置/清除加入码（旧码立即失效）
func (r *groupRepositoryImpl) UpdateInviteCode(ctx context.Context, uuid string, code *string) error {
	result := r.db.WithContext(ctx).
		Model(&model.GroupInfo{}).
		Where("uuid = ?", uuid).
		Update("invite_code", code)
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	r.invalidateGroupCacheAsync(ctx, uuid)
	return nil
}

// InviteCodeExists 加入码是否已被占用
func (r *groupRepositoryImpl) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.GroupInfo{}).
		Where("invite_code = ?", code).
		Count(&count).Error; err != nil {
		return false, WrapDBError(err)
	}
	return count > 0, nil
}

// CountAcceptedMembers 统计已接受成员数
func (r *groupRepositoryImpl) CountAcceptedMembers(ctx context.Context, uuid string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.GroupMembership{}).
		Where("group_uuid = ? AND status = ?", uuid, model.MembershipAccepted).
		Count(&count).Error; err != nil {
		return 0, WrapDBError(err)
	}
	return count, nil
}

// Delete 删除小组并级联清理
// 一个事务内清掉：成员、分享记录、组内评论及其表态、组内评分表态、已读记录，
// 最后软删小组行。组外的评分本体不动（评分属于作者，不属于小组）。
func (r *groupRepositoryImpl) Delete(ctx context.Context, uuid string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 组内评论的表态要先按评论 uuid 收集
		var commentUuids []string
		if err := tx.Model(&model.ScoreComment{}).
			Where("group_uuid = ?", uuid).
			Pluck("uuid", &commentUuids).Error; err != nil {
			return err
		}
		if len(commentUuids) > 0 {
			if err := tx.Where("comment_uuid IN ?", commentUuids).
				Delete(&model.CommentReaction{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("group_uuid = ?", uuid).Delete(&model.ScoreComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_uuid = ?", uuid).Delete(&model.ScoreReaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_uuid = ?", uuid).Delete(&model.ScoreCommentRead{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_uuid = ?", uuid).Delete(&model.LifeScoreGroup{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_uuid = ?", uuid).Delete(&model.GroupMembership{}).Error; err != nil {
			return err
		}

		result := tx.Where("uuid = ?", uuid).Delete(&model.GroupInfo{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return WrapDBError(err)
	}

	r.invalidateGroupCacheAsync(ctx, uuid)
	return nil
}

// setGroupCacheAsync 异步回填小组缓存
func (r *groupRepositoryImpl) setGroupCacheAsync(ctx context.Context, uuid, value string, empty bool) {
	if r.redisClient == nil {
		return
	}
	cacheKey := rediskey.GroupInfoKey(uuid)
	ttl := rediskey.GroupInfoTTL
	if empty {
		ttl = rediskey.GroupInfoEmptyTTL
	}
	async.RunSafe(ctx, func(runCtx context.Context) {
		if err := r.redisClient.Set(runCtx, cacheKey, value, getRandomExpireTime(ttl)).Err(); err != nil {
			LogRedisError(runCtx, err)
		}
	}, 0)
}

// invalidateGroupCacheAsync 异步失效小组缓存，失败走 Kafka 重试队列
func (r *groupRepositoryImpl) invalidateGroupCacheAsync(ctx context.Context, uuid string) {
	if r.redisClient == nil {
		return
	}
	cacheKey := rediskey.GroupInfoKey(uuid)
	async.RunSafe(ctx, func(runCtx context.Context) {
		if err := r.redisClient.Del(runCtx, cacheKey).Err(); err != nil {
			LogAndRetryRedisError(runCtx, mq.BuildDelTask(cacheKey).WithSource("group_repository"), err)
		}
	}, 0)
}
