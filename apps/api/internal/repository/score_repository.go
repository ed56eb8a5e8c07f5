package repository

import (
	"context"

	"PulseServer/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// scoreRepositoryImpl 生活评分数据访问层实现
type scoreRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewScoreRepository 创建评分仓储实例
func NewScoreRepository(db *gorm.DB, redisClient *redis.Client) IScoreRepository {
	return &scoreRepositoryImpl{db: db, redisClient: redisClient}
}

// CreateWithGroups 事务创建评分及其全部分享记录
// 要么评分和所有分享行都落库，要么都不落：不允许出现只分享到部分小组、
// 或有评分却没有请求过的分享行的中间态。
func (r *scoreRepositoryImpl) CreateWithGroups(ctx context.Context, score *model.LifeScore, shares []*model.LifeScoreGroup) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(score).Error; err != nil {
			return err
		}
		if len(shares) == 0 {
			return nil
		}
		return tx.Create(&shares).Error
	})
	if err != nil {
		return WrapDBError(err)
	}
	return nil
}

// GetByUuid 获取评分
func (r *scoreRepositoryImpl) GetByUuid(ctx context.Context, uuid string) (*model.LifeScore, error) {
	var score model.LifeScore
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&score).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &score, nil
}

// ListByGroup 列出分享到小组的评分（创建时间倒序）
func (r *scoreRepositoryImpl) ListByGroup(ctx context.Context, groupUuid string) ([]*model.LifeScore, error) {
	var scores []*model.LifeScore
	if err := r.db.WithContext(ctx).
		Joins("JOIN life_score_group lsg ON lsg.life_score_uuid = life_score.uuid").
		Where("lsg.group_uuid = ?", groupUuid).
		Order("life_score.created_at DESC, life_score.id DESC").
		Find(&scores).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return scores, nil
}

// ListByUser 列出用户的评分（创建时间倒序）
func (r *scoreRepositoryImpl) ListByUser(ctx context.Context, userUuid string) ([]*model.LifeScore, error) {
	var scores []*model.LifeScore
	if err := r.db.WithContext(ctx).
		Where("user_uuid = ?", userUuid).
		Order("created_at DESC, id DESC").
		Find(&scores).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return scores, nil
}

// IsSharedToGroup 评分是否分享到该小组
func (r *scoreRepositoryImpl) IsSharedToGroup(ctx context.Context, scoreUuid, groupUuid string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.LifeScoreGroup{}).
		Where("life_score_uuid = ? AND group_uuid = ?", scoreUuid, groupUuid).
		Count(&count).Error; err != nil {
		return false, WrapDBError(err)
	}
	return count > 0, nil
}

// ListGroupUuidsForScore 评分分享到的全部小组
func (r *scoreRepositoryImpl) ListGroupUuidsForScore(ctx context.Context, scoreUuid string) ([]string, error) {
	var groupUuids []string
	if err := r.db.WithContext(ctx).
		Model(&model.LifeScoreGroup{}).
		Where("life_score_uuid = ?", scoreUuid).
		Pluck("group_uuid", &groupUuids).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return groupUuids, nil
}

// Delete 删除评分并级联清理
// 一个事务内清掉：分享行、全部评论及其表态、评分表态、已读记录，最后软删评分。
func (r *scoreRepositoryImpl) Delete(ctx context.Context, uuid string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentUuids []string
		if err := tx.Model(&model.ScoreComment{}).
			Where("life_score_uuid = ?", uuid).
			Pluck("uuid", &commentUuids).Error; err != nil {
			return err
		}
		if len(commentUuids) > 0 {
			if err := tx.Where("comment_uuid IN ?", commentUuids).
				Delete(&model.CommentReaction{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("life_score_uuid = ?", uuid).Delete(&model.ScoreComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("life_score_uuid = ?", uuid).Delete(&model.ScoreReaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("life_score_uuid = ?", uuid).Delete(&model.ScoreCommentRead{}).Error; err != nil {
			return err
		}
		if err := tx.Where("life_score_uuid = ?", uuid).Delete(&model.LifeScoreGroup{}).Error; err != nil {
			return err
		}

		result := tx.Where("uuid = ?", uuid).Delete(&model.LifeScore{})
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
	return nil
}
