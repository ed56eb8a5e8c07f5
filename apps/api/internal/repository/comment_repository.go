package repository

import (
	"context"
	"errors"
	"time"

	"PulseServer/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// commentRepositoryImpl 评论与已读检查点数据访问层实现
type commentRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewCommentRepository 创建评论仓储实例
func NewCommentRepository(db *gorm.DB, redisClient *redis.Client) ICommentRepository {
	return &commentRepositoryImpl{db: db, redisClient: redisClient}
}

// Create 创建评论
func (r *commentRepositoryImpl) Create(ctx context.Context, c *model.ScoreComment) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return WrapDBError(err)
	}
	return nil
}

// GetByUuid 获取评论
func (r *commentRepositoryImpl) GetByUuid(ctx context.Context, uuid string) (*model.ScoreComment, error) {
	var c model.ScoreComment
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&c).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &c, nil
}

// ListByThread 列出 (评分, 小组) 线程内的评论（创建时间正序）
func (r *commentRepositoryImpl) ListByThread(ctx context.Context, scoreUuid, groupUuid string) ([]*model.ScoreComment, error) {
	var comments []*model.ScoreComment
	if err := r.db.WithContext(ctx).
		Where("life_score_uuid = ? AND group_uuid = ?", scoreUuid, groupUuid).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return comments, nil
}

// Delete 删除评论并清理其表态
func (r *commentRepositoryImpl) Delete(ctx context.Context, uuid string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_uuid = ?", uuid).Delete(&model.CommentReaction{}).Error; err != nil {
			return err
		}
		result := tx.Where("uuid = ?", uuid).Delete(&model.ScoreComment{})
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

// CountUnread 统计他人评论中晚于 since 的数量
// since 为 nil 表示从未标记过已读，此时所有他人评论都算未读。
func (r *commentRepositoryImpl) CountUnread(ctx context.Context, scoreUuid, groupUuid, viewerUuid string, since *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&model.ScoreComment{}).
		Where("life_score_uuid = ? AND group_uuid = ?", scoreUuid, groupUuid).
		Where("author_uuid <> ?", viewerUuid)
	if since != nil {
		query = query.Where("created_at > ?", *since)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, WrapDBError(err)
	}
	return count, nil
}

// GetReadMark 获取已读检查点（无记录返回 nil，表示"从未读过"而不是零点）
func (r *commentRepositoryImpl) GetReadMark(ctx context.Context, userUuid, scoreUuid, groupUuid string) (*time.Time, error) {
	var mark model.ScoreCommentRead
	err := r.db.WithContext(ctx).
		Where("user_uuid = ? AND life_score_uuid = ? AND group_uuid = ?", userUuid, scoreUuid, groupUuid).
		First(&mark).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, WrapDBError(err)
	}
	return &mark.LastReadAt, nil
}

// ListReadMarks 获取用户在小组内的全部已读检查点
func (r *commentRepositoryImpl) ListReadMarks(ctx context.Context, userUuid, groupUuid string) (map[string]time.Time, error) {
	var marks []model.ScoreCommentRead
	if err := r.db.WithContext(ctx).
		Where("user_uuid = ? AND group_uuid = ?", userUuid, groupUuid).
		Find(&marks).Error; err != nil {
		return nil, WrapDBError(err)
	}

	result := make(map[string]time.Time, len(marks))
	for _, m := range marks {
		result[m.LifeScoreUuid] = m.LastReadAt
	}
	return result, nil
}

// UpsertReadMark 写入/推进已读检查点
// 依赖 uidx_user_score_group 唯一键做 Upsert：重复标记收敛为更新。
func (r *commentRepositoryImpl) UpsertReadMark(ctx context.Context, userUuid, scoreUuid, groupUuid string, at time.Time) error {
	mark := &model.ScoreCommentRead{
		UserUuid:      userUuid,
		LifeScoreUuid: scoreUuid,
		GroupUuid:     groupUuid,
		LastReadAt:    at,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_uuid"}, {Name: "life_score_uuid"}, {Name: "group_uuid"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_read_at": at,
			"updated_at":   time.Now(),
		}),
	}).Create(mark).Error
	if err != nil {
		return WrapDBError(err)
	}
	return nil
}
