package repository

import (
	"context"
	"time"

	"PulseServer/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// reactionRepositoryImpl 表态数据访问层实现
type reactionRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewReactionRepository 创建表态仓储实例
func NewReactionRepository(db *gorm.DB, redisClient *redis.Client) IReactionRepository {
	return &reactionRepositoryImpl{db: db, redisClient: redisClient}
}

// GetScoreReaction 获取用户对 (评分, 小组) 的表态
func (r *reactionRepositoryImpl) GetScoreReaction(ctx context.Context, scoreUuid, userUuid, groupUuid string) (*model.ScoreReaction, error) {
	var reaction model.ScoreReaction
	if err := r.db.WithContext(ctx).
		Where("life_score_uuid = ? AND user_uuid = ? AND group_uuid = ?", scoreUuid, userUuid, groupUuid).
		First(&reaction).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &reaction, nil
}

// UpsertScoreReaction 创建或更新表态
// 依赖 uidx_score_user_group 唯一键：并发重复创建收敛为更新，换 emoji 原地覆盖。
func (r *reactionRepositoryImpl) UpsertScoreReaction(ctx context.Context, reaction *model.ScoreReaction) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "life_score_uuid"}, {Name: "user_uuid"}, {Name: "group_uuid"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"emoji":      reaction.Emoji,
			"updated_at": time.Now(),
		}),
	}).Create(reaction).Error
	if err != nil {
		return WrapDBError(err)
	}
	return nil
}

// DeleteScoreReaction 删除表态
func (r *reactionRepositoryImpl) DeleteScoreReaction(ctx context.Context, scoreUuid, userUuid, groupUuid string) error {
	result := r.db.WithContext(ctx).
		Where("life_score_uuid = ? AND user_uuid = ? AND group_uuid = ?", scoreUuid, userUuid, groupUuid).
		Delete(&model.ScoreReaction{})
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ListScoreReactions 列出 (评分, 小组) 的全部表态
func (r *reactionRepositoryImpl) ListScoreReactions(ctx context.Context, scoreUuid, groupUuid string) ([]*model.ScoreReaction, error) {
	var reactions []*model.ScoreReaction
	if err := r.db.WithContext(ctx).
		Where("life_score_uuid = ? AND group_uuid = ?", scoreUuid, groupUuid).
		Order("created_at ASC, id ASC").
		Find(&reactions).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return reactions, nil
}

// GetCommentReaction 获取用户对评论的表态
func (r *reactionRepositoryImpl) GetCommentReaction(ctx context.Context, commentUuid, userUuid string) (*model.CommentReaction, error) {
	var reaction model.CommentReaction
	if err := r.db.WithContext(ctx).
		Where("comment_uuid = ? AND user_uuid = ?", commentUuid, userUuid).
		First(&reaction).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &reaction, nil
}

// UpsertCommentReaction 创建或更新评论表态（依赖 uidx_comment_user 唯一键）
func (r *reactionRepositoryImpl) UpsertCommentReaction(ctx context.Context, reaction *model.CommentReaction) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "comment_uuid"}, {Name: "user_uuid"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"emoji":      reaction.Emoji,
			"updated_at": time.Now(),
		}),
	}).Create(reaction).Error
	if err != nil {
		return WrapDBError(err)
	}
	return nil
}

// DeleteCommentReaction 删除评论表态
func (r *reactionRepositoryImpl) DeleteCommentReaction(ctx context.Context, commentUuid, userUuid string) error {
	result := r.db.WithContext(ctx).
		Where("comment_uuid = ? AND user_uuid = ?", commentUuid, userUuid).
		Delete(&model.CommentReaction{})
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ListCommentReactions 批量列出多条评论的表态（线程组装用）
func (r *reactionRepositoryImpl) ListCommentReactions(ctx context.Context, commentUuids []string) ([]*model.CommentReaction, error) {
	if len(commentUuids) == 0 {
		return nil, nil
	}
	var reactions []*model.CommentReaction
	if err := r.db.WithContext(ctx).
		Where("comment_uuid IN ?", commentUuids).
		Order("created_at ASC, id ASC").
		Find(&reactions).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return reactions, nil
}
