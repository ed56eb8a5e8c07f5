package repository

import (
	"context"
	"time"

	"PulseServer/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// inviteRepositoryImpl 应用级邀请码数据访问层实现
type inviteRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewInviteRepository 创建邀请码仓储实例
func NewInviteRepository(db *gorm.DB, redisClient *redis.Client) IInviteRepository {
	return &inviteRepositoryImpl{db: db, redisClient: redisClient}
}

// Create 创建邀请码
func (r *inviteRepositoryImpl) Create(ctx context.Context, invite *model.InviteCode) error {
	if err := r.db.WithContext(ctx).Create(invite).Error; err != nil {
		return WrapDBError(err)
	}
	return nil
}

// GetByCode 按码查询（入参需已小写去空格）
func (r *inviteRepositoryImpl) GetByCode(ctx context.Context, code string) (*model.InviteCode, error) {
	var invite model.InviteCode
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&invite).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &invite, nil
}

// CodeExists 码是否已存在
func (r *inviteRepositoryImpl) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.InviteCode{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, WrapDBError(err)
	}
	return count > 0, nil
}

// ListByCreator 列出用户创建的邀请码（创建时间倒序）
func (r *inviteRepositoryImpl) ListByCreator(ctx context.Context, userUuid string) ([]*model.InviteCode, error) {
	var invites []*model.InviteCode
	if err := r.db.WithContext(ctx).
		Where("created_by_uuid = ?", userUuid).
		Order("created_at DESC, id DESC").
		Find(&invites).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return invites, nil
}

// Expire 作废邀请码：把过期时间置为 at，码立即不可用
func (r *inviteRepositoryImpl) Expire(ctx context.Context, uuid string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.InviteCode{}).
		Where("uuid = ?", uuid).
		Update("expires_at", at)
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
