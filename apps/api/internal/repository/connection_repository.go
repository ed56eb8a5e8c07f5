package repository

import (
	"context"
	"errors"

	"PulseServer/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// connectionRepositoryImpl 旧版好友对关系数据访问层实现
type connectionRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewConnectionRepository 创建连接仓储实例
func NewConnectionRepository(db *gorm.DB, redisClient *redis.Client) IConnectionRepository {
	return &connectionRepositoryImpl{db: db, redisClient: redisClient}
}

// GetByUuid 按关系对外 id 获取
func (r *connectionRepositoryImpl) GetByUuid(ctx context.Context, uuid string) (*model.UserConnection, error) {
	var conn model.UserConnection
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&conn).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &conn, nil
}

// GetBetween 查询两用户间的关系
// 一对用户只有一条逻辑关系但方向不定，两个方向都要查；不存在返回 nil, nil。
func (r *connectionRepositoryImpl) GetBetween(ctx context.Context, userUuid, peerUuid string) (*model.UserConnection, error) {
	var conn model.UserConnection
	err := r.db.WithContext(ctx).
		Where("(sender_uuid = ? AND receiver_uuid = ?) OR (sender_uuid = ? AND receiver_uuid = ?)",
			userUuid, peerUuid, peerUuid, userUuid).
		First(&conn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, WrapDBError(err)
	}
	return &conn, nil
}

// AreConnected 两用户是否已建立连接（已接受，方向不限）
func (r *connectionRepositoryImpl) AreConnected(ctx context.Context, userUuid, peerUuid string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.UserConnection{}).
		Where("((sender_uuid = ? AND receiver_uuid = ?) OR (sender_uuid = ? AND receiver_uuid = ?)) AND status = ?",
			userUuid, peerUuid, peerUuid, userUuid, model.ConnectionAccepted).
		Count(&count).Error; err != nil {
		return false, WrapDBError(err)
	}
	return count > 0, nil
}

// Create 创建待处理请求
func (r *connectionRepositoryImpl) Create(ctx context.Context, c *model.UserConnection) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return WrapDBError(err)
	}
	return nil
}

// UpdateStatus 更新关系状态
func (r *connectionRepositoryImpl) UpdateStatus(ctx context.Context, uuid string, status int8) error {
	result := r.db.WithContext(ctx).
		Model(&model.UserConnection{}).
		Where("uuid = ?", uuid).
		Update("status", status)
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Repoint 拒绝后重新发起
// 复用原行改写方向并重置为待处理，避免唯一键冲突，也保留这对用户的关系历史行。
func (r *connectionRepositoryImpl) Repoint(ctx context.Context, uuid, senderUuid, receiverUuid string) error {
	result := r.db.WithContext(ctx).
		Model(&model.UserConnection{}).
		Where("uuid = ?", uuid).
		Updates(map[string]interface{}{
			"sender_uuid":   senderUuid,
			"receiver_uuid": receiverUuid,
			"status":        model.ConnectionPending,
		})
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete 删除关系
func (r *connectionRepositoryImpl) Delete(ctx context.Context, uuid string) error {
	result := r.db.WithContext(ctx).
		Where("uuid = ?", uuid).
		Delete(&model.UserConnection{})
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ListAccepted 已建立的连接（任一方向）
func (r *connectionRepositoryImpl) ListAccepted(ctx context.Context, userUuid string) ([]*model.UserConnection, error) {
	var conns []*model.UserConnection
	if err := r.db.WithContext(ctx).
		Where("(sender_uuid = ? OR receiver_uuid = ?) AND status = ?", userUuid, userUuid, model.ConnectionAccepted).
		Order("updated_at DESC, id DESC").
		Find(&conns).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return conns, nil
}

// ListPendingReceived 收到的待处理请求
func (r *connectionRepositoryImpl) ListPendingReceived(ctx context.Context, userUuid string) ([]*model.UserConnection, error) {
	var conns []*model.UserConnection
	if err := r.db.WithContext(ctx).
		Where("receiver_uuid = ? AND status = ?", userUuid, model.ConnectionPending).
		Order("created_at DESC, id DESC").
		Find(&conns).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return conns, nil
}

// ListPendingSent 发出的待处理请求
func (r *connectionRepositoryImpl) ListPendingSent(ctx context.Context, userUuid string) ([]*model.UserConnection, error) {
	var conns []*model.UserConnection
	if err := r.db.WithContext(ctx).
		Where("sender_uuid = ? AND status = ?", userUuid, model.ConnectionPending).
		Order("created_at DESC, id DESC").
		Find(&conns).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return conns, nil
}
