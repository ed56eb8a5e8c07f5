package repository

import (
	"context"
	"time"

	"PulseServer/model"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// membershipRepositoryImpl 小组成员数据访问层实现
// 成员关系是可见性判断的事实来源，刻意不做任何缓存：
// 移除成员后下一次查询立即失效，不存在失效窗口。
type membershipRepositoryImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
}

// NewMembershipRepository 创建小组成员仓储实例
func NewMembershipRepository(db *gorm.DB, redisClient *redis.Client) IMembershipRepository {
	return &membershipRepositoryImpl{db: db, redisClient: redisClient}
}

// Get 获取成员记录
func (r *membershipRepositoryImpl) Get(ctx context.Context, groupUuid, userUuid string) (*model.GroupMembership, error) {
	var m model.GroupMembership
	if err := r.db.WithContext(ctx).
		Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).
		First(&m).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &m, nil
}

// IsAcceptedMember 是否为已接受成员
func (r *membershipRepositoryImpl) IsAcceptedMember(ctx context.Context, groupUuid, userUuid string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.GroupMembership{}).
		Where("group_uuid = ? AND user_uuid = ? AND status = ?", groupUuid, userUuid, model.MembershipAccepted).
		Count(&count).Error; err != nil {
		return false, WrapDBError(err)
	}
	return count > 0, nil
}

// ListAcceptedByGroup 列出小组已接受成员
func (r *membershipRepositoryImpl) ListAcceptedByGroup(ctx context.Context, groupUuid string) ([]*model.GroupMembership, error) {
	var members []*model.GroupMembership
	if err := r.db.WithContext(ctx).
		Where("group_uuid = ? AND status = ?", groupUuid, model.MembershipAccepted).
		Order("created_at ASC, id ASC").
		Find(&members).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return members, nil
}

// ListByUser 列出用户指定状态的成员记录
func (r *membershipRepositoryImpl) ListByUser(ctx context.Context, userUuid string, status int8) ([]*model.GroupMembership, error) {
	var members []*model.GroupMembership
	if err := r.db.WithContext(ctx).
		Where("user_uuid = ? AND status = ?", userUuid, status).
		Order("created_at DESC, id DESC").
		Find(&members).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return members, nil
}

// Create 创建成员记录
// 依赖 uidx_group_user 唯一键：同组同人重复邀请会得到 ErrDuplicateKey。
func (r *membershipRepositoryImpl) Create(ctx context.Context, m *model.GroupMembership) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return WrapDBError(err)
	}
	return nil
}

// Accept 把待处理邀请置为已接受
func (r *membershipRepositoryImpl) Accept(ctx context.Context, groupUuid, userUuid string, joinedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.GroupMembership{}).
		Where("group_uuid = ? AND user_uuid = ? AND status = ?", groupUuid, userUuid, model.MembershipPending).
		Updates(map[string]interface{}{
			"status":    model.MembershipAccepted,
			"joined_at": joinedAt,
		})
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Delete 删除成员记录（拒绝/退出/移除，硬删，唯一键可立即复用）
func (r *membershipRepositoryImpl) Delete(ctx context.Context, groupUuid, userUuid string) error {
	result := r.db.WithContext(ctx).
		Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).
		Delete(&model.GroupMembership{})
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// CreateUserAndJoin 事务创建新用户及其已接受的成员记录
// 按小组码开户入组：不允许出现建了号却没进组的中间态。
func (r *membershipRepositoryImpl) CreateUserAndJoin(ctx context.Context, user *model.UserInfo, m *model.GroupMembership) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(m).Error
	})
	if err != nil {
		return WrapDBError(err)
	}
	return nil
}
