package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
)

// UserRepository 用户档案数据访问接口
type UserRepository interface {
	GetByID(ctx context.Context, uid string) (*model.UserProfile, error)
	Upsert(ctx context.Context, user *model.UserProfile) error
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, uid string) (*model.UserProfile, error) {
	var user model.UserProfile
	err := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Upsert 按 uid 新建或覆盖档案（created_at 保持首次写入值）
func (r *userRepo) Upsert(ctx context.Context, user *model.UserProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "role", "plan_type", "updated_at"}),
		}).
		Create(user).Error
}
