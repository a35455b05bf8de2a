package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
)

// RegistrationRepository 报名数据访问接口
type RegistrationRepository interface {
	Create(ctx context.Context, reg *model.Registration) error
	GetByWorkshopAndLearner(ctx context.Context, workshopID, learnerID string) (*model.Registration, error)
	ListByLearner(ctx context.Context, learnerID string) ([]model.Registration, error)
	ListByWorkshop(ctx context.Context, workshopID string) ([]model.Registration, error)
	DeleteByWorkshop(ctx context.Context, workshopID string) error
}

type registrationRepo struct {
	db *gorm.DB
}

// NewRegistrationRepo 创建 RegistrationRepository 实例
func NewRegistrationRepo(db *gorm.DB) RegistrationRepository {
	return &registrationRepo{db: db}
}

func (r *registrationRepo) Create(ctx context.Context, reg *model.Registration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registrationRepo) GetByWorkshopAndLearner(ctx context.Context, workshopID, learnerID string) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.WithContext(ctx).
		Where("workshop_id = ? AND learner_id = ?", workshopID, learnerID).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepo) ListByLearner(ctx context.Context, learnerID string) ([]model.Registration, error) {
	var regs []model.Registration
	err := r.db.WithContext(ctx).
		Where("learner_id = ?", learnerID).
		Order("registered_at DESC").
		Find(&regs).Error
	return regs, err
}

func (r *registrationRepo) ListByWorkshop(ctx context.Context, workshopID string) ([]model.Registration, error) {
	var regs []model.Registration
	err := r.db.WithContext(ctx).
		Where("workshop_id = ?", workshopID).
		Order("registered_at ASC").
		Find(&regs).Error
	return regs, err
}

func (r *registrationRepo) DeleteByWorkshop(ctx context.Context, workshopID string) error {
	return r.db.WithContext(ctx).
		Where("workshop_id = ?", workshopID).
		Delete(&model.Registration{}).Error
}
