package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
)

// WorkshopRepository 工作坊数据访问接口
type WorkshopRepository interface {
	Create(ctx context.Context, w *model.Workshop) error
	GetByID(ctx context.Context, id string) (*model.Workshop, error)
	ListByCreator(ctx context.Context, creatorID string) ([]model.Workshop, error)
	ListOpen(ctx context.Context) ([]model.Workshop, error)
	Update(ctx context.Context, w *model.Workshop) error
	Delete(ctx context.Context, id string) error
}

type workshopRepo struct {
	db *gorm.DB
}

// NewWorkshopRepo 创建 WorkshopRepository 实例
func NewWorkshopRepo(db *gorm.DB) WorkshopRepository {
	return &workshopRepo{db: db}
}

func (r *workshopRepo) Create(ctx context.Context, w *model.Workshop) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *workshopRepo) GetByID(ctx context.Context, id string) (*model.Workshop, error) {
	var w model.Workshop
	err := r.db.WithContext(ctx).
		Where("workshop_id = ?", id).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *workshopRepo) ListByCreator(ctx context.Context, creatorID string) ([]model.Workshop, error) {
	var workshops []model.Workshop
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&workshops).Error
	return workshops, err
}

func (r *workshopRepo) ListOpen(ctx context.Context) ([]model.Workshop, error) {
	var workshops []model.Workshop
	err := r.db.WithContext(ctx).
		Where("schedule_is_open = ?", true).
		Order("created_at DESC").
		Find(&workshops).Error
	return workshops, err
}

func (r *workshopRepo) Update(ctx context.Context, w *model.Workshop) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *workshopRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("workshop_id = ?", id).
		Delete(&model.Workshop{}).Error
}
