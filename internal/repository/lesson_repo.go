package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
)

// LessonRepository 课时数据访问接口
type LessonRepository interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	GetByID(ctx context.Context, id string) (*model.Lesson, error)
	// ListByWorkshop 按 order 升序返回工作坊下全部课时
	ListByWorkshop(ctx context.Context, workshopID string) ([]model.Lesson, error)
	// MaxOrder 工作坊内当前最大序号，无课时时为 0
	MaxOrder(ctx context.Context, workshopID string) (int, error)
	Update(ctx context.Context, lesson *model.Lesson) error
	// UpdateOrder 仅更新单条课时的序号
	UpdateOrder(ctx context.Context, id string, order int) error
	Delete(ctx context.Context, id string) error
}

type lessonRepo struct {
	db *gorm.DB
}

// NewLessonRepo 创建 LessonRepository 实例
func NewLessonRepo(db *gorm.DB) LessonRepository {
	return &lessonRepo{db: db}
}

func (r *lessonRepo) Create(ctx context.Context, lesson *model.Lesson) error {
	return r.db.WithContext(ctx).Create(lesson).Error
}

func (r *lessonRepo) GetByID(ctx context.Context, id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.db.WithContext(ctx).
		Where("lesson_id = ?", id).
		First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *lessonRepo) ListByWorkshop(ctx context.Context, workshopID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.db.WithContext(ctx).
		Where("workshop_id = ?", workshopID).
		Order("sort_order ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepo) MaxOrder(ctx context.Context, workshopID string) (int, error) {
	var maxOrder int
	err := r.db.WithContext(ctx).
		Model(&model.Lesson{}).
		Where("workshop_id = ?", workshopID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&maxOrder).Error
	return maxOrder, err
}

func (r *lessonRepo) Update(ctx context.Context, lesson *model.Lesson) error {
	return r.db.WithContext(ctx).Save(lesson).Error
}

func (r *lessonRepo) UpdateOrder(ctx context.Context, id string, order int) error {
	result := r.db.WithContext(ctx).
		Model(&model.Lesson{}).
		Where("lesson_id = ?", id).
		Update("sort_order", order)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *lessonRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("lesson_id = ?", id).
		Delete(&model.Lesson{}).Error
}
