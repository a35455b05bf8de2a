package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
)

// ReflectionRepository 学习反思数据访问接口
type ReflectionRepository interface {
	// CreateWithProgress 在同一事务内写入反思及其 pending 进度记录
	CreateWithProgress(ctx context.Context, reflection *model.Reflection, progress *model.Progress) error
	GetByID(ctx context.Context, id string) (*model.Reflection, error)
	ListByLesson(ctx context.Context, lessonID string) ([]model.Reflection, error)
	ListByLearner(ctx context.Context, learnerID string) ([]model.Reflection, error)
	MarkReviewed(ctx context.Context, id string) error
	DeleteByLesson(ctx context.Context, lessonID string) error
}

type reflectionRepo struct {
	db *gorm.DB
}

// NewReflectionRepo 创建 ReflectionRepository 实例
func NewReflectionRepo(db *gorm.DB) ReflectionRepository {
	return &reflectionRepo{db: db}
}

func (r *reflectionRepo) CreateWithProgress(ctx context.Context, reflection *model.Reflection, progress *model.Progress) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reflection).Error; err != nil {
			return err
		}
		progress.ReflectionID = reflection.ReflectionID
		return tx.Create(progress).Error
	})
}

func (r *reflectionRepo) GetByID(ctx context.Context, id string) (*model.Reflection, error) {
	var reflection model.Reflection
	err := r.db.WithContext(ctx).
		Where("reflection_id = ?", id).
		First(&reflection).Error
	if err != nil {
		return nil, err
	}
	return &reflection, nil
}

func (r *reflectionRepo) ListByLesson(ctx context.Context, lessonID string) ([]model.Reflection, error) {
	var reflections []model.Reflection
	err := r.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("submitted_at DESC").
		Find(&reflections).Error
	return reflections, err
}

func (r *reflectionRepo) ListByLearner(ctx context.Context, learnerID string) ([]model.Reflection, error) {
	var reflections []model.Reflection
	err := r.db.WithContext(ctx).
		Where("learner_id = ?", learnerID).
		Order("submitted_at DESC").
		Find(&reflections).Error
	return reflections, err
}

func (r *reflectionRepo) MarkReviewed(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Reflection{}).
		Where("reflection_id = ?", id).
		Update("reviewed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reflectionRepo) DeleteByLesson(ctx context.Context, lessonID string) error {
	return r.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Delete(&model.Reflection{}).Error
}
