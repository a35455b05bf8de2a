package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
)

// LearnerPoints 学员积分汇总（排行榜行）
type LearnerPoints struct {
	LearnerID   string `gorm:"column:learner_id"`
	LearnerName string `gorm:"column:learner_name"`
	TotalPoints int    `gorm:"column:total_points"`
}

// ProgressRepository 学习进度数据访问接口
type ProgressRepository interface {
	Create(ctx context.Context, p *model.Progress) error
	GetByReflectionID(ctx context.Context, reflectionID string) (*model.Progress, error)
	// UpdateReview 仅覆盖审核相关字段：状态、积分、审核人、审核时间
	UpdateReview(ctx context.Context, p *model.Progress) error
	ListByLearner(ctx context.Context, learnerID string) ([]model.Progress, error)
	ListByLessons(ctx context.Context, lessonIDs []string) ([]model.Progress, error)
	DeleteByLesson(ctx context.Context, lessonID string) error
	// Leaderboard 按总积分降序返回前 limit 名学员
	Leaderboard(ctx context.Context, limit int) ([]LearnerPoints, error)
}

type progressRepo struct {
	db *gorm.DB
}

// NewProgressRepo 创建 ProgressRepository 实例
func NewProgressRepo(db *gorm.DB) ProgressRepository {
	return &progressRepo{db: db}
}

func (r *progressRepo) Create(ctx context.Context, p *model.Progress) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *progressRepo) GetByReflectionID(ctx context.Context, reflectionID string) (*model.Progress, error) {
	var p model.Progress
	err := r.db.WithContext(ctx).
		Where("reflection_id = ?", reflectionID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *progressRepo) UpdateReview(ctx context.Context, p *model.Progress) error {
	result := r.db.WithContext(ctx).
		Model(&model.Progress{}).
		Where("progress_id = ?", p.ProgressID).
		Updates(map[string]interface{}{
			"reflection_status": p.ReflectionStatus,
			"points":            p.Points,
			"reviewed_by":       p.ReviewedBy,
			"reviewed_at":       p.ReviewedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *progressRepo) ListByLearner(ctx context.Context, learnerID string) ([]model.Progress, error) {
	var list []model.Progress
	err := r.db.WithContext(ctx).
		Where("learner_id = ?", learnerID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *progressRepo) ListByLessons(ctx context.Context, lessonIDs []string) ([]model.Progress, error) {
	var list []model.Progress
	if len(lessonIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Where("lesson_id IN ?", lessonIDs).
		Find(&list).Error
	return list, err
}

func (r *progressRepo) DeleteByLesson(ctx context.Context, lessonID string) error {
	return r.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Delete(&model.Progress{}).Error
}

func (r *progressRepo) Leaderboard(ctx context.Context, limit int) ([]LearnerPoints, error) {
	var rows []LearnerPoints
	err := r.db.WithContext(ctx).
		Table("progress").
		Select("progress.learner_id AS learner_id, COALESCE(MAX(users.name), '') AS learner_name, SUM(progress.points) AS total_points").
		Joins("LEFT JOIN users ON users.uid = progress.learner_id").
		Group("progress.learner_id").
		Order("total_points DESC, learner_id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
