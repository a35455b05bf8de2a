package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/repository"
)

// ── 跨模块共享的加载与鉴权辅助 ──

func loadWorkshop(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Workshop, error) {
	w, err := repo.Workshop.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkshopNotFound
		}
		logger.Error("查询工作坊失败", zap.String("workshop_id", id), zap.Error(err))
		return nil, err
	}
	return w, nil
}

// loadOwnedWorkshop 加载工作坊并校验调用方为创建者
func loadOwnedWorkshop(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id, callerID string) (*model.Workshop, error) {
	w, err := loadWorkshop(ctx, repo, logger, id)
	if err != nil {
		return nil, err
	}
	if w.CreatorID != callerID {
		return nil, ErrWorkshopForbidden
	}
	return w, nil
}

func loadLesson(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Lesson, error) {
	lesson, err := repo.Lesson.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		logger.Error("查询课时失败", zap.String("lesson_id", id), zap.Error(err))
		return nil, err
	}
	return lesson, nil
}

// loadOwnedLesson 加载课时并校验调用方为所属工作坊创建者
func loadOwnedLesson(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id, callerID string) (*model.Lesson, error) {
	lesson, err := loadLesson(ctx, repo, logger, id)
	if err != nil {
		return nil, err
	}
	if _, err := loadOwnedWorkshop(ctx, repo, logger, lesson.WorkshopID, callerID); err != nil {
		return nil, err
	}
	return lesson, nil
}

// isRegistered 等值查询 (workshop_id, learner_id) 报名记录是否存在
func isRegistered(ctx context.Context, repo *repository.Repository, logger *zap.Logger, workshopID, learnerID string) (bool, error) {
	_, err := repo.Registration.GetByWorkshopAndLearner(ctx, workshopID, learnerID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	logger.Error("查询报名记录失败",
		zap.String("workshop_id", workshopID),
		zap.String("learner_id", learnerID),
		zap.Error(err),
	)
	return false, err
}

// ensureCanViewWorkshopContent 学员须已报名才能查看课时内容；招聘方不受限
func ensureCanViewWorkshopContent(ctx context.Context, repo *repository.Repository, logger *zap.Logger, workshopID string, caller Caller) error {
	if caller.Role != model.RoleJobSeeker {
		return nil
	}
	ok, err := isRegistered(ctx, repo, logger, workshopID, caller.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotRegistered
	}
	return nil
}

// deleteLessonCascade 依次删除课时的进度、反思及课时本身
// 任一步失败即返回，已完成的删除不回滚
func deleteLessonCascade(ctx context.Context, repo *repository.Repository, lessonID string) error {
	if err := repo.Progress.DeleteByLesson(ctx, lessonID); err != nil {
		return err
	}
	if err := repo.Reflection.DeleteByLesson(ctx, lessonID); err != nil {
		return err
	}
	return repo.Lesson.Delete(ctx, lessonID)
}
