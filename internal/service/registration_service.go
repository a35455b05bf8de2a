package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/dto"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/repository"
	pkgerrors "github.com/PLanet-09AI/skillup-nexus-connect/pkg/errors"
)

// RegistrationService 报名业务接口
type RegistrationService interface {
	// Register 报名工作坊；已报名时返回既有记录且不写入
	Register(ctx context.Context, workshopID, learnerID, learnerName string) (*dto.RegisterResponse, error)
	ListByLearner(ctx context.Context, learnerID string) ([]dto.RegistrationResponse, error)
	ListByWorkshop(ctx context.Context, workshopID string, callerID string) ([]dto.RegistrationResponse, error)
	IsRegistered(ctx context.Context, workshopID, learnerID string) (bool, error)
}

type registrationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRegistrationService 创建 RegistrationService 实例
func NewRegistrationService(repo *repository.Repository, logger *zap.Logger) RegistrationService {
	return &registrationService{repo: repo, logger: logger}
}

// ────────────────────── Register ──────────────────────
//
// 1. 工作坊须存在
// 2. 等值查询 (workshop_id, learner_id)，命中则直接返回 already_registered
// 3. 工作坊须处于开放状态
// 4. 以确定性主键写入；并发请求抢先落库时唯一约束冲突，回读后按已报名处理

func (s *registrationService) Register(ctx context.Context, workshopID, learnerID, learnerName string) (*dto.RegisterResponse, error) {
	w, err := loadWorkshop(ctx, s.repo, s.logger, workshopID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Registration.GetByWorkshopAndLearner(ctx, workshopID, learnerID)
	if err == nil {
		return &dto.RegisterResponse{RegistrationID: existing.RegistrationID, AlreadyRegistered: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询报名记录失败",
			zap.String("workshop_id", workshopID),
			zap.String("learner_id", learnerID),
			zap.Error(err),
		)
		return nil, err
	}

	if !w.Schedule.IsOpen {
		return nil, ErrWorkshopClosed
	}

	reg := &model.Registration{
		RegistrationID: model.RegistrationIDFor(workshopID, learnerID),
		WorkshopID:     workshopID,
		LearnerID:      learnerID,
		LearnerName:    strings.TrimSpace(learnerName),
		RegisteredAt:   time.Now().UTC(),
	}

	if err := s.repo.Registration.Create(ctx, reg); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			s.logger.Warn("并发报名冲突，按已报名处理",
				zap.String("workshop_id", workshopID),
				zap.String("learner_id", learnerID),
			)
			return &dto.RegisterResponse{RegistrationID: reg.RegistrationID, AlreadyRegistered: true}, nil
		}
		s.logger.Error("创建报名记录失败",
			zap.String("workshop_id", workshopID),
			zap.String("learner_id", learnerID),
			zap.Error(err),
		)
		return nil, err
	}

	return &dto.RegisterResponse{RegistrationID: reg.RegistrationID}, nil
}

// ────────────────────── List ──────────────────────

func (s *registrationService) ListByLearner(ctx context.Context, learnerID string) ([]dto.RegistrationResponse, error) {
	regs, err := s.repo.Registration.ListByLearner(ctx, learnerID)
	if err != nil {
		s.logger.Error("按学员列出报名失败", zap.String("learner_id", learnerID), zap.Error(err))
		return nil, err
	}
	return toRegistrationResponses(regs), nil
}

func (s *registrationService) ListByWorkshop(ctx context.Context, workshopID string, callerID string) ([]dto.RegistrationResponse, error) {
	if _, err := loadOwnedWorkshop(ctx, s.repo, s.logger, workshopID, callerID); err != nil {
		return nil, err
	}

	regs, err := s.repo.Registration.ListByWorkshop(ctx, workshopID)
	if err != nil {
		s.logger.Error("按工作坊列出报名失败", zap.String("workshop_id", workshopID), zap.Error(err))
		return nil, err
	}
	return toRegistrationResponses(regs), nil
}

func (s *registrationService) IsRegistered(ctx context.Context, workshopID, learnerID string) (bool, error) {
	return isRegistered(ctx, s.repo, s.logger, workshopID, learnerID)
}

// ── 内部辅助方法 ──

func toRegistrationResponses(regs []model.Registration) []dto.RegistrationResponse {
	result := make([]dto.RegistrationResponse, 0, len(regs))
	for _, r := range regs {
		result = append(result, dto.RegistrationResponse{
			ID:           r.RegistrationID,
			WorkshopID:   r.WorkshopID,
			LearnerID:    r.LearnerID,
			LearnerName:  r.LearnerName,
			RegisteredAt: dto.FormatTime(r.RegisteredAt),
		})
	}
	return result
}
