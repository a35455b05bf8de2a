package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/dto"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/repository"
)

// ── 工作坊模块业务错误 ──

var (
	ErrWorkshopNotFound  = errors.New("工作坊不存在")
	ErrWorkshopForbidden = errors.New("仅工作坊创建者可执行此操作")
	ErrWorkshopClosed    = errors.New("工作坊未开放报名")
)

const (
	workshopTitleMinLen       = 5
	workshopDescriptionMinLen = 20
	// cascadeDeleteConcurrency 级联删除时并发删除课时的上限
	cascadeDeleteConcurrency = 8
)

// WorkshopService 工作坊业务接口
type WorkshopService interface {
	Create(ctx context.Context, req *dto.CreateWorkshopRequest, creatorID string) (*dto.WorkshopResponse, error)
	GetByID(ctx context.Context, id string) (*dto.WorkshopResponse, error)
	ListByCreator(ctx context.Context, creatorID string) ([]dto.WorkshopResponse, error)
	ListOpen(ctx context.Context) ([]dto.WorkshopResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateWorkshopRequest, callerID string) (*dto.WorkshopResponse, error)
	// Delete 级联删除：课时（含其反思与进度）→ 报名 → 工作坊
	Delete(ctx context.Context, id string, callerID string) error
}

type workshopService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewWorkshopService 创建 WorkshopService 实例
func NewWorkshopService(repo *repository.Repository, logger *zap.Logger) WorkshopService {
	return &workshopService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *workshopService) Create(ctx context.Context, req *dto.CreateWorkshopRequest, creatorID string) (*dto.WorkshopResponse, error) {
	isOpen := true
	if req.IsOpen != nil {
		isOpen = *req.IsOpen
	}

	w := &model.Workshop{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		CreatorID:   creatorID,
		Schedule: model.WorkshopSchedule{
			StartDate: req.StartDate.UTC(),
			EndDate:   utcPtr(req.EndDate),
			IsOpen:    isOpen,
		},
		SkillsAddressed: normalizeSkills(req.SkillsAddressed),
		Difficulty:      req.Difficulty,
	}

	if err := validateWorkshop(w); err != nil {
		return nil, err
	}

	if err := s.repo.Workshop.Create(ctx, w); err != nil {
		s.logger.Error("创建工作坊失败", zap.String("creator_id", creatorID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("工作坊已创建",
		zap.String("workshop_id", w.WorkshopID),
		zap.String("creator_id", creatorID),
	)
	return toWorkshopResponse(w), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *workshopService) GetByID(ctx context.Context, id string) (*dto.WorkshopResponse, error) {
	w, err := loadWorkshop(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	return toWorkshopResponse(w), nil
}

// ────────────────────── List ──────────────────────

func (s *workshopService) ListByCreator(ctx context.Context, creatorID string) ([]dto.WorkshopResponse, error) {
	workshops, err := s.repo.Workshop.ListByCreator(ctx, creatorID)
	if err != nil {
		s.logger.Error("按创建者列出工作坊失败", zap.String("creator_id", creatorID), zap.Error(err))
		return nil, err
	}
	return toWorkshopResponses(workshops), nil
}

func (s *workshopService) ListOpen(ctx context.Context) ([]dto.WorkshopResponse, error) {
	workshops, err := s.repo.Workshop.ListOpen(ctx)
	if err != nil {
		s.logger.Error("列出开放工作坊失败", zap.Error(err))
		return nil, err
	}
	return toWorkshopResponses(workshops), nil
}

// ────────────────────── Update ──────────────────────

func (s *workshopService) Update(ctx context.Context, id string, req *dto.UpdateWorkshopRequest, callerID string) (*dto.WorkshopResponse, error) {
	w, err := loadOwnedWorkshop(ctx, s.repo, s.logger, id, callerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		w.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		w.Description = strings.TrimSpace(*req.Description)
	}
	if req.Difficulty != nil {
		w.Difficulty = *req.Difficulty
	}
	if req.StartDate != nil {
		w.Schedule.StartDate = req.StartDate.UTC()
	}
	if req.ClearEndDate {
		w.Schedule.EndDate = nil
	} else if req.EndDate != nil {
		w.Schedule.EndDate = utcPtr(req.EndDate)
	}
	if req.IsOpen != nil {
		w.Schedule.IsOpen = *req.IsOpen
	}
	if req.SkillsAddressed != nil {
		w.SkillsAddressed = normalizeSkills(req.SkillsAddressed)
	}

	if err := validateWorkshop(w); err != nil {
		return nil, err
	}

	if err := s.repo.Workshop.Update(ctx, w); err != nil {
		s.logger.Error("更新工作坊失败", zap.String("workshop_id", id), zap.Error(err))
		return nil, err
	}

	return toWorkshopResponse(w), nil
}

// ────────────────────── Delete ──────────────────────

func (s *workshopService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := loadOwnedWorkshop(ctx, s.repo, s.logger, id, callerID); err != nil {
		return err
	}

	lessons, err := s.repo.Lesson.ListByWorkshop(ctx, id)
	if err != nil {
		s.logger.Error("查询工作坊课时失败", zap.String("workshop_id", id), zap.Error(err))
		return err
	}

	// 各课时并发删除；不共享取消信号，已发出的删除会执行完毕
	var g errgroup.Group
	g.SetLimit(cascadeDeleteConcurrency)
	for i := range lessons {
		lessonID := lessons[i].LessonID
		g.Go(func() error {
			if err := deleteLessonCascade(ctx, s.repo, lessonID); err != nil {
				s.logger.Error("级联删除课时失败",
					zap.String("workshop_id", id),
					zap.String("lesson_id", lessonID),
					zap.Error(err),
				)
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.repo.Registration.DeleteByWorkshop(ctx, id); err != nil {
		s.logger.Error("删除工作坊报名记录失败", zap.String("workshop_id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Workshop.Delete(ctx, id); err != nil {
		s.logger.Error("删除工作坊失败", zap.String("workshop_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("工作坊已删除",
		zap.String("workshop_id", id),
		zap.Int("lessons", len(lessons)),
	)
	return nil
}

// ── 内部辅助方法 ──

func validateWorkshop(w *model.Workshop) error {
	if utf8.RuneCountInString(w.Title) < workshopTitleMinLen {
		return fmt.Errorf("%w: 标题至少 %d 个字符", ErrInvalidInput, workshopTitleMinLen)
	}
	if utf8.RuneCountInString(w.Description) < workshopDescriptionMinLen {
		return fmt.Errorf("%w: 描述至少 %d 个字符", ErrInvalidInput, workshopDescriptionMinLen)
	}
	if !model.IsValidDifficulty(w.Difficulty) {
		return fmt.Errorf("%w: 难度取值无效", ErrInvalidInput)
	}
	if w.Schedule.StartDate.IsZero() {
		return fmt.Errorf("%w: 开始日期不能为空", ErrInvalidInput)
	}
	if w.Schedule.EndDate != nil && w.Schedule.EndDate.Before(w.Schedule.StartDate) {
		return fmt.Errorf("%w: 结束日期不能早于开始日期", ErrInvalidInput)
	}
	return nil
}

// normalizeSkills 去除空白与重复项，保持原有顺序
func normalizeSkills(skills []string) datatypes.JSONSlice[string] {
	result := make(datatypes.JSONSlice[string], 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, sk := range skills {
		sk = strings.TrimSpace(sk)
		if sk == "" || seen[sk] {
			continue
		}
		seen[sk] = true
		result = append(result, sk)
	}
	return result
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func toWorkshopResponse(w *model.Workshop) *dto.WorkshopResponse {
	skills := make([]string, len(w.SkillsAddressed))
	copy(skills, w.SkillsAddressed)

	return &dto.WorkshopResponse{
		ID:          w.WorkshopID,
		Title:       w.Title,
		Description: w.Description,
		CreatorID:   w.CreatorID,
		Schedule: dto.WorkshopScheduleResponse{
			StartDate: dto.FormatTime(w.Schedule.StartDate),
			EndDate:   dto.FormatTimePtr(w.Schedule.EndDate),
			IsOpen:    w.Schedule.IsOpen,
		},
		SkillsAddressed: skills,
		Difficulty:      w.Difficulty,
		CreatedAt:       dto.FormatTime(w.CreatedAt),
		UpdatedAt:       dto.FormatTime(w.UpdatedAt),
	}
}

func toWorkshopResponses(workshops []model.Workshop) []dto.WorkshopResponse {
	result := make([]dto.WorkshopResponse, 0, len(workshops))
	for i := range workshops {
		result = append(result, *toWorkshopResponse(&workshops[i]))
	}
	return result
}
