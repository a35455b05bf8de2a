package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/dto"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/repository"
)

// ── 课时模块业务错误 ──

var (
	ErrLessonNotFound = errors.New("课时不存在")
	ErrNotRegistered  = errors.New("请先报名该工作坊")
)

const (
	lessonTitleMinLen   = 3
	lessonContentMinLen = 20

	MoveUp   = "up"
	MoveDown = "down"
)

// LessonService 课时业务接口
type LessonService interface {
	// Create 新课时追加到工作坊末尾（order = 当前最大序号 + 1）
	Create(ctx context.Context, workshopID string, req *dto.CreateLessonRequest, callerID string) (*dto.LessonResponse, error)
	GetByID(ctx context.Context, id string, caller Caller) (*dto.LessonResponse, error)
	ListByWorkshop(ctx context.Context, workshopID string, caller Caller) ([]dto.LessonResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateLessonRequest, callerID string) (*dto.LessonResponse, error)
	// Delete 删除课时及其反思/进度，并将剩余课时重新编号为 1..n
	Delete(ctx context.Context, id string, callerID string) error
	// Move 与相邻课时交换序号；已在边界时不做任何写入
	Move(ctx context.Context, id string, direction string, callerID string) ([]dto.LessonResponse, error)
}

type lessonService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLessonService 创建 LessonService 实例
func NewLessonService(repo *repository.Repository, logger *zap.Logger) LessonService {
	return &lessonService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *lessonService) Create(ctx context.Context, workshopID string, req *dto.CreateLessonRequest, callerID string) (*dto.LessonResponse, error) {
	if _, err := loadOwnedWorkshop(ctx, s.repo, s.logger, workshopID, callerID); err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		WorkshopID:         workshopID,
		Title:              strings.TrimSpace(req.Title),
		Content:            strings.TrimSpace(req.Content),
		ContentURI:         strings.TrimSpace(req.ContentURI),
		RequiresReflection: req.RequiresReflection,
		EstimatedDuration:  req.EstimatedDuration,
	}
	if err := validateLesson(lesson); err != nil {
		return nil, err
	}

	maxOrder, err := s.repo.Lesson.MaxOrder(ctx, workshopID)
	if err != nil {
		s.logger.Error("查询课时最大序号失败", zap.String("workshop_id", workshopID), zap.Error(err))
		return nil, err
	}
	lesson.Order = maxOrder + 1

	if err := s.repo.Lesson.Create(ctx, lesson); err != nil {
		s.logger.Error("创建课时失败", zap.String("workshop_id", workshopID), zap.Error(err))
		return nil, err
	}

	return toLessonResponse(lesson), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *lessonService) GetByID(ctx context.Context, id string, caller Caller) (*dto.LessonResponse, error) {
	lesson, err := loadLesson(ctx, s.repo, s.logger, id)
	if err != nil {
		return nil, err
	}
	if err := ensureCanViewWorkshopContent(ctx, s.repo, s.logger, lesson.WorkshopID, caller); err != nil {
		return nil, err
	}
	return toLessonResponse(lesson), nil
}

// ────────────────────── ListByWorkshop ──────────────────────

func (s *lessonService) ListByWorkshop(ctx context.Context, workshopID string, caller Caller) ([]dto.LessonResponse, error) {
	if _, err := loadWorkshop(ctx, s.repo, s.logger, workshopID); err != nil {
		return nil, err
	}
	if err := ensureCanViewWorkshopContent(ctx, s.repo, s.logger, workshopID, caller); err != nil {
		return nil, err
	}

	lessons, err := s.repo.Lesson.ListByWorkshop(ctx, workshopID)
	if err != nil {
		s.logger.Error("列出课时失败", zap.String("workshop_id", workshopID), zap.Error(err))
		return nil, err
	}
	return toLessonResponses(lessons), nil
}

// ────────────────────── Update ──────────────────────

func (s *lessonService) Update(ctx context.Context, id string, req *dto.UpdateLessonRequest, callerID string) (*dto.LessonResponse, error) {
	lesson, err := loadOwnedLesson(ctx, s.repo, s.logger, id, callerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		lesson.Content = strings.TrimSpace(*req.Content)
	}
	if req.ContentURI != nil {
		lesson.ContentURI = strings.TrimSpace(*req.ContentURI)
	}
	if req.RequiresReflection != nil {
		lesson.RequiresReflection = *req.RequiresReflection
	}
	if req.EstimatedDuration != nil {
		lesson.EstimatedDuration = *req.EstimatedDuration
	}

	if err := validateLesson(lesson); err != nil {
		return nil, err
	}

	if err := s.repo.Lesson.Update(ctx, lesson); err != nil {
		s.logger.Error("更新课时失败", zap.String("lesson_id", id), zap.Error(err))
		return nil, err
	}

	return toLessonResponse(lesson), nil
}

// ────────────────────── Delete ──────────────────────

func (s *lessonService) Delete(ctx context.Context, id string, callerID string) error {
	lesson, err := loadOwnedLesson(ctx, s.repo, s.logger, id, callerID)
	if err != nil {
		return err
	}

	if err := deleteLessonCascade(ctx, s.repo, id); err != nil {
		s.logger.Error("删除课时失败", zap.String("lesson_id", id), zap.Error(err))
		return err
	}

	// 重新编号：逐条更新，失败时已更新的记录不回滚
	remaining, err := s.repo.Lesson.ListByWorkshop(ctx, lesson.WorkshopID)
	if err != nil {
		s.logger.Error("查询剩余课时失败", zap.String("workshop_id", lesson.WorkshopID), zap.Error(err))
		return err
	}
	for i := range remaining {
		want := i + 1
		if remaining[i].Order == want {
			continue
		}
		if err := s.repo.Lesson.UpdateOrder(ctx, remaining[i].LessonID, want); err != nil {
			s.logger.Error("课时重新编号失败",
				zap.String("lesson_id", remaining[i].LessonID),
				zap.Int("order", want),
				zap.Error(err),
			)
			return err
		}
	}

	return nil
}

// ────────────────────── Move ──────────────────────

func (s *lessonService) Move(ctx context.Context, id string, direction string, callerID string) ([]dto.LessonResponse, error) {
	if direction != MoveUp && direction != MoveDown {
		return nil, fmt.Errorf("%w: 移动方向必须为 up 或 down", ErrInvalidInput)
	}

	lesson, err := loadOwnedLesson(ctx, s.repo, s.logger, id, callerID)
	if err != nil {
		return nil, err
	}

	lessons, err := s.repo.Lesson.ListByWorkshop(ctx, lesson.WorkshopID)
	if err != nil {
		s.logger.Error("列出课时失败", zap.String("workshop_id", lesson.WorkshopID), zap.Error(err))
		return nil, err
	}

	idx := -1
	for i := range lessons {
		if lessons[i].LessonID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrLessonNotFound
	}

	swap := idx - 1
	if direction == MoveDown {
		swap = idx + 1
	}
	if swap < 0 || swap >= len(lessons) {
		return toLessonResponses(lessons), nil
	}

	// 交换两条记录已存储的序号，不假设序号连续
	lessons[idx].Order, lessons[swap].Order = lessons[swap].Order, lessons[idx].Order
	lessons[idx], lessons[swap] = lessons[swap], lessons[idx]

	// 仅写入交换的两条记录；第二条失败时第一条不回滚
	for _, pos := range []int{idx, swap} {
		if err := s.repo.Lesson.UpdateOrder(ctx, lessons[pos].LessonID, lessons[pos].Order); err != nil {
			s.logger.Error("调整课时顺序失败",
				zap.String("lesson_id", lessons[pos].LessonID),
				zap.Int("order", lessons[pos].Order),
				zap.Error(err),
			)
			return nil, err
		}
	}

	return toLessonResponses(lessons), nil
}

// ── 内部辅助方法 ──

func validateLesson(l *model.Lesson) error {
	if utf8.RuneCountInString(l.Title) < lessonTitleMinLen {
		return fmt.Errorf("%w: 标题至少 %d 个字符", ErrInvalidInput, lessonTitleMinLen)
	}
	if l.Content != "" && utf8.RuneCountInString(l.Content) < lessonContentMinLen {
		return fmt.Errorf("%w: 内容至少 %d 个字符", ErrInvalidInput, lessonContentMinLen)
	}
	if l.ContentURI != "" {
		u, err := url.Parse(l.ContentURI)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: 内容链接格式无效", ErrInvalidInput)
		}
	}
	if l.EstimatedDuration < 1 {
		return fmt.Errorf("%w: 预计时长至少 1 分钟", ErrInvalidInput)
	}
	return nil
}

func toLessonResponse(l *model.Lesson) *dto.LessonResponse {
	return &dto.LessonResponse{
		ID:                 l.LessonID,
		WorkshopID:         l.WorkshopID,
		Title:              l.Title,
		Content:            l.Content,
		ContentURI:         l.ContentURI,
		RequiresReflection: l.RequiresReflection,
		Order:              l.Order,
		EstimatedDuration:  l.EstimatedDuration,
		CreatedAt:          dto.FormatTime(l.CreatedAt),
		UpdatedAt:          dto.FormatTime(l.UpdatedAt),
	}
}

func toLessonResponses(lessons []model.Lesson) []dto.LessonResponse {
	result := make([]dto.LessonResponse, 0, len(lessons))
	for i := range lessons {
		result = append(result, *toLessonResponse(&lessons[i]))
	}
	return result
}
