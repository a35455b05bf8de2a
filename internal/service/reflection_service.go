package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/dto"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/repository"
	pkgerrors "github.com/PLanet-09AI/skillup-nexus-connect/pkg/errors"
)

// ── 学习反思模块业务错误 ──

var (
	ErrReflectionNotFound    = errors.New("反思记录不存在")
	ErrReflectionNotRequired = errors.New("该课时无需提交反思")
	ErrInvalidDecision       = errors.New("审核结论必须为 approved 或 rejected")
)

const reflectionContentMinLen = 20

// ReflectionService 学习反思业务接口
type ReflectionService interface {
	// Submit 写入反思及一条 pending 进度记录（同一事务）
	Submit(ctx context.Context, lessonID, learnerID, learnerName string, req *dto.SubmitReflectionRequest) (*dto.SubmitReflectionResponse, error)
	// Review 审核反思并覆盖对应进度记录的状态与积分
	Review(ctx context.Context, reflectionID, decision, reviewerID string) (*dto.ProgressResponse, error)
	ListByLesson(ctx context.Context, lessonID string, callerID string) ([]dto.ReflectionResponse, error)
	ListByLearner(ctx context.Context, learnerID string) ([]dto.ReflectionResponse, error)
}

type reflectionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReflectionService 创建 ReflectionService 实例
func NewReflectionService(repo *repository.Repository, logger *zap.Logger) ReflectionService {
	return &reflectionService{repo: repo, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *reflectionService) Submit(ctx context.Context, lessonID, learnerID, learnerName string, req *dto.SubmitReflectionRequest) (*dto.SubmitReflectionResponse, error) {
	content := strings.TrimSpace(req.Content)
	if utf8.RuneCountInString(content) < reflectionContentMinLen {
		return nil, fmt.Errorf("%w: 反思内容至少 %d 个字符", ErrInvalidInput, reflectionContentMinLen)
	}

	lesson, err := loadLesson(ctx, s.repo, s.logger, lessonID)
	if err != nil {
		return nil, err
	}
	if !lesson.RequiresReflection {
		return nil, ErrReflectionNotRequired
	}

	ok, err := isRegistered(ctx, s.repo, s.logger, lesson.WorkshopID, learnerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotRegistered
	}

	reflection := &model.Reflection{
		LessonID:    lessonID,
		LearnerID:   learnerID,
		LearnerName: strings.TrimSpace(learnerName),
		Content:     content,
		SubmittedAt: time.Now().UTC(),
	}
	progress := &model.Progress{
		LessonID:         lessonID,
		LearnerID:        learnerID,
		ReflectionStatus: model.ReflectionStatusPending,
	}

	if err := s.repo.Reflection.CreateWithProgress(ctx, reflection, progress); err != nil {
		s.logger.Error("提交反思失败",
			zap.String("lesson_id", lessonID),
			zap.String("learner_id", learnerID),
			zap.Error(err),
		)
		return nil, err
	}

	return &dto.SubmitReflectionResponse{
		ReflectionID: reflection.ReflectionID,
		ProgressID:   progress.ProgressID,
		Status:       progress.ReflectionStatus,
	}, nil
}

// ────────────────────── Review ──────────────────────
//
// 1. 校验审核结论，非法结论不产生任何写入
// 2. 加载反思，校验审核人为课时所属工作坊创建者
// 3. 标记 reviewed = true（重复审核不拦截）
// 4. 按 reflection_id 查找进度：不存在则新建，存在则覆盖状态/积分/审核人/审核时间

func (s *reflectionService) Review(ctx context.Context, reflectionID, decision, reviewerID string) (*dto.ProgressResponse, error) {
	points, ok := model.PointsForDecision(decision)
	if !ok {
		return nil, ErrInvalidDecision
	}

	reflection, err := s.repo.Reflection.GetByID(ctx, reflectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReflectionNotFound
		}
		s.logger.Error("查询反思失败", zap.String("reflection_id", reflectionID), zap.Error(err))
		return nil, err
	}

	if _, err := loadOwnedLesson(ctx, s.repo, s.logger, reflection.LessonID, reviewerID); err != nil {
		return nil, err
	}

	if err := s.repo.Reflection.MarkReviewed(ctx, reflectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReflectionNotFound
		}
		s.logger.Error("标记反思已审核失败", zap.String("reflection_id", reflectionID), zap.Error(err))
		return nil, err
	}

	now := time.Now().UTC()
	progress, err := s.repo.Progress.GetByReflectionID(ctx, reflectionID)
	switch {
	case err == nil:
		applyReview(progress, decision, points, reviewerID, now)
		err = s.repo.Progress.UpdateReview(ctx, progress)
	case errors.Is(err, gorm.ErrRecordNotFound):
		progress, err = s.createReviewedProgress(ctx, reflection, decision, points, reviewerID, now)
	}
	if err != nil {
		s.logger.Error("写入审核结果失败",
			zap.String("reflection_id", reflectionID),
			zap.String("decision", decision),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("反思已审核",
		zap.String("reflection_id", reflectionID),
		zap.String("decision", decision),
		zap.Int("points", points),
		zap.String("reviewer_id", reviewerID),
	)
	return toProgressResponse(progress), nil
}

// createReviewedProgress 缺失进度记录时直接以审核结果新建
// 并发审核抢先建成时转为覆盖更新
func (s *reflectionService) createReviewedProgress(ctx context.Context, reflection *model.Reflection, decision string, points int, reviewerID string, now time.Time) (*model.Progress, error) {
	progress := &model.Progress{
		LessonID:     reflection.LessonID,
		LearnerID:    reflection.LearnerID,
		ReflectionID: reflection.ReflectionID,
	}
	applyReview(progress, decision, points, reviewerID, now)

	err := s.repo.Progress.Create(ctx, progress)
	if err == nil {
		s.logger.Warn("反思缺少进度记录，已按审核结果补建",
			zap.String("reflection_id", reflection.ReflectionID),
		)
		return progress, nil
	}
	if !pkgerrors.IsDuplicateKey(err) {
		return nil, err
	}

	existing, err := s.repo.Progress.GetByReflectionID(ctx, reflection.ReflectionID)
	if err != nil {
		return nil, err
	}
	applyReview(existing, decision, points, reviewerID, now)
	if err := s.repo.Progress.UpdateReview(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// ────────────────────── List ──────────────────────

func (s *reflectionService) ListByLesson(ctx context.Context, lessonID string, callerID string) ([]dto.ReflectionResponse, error) {
	if _, err := loadOwnedLesson(ctx, s.repo, s.logger, lessonID, callerID); err != nil {
		return nil, err
	}

	reflections, err := s.repo.Reflection.ListByLesson(ctx, lessonID)
	if err != nil {
		s.logger.Error("按课时列出反思失败", zap.String("lesson_id", lessonID), zap.Error(err))
		return nil, err
	}
	return toReflectionResponses(reflections), nil
}

func (s *reflectionService) ListByLearner(ctx context.Context, learnerID string) ([]dto.ReflectionResponse, error) {
	reflections, err := s.repo.Reflection.ListByLearner(ctx, learnerID)
	if err != nil {
		s.logger.Error("按学员列出反思失败", zap.String("learner_id", learnerID), zap.Error(err))
		return nil, err
	}
	return toReflectionResponses(reflections), nil
}

// ── 内部辅助方法 ──

func applyReview(p *model.Progress, decision string, points int, reviewerID string, at time.Time) {
	p.ReflectionStatus = decision
	p.Points = points
	p.ReviewedBy = reviewerID
	p.ReviewedAt = &at
}

func toReflectionResponses(reflections []model.Reflection) []dto.ReflectionResponse {
	result := make([]dto.ReflectionResponse, 0, len(reflections))
	for _, r := range reflections {
		result = append(result, dto.ReflectionResponse{
			ID:          r.ReflectionID,
			LessonID:    r.LessonID,
			LearnerID:   r.LearnerID,
			LearnerName: r.LearnerName,
			Content:     r.Content,
			SubmittedAt: dto.FormatTime(r.SubmittedAt),
			Reviewed:    r.Reviewed,
		})
	}
	return result
}
