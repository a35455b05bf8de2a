package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/dto"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/repository"
)

// ProgressService 学习进度/积分业务接口
// 总积分每次全量扫描求和，不做缓存
type ProgressService interface {
	GetTotalPoints(ctx context.Context, learnerID string) (*dto.PointsResponse, error)
	Summary(ctx context.Context, learnerID string) (*dto.ProgressSummaryResponse, error)
	ListByLearner(ctx context.Context, learnerID string) ([]dto.ProgressResponse, error)
}

type progressService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProgressService 创建 ProgressService 实例
func NewProgressService(repo *repository.Repository, logger *zap.Logger) ProgressService {
	return &progressService{repo: repo, logger: logger}
}

func (s *progressService) GetTotalPoints(ctx context.Context, learnerID string) (*dto.PointsResponse, error) {
	list, err := s.listByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	return &dto.PointsResponse{LearnerID: learnerID, TotalPoints: sumPoints(list)}, nil
}

func (s *progressService) Summary(ctx context.Context, learnerID string) (*dto.ProgressSummaryResponse, error) {
	list, err := s.listByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}

	summary := &dto.ProgressSummaryResponse{LearnerID: learnerID, TotalPoints: sumPoints(list)}
	for i := range list {
		switch list[i].ReflectionStatus {
		case model.ReflectionStatusApproved:
			summary.Approved++
		case model.ReflectionStatusRejected:
			summary.Rejected++
		default:
			summary.Pending++
		}
	}
	return summary, nil
}

func (s *progressService) ListByLearner(ctx context.Context, learnerID string) ([]dto.ProgressResponse, error) {
	list, err := s.listByLearner(ctx, learnerID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ProgressResponse, 0, len(list))
	for i := range list {
		result = append(result, *toProgressResponse(&list[i]))
	}
	return result, nil
}

func (s *progressService) listByLearner(ctx context.Context, learnerID string) ([]model.Progress, error) {
	list, err := s.repo.Progress.ListByLearner(ctx, learnerID)
	if err != nil {
		s.logger.Error("查询学习进度失败", zap.String("learner_id", learnerID), zap.Error(err))
		return nil, err
	}
	return list, nil
}

// sumPoints pending 记录计 0 分，一并参与求和
func sumPoints(list []model.Progress) int {
	total := 0
	for i := range list {
		total += list[i].Points
	}
	return total
}

func toProgressResponse(p *model.Progress) *dto.ProgressResponse {
	return &dto.ProgressResponse{
		ID:               p.ProgressID,
		LessonID:         p.LessonID,
		LearnerID:        p.LearnerID,
		ReflectionID:     p.ReflectionID,
		ReflectionStatus: p.ReflectionStatus,
		Points:           p.Points,
		ReviewedBy:       p.ReviewedBy,
		ReviewedAt:       dto.FormatTimePtr(p.ReviewedAt),
	}
}
