package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/dto"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound = errors.New("用户档案不存在")
)

const (
	defaultPlanType     = "free"
	maxLeaderboardLimit = 100
)

// UserService 用户档案业务接口
type UserService interface {
	// GetProfile 按身份提供方 uid 加载档案；档案不存在视为未登录
	GetProfile(ctx context.Context, uid string) (*dto.UserResponse, error)
	UpsertProfile(ctx context.Context, uid string, req *dto.UpsertProfileRequest) (*dto.UserResponse, error)
	Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── GetProfile ──────────────────────

func (s *userService) GetProfile(ctx context.Context, uid string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户档案失败", zap.String("uid", uid), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── UpsertProfile ──────────────────────

func (s *userService) UpsertProfile(ctx context.Context, uid string, req *dto.UpsertProfileRequest) (*dto.UserResponse, error) {
	if !model.IsValidRole(req.Role) {
		return nil, fmt.Errorf("%w: 角色必须为 job_seeker 或 recruiter", ErrInvalidInput)
	}

	plan := strings.TrimSpace(req.PlanType)
	if plan == "" {
		plan = defaultPlanType
	}

	user := &model.UserProfile{
		UID:      uid,
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Role:     req.Role,
		PlanType: plan,
	}

	if err := s.repo.User.Upsert(ctx, user); err != nil {
		s.logger.Error("写入用户档案失败", zap.String("uid", uid), zap.Error(err))
		return nil, err
	}

	return toUserResponse(user), nil
}

// ────────────────────── Leaderboard ──────────────────────

func (s *userService) Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	rows, err := s.repo.Progress.Leaderboard(ctx, limit)
	if err != nil {
		s.logger.Error("查询积分排行失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		result = append(result, dto.LeaderboardEntry{
			Rank:        i + 1,
			LearnerID:   row.LearnerID,
			LearnerName: row.LearnerName,
			TotalPoints: row.TotalPoints,
		})
	}
	return result, nil
}

// ── 内部辅助方法 ──

func toUserResponse(u *model.UserProfile) *dto.UserResponse {
	return &dto.UserResponse{
		UID:       u.UID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		PlanType:  u.PlanType,
		CreatedAt: dto.FormatTime(u.CreatedAt),
	}
}
