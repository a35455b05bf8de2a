package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/PLanet-09AI/skillup-nexus-connect/config"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/repository"
)

// ErrInvalidInput 参数不满足业务校验（在写入存储前检查）
// 具体原因以 fmt.Errorf("%w: ...") 形式附加
var ErrInvalidInput = errors.New("参数校验失败")

// Caller 调用方身份，由 API 层解析后显式传入
type Caller struct {
	UserID string
	Role   string
}

// Service 所有 Service 的聚合入口
type Service struct {
	User         UserService
	Workshop     WorkshopService
	Lesson       LessonService
	Registration RegistrationService
	Reflection   ReflectionService
	Progress     ProgressService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
) *Service {
	return &Service{
		User:         NewUserService(repo, logger),
		Workshop:     NewWorkshopService(repo, logger),
		Lesson:       NewLessonService(repo, logger),
		Registration: NewRegistrationService(repo, logger),
		Reflection:   NewReflectionService(repo, logger),
		Progress:     NewProgressService(repo, logger),
		Export:       NewExportService(cfg.Server.BaseURL, repo, logger),
	}
}
