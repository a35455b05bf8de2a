package handler

import (
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Workshop     *WorkshopHandler
	Lesson       *LessonHandler
	Registration *RegistrationHandler
	Reflection   *ReflectionHandler
	Progress     *ProgressHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
// revoker 为 nil 时注销仅返回成功，不写黑名单
func NewHandler(svc *service.Service, revoker TokenRevoker) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.User, revoker),
		User:         NewUserHandler(svc.User),
		Workshop:     NewWorkshopHandler(svc.Workshop),
		Lesson:       NewLessonHandler(svc.Lesson),
		Registration: NewRegistrationHandler(svc.Registration),
		Reflection:   NewReflectionHandler(svc.Reflection),
		Progress:     NewProgressHandler(svc.Progress),
		Export:       NewExportHandler(svc.Export),
	}
}
