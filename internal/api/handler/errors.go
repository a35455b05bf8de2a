package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/service"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/response"
)

// handleCatalogError 工作坊/课时相关的共用错误映射
// 未识别的错误按存储失败处理
func handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		response.ValidationFailed(c, err)
	case errors.Is(err, service.ErrWorkshopNotFound):
		response.NotFound(c, 20001, "工作坊不存在")
	case errors.Is(err, service.ErrWorkshopForbidden):
		response.Forbidden(c, 20002, "仅工作坊创建者可执行此操作")
	case errors.Is(err, service.ErrWorkshopClosed):
		response.BadRequest(c, 20003, "工作坊未开放报名")
	case errors.Is(err, service.ErrLessonNotFound):
		response.NotFound(c, 21001, "课时不存在")
	case errors.Is(err, service.ErrNotRegistered):
		response.Forbidden(c, 21002, "请先报名该工作坊")
	default:
		response.InternalError(c)
	}
}
