package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/dto"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/service"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/response"
)

// ReflectionHandler 学习反思模块 HTTP 处理器
type ReflectionHandler struct {
	reflectionSvc service.ReflectionService
}

// NewReflectionHandler 创建 ReflectionHandler
func NewReflectionHandler(reflectionSvc service.ReflectionService) *ReflectionHandler {
	return &ReflectionHandler{reflectionSvc: reflectionSvc}
}

// Submit 提交课时反思
// POST /api/v1/lessons/:id/reflections
func (h *ReflectionHandler) Submit(c *gin.Context) {
	lessonID, ok := mustParam(c, "id", "课时ID")
	if !ok {
		return
	}

	var req dto.SubmitReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reflectionSvc.Submit(c.Request.Context(), lessonID, learnerID, GetUserName(c), &req)
	if err != nil {
		h.handleReflectionError(c, err)
		return
	}

	response.Created(c, result)
}

// Review 审核反思
// POST /api/v1/manage/reflections/:id/review
func (h *ReflectionHandler) Review(c *gin.Context) {
	id, ok := mustParam(c, "id", "反思ID")
	if !ok {
		return
	}

	var req dto.ReviewReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	reviewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	progress, err := h.reflectionSvc.Review(c.Request.Context(), id, req.Decision, reviewerID)
	if err != nil {
		h.handleReflectionError(c, err)
		return
	}

	response.OK(c, progress)
}

// ListByLesson 课时下的反思（仅工作坊创建者）
// GET /api/v1/manage/lessons/:id/reflections
func (h *ReflectionHandler) ListByLesson(c *gin.Context) {
	lessonID, ok := mustParam(c, "id", "课时ID")
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.reflectionSvc.ListByLesson(c.Request.Context(), lessonID, callerID)
	if err != nil {
		h.handleReflectionError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// ListMine 当前学员提交的反思
// GET /api/v1/me/reflections
func (h *ReflectionHandler) ListMine(c *gin.Context) {
	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.reflectionSvc.ListByLearner(c.Request.Context(), learnerID)
	if err != nil {
		h.handleReflectionError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// handleReflectionError 统一处理反思模块业务错误
func (h *ReflectionHandler) handleReflectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReflectionNotFound):
		response.NotFound(c, 23001, "反思记录不存在")
	case errors.Is(err, service.ErrReflectionNotRequired):
		response.BadRequest(c, 23002, "该课时无需提交反思")
	case errors.Is(err, service.ErrInvalidDecision):
		response.BadRequest(c, 23003, "审核结论必须为 approved 或 rejected")
	default:
		handleCatalogError(c, err)
	}
}
