package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/service"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/response"
)

// ProgressHandler 学习进度/积分 HTTP 处理器
type ProgressHandler struct {
	progressSvc service.ProgressService
}

// NewProgressHandler 创建 ProgressHandler
func NewProgressHandler(progressSvc service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressSvc: progressSvc}
}

// ListMine 当前学员的进度记录
// GET /api/v1/me/progress
func (h *ProgressHandler) ListMine(c *gin.Context) {
	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.progressSvc.ListByLearner(c.Request.Context(), learnerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKList(c, list, len(list))
}

// Points 当前学员总积分
// GET /api/v1/me/points
func (h *ProgressHandler) Points(c *gin.Context) {
	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	points, err := h.progressSvc.GetTotalPoints(c.Request.Context(), learnerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, points)
}

// Summary 当前学员进度汇总（总分与各状态计数）
// GET /api/v1/me/progress/summary
func (h *ProgressHandler) Summary(c *gin.Context) {
	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	summary, err := h.progressSvc.Summary(c.Request.Context(), learnerID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, summary)
}
