package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/dto"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/service"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/response"
)

// LessonHandler 课时模块 HTTP 处理器
type LessonHandler struct {
	lessonSvc service.LessonService
}

// NewLessonHandler 创建 LessonHandler
func NewLessonHandler(lessonSvc service.LessonService) *LessonHandler {
	return &LessonHandler{lessonSvc: lessonSvc}
}

// ListByWorkshop 工作坊课时列表（按序号升序）
// GET /api/v1/workshops/:id/lessons
func (h *LessonHandler) ListByWorkshop(c *gin.Context) {
	workshopID, ok := mustParam(c, "id", "工作坊ID")
	if !ok {
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	list, err := h.lessonSvc.ListByWorkshop(c.Request.Context(), workshopID, caller)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// Get 课时详情
// GET /api/v1/lessons/:id
func (h *LessonHandler) Get(c *gin.Context) {
	id, ok := mustParam(c, "id", "课时ID")
	if !ok {
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	lesson, err := h.lessonSvc.GetByID(c.Request.Context(), id, caller)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, lesson)
}

// Create 新增课时（追加到末尾）
// POST /api/v1/manage/workshops/:id/lessons
func (h *LessonHandler) Create(c *gin.Context) {
	workshopID, ok := mustParam(c, "id", "工作坊ID")
	if !ok {
		return
	}

	var req dto.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	lesson, err := h.lessonSvc.Create(c.Request.Context(), workshopID, &req, callerID)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.Created(c, lesson)
}

// Update 更新课时
// PUT /api/v1/manage/lessons/:id
func (h *LessonHandler) Update(c *gin.Context) {
	id, ok := mustParam(c, "id", "课时ID")
	if !ok {
		return
	}

	var req dto.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	lesson, err := h.lessonSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, lesson)
}

// Delete 删除课时并重新编号
// DELETE /api/v1/manage/lessons/:id
func (h *LessonHandler) Delete(c *gin.Context) {
	id, ok := mustParam(c, "id", "课时ID")
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.lessonSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, nil)
}

// Move 上移/下移课时，返回调整后的完整列表
// POST /api/v1/manage/lessons/:id/move
func (h *LessonHandler) Move(c *gin.Context) {
	id, ok := mustParam(c, "id", "课时ID")
	if !ok {
		return
	}

	var req dto.MoveLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.lessonSvc.Move(c.Request.Context(), id, req.Direction, callerID)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}
