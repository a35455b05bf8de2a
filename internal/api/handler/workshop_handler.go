package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/dto"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/service"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/response"
)

// WorkshopHandler 工作坊模块 HTTP 处理器
type WorkshopHandler struct {
	workshopSvc service.WorkshopService
}

// NewWorkshopHandler 创建 WorkshopHandler
func NewWorkshopHandler(workshopSvc service.WorkshopService) *WorkshopHandler {
	return &WorkshopHandler{workshopSvc: workshopSvc}
}

// ListOpen 开放中的工作坊
// GET /api/v1/workshops
func (h *WorkshopHandler) ListOpen(c *gin.Context) {
	list, err := h.workshopSvc.ListOpen(c.Request.Context())
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// Get 工作坊详情
// GET /api/v1/workshops/:id
func (h *WorkshopHandler) Get(c *gin.Context) {
	id, ok := mustParam(c, "id", "工作坊ID")
	if !ok {
		return
	}

	w, err := h.workshopSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, w)
}

// ListMine 当前招聘方创建的工作坊
// GET /api/v1/manage/workshops
func (h *WorkshopHandler) ListMine(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.workshopSvc.ListByCreator(c.Request.Context(), callerID)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// Create 创建工作坊
// POST /api/v1/manage/workshops
func (h *WorkshopHandler) Create(c *gin.Context) {
	var req dto.CreateWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	w, err := h.workshopSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.Created(c, w)
}

// Update 更新工作坊
// PUT /api/v1/manage/workshops/:id
func (h *WorkshopHandler) Update(c *gin.Context) {
	id, ok := mustParam(c, "id", "工作坊ID")
	if !ok {
		return
	}

	var req dto.UpdateWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	w, err := h.workshopSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, w)
}

// Delete 删除工作坊（级联删除课时、反思、进度与报名）
// DELETE /api/v1/manage/workshops/:id
func (h *WorkshopHandler) Delete(c *gin.Context) {
	id, ok := mustParam(c, "id", "工作坊ID")
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.workshopSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OK(c, nil)
}
