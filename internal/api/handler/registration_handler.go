package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/service"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/response"
)

// RegistrationHandler 报名模块 HTTP 处理器
type RegistrationHandler struct {
	registrationSvc service.RegistrationService
}

// NewRegistrationHandler 创建 RegistrationHandler
func NewRegistrationHandler(registrationSvc service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationSvc: registrationSvc}
}

// Register 报名工作坊
// POST /api/v1/workshops/:id/register
// 新报名返回 201；已报名返回 200 且 already_registered=true
func (h *RegistrationHandler) Register(c *gin.Context) {
	workshopID, ok := mustParam(c, "id", "工作坊ID")
	if !ok {
		return
	}

	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.registrationSvc.Register(c.Request.Context(), workshopID, learnerID, GetUserName(c))
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	if result.AlreadyRegistered {
		response.OK(c, result)
		return
	}
	response.Created(c, result)
}

// ListMine 当前学员的报名记录
// GET /api/v1/me/registrations
func (h *RegistrationHandler) ListMine(c *gin.Context) {
	learnerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.registrationSvc.ListByLearner(c.Request.Context(), learnerID)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// ListByWorkshop 工作坊报名名单（仅创建者）
// GET /api/v1/manage/workshops/:id/registrations
func (h *RegistrationHandler) ListByWorkshop(c *gin.Context) {
	workshopID, ok := mustParam(c, "id", "工作坊ID")
	if !ok {
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.registrationSvc.ListByWorkshop(c.Request.Context(), workshopID, callerID)
	if err != nil {
		handleCatalogError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}
