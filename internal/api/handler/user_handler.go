package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/dto"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/service"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/response"
)

// UserHandler 用户档案 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// UpsertProfile 外部注册完成后写入/更新档案
// PUT /api/v1/profile
func (h *UserHandler) UpsertProfile(c *gin.Context) {
	var req dto.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.userSvc.UpsertProfile(c.Request.Context(), uid, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, profile)
}

// Leaderboard 积分排行榜
// GET /api/v1/leaderboard?limit=10
func (h *UserHandler) Leaderboard(c *gin.Context) {
	var req dto.LeaderboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	list, err := h.userSvc.Leaderboard(c.Request.Context(), req.GetLimit())
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OKList(c, list, len(list))
}

// handleUserError 统一处理用户模块业务错误
func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		response.ValidationFailed(c, err)
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11001, "用户档案不存在")
	default:
		response.InternalError(c)
	}
}
