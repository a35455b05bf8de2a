package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/api/middleware"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/service"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/response"
)

// TokenRevoker Access Token 注销（由 Redis 黑名单实现）
type TokenRevoker interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthHandler 会话相关 HTTP 处理器
// 登录/注册由外部身份提供方完成，此处只处理当前会话
type AuthHandler struct {
	userSvc service.UserService
	revoker TokenRevoker
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(userSvc service.UserService, revoker TokenRevoker) *AuthHandler {
	return &AuthHandler{userSvc: userSvc, revoker: revoker}
}

// Me 获取当前用户档案
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.userSvc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Unauthorized(c, 10002, "用户档案不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, profile)
}

// Logout 注销当前 Access Token（加入黑名单至其过期）
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.revoker == nil {
		response.OK(c, nil)
		return
	}

	jti := c.GetString(middleware.CtxTokenJTI)
	if jti == "" {
		response.OK(c, nil)
		return
	}

	exp, ok := c.Get(middleware.CtxTokenExp)
	expAt, isTime := exp.(time.Time)
	if !ok || !isTime {
		// 无过期时间的 Token 无法写入黑名单
		response.Unauthorized(c, 10002, "Token 缺少过期时间")
		return
	}
	ttl := time.Until(expAt)
	if ttl <= 0 {
		response.OK(c, nil)
		return
	}

	if err := h.revoker.BlacklistToken(c.Request.Context(), jti, ttl); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
