package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/api/middleware"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/service"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.CtxUserID)
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetCaller 提取调用方 uid 与档案角色
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return service.Caller{}, false
	}
	role := c.GetString(middleware.CtxRole)
	if role == "" {
		response.Unauthorized(c, 10002, "未认证")
		return service.Caller{}, false
	}
	return service.Caller{UserID: uid, Role: role}, true
}

// GetUserName 当前用户姓名（档案中间件注入，可能为空）
func GetUserName(c *gin.Context) string {
	return c.GetString(middleware.CtxUserName)
}

// mustParam 读取路径参数，为空时写入 400
func mustParam(c *gin.Context, name, label string) (string, bool) {
	v := c.Param(name)
	if v == "" {
		response.BadRequest(c, 10001, label+"不能为空")
		return "", false
	}
	return v, true
}
