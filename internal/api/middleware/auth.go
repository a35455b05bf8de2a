package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/service"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/jwt"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/response"
)

// 上下文键
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxUserName = "user_name"
	CtxTokenJTI = "token_jti"
	CtxTokenExp = "token_exp"
)

// TokenBlacklist Access Token 黑名单查询（由 Redis 实现）
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token
// blacklist 为 nil 或查询出错时降级放行
func JWTAuth(jwtMgr *jwt.Manager, blacklist TokenBlacklist, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		// 身份提供方的 Token 可能不带 token_type
		if claims.TokenType != "" && claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "Token 类型无效")
			c.Abort()
			return
		}

		if blacklist != nil && claims.ID != "" {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				logger.Warn("查询 Token 黑名单失败，降级放行", zap.String("jti", claims.ID), zap.Error(err))
			} else if revoked {
				response.Unauthorized(c, 10002, "Token 已注销")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxTokenJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExp, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// CurrentUser 加载用户档案并注入角色
// 角色以档案为准；Token 有效但档案不存在按未登录处理
func CurrentUser(userSvc service.UserService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString(CtxUserID)
		if uid == "" {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		profile, err := userSvc.GetProfile(c.Request.Context(), uid)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				response.Unauthorized(c, 10002, "用户档案不存在")
				c.Abort()
				return
			}
			logger.Error("加载用户档案失败", zap.String("uid", uid), zap.Error(err))
			response.InternalError(c)
			c.Abort()
			return
		}

		c.Set(CtxRole, profile.Role)
		c.Set(CtxUserName, profile.Name)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前用户是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(CtxRole)
		if userRole == "" {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "无权限访问")
		c.Abort()
	}
}
