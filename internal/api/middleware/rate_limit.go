package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/response"
)

// RateLimiter 滑动窗口计数（由 Redis 实现）
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 速率限制中间件
// limit: 窗口内允许的最大请求数
// window: 滑动窗口时长
// 已认证请求按用户计数，否则按客户端 IP；limiter 为 nil 或出错时降级放行
func RateLimit(limiter RateLimiter, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		subject := c.GetString(CtxUserID)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}
		key := fmt.Sprintf("rate_limit:%s:%s:%s", subject, c.Request.Method, c.FullPath())

		allowed, err := limiter.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("限流检查失败，降级放行", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10004, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
