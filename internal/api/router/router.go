package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PLanet-09AI/skillup-nexus-connect/config"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/api/handler"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/api/middleware"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/service"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/jwt"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时黑名单与限流均降级关闭
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	userSvc service.UserService,
	rdb *redis.Client,
	db *gorm.DB,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	// 接口值需显式置 nil，避免 (*redis.Client)(nil) 被当作可用实现
	var (
		blacklist middleware.TokenBlacklist
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist = rdb
		if cfg.RateLimit.Enabled {
			limiter = rdb
		}
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	writeLimit := middleware.RateLimit(limiter, cfg.RateLimit.Limit, cfg.RateLimit.Window, logger)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
	{
		// 档案可能尚不存在，仅校验 Token
		v1.PUT("/profile", writeLimit, h.User.UpsertProfile)

		// 以下路由要求档案存在
		authorized := v1.Group("")
		authorized.Use(middleware.CurrentUser(userSvc, logger))
		{
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/leaderboard", h.User.Leaderboard)

			// 工作坊浏览
			workshops := authorized.Group("/workshops")
			{
				workshops.GET("", h.Workshop.ListOpen)
				workshops.GET("/:id", h.Workshop.Get)
				workshops.GET("/:id/calendar.ics", h.Export.ExportCalendar)
				workshops.GET("/:id/lessons", h.Lesson.ListByWorkshop) // 学员需已报名（Service 层鉴权）
				workshops.POST("/:id/register", middleware.RoleAuth(model.RoleJobSeeker), writeLimit, h.Registration.Register)
			}

			// 课时
			lessons := authorized.Group("/lessons")
			{
				lessons.GET("/:id", h.Lesson.Get)
				lessons.POST("/:id/reflections", middleware.RoleAuth(model.RoleJobSeeker), writeLimit, h.Reflection.Submit)
			}

			// 学员个人数据
			me := authorized.Group("/me")
			me.Use(middleware.RoleAuth(model.RoleJobSeeker))
			{
				me.GET("/registrations", h.Registration.ListMine)
				me.GET("/reflections", h.Reflection.ListMine)
				me.GET("/progress", h.Progress.ListMine)
				me.GET("/progress/summary", h.Progress.Summary)
				me.GET("/points", h.Progress.Points)
			}

			// 招聘方管理（归属校验在 Service 层）
			manage := authorized.Group("/manage")
			manage.Use(middleware.RoleAuth(model.RoleRecruiter))
			{
				manage.GET("/workshops", h.Workshop.ListMine)
				manage.POST("/workshops", writeLimit, h.Workshop.Create)
				manage.PUT("/workshops/:id", h.Workshop.Update)
				manage.DELETE("/workshops/:id", h.Workshop.Delete)
				manage.GET("/workshops/:id/registrations", h.Registration.ListByWorkshop)
				manage.GET("/workshops/:id/export", h.Export.ExportRoster)
				manage.POST("/workshops/:id/lessons", writeLimit, h.Lesson.Create)

				manage.PUT("/lessons/:id", h.Lesson.Update)
				manage.DELETE("/lessons/:id", h.Lesson.Delete)
				manage.POST("/lessons/:id/move", h.Lesson.Move)
				manage.GET("/lessons/:id/reflections", h.Reflection.ListByLesson)

				manage.POST("/reflections/:id/review", h.Reflection.Review)
			}
		}
	}

	return r
}
