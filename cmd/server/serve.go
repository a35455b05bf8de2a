package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/PLanet-09AI/skillup-nexus-connect/internal/api/handler"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/api/router"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/repository"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/service"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/database"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/jwt"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/redis"
)

func runServe() error {
	// 1. 加载配置 + 初始化日志
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 2. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return fmt.Errorf("数据库连接失败: %w", err)
	}
	logger.Info("数据库连接成功")

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	defer sqlDB.Close()

	// 2.1 执行数据库迁移
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	// 3. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与限流将不可用", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	// 4. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 5. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, logger)

	var revoker handler.TokenRevoker
	if rdb != nil {
		revoker = rdb
	}
	h := handler.NewHandler(svc, revoker)

	// 6. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, svc.User, rdb, db, logger)

	// 7. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// 8. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))
	case err := <-serveErr:
		return fmt.Errorf("HTTP 服务器异常: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务器已关闭")
	return nil
}
