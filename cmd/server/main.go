package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/PLanet-09AI/skillup-nexus-connect/config"
	"github.com/PLanet-09AI/skillup-nexus-connect/internal/model"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/database"
	"github.com/PLanet-09AI/skillup-nexus-connect/pkg/jwt"
	applogger "github.com/PLanet-09AI/skillup-nexus-connect/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "skillup-server",
	Short: "SkillUp 工作坊学习平台后端",
	// 未指定子命令时直接启动服务
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行数据库迁移后退出",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return fmt.Errorf("数据库连接失败: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
		}
		defer sqlDB.Close()

		return database.RunMigrations(sqlDB, logger)
	},
}

// 本地开发用：代替外部身份提供方签发 Access Token
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "签发开发用 Access Token",
	RunE: func(cmd *cobra.Command, args []string) error {
		uid, _ := cmd.Flags().GetString("uid")
		role, _ := cmd.Flags().GetString("role")
		if uid == "" {
			return fmt.Errorf("--uid 不能为空")
		}
		if role != model.RoleJobSeeker && role != model.RoleRecruiter {
			return fmt.Errorf("--role 必须为 %s 或 %s", model.RoleJobSeeker, model.RoleRecruiter)
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		token, err := jwt.NewManager(&cfg.Auth).GenerateAccessToken(uid, role)
		if err != nil {
			return fmt.Errorf("签发 Token 失败: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径（默认查找 ./config/config.yaml）")

	tokenCmd.Flags().String("uid", "", "用户 ID（对应身份提供方的 subject）")
	tokenCmd.Flags().String("role", model.RoleJobSeeker, "角色: job_seeker | recruiter")

	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

// bootstrap 加载配置并初始化日志
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, logger, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
