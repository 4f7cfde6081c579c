package main

import (
	"github.com/gin-gonic/gin"
	"github.com/grandiv/novalance-be/internal/auth"
	"github.com/grandiv/novalance-be/internal/config"
	"github.com/grandiv/novalance-be/internal/database"
	"github.com/grandiv/novalance-be/internal/logger"
	"github.com/grandiv/novalance-be/internal/monitor"
	"github.com/grandiv/novalance-be/internal/router"
	"github.com/grandiv/novalance-be/internal/task"
	"github.com/grandiv/novalance-be/internal/vault"
)

func main() {
	// 加载配置
	cfg := config.Load()
	logger.Setup(cfg.Log)

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化会话签发器
	issuer, err := auth.NewSessionIssuer(cfg.Auth)
	if err != nil {
		logger.Fatal("Failed to initialize session issuer: %v", err)
	}

	// 初始化金库客户端；链上读取按请求降级，初始化失败不阻塞离线API
	var vaultClient *vault.Client
	if cfg.Chain.RpcUrl != "" {
		vaultClient, err = vault.Init(cfg.Chain)
		if err != nil {
			logger.Error("Failed to initialize vault client, chain reads disabled: %v", err)
			vaultClient = nil
		}
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, vaultClient, issuer, cfg)

	// 启动定时任务
	task.Start(db, vaultClient, cfg)

	// 启动金库事件监控
	if cfg.Chain.MonitorEnable && vaultClient != nil {
		m := monitor.NewEventMonitor(db, vaultClient, cfg.Chain)
		if err := m.Start(); err != nil {
			logger.Error("Failed to start vault event monitor: %v", err)
		}
	}

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
