package task

import (
	"github.com/go-co-op/gocron/v2"
	"github.com/grandiv/novalance-be/internal/config"
	"github.com/grandiv/novalance-be/internal/logger"
	"github.com/grandiv/novalance-be/internal/vault"
	"gorm.io/gorm"
)

// Job 后台任务接口
type Job interface {
	GetName() string
	GetSchedule() gocron.JobDefinition
	Execute()
}

// Manager 任务管理器
type Manager struct {
	scheduler   gocron.Scheduler
	db          *gorm.DB
	vaultClient *vault.Client
	config      *config.Config
}

// NewManager 创建新的任务管理器
func NewManager(db *gorm.DB, vaultClient *vault.Client, cfg *config.Config) *Manager {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler:   s,
		db:          db,
		vaultClient: vaultClient,
		config:      cfg,
	}
}

// Start 启动任务管理器
func Start(db *gorm.DB, vaultClient *vault.Client, cfg *config.Config) *Manager {
	manager := NewManager(db, vaultClient, cfg)
	manager.RegisterJobs()
	manager.scheduler.Start()
	logger.Info("Task manager started successfully")
	return manager
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	m.register(NewBalanceSyncJob(m.db, m.config, m.vaultClient))
	m.register(NewTxConfirmJob(m.db, m.config, m.vaultClient))
}

func (m *Manager) register(job Job) {
	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
