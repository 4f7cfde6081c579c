package task

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/grandiv/novalance-be/internal/config"
	"github.com/grandiv/novalance-be/internal/logger"
	"github.com/grandiv/novalance-be/internal/model"
	"github.com/grandiv/novalance-be/internal/vault"
	"gorm.io/gorm"
)

// BalanceSyncJob 从链上金库同步项目入金总额
type BalanceSyncJob struct {
	db          *gorm.DB
	config      *config.Config
	vaultClient *vault.Client
}

// NewBalanceSyncJob 创建余额同步任务
func NewBalanceSyncJob(db *gorm.DB, cfg *config.Config, vaultClient *vault.Client) *BalanceSyncJob {
	return &BalanceSyncJob{
		db:          db,
		config:      cfg,
		vaultClient: vaultClient,
	}
}

// GetName 获取任务名称
func (j *BalanceSyncJob) GetName() string {
	return "vault_balance_sync"
}

// GetSchedule 获取调度配置
func (j *BalanceSyncJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务。单个金库读取失败只记日志并跳过，不影响其他项目。
func (j *BalanceSyncJob) Execute() {
	if j.vaultClient == nil {
		return
	}

	var projects []model.Project
	err := j.db.Where("vault_address <> '' AND status IN ?", []model.ProjectStatus{
		model.ProjectStatusOpen,
		model.ProjectStatusInProgress,
	}).Find(&projects).Error
	if err != nil {
		logger.Error("balance sync: failed to fetch projects: %v", err)
		return
	}

	synced := 0
	for i := range projects {
		info, err := j.vaultClient.GetProjectInfo(context.Background(), projects[i].VaultAddress)
		if err != nil {
			logger.Warn("balance sync: vault read failed for project %d: %v", projects[i].ID, err)
			continue
		}
		if info.TotalDeposited == projects[i].TotalDeposited {
			continue
		}

		if err := j.db.Model(&projects[i]).
			Update("total_deposited", info.TotalDeposited).Error; err != nil {
			logger.Error("balance sync: failed to update project %d: %v", projects[i].ID, err)
			continue
		}
		synced++
	}

	if synced > 0 {
		logger.Info("balance sync completed, updated %d projects", synced)
	}
}
