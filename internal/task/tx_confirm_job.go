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

// TxConfirmJob 轮询待确认审计记录的链上回执
type TxConfirmJob struct {
	db          *gorm.DB
	config      *config.Config
	vaultClient *vault.Client
}

// NewTxConfirmJob 创建交易确认任务
func NewTxConfirmJob(db *gorm.DB, cfg *config.Config, vaultClient *vault.Client) *TxConfirmJob {
	return &TxConfirmJob{
		db:          db,
		config:      cfg,
		vaultClient: vaultClient,
	}
}

// GetName 获取任务名称
func (j *TxConfirmJob) GetName() string {
	return "transaction_confirmer"
}

// GetSchedule 获取调度配置
func (j *TxConfirmJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *TxConfirmJob) Execute() {
	if j.vaultClient == nil {
		return
	}

	var records []model.Transaction
	if err := j.db.Where("status = ?", model.TransactionStatusPending).
		Limit(100).Find(&records).Error; err != nil {
		logger.Error("tx confirm: failed to fetch pending transactions: %v", err)
		return
	}

	for i := range records {
		found, success, blockNumber, err := j.vaultClient.GetReceiptStatus(context.Background(), records[i].TxHash)
		if err != nil {
			logger.Warn("tx confirm: receipt lookup failed for %s: %v", records[i].TxHash, err)
			continue
		}
		if !found {
			continue // 尚未上链，下轮再查
		}

		status := model.TransactionStatusConfirmed
		if !success {
			status = model.TransactionStatusFailed
		}
		if err := j.db.Model(&records[i]).Updates(map[string]interface{}{
			"status":       status,
			"block_number": blockNumber,
		}).Error; err != nil {
			logger.Error("tx confirm: failed to update transaction %d: %v", records[i].ID, err)
			continue
		}
		logger.Info("transaction %s marked %s at block %d", records[i].TxHash, status, blockNumber)
	}
}
