package monitor

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/grandiv/novalance-be/internal/config"
	"github.com/grandiv/novalance-be/internal/logger"
	"github.com/grandiv/novalance-be/internal/model"
	"github.com/grandiv/novalance-be/internal/vault"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

const (
	workerPoolSize = 4
	maxBlockRange  = 2000            // 单次拉取的最大区块跨度
	initialBackoff = 5 * time.Second // RPC失败后的初始退避
	maxBackoff     = 5 * time.Minute // 退避上限
)

// EventMonitor 金库事件监控器。
// 轮询已关联项目的金库合约日志，把资金事件落为审计记录。
type EventMonitor struct {
	db          *gorm.DB
	vaultClient *vault.Client
	config      config.ChainConfig
	pool        *ants.Pool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	lastBlock uint64
	backoff   time.Duration
}

// NewEventMonitor 创建事件监控器
func NewEventMonitor(db *gorm.DB, vaultClient *vault.Client, cfg config.ChainConfig) *EventMonitor {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventMonitor{
		db:          db,
		vaultClient: vaultClient,
		config:      cfg,
		ctx:         ctx,
		cancel:      cancel,
		lastBlock:   cfg.StartBlock,
		backoff:     initialBackoff,
	}
}

// Start 启动监控
func (m *EventMonitor) Start() error {
	pool, err := ants.NewPool(workerPoolSize)
	if err != nil {
		return err
	}
	m.pool = pool

	interval := time.Duration(m.config.PollInterval) * time.Second
	if interval <= 0 {
		interval = 15 * time.Second
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.Info("Vault event monitor started (interval %s)", interval)
		for {
			select {
			case <-m.ctx.Done():
				return
			case <-ticker.C:
				m.poll()
			}
		}
	}()
	return nil
}

// Stop 停止监控并等待在途任务完成
func (m *EventMonitor) Stop() {
	m.cancel()
	m.wg.Wait()
	if m.pool != nil {
		m.pool.Release()
	}
	logger.Info("Vault event monitor stopped")
}

// poll 拉取一轮日志
func (m *EventMonitor) poll() {
	addresses, projectByVault, err := m.linkedVaults()
	if err != nil {
		logger.Error("event monitor: failed to load vault addresses: %v", err)
		return
	}
	if len(addresses) == 0 {
		return
	}

	latest, err := m.vaultClient.GetLatestBlock(m.ctx)
	if err != nil {
		m.backoffSleep("latest block lookup failed", err)
		return
	}
	if latest < m.config.Confirmations {
		return
	}
	confirmed := latest - m.config.Confirmations

	m.mu.Lock()
	from := m.lastBlock + 1
	m.mu.Unlock()
	if from > confirmed {
		return
	}
	to := confirmed
	if to-from > maxBlockRange {
		to = from + maxBlockRange
	}

	logs, err := m.vaultClient.FilterVaultLogs(m.ctx, addresses, from, to)
	if err != nil {
		m.backoffSleep("log filter failed", err)
		return
	}
	m.resetBackoff()

	for i := range logs {
		entry := logs[i]
		if err := m.pool.Submit(func() {
			m.handleLog(entry, projectByVault)
		}); err != nil {
			logger.Error("event monitor: failed to submit log task: %v", err)
		}
	}

	m.mu.Lock()
	m.lastBlock = to
	m.mu.Unlock()
}

// handleLog 解析单条日志并落库，按 tx_hash+log_index 去重
func (m *EventMonitor) handleLog(entry types.Log, projectByVault map[string]uint) {
	if len(entry.Topics) == 0 {
		return
	}

	contractABI := m.vaultClient.ABI()
	record := model.Transaction{
		TxHash:      entry.TxHash.Hex(),
		LogIndex:    entry.Index,
		BlockNumber: entry.BlockNumber,
		Status:      model.TransactionStatusConfirmed,
	}

	vaultAddr := strings.ToLower(entry.Address.Hex())
	if projectID, ok := projectByVault[vaultAddr]; ok {
		id := projectID
		record.ProjectID = &id
	}

	switch entry.Topics[0] {
	case contractABI.Events["Deposited"].ID:
		record.Type = model.TransactionTypeDeposit
		record.ToAddress = vaultAddr
		if len(entry.Topics) > 1 {
			record.FromAddress = strings.ToLower(common.HexToAddress(entry.Topics[1].Hex()).Hex())
		}
		out, err := contractABI.Unpack("Deposited", entry.Data)
		if err != nil {
			logger.Warn("event monitor: failed to unpack Deposited log: %v", err)
			return
		}
		if amount, ok := out[0].(*big.Int); ok {
			record.Amount = amount.String()
		}

	case contractABI.Events["PayoutExecuted"].ID:
		record.Type = model.TransactionTypePayment
		record.FromAddress = vaultAddr
		if len(entry.Topics) > 2 {
			record.ToAddress = strings.ToLower(common.HexToAddress(entry.Topics[2].Hex()).Hex())
		}
		out, err := contractABI.Unpack("PayoutExecuted", entry.Data)
		if err != nil {
			logger.Warn("event monitor: failed to unpack PayoutExecuted log: %v", err)
			return
		}
		if amount, ok := out[0].(*big.Int); ok {
			record.Amount = amount.String()
		}

	default:
		return // 其他事件不关心
	}

	var count int64
	if err := m.db.Model(&model.Transaction{}).
		Where("tx_hash = ? AND log_index = ?", record.TxHash, record.LogIndex).
		Count(&count).Error; err != nil {
		logger.Error("event monitor: dedup query failed: %v", err)
		return
	}
	if count > 0 {
		return
	}

	if err := m.db.Create(&record).Error; err != nil {
		logger.Error("event monitor: failed to store transaction record: %v", err)
		return
	}
	logger.Info("recorded %s event %s (block %d)", record.Type, record.TxHash, record.BlockNumber)
}

// linkedVaults 收集已关联金库的项目地址
func (m *EventMonitor) linkedVaults() ([]string, map[string]uint, error) {
	var projects []model.Project
	if err := m.db.Where("vault_address <> ''").Find(&projects).Error; err != nil {
		return nil, nil, err
	}

	addresses := make([]string, 0, len(projects))
	byVault := make(map[string]uint, len(projects))
	for i := range projects {
		addr := strings.ToLower(projects[i].VaultAddress)
		addresses = append(addresses, addr)
		byVault[addr] = projects[i].ID
	}
	return addresses, byVault, nil
}

func (m *EventMonitor) backoffSleep(msg string, err error) {
	m.mu.Lock()
	d := m.backoff
	m.backoff *= 2
	if m.backoff > maxBackoff {
		m.backoff = maxBackoff
	}
	m.mu.Unlock()

	logger.Warn("event monitor: %s, backing off %s: %v", msg, d, err)
	select {
	case <-m.ctx.Done():
	case <-time.After(d):
	}
}

func (m *EventMonitor) resetBackoff() {
	m.mu.Lock()
	m.backoff = initialBackoff
	m.mu.Unlock()
}
