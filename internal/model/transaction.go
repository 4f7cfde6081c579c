package model

import (
	"time"
)

// Transaction 链上资金事件的只追加审计记录，不参与余额计算
type Transaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Type TransactionType `json:"type" gorm:"not null"`

	// 链上信息：tx_hash + log_index 去重
	TxHash      string `json:"tx_hash" gorm:"not null;uniqueIndex:idx_tx_log"`
	LogIndex    uint   `json:"log_index" gorm:"uniqueIndex:idx_tx_log"`
	BlockNumber uint64 `json:"block_number"`

	FromAddress string `json:"from_address" gorm:"size:42"`
	ToAddress   string `json:"to_address" gorm:"size:42"`
	Amount      string `json:"amount" gorm:"default:'0'"`

	// 可选关联
	ProjectID    *uint `json:"project_id" gorm:"index"`
	KpiID        *uint `json:"kpi_id" gorm:"index"`
	AssignmentID *uint `json:"assignment_id"`

	// 状态
	Status TransactionStatus `json:"status" gorm:"default:'pending';index"`
}

// TransactionType 交易类型
type TransactionType string

const (
	TransactionTypeDeposit TransactionType = "deposit" // 存入金库
	TransactionTypePayment TransactionType = "payment" // KPI结算支付
	TransactionTypeRefund  TransactionType = "refund"  // 退款
	TransactionTypePenalty TransactionType = "penalty" // 罚金
)

// TransactionStatus 交易状态
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"   // 待确认
	TransactionStatusConfirmed TransactionStatus = "confirmed" // 已确认
	TransactionStatusFailed    TransactionStatus = "failed"    // 失败
)

// TableName 自定义表名
func (Transaction) TableName() string {
	return "transaction"
}
