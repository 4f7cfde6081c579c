package model

import (
	"time"
)

// Kpi 职位下的单个可结算里程碑，生命周期由logic层的状态机驱动
type Kpi struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RoleID       uint  `json:"role_id" gorm:"not null;index"`
	AssignmentID *uint `json:"assignment_id" gorm:"index"` // 分配前为空

	// 基本信息
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"type:text"`
	Deadline    *time.Time `json:"deadline"`

	// 结算信息：创建时从Role.PaymentPerKpi复制
	Amount string `json:"amount" gorm:"not null"`

	// 状态
	Status KpiStatus `json:"status" gorm:"default:'pending';index"`

	// 提交信息
	Submission      string     `json:"submission" gorm:"type:text"`
	SubmissionLinks string     `json:"submission_links" gorm:"type:text"`
	SubmittedAt     *time.Time `json:"submitted_at"`

	// 审核信息
	ReviewComment string     `json:"review_comment" gorm:"type:text"`
	ReviewedAt    *time.Time `json:"reviewed_at"`
	ConfirmedAt   *time.Time `json:"confirmed_at"`

	// 链上审计信息
	DepositTxHash       string `json:"deposit_tx_hash"`
	PayoutTxHash        string `json:"payout_tx_hash"`
	VaultBalanceAtStart string `json:"vault_balance_at_start"`
	VaultBalanceAtEnd   string `json:"vault_balance_at_end"`
	YieldEarned         string `json:"yield_earned"`
	PenaltyAmount       string `json:"penalty_amount"`
}

// KpiStatus KPI状态
type KpiStatus string

const (
	KpiStatusPending   KpiStatus = "pending"   // 待开始
	KpiStatusSubmitted KpiStatus = "submitted" // 已提交待审核
	KpiStatusApproved  KpiStatus = "approved"  // 审核通过待确认
	KpiStatusRejected  KpiStatus = "rejected"  // 已拒绝（终态）
	KpiStatusPaid      KpiStatus = "paid"      // 已支付
)

// TableName 自定义表名
func (Kpi) TableName() string {
	return "kpi"
}
