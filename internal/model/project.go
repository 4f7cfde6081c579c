package model

import (
	"time"
)

// Project 项目模型
type Project struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Category    string `json:"category"`

	// 所有者信息
	OwnerAddress string `json:"owner_address" gorm:"not null;index;size:42"`

	// 状态
	Status ProjectStatus `json:"status" gorm:"default:'draft'"`

	// 区块链信息：资金由链上金库合约托管，这里只记录元数据
	VaultAddress   string `json:"vault_address" gorm:"size:42"`
	TotalDeposited string `json:"total_deposited" gorm:"default:'0'"` // 最小单位整数的十进制字符串

	// 关联
	Roles []Role `json:"roles,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// ProjectStatus 项目状态
type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"       // 草稿
	ProjectStatusOpen       ProjectStatus = "open"        // 招募中
	ProjectStatusInProgress ProjectStatus = "in_progress" // 进行中
	ProjectStatusCompleted  ProjectStatus = "completed"   // 已完成
	ProjectStatusCancelled  ProjectStatus = "cancelled"   // 已取消
)

// TableName 自定义表名
func (Project) TableName() string {
	return "project"
}
