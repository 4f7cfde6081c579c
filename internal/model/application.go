package model

import (
	"time"
)

// Application 自由职业者对职位的申请
type Application struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RoleID            uint   `json:"role_id" gorm:"not null;index"`
	FreelancerAddress string `json:"freelancer_address" gorm:"not null;index;size:42"`

	CoverLetter string `json:"cover_letter" gorm:"type:text"`

	// 状态：同一(role, freelancer)最多存在一条pending申请，由logic层在事务内保证
	Status ApplicationStatus `json:"status" gorm:"default:'pending'"`
}

// ApplicationStatus 申请状态
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"   // 待处理
	ApplicationStatusAccepted  ApplicationStatus = "accepted"  // 已接受
	ApplicationStatusRejected  ApplicationStatus = "rejected"  // 已拒绝
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn" // 已撤回
)

// TableName 自定义表名
func (Application) TableName() string {
	return "application"
}
