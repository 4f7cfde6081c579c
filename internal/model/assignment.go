package model

import (
	"time"
)

// Assignment 接受申请后建立的职位-自由职业者绑定
type Assignment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RoleID            uint   `json:"role_id" gorm:"not null;index"`
	ApplicationID     uint   `json:"application_id" gorm:"not null"`
	FreelancerAddress string `json:"freelancer_address" gorm:"not null;index;size:42"`

	// 状态
	Status AssignmentStatus `json:"status" gorm:"default:'active'"`

	// 关联：Assignment被删除时KPI回到未分配状态，而非级联删除
	Kpis []Kpi `json:"kpis,omitempty" gorm:"foreignKey:AssignmentID;constraint:OnDelete:SET NULL"`
}

// AssignmentStatus 分配状态
type AssignmentStatus string

const (
	AssignmentStatusActive    AssignmentStatus = "active"    // 进行中
	AssignmentStatusCompleted AssignmentStatus = "completed" // 已完成
	AssignmentStatusCancelled AssignmentStatus = "cancelled" // 已取消
)

// TableName 自定义表名
func (Assignment) TableName() string {
	return "assignment"
}
