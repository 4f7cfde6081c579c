package model

import (
	"time"
)

// Role 项目内的职位，定义固定的KPI数量与单KPI报酬
type Role struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectID uint `json:"project_id" gorm:"not null;index"`

	// 基本信息
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`

	// 结算信息
	KpiCount      int    `json:"kpi_count" gorm:"not null"`       // 里程碑数量
	PaymentPerKpi string `json:"payment_per_kpi" gorm:"not null"` // 单KPI报酬，十进制字符串，创建KPI时复制到每个KPI

	// 状态
	Status RoleStatus `json:"status" gorm:"default:'open'"`

	// 关联
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	Assignments  []Assignment  `json:"assignments,omitempty" gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	Kpis         []Kpi         `json:"kpis,omitempty" gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
}

// RoleStatus 职位状态
type RoleStatus string

const (
	RoleStatusOpen      RoleStatus = "open"      // 开放申请
	RoleStatusAssigned  RoleStatus = "assigned"  // 已分配
	RoleStatusCompleted RoleStatus = "completed" // 已完成
	RoleStatusCancelled RoleStatus = "cancelled" // 已取消
)

// TableName 自定义表名
func (Role) TableName() string {
	return "role"
}
