package logic

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/grandiv/novalance-be/internal/model"
)

const (
	ownerAddr      = "0x1111111111111111111111111111111111111111"
	freelancerAddr = "0x2222222222222222222222222222222222222222"
	otherAddr      = "0x3333333333333333333333333333333333333333"
)

// 测试用数据库设置
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// 自动迁移
	err = db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Role{},
		&model.Application{},
		&model.Assignment{},
		&model.Kpi{},
		&model.Transaction{},
	)
	require.NoError(t, err)

	return db
}

func createTestProject(t *testing.T, db *gorm.DB, owner string, status model.ProjectStatus) *model.Project {
	project := &model.Project{
		Title:          "测试项目",
		Description:    "测试用",
		OwnerAddress:   owner,
		Status:         status,
		TotalDeposited: "0",
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func createTestRole(t *testing.T, db *gorm.DB, projectID uint, kpiCount int, paymentPerKpi string) *model.Role {
	role := &model.Role{
		ProjectID:     projectID,
		Title:         "后端开发",
		KpiCount:      kpiCount,
		PaymentPerKpi: paymentPerKpi,
		Status:        model.RoleStatusOpen,
	}
	require.NoError(t, db.Create(role).Error)
	return role
}

func createTestKpi(t *testing.T, db *gorm.DB, roleID uint, amount string, status model.KpiStatus) *model.Kpi {
	kpi := &model.Kpi{
		RoleID: roleID,
		Title:  "里程碑",
		Amount: amount,
		Status: status,
	}
	require.NoError(t, db.Create(kpi).Error)
	return kpi
}

// createTestAssignment 建立分配并把职位下全部KPI关联到该分配
func createTestAssignment(t *testing.T, db *gorm.DB, role *model.Role, freelancer string) *model.Assignment {
	application := &model.Application{
		RoleID:            role.ID,
		FreelancerAddress: freelancer,
		Status:            model.ApplicationStatusAccepted,
	}
	require.NoError(t, db.Create(application).Error)

	assignment := &model.Assignment{
		RoleID:            role.ID,
		ApplicationID:     application.ID,
		FreelancerAddress: freelancer,
		Status:            model.AssignmentStatusActive,
	}
	require.NoError(t, db.Create(assignment).Error)

	require.NoError(t, db.Model(&model.Kpi{}).
		Where("role_id = ?", role.ID).
		Update("assignment_id", assignment.ID).Error)
	require.NoError(t, db.Model(&model.Role{}).
		Where("id = ?", role.ID).
		Update("status", model.RoleStatusAssigned).Error)

	return assignment
}

func kpiStatus(t *testing.T, db *gorm.DB, id uint) model.KpiStatus {
	var kpi model.Kpi
	require.NoError(t, db.First(&kpi, id).Error)
	return kpi.Status
}
