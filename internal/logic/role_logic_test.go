package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandiv/novalance-be/internal/apperr"
	"github.com/grandiv/novalance-be/internal/model"
)

func TestCreateRole(t *testing.T) {
	db := setupTestDB(t)
	logic := NewRoleLogic(db)
	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)

	role := &model.Role{
		ProjectID:     project.ID,
		Title:         "合约开发",
		KpiCount:      3,
		PaymentPerKpi: "1000000",
	}
	require.NoError(t, logic.CreateRole(ownerAddr, role))
	assert.Equal(t, model.RoleStatusOpen, role.Status)
}

func TestCreateRole_Validation(t *testing.T) {
	db := setupTestDB(t)
	logic := NewRoleLogic(db)
	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)

	cases := []model.Role{
		{ProjectID: project.ID, Title: "", KpiCount: 3, PaymentPerKpi: "1"},
		{ProjectID: project.ID, Title: "x", KpiCount: 0, PaymentPerKpi: "1"},
		{ProjectID: project.ID, Title: "x", KpiCount: 3, PaymentPerKpi: "-1"},
		{ProjectID: project.ID, Title: "x", KpiCount: 3, PaymentPerKpi: "1.5"},
	}
	for i := range cases {
		err := logic.CreateRole(ownerAddr, &cases[i])
		assert.True(t, apperr.Is(err, apperr.KindValidation), "case %d", i)
	}
}

func TestCreateRole_OnlyOwner(t *testing.T) {
	db := setupTestDB(t)
	logic := NewRoleLogic(db)
	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)

	err := logic.CreateRole(otherAddr, &model.Role{
		ProjectID: project.ID, Title: "x", KpiCount: 1, PaymentPerKpi: "1",
	})
	assert.True(t, apperr.Is(err, apperr.KindNotAuthorized))

	err = logic.CreateRole(ownerAddr, &model.Role{
		ProjectID: 9999, Title: "x", KpiCount: 1, PaymentPerKpi: "1",
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateRole_OpenOnly(t *testing.T) {
	db := setupTestDB(t)
	logic := NewRoleLogic(db)
	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 1, "1000000")

	_, err := logic.UpdateRole(ownerAddr, role.ID, map[string]interface{}{"title": "改名"})
	require.NoError(t, err)

	require.NoError(t, db.Model(role).Update("status", model.RoleStatusAssigned).Error)
	_, err = logic.UpdateRole(ownerAddr, role.ID, map[string]interface{}{"title": "再改"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestCancelRole(t *testing.T) {
	db := setupTestDB(t)
	roleLogic := NewRoleLogic(db)
	appLogic := NewApplicationLogic(db)

	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 1, "1000000")

	application, err := appLogic.Apply(freelancerAddr, role.ID, "")
	require.NoError(t, err)

	require.NoError(t, roleLogic.CancelRole(ownerAddr, role.ID))

	var freshRole model.Role
	require.NoError(t, db.First(&freshRole, role.ID).Error)
	assert.Equal(t, model.RoleStatusCancelled, freshRole.Status)

	// 待处理申请被一并拒绝
	var freshApp model.Application
	require.NoError(t, db.First(&freshApp, application.ID).Error)
	assert.Equal(t, model.ApplicationStatusRejected, freshApp.Status)

	// 已取消的职位不可再取消
	err = roleLogic.CancelRole(ownerAddr, role.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestCreateKpis(t *testing.T) {
	db := setupTestDB(t)
	logic := NewRoleLogic(db)
	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 2, "1000000")

	created, err := logic.CreateKpis(ownerAddr, role.ID, []model.Kpi{
		{Title: "里程碑一", Amount: "999"}, // 金额从职位复制，传入的被忽略
		{Title: "里程碑二"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	for _, kpi := range created {
		assert.Equal(t, "1000000", kpi.Amount)
		assert.Equal(t, model.KpiStatusPending, kpi.Status)
	}
}

func TestCreateKpis_CountMismatch(t *testing.T) {
	db := setupTestDB(t)
	logic := NewRoleLogic(db)
	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 3, "1000000")

	_, err := logic.CreateKpis(ownerAddr, role.ID, []model.Kpi{{Title: "只有一个"}})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCreateKpis_ExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	logic := NewRoleLogic(db)
	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 1, "1000000")

	_, err := logic.CreateKpis(ownerAddr, role.ID, []model.Kpi{{Title: "里程碑"}})
	require.NoError(t, err)

	_, err = logic.CreateKpis(ownerAddr, role.ID, []model.Kpi{{Title: "又一个"}})
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	var count int64
	require.NoError(t, db.Model(&model.Kpi{}).Where("role_id = ?", role.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateKpis_OnlyOwner(t *testing.T) {
	db := setupTestDB(t)
	logic := NewRoleLogic(db)
	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 1, "1000000")

	_, err := logic.CreateKpis(freelancerAddr, role.ID, []model.Kpi{{Title: "x"}})
	assert.True(t, apperr.Is(err, apperr.KindNotAuthorized))
}
