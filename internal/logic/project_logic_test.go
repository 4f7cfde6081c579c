package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandiv/novalance-be/internal/apperr"
	"github.com/grandiv/novalance-be/internal/model"
)

func TestCreateProject(t *testing.T) {
	db := setupTestDB(t)
	logic := NewProjectLogic(db)

	project := &model.Project{
		Title:       "电商后台",
		Description: "订单与库存",
		// 客户端传入的状态与金额必须被覆盖
		Status:         model.ProjectStatusCompleted,
		TotalDeposited: "9999",
		VaultAddress:   "0xshouldnotsurvive",
	}
	require.NoError(t, logic.CreateProject("0x1111111111111111111111111111111111111111", project))

	assert.Equal(t, model.ProjectStatusDraft, project.Status)
	assert.Equal(t, "0", project.TotalDeposited)
	assert.Equal(t, "", project.VaultAddress)
	assert.Equal(t, ownerAddr, project.OwnerAddress)
}

func TestCreateProject_EmptyTitle(t *testing.T) {
	db := setupTestDB(t)
	logic := NewProjectLogic(db)

	err := logic.CreateProject(ownerAddr, &model.Project{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestGetProjects_FilterAndPaginate(t *testing.T) {
	db := setupTestDB(t)
	logic := NewProjectLogic(db)

	createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	createTestProject(t, db, ownerAddr, model.ProjectStatusDraft)
	createTestProject(t, db, otherAddr, model.ProjectStatusOpen)

	projects, total, err := logic.GetProjects("open", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, projects, 3)

	projects, total, err = logic.GetProjects("open", ownerAddr, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	projects, total, err = logic.GetProjects("", "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, projects, 2)
}

func TestGetProject_NotFound(t *testing.T) {
	db := setupTestDB(t)
	logic := NewProjectLogic(db)

	_, err := logic.GetProject(9999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateProject(t *testing.T) {
	db := setupTestDB(t)
	logic := NewProjectLogic(db)
	project := createTestProject(t, db, ownerAddr, model.ProjectStatusDraft)

	updated, err := logic.UpdateProject(ownerAddr, project.ID, map[string]interface{}{
		"title":  "新标题",
		"status": "open",
		// 非白名单字段被忽略
		"total_deposited": "12345",
	})
	require.NoError(t, err)
	assert.Equal(t, "新标题", updated.Title)

	var fresh model.Project
	require.NoError(t, db.First(&fresh, project.ID).Error)
	assert.Equal(t, model.ProjectStatusOpen, fresh.Status)
	assert.Equal(t, "0", fresh.TotalDeposited)
}

func TestUpdateProject_InvalidStatus(t *testing.T) {
	db := setupTestDB(t)
	logic := NewProjectLogic(db)
	project := createTestProject(t, db, ownerAddr, model.ProjectStatusDraft)

	_, err := logic.UpdateProject(ownerAddr, project.ID, map[string]interface{}{"status": "bogus"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUpdateProject_ExistenceBeforeAuthorization(t *testing.T) {
	db := setupTestDB(t)
	logic := NewProjectLogic(db)
	project := createTestProject(t, db, ownerAddr, model.ProjectStatusDraft)

	// 不存在 → NotFound
	_, err := logic.UpdateProject(otherAddr, 9999, map[string]interface{}{"title": "x"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	// 存在但非所有者 → NotAuthorized
	_, err = logic.UpdateProject(otherAddr, project.ID, map[string]interface{}{"title": "x"})
	assert.True(t, apperr.Is(err, apperr.KindNotAuthorized))
}

func TestDeleteProject_DraftOnly(t *testing.T) {
	db := setupTestDB(t)
	logic := NewProjectLogic(db)

	open := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	err := logic.DeleteProject(ownerAddr, open.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	draft := createTestProject(t, db, ownerAddr, model.ProjectStatusDraft)
	role := createTestRole(t, db, draft.ID, 1, "1000000")
	createTestKpi(t, db, role.ID, "1000000", model.KpiStatusPending)

	require.NoError(t, logic.DeleteProject(ownerAddr, draft.ID))

	// 级联删除
	var roleCount, kpiCount int64
	require.NoError(t, db.Model(&model.Role{}).Where("project_id = ?", draft.ID).Count(&roleCount).Error)
	require.NoError(t, db.Model(&model.Kpi{}).Where("role_id = ?", role.ID).Count(&kpiCount).Error)
	assert.Equal(t, int64(0), roleCount)
	assert.Equal(t, int64(0), kpiCount)
}

func TestLinkVault(t *testing.T) {
	db := setupTestDB(t)
	logic := NewProjectLogic(db)
	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)

	_, err := logic.LinkVault(ownerAddr, project.ID, "not-an-address")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = logic.LinkVault(otherAddr, project.ID, "0x4444444444444444444444444444444444444444")
	assert.True(t, apperr.Is(err, apperr.KindNotAuthorized))

	_, err = logic.LinkVault(ownerAddr, project.ID, "0x4444444444444444444444444444444444444444")
	require.NoError(t, err)

	var fresh model.Project
	require.NoError(t, db.First(&fresh, project.ID).Error)
	assert.Equal(t, "0x4444444444444444444444444444444444444444", fresh.VaultAddress)
}
