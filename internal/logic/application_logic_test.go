package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandiv/novalance-be/internal/apperr"
	"github.com/grandiv/novalance-be/internal/model"
)

func TestApply(t *testing.T) {
	db := setupTestDB(t)
	logic := NewApplicationLogic(db)

	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 3, "1000000")

	application, err := logic.Apply(freelancerAddr, role.ID, "我有三年经验")
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusPending, application.Status)
	assert.Equal(t, freelancerAddr, application.FreelancerAddress)
}

func TestApply_OwnProject(t *testing.T) {
	db := setupTestDB(t)
	logic := NewApplicationLogic(db)

	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 3, "1000000")

	_, err := logic.Apply(ownerAddr, role.ID, "")
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestApply_DuplicatePending(t *testing.T) {
	db := setupTestDB(t)
	logic := NewApplicationLogic(db)

	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 3, "1000000")

	_, err := logic.Apply(freelancerAddr, role.ID, "")
	require.NoError(t, err)
	_, err = logic.Apply(freelancerAddr, role.ID, "")
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestApply_WithdrawnAllowsReapply(t *testing.T) {
	db := setupTestDB(t)
	logic := NewApplicationLogic(db)

	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 3, "1000000")

	application, err := logic.Apply(freelancerAddr, role.ID, "")
	require.NoError(t, err)
	require.NoError(t, logic.Withdraw(freelancerAddr, application.ID))

	// 撤回后可重新申请
	_, err = logic.Apply(freelancerAddr, role.ID, "")
	assert.NoError(t, err)
}

func TestApply_RoleNotOpen(t *testing.T) {
	db := setupTestDB(t)
	logic := NewApplicationLogic(db)

	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 3, "1000000")
	require.NoError(t, db.Model(role).Update("status", model.RoleStatusAssigned).Error)

	_, err := logic.Apply(freelancerAddr, role.ID, "")
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestApply_RoleNotFound(t *testing.T) {
	db := setupTestDB(t)
	logic := NewApplicationLogic(db)

	_, err := logic.Apply(freelancerAddr, 9999, "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestWithdraw_OnlyApplicant(t *testing.T) {
	db := setupTestDB(t)
	logic := NewApplicationLogic(db)

	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 3, "1000000")

	application, err := logic.Apply(freelancerAddr, role.ID, "")
	require.NoError(t, err)

	err = logic.Withdraw(otherAddr, application.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotAuthorized))
}

func TestAccept_Cascade(t *testing.T) {
	db := setupTestDB(t)
	logic := NewApplicationLogic(db)

	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 2, "1000000")
	kpi1 := createTestKpi(t, db, role.ID, "1000000", model.KpiStatusPending)
	kpi2 := createTestKpi(t, db, role.ID, "1000000", model.KpiStatusPending)

	accepted, err := logic.Apply(freelancerAddr, role.ID, "")
	require.NoError(t, err)
	sibling, err := logic.Apply(otherAddr, role.ID, "")
	require.NoError(t, err)

	assignment, err := logic.Accept(ownerAddr, accepted.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AssignmentStatusActive, assignment.Status)
	assert.Equal(t, freelancerAddr, assignment.FreelancerAddress)

	// 职位置为assigned
	var freshRole model.Role
	require.NoError(t, db.First(&freshRole, role.ID).Error)
	assert.Equal(t, model.RoleStatusAssigned, freshRole.Status)

	// 全部KPI关联到新分配
	for _, id := range []uint{kpi1.ID, kpi2.ID} {
		var kpi model.Kpi
		require.NoError(t, db.First(&kpi, id).Error)
		require.NotNil(t, kpi.AssignmentID)
		assert.Equal(t, assignment.ID, *kpi.AssignmentID)
	}

	// 当前申请accepted，兄弟待处理申请rejected
	var freshAccepted, freshSibling model.Application
	require.NoError(t, db.First(&freshAccepted, accepted.ID).Error)
	require.NoError(t, db.First(&freshSibling, sibling.ID).Error)
	assert.Equal(t, model.ApplicationStatusAccepted, freshAccepted.Status)
	assert.Equal(t, model.ApplicationStatusRejected, freshSibling.Status)
}

func TestAccept_WithdrawnSiblingUntouched(t *testing.T) {
	db := setupTestDB(t)
	logic := NewApplicationLogic(db)

	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 1, "1000000")

	withdrawn, err := logic.Apply(otherAddr, role.ID, "")
	require.NoError(t, err)
	require.NoError(t, logic.Withdraw(otherAddr, withdrawn.ID))

	accepted, err := logic.Apply(freelancerAddr, role.ID, "")
	require.NoError(t, err)
	_, err = logic.Accept(ownerAddr, accepted.ID)
	require.NoError(t, err)

	var fresh model.Application
	require.NoError(t, db.First(&fresh, withdrawn.ID).Error)
	assert.Equal(t, model.ApplicationStatusWithdrawn, fresh.Status)
}

func TestAccept_OnlyOwner(t *testing.T) {
	db := setupTestDB(t)
	logic := NewApplicationLogic(db)

	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 1, "1000000")

	application, err := logic.Apply(freelancerAddr, role.ID, "")
	require.NoError(t, err)

	_, err = logic.Accept(otherAddr, application.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotAuthorized))
}

func TestAccept_SecondAcceptFails(t *testing.T) {
	db := setupTestDB(t)
	logic := NewApplicationLogic(db)

	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 1, "1000000")

	first, err := logic.Apply(freelancerAddr, role.ID, "")
	require.NoError(t, err)
	second, err := logic.Apply(otherAddr, role.ID, "")
	require.NoError(t, err)

	_, err = logic.Accept(ownerAddr, first.ID)
	require.NoError(t, err)

	// 第二个申请已被级联拒绝，接受必须失败
	_, err = logic.Accept(ownerAddr, second.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	// 只存在一个分配
	var count int64
	require.NoError(t, db.Model(&model.Assignment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReject(t *testing.T) {
	db := setupTestDB(t)
	logic := NewApplicationLogic(db)

	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 1, "1000000")

	application, err := logic.Apply(freelancerAddr, role.ID, "")
	require.NoError(t, err)

	require.NoError(t, logic.Reject(ownerAddr, application.ID))

	// rejected为终态，撤回与再次拒绝都失败
	err = logic.Withdraw(freelancerAddr, application.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
	err = logic.Reject(ownerAddr, application.ID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	// 职位保持开放
	var freshRole model.Role
	require.NoError(t, db.First(&freshRole, role.ID).Error)
	assert.Equal(t, model.RoleStatusOpen, freshRole.Status)
}

func TestGetRoleApplications_OnlyOwner(t *testing.T) {
	db := setupTestDB(t)
	logic := NewApplicationLogic(db)

	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role := createTestRole(t, db, project.ID, 1, "1000000")

	_, err := logic.Apply(freelancerAddr, role.ID, "")
	require.NoError(t, err)

	_, err = logic.GetRoleApplications(freelancerAddr, role.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotAuthorized))

	applications, err := logic.GetRoleApplications(ownerAddr, role.ID)
	require.NoError(t, err)
	assert.Len(t, applications, 1)
}

func TestGetMyApplications(t *testing.T) {
	db := setupTestDB(t)
	logic := NewApplicationLogic(db)

	project := createTestProject(t, db, ownerAddr, model.ProjectStatusOpen)
	role1 := createTestRole(t, db, project.ID, 1, "1000000")
	role2 := createTestRole(t, db, project.ID, 1, "2000000")

	_, err := logic.Apply(freelancerAddr, role1.ID, "")
	require.NoError(t, err)
	_, err = logic.Apply(freelancerAddr, role2.ID, "")
	require.NoError(t, err)
	_, err = logic.Apply(otherAddr, role1.ID, "")
	require.NoError(t, err)

	applications, err := logic.GetMyApplications(freelancerAddr)
	require.NoError(t, err)
	assert.Len(t, applications, 2)
}
