package logic

import (
	"errors"
	"strings"

	"github.com/grandiv/novalance-be/internal/apperr"
	"github.com/grandiv/novalance-be/internal/model"
	"gorm.io/gorm"
)

// ApplicationLogic 申请与分配业务逻辑
type ApplicationLogic struct {
	db *gorm.DB
}

// NewApplicationLogic 创建申请业务逻辑
func NewApplicationLogic(db *gorm.DB) *ApplicationLogic {
	return &ApplicationLogic{db: db}
}

// Apply 自由职业者申请职位。
// 职位须开放；不可申请自己项目的职位；同一职位不允许重复的待处理申请。
func (a *ApplicationLogic) Apply(freelancerAddress string, roleID uint, coverLetter string) (*model.Application, error) {
	addr := strings.ToLower(freelancerAddress)

	var role model.Role
	if err := a.db.First(&role, roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("职位不存在")
		}
		return nil, err
	}

	var project model.Project
	if err := a.db.First(&project, role.ProjectID).Error; err != nil {
		return nil, err
	}
	if project.OwnerAddress == addr {
		return nil, apperr.InvalidState("不能申请自己项目的职位")
	}
	if role.Status != model.RoleStatusOpen {
		return nil, apperr.InvalidState("职位不在开放状态")
	}

	var application model.Application
	err := a.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Application{}).
			Where("role_id = ? AND freelancer_address = ? AND status = ?",
				roleID, addr, model.ApplicationStatusPending).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.InvalidState("已申请过该职位")
		}

		application = model.Application{
			RoleID:            roleID,
			FreelancerAddress: addr,
			CoverLetter:       coverLetter,
			Status:            model.ApplicationStatusPending,
		}
		return tx.Create(&application).Error
	})
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// Withdraw 申请人撤回自己的待处理申请
func (a *ApplicationLogic) Withdraw(callerAddress string, applicationID uint) error {
	var application model.Application
	if err := a.db.First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("申请不存在")
		}
		return err
	}
	if application.FreelancerAddress != strings.ToLower(callerAddress) {
		return apperr.NotAuthorized("只有申请人可以撤回申请")
	}
	if application.Status != model.ApplicationStatusPending {
		return apperr.InvalidState("只有待处理的申请可以撤回")
	}

	res := a.db.Model(&model.Application{}).
		Where("id = ? AND status = ?", applicationID, model.ApplicationStatusPending).
		Update("status", model.ApplicationStatusWithdrawn)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.InvalidState("申请状态已变更，无法撤回")
	}
	return nil
}

// Accept 项目所有者接受申请。单个事务内完成整个级联：
// 创建Assignment、关联职位下全部KPI、当前申请置为accepted、
// 其他待处理申请置为rejected、职位置为assigned。
// 职位状态在事务内条件更新，并发接受时后到者失败。
func (a *ApplicationLogic) Accept(callerAddress string, applicationID uint) (*model.Assignment, error) {
	addr := strings.ToLower(callerAddress)

	var assignment model.Assignment
	err := a.db.Transaction(func(tx *gorm.DB) error {
		var application model.Application
		if err := tx.First(&application, applicationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("申请不存在")
			}
			return err
		}

		var role model.Role
		if err := tx.First(&role, application.RoleID).Error; err != nil {
			return err
		}
		var project model.Project
		if err := tx.First(&project, role.ProjectID).Error; err != nil {
			return err
		}
		if project.OwnerAddress != addr {
			return apperr.NotAuthorized("只有项目所有者可以接受申请")
		}
		if application.Status != model.ApplicationStatusPending {
			return apperr.InvalidState("申请不在待处理状态")
		}

		// 条件更新职位状态，第二个并发接受会在这里失败
		res := tx.Model(&model.Role{}).
			Where("id = ? AND status = ?", role.ID, model.RoleStatusOpen).
			Update("status", model.RoleStatusAssigned)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.InvalidState("职位不在开放状态")
		}

		assignment = model.Assignment{
			RoleID:            role.ID,
			ApplicationID:     application.ID,
			FreelancerAddress: application.FreelancerAddress,
			Status:            model.AssignmentStatusActive,
		}
		if err := tx.Create(&assignment).Error; err != nil {
			return err
		}

		// 职位下全部KPI关联到新分配
		if err := tx.Model(&model.Kpi{}).
			Where("role_id = ?", role.ID).
			Update("assignment_id", assignment.ID).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Application{}).
			Where("id = ?", application.ID).
			Update("status", model.ApplicationStatusAccepted).Error; err != nil {
			return err
		}

		// 只影响待处理的兄弟申请，已撤回/已拒绝的不动
		return tx.Model(&model.Application{}).
			Where("role_id = ? AND id <> ? AND status = ?",
				role.ID, application.ID, model.ApplicationStatusPending).
			Update("status", model.ApplicationStatusRejected).Error
	})
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Reject 项目所有者拒绝单个待处理申请
func (a *ApplicationLogic) Reject(callerAddress string, applicationID uint) error {
	addr := strings.ToLower(callerAddress)

	var application model.Application
	if err := a.db.First(&application, applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("申请不存在")
		}
		return err
	}

	var role model.Role
	if err := a.db.First(&role, application.RoleID).Error; err != nil {
		return err
	}
	var project model.Project
	if err := a.db.First(&project, role.ProjectID).Error; err != nil {
		return err
	}
	if project.OwnerAddress != addr {
		return apperr.NotAuthorized("只有项目所有者可以拒绝申请")
	}
	if application.Status != model.ApplicationStatusPending {
		return apperr.InvalidState("申请不在待处理状态")
	}

	res := a.db.Model(&model.Application{}).
		Where("id = ? AND status = ?", applicationID, model.ApplicationStatusPending).
		Update("status", model.ApplicationStatusRejected)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.InvalidState("申请状态已变更")
	}
	return nil
}

// GetRoleApplications 项目所有者查看职位下的申请列表
func (a *ApplicationLogic) GetRoleApplications(callerAddress string, roleID uint) ([]model.Application, error) {
	var role model.Role
	if err := a.db.First(&role, roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("职位不存在")
		}
		return nil, err
	}
	var project model.Project
	if err := a.db.First(&project, role.ProjectID).Error; err != nil {
		return nil, err
	}
	if project.OwnerAddress != strings.ToLower(callerAddress) {
		return nil, apperr.NotAuthorized("只有项目所有者可以查看申请列表")
	}

	var applications []model.Application
	if err := a.db.Where("role_id = ?", roleID).Order("created_at ASC").Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

// GetMyApplications 查看自己提交的申请
func (a *ApplicationLogic) GetMyApplications(callerAddress string) ([]model.Application, error) {
	var applications []model.Application
	if err := a.db.Where("freelancer_address = ?", strings.ToLower(callerAddress)).
		Order("created_at DESC").Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}
