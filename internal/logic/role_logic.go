package logic

import (
	"errors"
	"strings"

	"github.com/grandiv/novalance-be/internal/apperr"
	"github.com/grandiv/novalance-be/internal/model"
	"gorm.io/gorm"
)

// RoleLogic 职位业务逻辑
type RoleLogic struct {
	db *gorm.DB
}

// NewRoleLogic 创建职位业务逻辑
func NewRoleLogic(db *gorm.DB) *RoleLogic {
	return &RoleLogic{db: db}
}

// CreateRole 在自己的项目下创建职位
func (r *RoleLogic) CreateRole(callerAddress string, role *model.Role) error {
	var project model.Project
	if err := r.db.First(&project, role.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("项目不存在")
		}
		return err
	}
	if project.OwnerAddress != strings.ToLower(callerAddress) {
		return apperr.NotAuthorized("只有项目所有者可以创建职位")
	}

	if role.Title == "" {
		return apperr.Validation("职位标题不能为空")
	}
	if role.KpiCount <= 0 {
		return apperr.Validation("KPI数量必须大于0")
	}
	if !isValidAmount(role.PaymentPerKpi) {
		return apperr.Validation("无效的单KPI报酬")
	}

	role.Status = model.RoleStatusOpen
	return r.db.Create(role).Error
}

// GetRole 获取职位详情
func (r *RoleLogic) GetRole(id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.Preload("Kpis").First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("职位不存在")
		}
		return nil, err
	}
	return &role, nil
}

// GetProjectRoles 获取项目下的所有职位
func (r *RoleLogic) GetProjectRoles(projectID uint) ([]model.Role, error) {
	var roles []model.Role
	if err := r.db.Where("project_id = ?", projectID).Order("created_at ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// UpdateRole 更新职位，仅所有者可操作，仅开放状态允许
func (r *RoleLogic) UpdateRole(callerAddress string, id uint, updates map[string]interface{}) (*model.Role, error) {
	role, _, err := r.getOwnedRole(callerAddress, id)
	if err != nil {
		return nil, err
	}
	if role.Status != model.RoleStatusOpen {
		return nil, apperr.InvalidState("只有开放状态的职位可以修改")
	}

	allowedFields := []string{"title", "description"}
	filtered := make(map[string]interface{})
	for _, field := range allowedFields {
		if v, ok := updates[field]; ok {
			filtered[field] = v
		}
	}
	if len(filtered) == 0 {
		return nil, apperr.Validation("没有要更新的字段")
	}

	if err := r.db.Model(role).Updates(filtered).Error; err != nil {
		return nil, err
	}
	return role, nil
}

// CancelRole 取消职位，仅所有者可操作；已分配的职位不可取消
func (r *RoleLogic) CancelRole(callerAddress string, id uint) error {
	role, _, err := r.getOwnedRole(callerAddress, id)
	if err != nil {
		return err
	}
	if role.Status != model.RoleStatusOpen {
		return apperr.InvalidState("只有开放状态的职位可以取消")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Role{}).
			Where("id = ? AND status = ?", id, model.RoleStatusOpen).
			Update("status", model.RoleStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.InvalidState("职位状态已变更，无法取消")
		}

		// 拒绝所有待处理申请
		return tx.Model(&model.Application{}).
			Where("role_id = ? AND status = ?", id, model.ApplicationStatusPending).
			Update("status", model.ApplicationStatusRejected).Error
	})
}

// CreateKpis 为职位一次性创建全部KPI。
// 只允许创建一次，且数量必须等于职位声明的KpiCount；金额从职位复制。
func (r *RoleLogic) CreateKpis(callerAddress string, roleID uint, descriptors []model.Kpi) ([]model.Kpi, error) {
	role, _, err := r.getOwnedRole(callerAddress, roleID)
	if err != nil {
		return nil, err
	}

	if len(descriptors) != role.KpiCount {
		return nil, apperr.Validation("KPI数量必须等于职位声明的数量（期望%d，实际%d）", role.KpiCount, len(descriptors))
	}
	for i := range descriptors {
		if descriptors[i].Title == "" {
			return nil, apperr.Validation("KPI标题不能为空")
		}
	}

	var created []model.Kpi
	err = r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Kpi{}).Where("role_id = ?", roleID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.InvalidState("该职位的KPI已创建")
		}

		for i := range descriptors {
			kpi := model.Kpi{
				RoleID:      roleID,
				Title:       descriptors[i].Title,
				Description: descriptors[i].Description,
				Deadline:    descriptors[i].Deadline,
				Amount:      role.PaymentPerKpi,
				Status:      model.KpiStatusPending,
			}
			if err := tx.Create(&kpi).Error; err != nil {
				return err
			}
			created = append(created, kpi)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// getOwnedRole 获取职位及所属项目并校验所有权
func (r *RoleLogic) getOwnedRole(callerAddress string, id uint) (*model.Role, *model.Project, error) {
	var role model.Role
	if err := r.db.First(&role, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("职位不存在")
		}
		return nil, nil, err
	}

	var project model.Project
	if err := r.db.First(&project, role.ProjectID).Error; err != nil {
		return nil, nil, err
	}
	if project.OwnerAddress != strings.ToLower(callerAddress) {
		return nil, nil, apperr.NotAuthorized("只有项目所有者可以执行此操作")
	}
	return &role, &project, nil
}
