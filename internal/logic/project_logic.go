package logic

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/grandiv/novalance-be/internal/apperr"
	"github.com/grandiv/novalance-be/internal/model"
	"gorm.io/gorm"
)

// ProjectLogic 项目业务逻辑
type ProjectLogic struct {
	db *gorm.DB
}

// NewProjectLogic 创建项目业务逻辑
func NewProjectLogic(db *gorm.DB) *ProjectLogic {
	return &ProjectLogic{db: db}
}

// CreateProject 创建项目，调用者成为所有者，初始状态为草稿
func (p *ProjectLogic) CreateProject(ownerAddress string, project *model.Project) error {
	if project.Title == "" {
		return apperr.Validation("项目标题不能为空")
	}

	project.OwnerAddress = strings.ToLower(ownerAddress)
	project.Status = model.ProjectStatusDraft
	project.TotalDeposited = "0"
	project.VaultAddress = ""

	return p.db.Create(project).Error
}

// GetProjects 获取项目列表，支持状态/所有者过滤与分页
func (p *ProjectLogic) GetProjects(status, owner string, page, pageSize int) ([]model.Project, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	query := p.db.Model(&model.Project{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if owner != "" {
		query = query.Where("owner_address = ?", strings.ToLower(owner))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []model.Project
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// GetProject 获取项目详情
func (p *ProjectLogic) GetProject(id uint) (*model.Project, error) {
	var project model.Project
	if err := p.db.Preload("Roles").First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("项目不存在")
		}
		return nil, err
	}
	return &project, nil
}

// UpdateProject 更新项目，仅所有者可操作，仅允许白名单字段
func (p *ProjectLogic) UpdateProject(callerAddress string, id uint, updates map[string]interface{}) (*model.Project, error) {
	project, err := p.getOwnedProject(callerAddress, id)
	if err != nil {
		return nil, err
	}

	allowedFields := []string{"title", "description", "category", "status"}
	filtered := make(map[string]interface{})
	for _, field := range allowedFields {
		if v, ok := updates[field]; ok {
			filtered[field] = v
		}
	}
	if len(filtered) == 0 {
		return nil, apperr.Validation("没有要更新的字段")
	}

	if status, ok := filtered["status"]; ok && !isValidProjectStatus(status) {
		return nil, apperr.Validation("无效的项目状态")
	}

	if err := p.db.Model(project).Updates(filtered).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject 删除项目，仅草稿状态允许，连带删除其下所有职位/申请/分配/KPI
func (p *ProjectLogic) DeleteProject(callerAddress string, id uint) error {
	project, err := p.getOwnedProject(callerAddress, id)
	if err != nil {
		return err
	}
	if project.Status != model.ProjectStatusDraft {
		return apperr.InvalidState("只有草稿状态的项目可以删除")
	}

	return p.db.Transaction(func(tx *gorm.DB) error {
		var roleIds []uint
		if err := tx.Model(&model.Role{}).Where("project_id = ?", id).Pluck("id", &roleIds).Error; err != nil {
			return err
		}
		if len(roleIds) > 0 {
			if err := tx.Where("role_id IN ?", roleIds).Delete(&model.Kpi{}).Error; err != nil {
				return err
			}
			if err := tx.Where("role_id IN ?", roleIds).Delete(&model.Assignment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("role_id IN ?", roleIds).Delete(&model.Application{}).Error; err != nil {
				return err
			}
			if err := tx.Where("project_id = ?", id).Delete(&model.Role{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Project{}, id).Error
	})
}

// LinkVault 关联链上金库合约地址，仅所有者可操作
func (p *ProjectLogic) LinkVault(callerAddress string, id uint, vaultAddress string) (*model.Project, error) {
	project, err := p.getOwnedProject(callerAddress, id)
	if err != nil {
		return nil, err
	}
	if !common.IsHexAddress(vaultAddress) {
		return nil, apperr.Validation("无效的金库地址")
	}

	if err := p.db.Model(project).Update("vault_address", strings.ToLower(vaultAddress)).Error; err != nil {
		return nil, err
	}
	return project, nil
}

// getOwnedProject 获取项目并校验所有权，检查顺序：存在性→授权
func (p *ProjectLogic) getOwnedProject(callerAddress string, id uint) (*model.Project, error) {
	var project model.Project
	if err := p.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("项目不存在")
		}
		return nil, err
	}
	if project.OwnerAddress != strings.ToLower(callerAddress) {
		return nil, apperr.NotAuthorized("只有项目所有者可以执行此操作")
	}
	return &project, nil
}

func isValidProjectStatus(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	switch model.ProjectStatus(s) {
	case model.ProjectStatusDraft, model.ProjectStatusOpen, model.ProjectStatusInProgress,
		model.ProjectStatusCompleted, model.ProjectStatusCancelled:
		return true
	}
	return false
}
