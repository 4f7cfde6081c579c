package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grandiv/novalance-be/internal/logic"
	"github.com/grandiv/novalance-be/internal/middleware"
	"github.com/grandiv/novalance-be/internal/model"
	"gorm.io/gorm"
)

// RoleHandler 职位接口
type RoleHandler struct {
	roleLogic *logic.RoleLogic
}

// NewRoleHandler 创建职位接口
func NewRoleHandler(db *gorm.DB) *RoleHandler {
	return &RoleHandler{roleLogic: logic.NewRoleLogic(db)}
}

// CreateRole 创建职位
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	role := model.Role{
		ProjectID:     req.ProjectID,
		Title:         req.Title,
		Description:   req.Description,
		KpiCount:      req.KpiCount,
		PaymentPerKpi: req.PaymentPerKpi,
	}
	if err := h.roleLogic.CreateRole(middleware.WalletAddress(c), &role); err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "职位创建成功", gin.H{"role": role})
}

// GetRole 获取职位详情
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	role, err := h.roleLogic.GetRole(id)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", gin.H{"role": role})
}

// GetProjectRoles 获取项目下的职位列表
func (h *RoleHandler) GetProjectRoles(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	roles, err := h.roleLogic.GetProjectRoles(id)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", gin.H{"roles": roles})
}

// UpdateRole 更新职位
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	role, err := h.roleLogic.UpdateRole(middleware.WalletAddress(c), id, updates)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "职位更新成功", gin.H{"role": role})
}

// CancelRole 取消职位
func (h *RoleHandler) CancelRole(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	if err := h.roleLogic.CancelRole(middleware.WalletAddress(c), id); err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "职位已取消", nil)
}

// CreateKpis 为职位一次性创建全部KPI
func (h *RoleHandler) CreateKpis(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	var req CreateKpisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	descriptors := make([]model.Kpi, 0, len(req.Kpis))
	for _, d := range req.Kpis {
		var deadline *time.Time
		if d.Deadline != nil {
			t := *d.Deadline
			deadline = &t
		}
		descriptors = append(descriptors, model.Kpi{
			Title:       d.Title,
			Description: d.Description,
			Deadline:    deadline,
		})
	}

	kpis, err := h.roleLogic.CreateKpis(middleware.WalletAddress(c), id, descriptors)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "KPI创建成功", gin.H{"kpis": kpis})
}
