package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/grandiv/novalance-be/internal/logger"
	"github.com/grandiv/novalance-be/internal/logic"
	"github.com/grandiv/novalance-be/internal/middleware"
	"github.com/grandiv/novalance-be/internal/model"
	"github.com/grandiv/novalance-be/internal/vault"
	"gorm.io/gorm"
)

// ProjectHandler 项目接口
type ProjectHandler struct {
	projectLogic *logic.ProjectLogic
	ledgerLogic  *logic.LedgerLogic
	vaultClient  *vault.Client
}

// NewProjectHandler 创建项目接口
func NewProjectHandler(db *gorm.DB, vaultClient *vault.Client) *ProjectHandler {
	return &ProjectHandler{
		projectLogic: logic.NewProjectLogic(db),
		ledgerLogic:  logic.NewLedgerLogic(db),
		vaultClient:  vaultClient,
	}
}

// CreateProject 创建项目
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	project := model.Project{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}
	if err := h.projectLogic.CreateProject(middleware.WalletAddress(c), &project); err != nil {
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "项目创建成功", gin.H{"project": project})
}

// GetProjects 获取项目列表
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	status := c.Query("status")
	owner := c.Query("owner")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	projects, total, err := h.projectLogic.GetProjects(status, owner, page, pageSize)
	if err != nil {
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"projects":  projects,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetProject 获取项目详情
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	project, err := h.projectLogic.GetProject(id)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", gin.H{"project": project})
}

// UpdateProject 更新项目
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	var req UpdateProjectRequest
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
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	project, err := h.projectLogic.UpdateProject(middleware.WalletAddress(c), id, updates)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "项目更新成功", gin.H{"project": project})
}

// DeleteProject 删除项目（仅草稿）
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	if err := h.projectLogic.DeleteProject(middleware.WalletAddress(c), id); err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "项目已删除", nil)
}

// LinkVault 关联金库合约地址
func (h *ProjectHandler) LinkVault(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	var req LinkVaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.projectLogic.LinkVault(middleware.WalletAddress(c), id, req.VaultAddress)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "金库已关联", gin.H{"project": project})
}

// GetProjectBalance 获取项目余额视图。
// 链上余额读取失败时降级为库内数据，不让请求失败。
func (h *ProjectHandler) GetProjectBalance(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	balance, err := h.ledgerLogic.GetProjectBalance(id)
	if err != nil {
		FailFromError(c, err)
		return
	}

	vaultBalance := ""
	project, err := h.projectLogic.GetProject(id)
	if err == nil && project.VaultAddress != "" && h.vaultClient != nil {
		if b, err := h.vaultClient.GetBalance(context.Background(), project.VaultAddress); err != nil {
			logger.Warn("vault balance read failed for project %d, degrading: %v", id, err)
		} else {
			vaultBalance = b
		}
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"balance":       balance,
		"vault_balance": vaultBalance,
	})
}

// parseIDParam 解析路径中的ID参数，非法时直接响应400
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的ID")
		return 0, err
	}
	return uint(id), nil
}
