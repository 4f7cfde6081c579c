package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grandiv/novalance-be/internal/logic"
	"github.com/grandiv/novalance-be/internal/middleware"
	"gorm.io/gorm"
)

// ApplicationHandler 申请接口
type ApplicationHandler struct {
	applicationLogic *logic.ApplicationLogic
}

// NewApplicationHandler 创建申请接口
func NewApplicationHandler(db *gorm.DB) *ApplicationHandler {
	return &ApplicationHandler{applicationLogic: logic.NewApplicationLogic(db)}
}

// Apply 申请职位
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	application, err := h.applicationLogic.Apply(middleware.WalletAddress(c), req.RoleID, req.CoverLetter)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "申请已提交", gin.H{"application": application})
}

// Withdraw 撤回申请
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	if err := h.applicationLogic.Withdraw(middleware.WalletAddress(c), id); err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "申请已撤回", nil)
}

// Accept 接受申请，建立分配
func (h *ApplicationHandler) Accept(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	assignment, err := h.applicationLogic.Accept(middleware.WalletAddress(c), id)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "申请已接受", gin.H{"assignment": assignment})
}

// Reject 拒绝申请
func (h *ApplicationHandler) Reject(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	if err := h.applicationLogic.Reject(middleware.WalletAddress(c), id); err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "申请已拒绝", nil)
}

// GetRoleApplications 查看职位下的申请
func (h *ApplicationHandler) GetRoleApplications(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	applications, err := h.applicationLogic.GetRoleApplications(middleware.WalletAddress(c), id)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", gin.H{"applications": applications})
}

// GetMyApplications 查看自己的申请
func (h *ApplicationHandler) GetMyApplications(c *gin.Context) {
	applications, err := h.applicationLogic.GetMyApplications(middleware.WalletAddress(c))
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", gin.H{"applications": applications})
}
