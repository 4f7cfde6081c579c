package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grandiv/novalance-be/internal/logic"
	"github.com/grandiv/novalance-be/internal/middleware"
	"gorm.io/gorm"
)

// KpiHandler KPI状态机接口
type KpiHandler struct {
	kpiLogic *logic.KpiLogic
}

// NewKpiHandler 创建KPI接口
func NewKpiHandler(db *gorm.DB) *KpiHandler {
	return &KpiHandler{kpiLogic: logic.NewKpiLogic(db)}
}

// GetRoleKpis 获取职位下的KPI列表
func (h *KpiHandler) GetRoleKpis(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	kpis, err := h.kpiLogic.GetRoleKpis(id)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", gin.H{"kpis": kpis})
}

// SubmitKpi 提交工作成果
func (h *KpiHandler) SubmitKpi(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	var req SubmitKpiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	kpi, err := h.kpiLogic.Submit(middleware.WalletAddress(c), id, req.ToInput())
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "KPI已提交", gin.H{"kpi": kpi})
}

// ApproveKpi 审核通过
func (h *KpiHandler) ApproveKpi(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	var req ReviewKpiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	kpi, err := h.kpiLogic.Approve(middleware.WalletAddress(c), id, req.Comment)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "KPI审核通过", gin.H{"kpi": kpi})
}

// RejectKpi 驳回
func (h *KpiHandler) RejectKpi(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	var req ReviewKpiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	kpi, err := h.kpiLogic.Reject(middleware.WalletAddress(c), id, req.Comment)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "KPI已驳回", gin.H{"kpi": kpi})
}

// ConfirmKpi 自由职业者确认收款
func (h *KpiHandler) ConfirmKpi(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	kpi, err := h.kpiLogic.Confirm(middleware.WalletAddress(c), id)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "KPI已确认", gin.H{"kpi": kpi})
}

// RecordDeposit 登记链上存款
func (h *KpiHandler) RecordDeposit(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	var req RecordDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	kpi, err := h.kpiLogic.RecordDeposit(middleware.WalletAddress(c), id, req.TxHash, req.VaultBalanceAtStart)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "存款信息已登记", gin.H{"kpi": kpi})
}

// RecordPayout 登记链上放款
func (h *KpiHandler) RecordPayout(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	var req RecordPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	kpi, err := h.kpiLogic.RecordPayout(middleware.WalletAddress(c), id,
		req.TxHash, req.VaultBalanceAtEnd, req.YieldEarned, req.PenaltyAmount)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "放款信息已登记", gin.H{"kpi": kpi})
}
