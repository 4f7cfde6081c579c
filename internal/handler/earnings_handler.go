package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grandiv/novalance-be/internal/logic"
	"github.com/grandiv/novalance-be/internal/middleware"
	"gorm.io/gorm"
)

// EarningsHandler 余额与收益接口
type EarningsHandler struct {
	ledgerLogic *logic.LedgerLogic
}

// NewEarningsHandler 创建收益接口
func NewEarningsHandler(db *gorm.DB) *EarningsHandler {
	return &EarningsHandler{ledgerLogic: logic.NewLedgerLogic(db)}
}

// GetBalance 获取当前用户的余额视图
func (h *EarningsHandler) GetBalance(c *gin.Context) {
	balance, err := h.ledgerLogic.GetFreelancerBalance(middleware.WalletAddress(c))
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", gin.H{"balance": balance})
}

// GetEarnings 获取收益明细（含收益拆分）
func (h *EarningsHandler) GetEarnings(c *gin.Context) {
	summary, err := h.ledgerLogic.GetEarnings(middleware.WalletAddress(c))
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", gin.H{"earnings": summary})
}

// GetEarningsHistory 按时间段获取收益，from/to 为 RFC3339，两端闭区间
func (h *EarningsHandler) GetEarningsHistory(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的起始时间")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的结束时间")
		return
	}

	summary, err := h.ledgerLogic.GetEarningsBetween(middleware.WalletAddress(c), from, to)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", gin.H{"earnings": summary})
}
