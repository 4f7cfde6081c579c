package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/grandiv/novalance-be/internal/logic"
	"gorm.io/gorm"
)

// TransactionHandler 链上审计记录接口
type TransactionHandler struct {
	transactionLogic *logic.TransactionLogic
}

// NewTransactionHandler 创建审计记录接口
func NewTransactionHandler(db *gorm.DB) *TransactionHandler {
	return &TransactionHandler{transactionLogic: logic.NewTransactionLogic(db)}
}

// GetProjectTransactions 获取项目的审计记录
func (h *TransactionHandler) GetProjectTransactions(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	records, total, err := h.transactionLogic.GetProjectTransactions(id, page, pageSize)
	if err != nil {
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"transactions": records,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
	})
}
