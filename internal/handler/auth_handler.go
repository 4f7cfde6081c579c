package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grandiv/novalance-be/internal/auth"
	"github.com/grandiv/novalance-be/internal/logic"
	"gorm.io/gorm"
)

// AuthHandler 钱包签名认证接口
type AuthHandler struct {
	userLogic *logic.UserLogic
	issuer    *auth.SessionIssuer
}

// NewAuthHandler 创建认证接口
func NewAuthHandler(db *gorm.DB, issuer *auth.SessionIssuer) *AuthHandler {
	return &AuthHandler{
		userLogic: logic.NewUserLogic(db),
		issuer:    issuer,
	}
}

// RequestNonce 签发一次性挑战
func (h *AuthHandler) RequestNonce(c *gin.Context) {
	var req NonceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, message, err := h.userLogic.IssueNonce(req.Address)
	if err != nil {
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "挑战已签发", gin.H{
		"address": user.Address,
		"message": message,
	})
}

// VerifySignature 校验签名并签发会话令牌
func (h *AuthHandler) VerifySignature(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userLogic.VerifySignature(req.Address, req.Signature)
	if err != nil {
		FailFromError(c, err)
		return
	}

	token, err := h.issuer.Issue(user.Address)
	if err != nil {
		FailFromError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "登录成功", gin.H{
		"token": token,
		"user":  user,
	})
}
