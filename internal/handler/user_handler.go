package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grandiv/novalance-be/internal/logic"
	"github.com/grandiv/novalance-be/internal/middleware"
	"gorm.io/gorm"
)

// UserHandler 用户资料接口
type UserHandler struct {
	userLogic *logic.UserLogic
}

// NewUserHandler 创建用户接口
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{userLogic: logic.NewUserLogic(db)}
}

// GetMe 获取当前用户资料
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userLogic.GetUser(middleware.WalletAddress(c))
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "", gin.H{"user": user})
}

// UpdateMe 更新当前用户资料
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Skills != nil {
		updates["skills"] = *req.Skills
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}
	if req.Github != nil {
		updates["github"] = *req.Github
	}

	user, err := h.userLogic.UpdateProfile(middleware.WalletAddress(c), updates)
	if err != nil {
		FailFromError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, "资料更新成功", gin.H{"user": user})
}
