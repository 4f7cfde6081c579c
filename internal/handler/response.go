package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/grandiv/novalance-be/internal/apperr"
	"github.com/grandiv/novalance-be/internal/logger"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// FailFromError 将logic层错误映射为HTTP响应。
// 业务错误按类别映射状态码，其余一律按内部错误处理并隐藏细节。
func FailFromError(c *gin.Context, err error) {
	if kind, ok := apperr.KindOf(err); ok {
		ErrorResponse(c, statusFromKind(kind), err.Error())
		return
	}
	logger.Error("request failed: %v", err)
	ErrorResponse(c, http.StatusInternalServerError, "内部错误")
}

func statusFromKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindNotAuthorized:
		return http.StatusForbidden
	case apperr.KindInvalidState:
		return http.StatusConflict
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindSignatureInvalid:
		return http.StatusUnauthorized
	case apperr.KindUpstream:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
