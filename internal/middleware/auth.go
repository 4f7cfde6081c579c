package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grandiv/novalance-be/internal/auth"
)

const (
	// AuthHeader 认证头
	AuthHeader = "Authorization"
	// BearerPrefix Bearer 前缀
	BearerPrefix = "Bearer "

	// contextKeyAddress 上下文中的钱包地址键，仅通过WalletAddress读取
	contextKeyAddress = "wallet_address"
)

// Auth 返回会话认证中间件。每个请求都重新校验令牌，不做跨请求缓存。
func Auth(issuer *auth.SessionIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeader)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "未提供认证信息",
			})
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "认证格式错误",
			})
			return
		}

		token := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := issuer.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "认证失败",
			})
			return
		}

		c.Set(contextKeyAddress, strings.ToLower(claims.Address))
		c.Next()
	}
}

// WalletAddress 从上下文获取已认证的钱包地址（小写）。
// 未经过Auth中间件的请求返回空字符串。
func WalletAddress(c *gin.Context) string {
	if v, exists := c.Get(contextKeyAddress); exists {
		if addr, ok := v.(string); ok {
			return addr
		}
	}
	return ""
}
