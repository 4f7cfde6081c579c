package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandiv/novalance-be/internal/auth"
	"github.com/grandiv/novalance-be/internal/config"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *auth.SessionIssuer) {
	gin.SetMode(gin.TestMode)

	issuer, err := auth.NewSessionIssuer(config.AuthConfig{
		JwtSecret:     "test-secret",
		TokenTTLHours: 1,
	})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/probe", Auth(issuer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"address": WalletAddress(c)})
	})
	return r, issuer
}

func TestAuth_MissingHeader(t *testing.T) {
	r, _ := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_BadScheme(t *testing.T) {
	r, _ := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(AuthHeader, "Basic abcdef")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	r, _ := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(AuthHeader, BearerPrefix+"garbage.token.value")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ValidToken(t *testing.T) {
	r, issuer := setupAuthRouter(t)

	token, err := issuer.Issue("0x742D35Cc6634C0532925a3b844Bc9e7595f8FA8E")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(AuthHeader, BearerPrefix+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "0x742d35cc6634c0532925a3b844bc9e7595f8fa8e")
}

func TestWalletAddress_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", WalletAddress(c))
}
