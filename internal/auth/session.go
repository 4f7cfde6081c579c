package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/grandiv/novalance-be/internal/config"
)

// SessionIssuer 会话令牌签发与校验
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
}

// Claims 会话令牌载荷
type Claims struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}

// NewSessionIssuer 创建会话签发器；密钥为空时拒绝创建
func NewSessionIssuer(cfg config.AuthConfig) (*SessionIssuer, error) {
	if cfg.JwtSecret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	ttlHours := cfg.TokenTTLHours
	if ttlHours <= 0 {
		ttlHours = 168 // 7天
	}
	return &SessionIssuer{
		secret: []byte(cfg.JwtSecret),
		ttl:    time.Duration(ttlHours) * time.Hour,
	}, nil
}

// Issue 为已通过签名验证的地址签发会话令牌
func (s *SessionIssuer) Issue(address string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Address: strings.ToLower(address),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate 校验会话令牌；签名错误、格式错误、过期均返回error
func (s *SessionIssuer) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Address == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
