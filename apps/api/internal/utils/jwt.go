package utils

import (
	"errors"
	"time"

	"PulseServer/config"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 自定义 JWT Claims
type Claims struct {
	UserUUID string `json:"user_uuid"`
	jwt.RegisteredClaims
}

var (
	jwtConfig config.JWTConfig

	// ErrInvalidToken Token 无效或已过期
	ErrInvalidToken = errors.New("token 无效或已过期")
)

// InitJWT 初始化 JWT 配置（启动时调用一次）
func InitJWT(cfg config.JWTConfig) {
	jwtConfig = cfg
}

// GenerateToken 生成访问令牌
func GenerateToken(userUUID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserUUID: userUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtConfig.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(jwtConfig.Expire)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.Secret))
}

// ParseToken 解析并校验访问令牌
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(jwtConfig.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserUUID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
