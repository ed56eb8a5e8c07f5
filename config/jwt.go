package config

import (
	"os"
	"time"
)

// JWTConfig 签发与校验 Token 的配置。
type JWTConfig struct {
	Secret string        `json:"secret" yaml:"secret"`
	Issuer string        `json:"issuer" yaml:"issuer"`
	Expire time.Duration `json:"expire" yaml:"expire"`
}

// DefaultJWTConfig 返回默认配置。生产环境必须通过 JWT_SECRET 覆盖。
func DefaultJWTConfig() JWTConfig {
	cfg := JWTConfig{
		Secret: "pulse-dev-secret",
		Issuer: "pulse-server",
		Expire: 30 * 24 * time.Hour, // 无密码产品，Token 即凭证，给长有效期
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Secret = v
	}
	return cfg
}
