package config

import (
	"os"
	"time"
)

// ServerConfig HTTP 服务配置。
type ServerConfig struct {
	Addr            string        `json:"addr" yaml:"addr"`
	MetricsAddr     string        `json:"metricsAddr" yaml:"metricsAddr"`
	ReadTimeout     time.Duration `json:"readTimeout" yaml:"readTimeout"`
	WriteTimeout    time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"`

	// 限流：每客户端的令牌桶容量与速率（秒）
	RateLimitCapacity int     `json:"rateLimitCapacity" yaml:"rateLimitCapacity"`
	RateLimitRate     float64 `json:"rateLimitRate" yaml:"rateLimitRate"`
}

// DefaultServerConfig 返回本地开发的默认配置。
func DefaultServerConfig() ServerConfig {
	cfg := ServerConfig{
		Addr:              ":8080",
		MetricsAddr:       ":9091",
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		RateLimitCapacity: 60,
		RateLimitRate:     20,
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Addr = v
	}
	return cfg
}
