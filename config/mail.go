package config

import "os"

// MailConfig SMTP 发信配置。
type MailConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"` // 关闭时所有发送为空操作
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	From     string `json:"from" yaml:"from"`
}

// DefaultMailConfig 返回默认配置（默认关闭，本地开发无需 SMTP）。
func DefaultMailConfig() MailConfig {
	cfg := MailConfig{
		Enabled:  false,
		Host:     "smtp.example.com",
		Port:     587,
		From:     "noreply@pulse.example.com",
	}
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Enabled = true
		cfg.Host = v
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Password = v
	}
	return cfg
}
