package config

import (
	"fmt"
	"os"
	"time"
)

// MySQLConfig MySQL 连接配置。
type MySQLConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database" yaml:"database"`
	Charset  string `json:"charset" yaml:"charset"`

	// 读写分离：配置后写走主库，读随机打到从库
	ReplicaDSNs []string `json:"replicaDsns" yaml:"replicaDsns"`

	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`

	LogLevel string `json:"logLevel" yaml:"logLevel"` // silent / error / warn / info
}

// DSN 拼接主库 DSN。
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database, c.Charset)
}

// DefaultMySQLConfig 返回本地开发的默认配置（支持环境变量覆盖关键项）。
func DefaultMySQLConfig() MySQLConfig {
	cfg := MySQLConfig{
		Host:            "mysql",
		Port:            3306,
		User:            "root",
		Password:        "root",
		Database:        "pulseserver",
		Charset:         "utf8mb4",
		MaxOpenConns:    100,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		LogLevel:        "warn",
	}
	if v := os.Getenv("MYSQL_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("MYSQL_DATABASE"); v != "" {
		cfg.Database = v
	}
	return cfg
}
