package mysql

import (
	"fmt"
	"time"

	"PulseServer/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

var global *gorm.DB

// DB 返回全局数据库连接（未初始化时为 nil）。
func DB() *gorm.DB {
	return global
}

// ReplaceGlobal 设置全局数据库连接。
func ReplaceGlobal(db *gorm.DB) {
	global = db
}

// Build 根据配置创建 GORM 连接。
// - TranslateError 开启后，底层唯一键冲突会被翻译成 gorm.ErrDuplicatedKey，
//   repository 层的错误规则表依赖这一点。
// - 配置了 ReplicaDSNs 时通过 dbresolver 做读写分离（写主读从）。
func Build(cfg config.MySQLConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(parseLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	if len(cfg.ReplicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.ReplicaDSNs))
		for _, dsn := range cfg.ReplicaDSNs {
			replicas = append(replicas, mysql.Open(dsn))
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("register db resolver: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// 启动时探活，尽早暴露配置错误
	pingDeadline := time.Now().Add(5 * time.Second)
	for {
		if err = sqlDB.Ping(); err == nil {
			break
		}
		if time.Now().After(pingDeadline) {
			return nil, fmt.Errorf("ping mysql: %w", err)
		}
		time.Sleep(500 * time.Millisecond)
	}

	return db, nil
}

func parseLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
