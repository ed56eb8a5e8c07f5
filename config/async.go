package config

import "time"

// AsyncConfig 后台协程池配置。
// 评论通知、未读数广播这类旁路任务都走这个池子，不做定时调度。
type AsyncConfig struct {
	PoolSize         int           `json:"poolSize" yaml:"poolSize"`                 // 池容量
	MaxBlockingTasks int           `json:"maxBlockingTasks" yaml:"maxBlockingTasks"` // 提交阻塞上限（0 不限）
	ExpiryDuration   time.Duration `json:"expiryDuration" yaml:"expiryDuration"`     // 空闲 worker 回收时间
	Nonblocking      bool          `json:"nonblocking" yaml:"nonblocking"`           // 池满时直接失败而不是阻塞
	ReleaseTimeout   time.Duration `json:"releaseTimeout" yaml:"releaseTimeout"`     // 停机时等待在途任务的时长
}

// DefaultAsyncConfig 本地开发默认值
func DefaultAsyncConfig() AsyncConfig {
	return AsyncConfig{
		PoolSize:         256,
		MaxBlockingTasks: 0,
		ExpiryDuration:   10 * time.Second,
		Nonblocking:      false,
		ReleaseTimeout:   5 * time.Second,
	}
}
