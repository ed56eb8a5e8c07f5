package config

import "time"

// MinIOConfig 图片对象存储配置。
// 本产品只上传小图（头像等），AllowedTypes 固定为图片白名单。
type MinIOConfig struct {
	Endpoint        string `json:"endpoint" yaml:"endpoint"`               // 服务地址，如: localhost:9000
	AccessKeyID     string `json:"accessKeyId" yaml:"accessKeyId"`         // Access Key
	SecretAccessKey string `json:"secretAccessKey" yaml:"secretAccessKey"` // Secret Key
	UseSSL          bool   `json:"useSSL" yaml:"useSSL"`                   // 是否走 HTTPS

	BucketName string `json:"bucketName" yaml:"bucketName"` // 存储桶
	Location   string `json:"location" yaml:"location"`     // Bucket 区域

	MaxFileSize   int64         `json:"maxFileSize" yaml:"maxFileSize"`     // 单文件大小上限（字节）
	AllowedTypes  []string      `json:"allowedTypes" yaml:"allowedTypes"`   // 允许的 MIME 类型
	UploadTimeout time.Duration `json:"uploadTimeout" yaml:"uploadTimeout"` // 单次上传超时

	PublicRead bool   `json:"publicRead" yaml:"publicRead"` // Bucket 是否公开读
	BaseURL    string `json:"baseUrl" yaml:"baseUrl"`       // 返回给客户端的访问地址前缀

	MaxIdleConns        int           `json:"maxIdleConns" yaml:"maxIdleConns"`               // 最大空闲连接数
	MaxIdleConnsPerHost int           `json:"maxIdleConnsPerHost" yaml:"maxIdleConnsPerHost"` // 单 host 空闲连接数
	IdleConnTimeout     time.Duration `json:"idleConnTimeout" yaml:"idleConnTimeout"`         // 空闲连接超时
}

// DefaultMinIOConfig 本地开发默认值（与 docker-compose.yml 对齐）
func DefaultMinIOConfig() MinIOConfig {
	return MinIOConfig{
		Endpoint:        "minio:9000",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		UseSSL:          false,

		BucketName: "pulseserver",
		Location:   "us-east-1",

		MaxFileSize:   10 * 1024 * 1024,
		AllowedTypes:  []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"},
		UploadTimeout: 30 * time.Second,

		// 头像公开读，客户端直接按 URL 取图
		PublicRead: true,
		BaseURL:    "http://localhost:9000",

		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
}

// ProductionMinIOConfig 生产环境配置示例，密钥从环境变量/配置中心注入
func ProductionMinIOConfig() MinIOConfig {
	return MinIOConfig{
		Endpoint:        "minio.example.com:9000",
		AccessKeyID:     "",
		SecretAccessKey: "",
		UseSSL:          true,

		BucketName: "pulseserver-prod",
		Location:   "us-east-1",

		MaxFileSize:   20 * 1024 * 1024,
		AllowedTypes:  []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"},
		UploadTimeout: 60 * time.Second,

		PublicRead: true,
		BaseURL:    "https://cdn.example.com",

		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     120 * time.Second,
	}
}
