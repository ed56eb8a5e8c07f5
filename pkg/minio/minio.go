package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"PulseServer/config"
	"PulseServer/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// global 全局 MinIO 客户端实例
var global *MinIOClient

// MinIOClient 图片对象存储客户端封装。
// 本产品只存小图（头像、评分/评论配图），类型校验按图片白名单收紧。
type MinIOClient struct {
	client *minio.Client
	config config.MinIOConfig
}

// Client 返回全局 MinIO 客户端（未初始化时为 nil，上传接口应答服务不可用）
func Client() *MinIOClient {
	return global
}

// ReplaceGlobal 设置全局 MinIO 客户端
func ReplaceGlobal(c *MinIOClient) {
	global = c
}

// Build 基于配置创建客户端并确保 Bucket 就绪
func Build(cfg config.MinIOConfig) (*MinIOClient, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("minio endpoint is empty")
	}
	if strings.TrimSpace(cfg.AccessKeyID) == "" || strings.TrimSpace(cfg.SecretAccessKey) == "" {
		return nil, errors.New("minio credentials are empty")
	}
	if strings.TrimSpace(cfg.BucketName) == "" {
		return nil, errors.New("minio bucketName is empty")
	}

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Transport: &http.Transport{
			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:     cfg.IdleConnTimeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	client := &MinIOClient{
		client: minioClient,
		config: cfg,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := minioClient.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket exists: %w", err)
	}
	if !exists {
		if err := minioClient.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{
			Region: cfg.Location,
		}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info(ctx, "MinIO Bucket 创建成功",
			logger.String("bucket", cfg.BucketName),
		)

		// 图片走公开读，客户端直接按 URL 取图
		if cfg.PublicRead {
			policy := fmt.Sprintf(`{
				"Version": "2012-10-17",
				"Statement": [
					{
						"Effect": "Allow",
						"Principal": {"AWS": ["*"]},
						"Action": ["s3:GetObject"],
						"Resource": ["arn:aws:s3:::%s/*"]
					}
				]
			}`, cfg.BucketName)
			if err := minioClient.SetBucketPolicy(ctx, cfg.BucketName, policy); err != nil {
				logger.Warn(ctx, "设置 Bucket 公开策略失败",
					logger.String("bucket", cfg.BucketName),
					logger.ErrorField("error", err),
				)
			}
		}
	}

	return client, nil
}

// UploadOptions 上传选项
type UploadOptions struct {
	// 对象路径前缀（如: "avatars/{user_uuid}/"）
	PathPrefix string
	// 文件名，为空时生成 UUID
	FileName string
	// 调用方声明的类型，最终以内容嗅探结果为准
	ContentType string
}

// UploadResult 上传结果
type UploadResult struct {
	ObjectName  string // 对象完整路径
	Size        int64  // 字节数
	ETag        string // 内容哈希
	URL         string // 外部访问地址
	ContentType string // 实际存储的类型
}

// Upload 上传一张图片。
// 类型以文件内容前 512 字节嗅探为准，声明的 Content-Type 只作参考；
// 嗅探结果不在白名单内直接拒绝，防止改扩展名伪装。
func (c *MinIOClient) Upload(ctx context.Context, reader io.Reader, fileSize int64, opts UploadOptions) (*UploadResult, error) {
	if c.config.MaxFileSize > 0 && fileSize > c.config.MaxFileSize {
		return nil, fmt.Errorf("文件大小超过限制: %d bytes (最大: %d bytes)", fileSize, c.config.MaxFileSize)
	}

	// 读前 512 字节做内容嗅探，之后拼回完整流
	head := make([]byte, 512)
	n, err := io.ReadFull(reader, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("读取文件内容失败: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !c.isAllowedType(contentType) {
		logger.Warn(ctx, "文件类型不在允许列表中",
			logger.String("detected_type", contentType),
			logger.String("declared_type", opts.ContentType),
			logger.Any("allowed_types", c.config.AllowedTypes),
		)
		return nil, fmt.Errorf("不支持的文件类型: %s", contentType)
	}

	objectName := c.objectName(opts)
	body := io.MultiReader(strings.NewReader(string(head)), reader)

	uploadCtx := ctx
	if c.config.UploadTimeout > 0 {
		var cancel context.CancelFunc
		uploadCtx, cancel = context.WithTimeout(ctx, c.config.UploadTimeout)
		defer cancel()
	}

	info, err := c.client.PutObject(uploadCtx, c.config.BucketName, objectName, body, fileSize,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		logger.Error(ctx, "MinIO 上传失败",
			logger.String("object", objectName),
			logger.String("content_type", contentType),
			logger.Int64("size", fileSize),
			logger.ErrorField("error", err),
		)
		return nil, fmt.Errorf("上传失败: %w", err)
	}

	url := c.objectURL(objectName)
	logger.Info(ctx, "MinIO 上传成功",
		logger.String("object", objectName),
		logger.String("url", url),
		logger.Int64("size", info.Size),
	)

	return &UploadResult{
		ObjectName:  objectName,
		Size:        info.Size,
		ETag:        info.ETag,
		URL:         url,
		ContentType: contentType,
	}, nil
}

// Delete 删除一个对象（头像换新后清理旧图等场景）
func (c *MinIOClient) Delete(ctx context.Context, objectName string) error {
	if err := c.client.RemoveObject(ctx, c.config.BucketName, objectName, minio.RemoveObjectOptions{}); err != nil {
		logger.Error(ctx, "MinIO 删除失败",
			logger.String("object", objectName),
			logger.ErrorField("error", err),
		)
		return fmt.Errorf("删除失败: %w", err)
	}
	return nil
}

// GetPresignedURL 生成限时访问地址（Bucket 非公开读时使用）
func (c *MinIOClient) GetPresignedURL(ctx context.Context, objectName string, expires time.Duration) (string, error) {
	url, err := c.client.PresignedGetObject(ctx, c.config.BucketName, objectName, expires, nil)
	if err != nil {
		logger.Error(ctx, "MinIO 生成预签名 URL 失败",
			logger.String("object", objectName),
			logger.ErrorField("error", err),
		)
		return "", fmt.Errorf("生成预签名 URL 失败: %w", err)
	}
	return url.String(), nil
}

// GetBucketName 当前 Bucket 名称
func (c *MinIOClient) GetBucketName() string {
	return c.config.BucketName
}

// objectName 组装对象路径；未指定文件名时生成 UUID
func (c *MinIOClient) objectName(opts UploadOptions) string {
	fileName := opts.FileName
	if fileName == "" {
		fileName = uuid.New().String()
	}
	if opts.PathPrefix != "" {
		return strings.TrimSuffix(opts.PathPrefix, "/") + "/" + fileName
	}
	return fileName
}

// objectURL 组装外部访问地址
func (c *MinIOClient) objectURL(objectName string) string {
	return fmt.Sprintf("%s/%s/%s",
		strings.TrimSuffix(c.config.BaseURL, "/"),
		c.config.BucketName,
		strings.TrimPrefix(objectName, "/"),
	)
}

// isAllowedType 按配置白名单校验（image/jpg 与 image/jpeg 视为同一类型）
func (c *MinIOClient) isAllowedType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "image/jpg" {
		contentType = "image/jpeg"
	}
	for _, allowed := range c.config.AllowedTypes {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if allowed == "image/jpg" {
			allowed = "image/jpeg"
		}
		if contentType == allowed {
			return true
		}
	}
	return false
}
