package util

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderXRequestID = "X-Request-ID"

// TraceLogger 为每个请求绑定 trace_id。
// 网关/Nginx 带来的 X-Request-ID 优先沿用，没有则现场生成；
// 同时写回响应头，客户端报障时拿着这个 ID 就能对上日志。
func TraceLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := c.GetHeader(HeaderXRequestID)
		if traceId == "" {
			traceId = uuid.New().String()
		}

		c.Set("trace_id", traceId)
		c.Header(HeaderXRequestID, traceId)

		c.Next()
	}
}

// NewUUID 生成新的 UUID
func NewUUID() string {
	return uuid.New().String()
}
