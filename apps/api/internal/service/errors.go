package service

import (
	"context"
	"strconv"

	"PulseServer/consts"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// bizError 构造携带业务码的服务层错误
// 约定：status message 存业务码字符串，handler 侧用 utils.ExtractErrorCode 解析。
func bizError(code codes.Code, bizCode int32) error {
	return status.Error(code, strconv.Itoa(int(bizCode)))
}

// errInternal 服务器内部错误
func errInternal() error {
	return bizError(codes.Internal, consts.CodeInternalError)
}

// userUUIDFromContext 从 context 取当前登录用户 uuid
// 认证中间件写入；取不到说明链路配置错误或未登录。
func userUUIDFromContext(ctx context.Context) (string, error) {
	v := ctx.Value("user_uuid")
	uuid, ok := v.(string)
	if !ok || uuid == "" {
		return "", bizError(codes.Unauthenticated, consts.CodeUnauthorized)
	}
	return uuid, nil
}
