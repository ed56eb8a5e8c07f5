package utils

import (
	"strconv"

	"PulseServer/consts"

	"google.golang.org/grpc/status"
)

// ExtractErrorCode 提取业务错误码
// 服务层约定：status message 存业务码字符串，这里解析回 int32。
func ExtractErrorCode(err error) int32 {
	if err == nil {
		return 0
	}

	if st, ok := status.FromError(err); ok {
		if bizCode, parseErr := strconv.Atoi(st.Message()); parseErr == nil {
			return int32(bizCode)
		}
		return consts.CodeInternalError
	}

	return consts.CodeInternalError
}
