package consts

// 通用错误码
const (
	CodeSuccess = 0 // 成功
)

// 客户端错误 (1xxxx)
const (
	CodeParamError           = 10001 // 参数验证失败
	CodeBodyError            = 10002 // 请求体格式错误
	CodeResourceNotFound     = 10003 // 资源不存在
	CodeMethodNotAllowed     = 10004 // 请求方法不允许
	CodeTooManyRequests      = 10005 // 请求过于频繁
	CodeBodyTooLarge         = 10006 // 请求体过大
	CodeFileFormatNotSupport = 10007 // 文件格式不支持
)

// 认证错误 (2xxxx)
const (
	CodeUnauthorized   = 20001 // 未认证
	CodeInvalidToken   = 20002 // Token 无效
	CodeTokenExpired   = 20003 // Token 已过期
	CodePermissionDeny = 20004 // 权限不足
)

// 用户模块错误 (11xxx)
const (
	CodeUserNotFound        = 11001 // 用户不存在
	CodeEmailAlreadyUsed    = 11002 // 邮箱已被使用
	CodeDisplayNameRequired = 11003 // 昵称不能为空
	CodeUniqueCodeUsed      = 11004 // 登录码已被占用
	CodeAvatarUploadFail    = 11005 // 头像上传失败
	CodeLoginCodeInvalid    = 11006 // 登录码无效
)

// 连接模块错误 (12xxx)（旧版好友对模型，保留兼容）
const (
	CodeConnectionNotFound    = 12001 // 连接关系不存在
	CodeAlreadyConnected      = 12002 // 已经建立连接
	CodeConnectionRequestSent = 12003 // 连接请求已发送
	CodeCannotConnectSelf     = 12004 // 不能连接自己
	CodeNotConnectionReceiver = 12005 // 只有接收方可以处理该请求
	CodeConnectionNotPending  = 12006 // 连接请求不在待处理状态
)

// 小组模块错误 (14xxx)
const (
	CodeGroupNotFound       = 14001 // 小组不存在
	CodeNotGroupMember      = 14002 // 不是小组成员
	CodeNoPermission        = 14003 // 没有权限（仅创建者可操作）
	CodeGroupNameRequired   = 14004 // 小组名称不能为空
	CodeAlreadyGroupMember  = 14005 // 已经是小组成员
	CodeInviteAlreadyExists = 14006 // 已有待处理的邀请
	CodeInviteNotFound      = 14007 // 邀请不存在
	CodeOwnerCannotLeave    = 14008 // 组长不能退出，请删除小组
	CodeCannotRemoveSelf    = 14009 // 不能移除自己，请使用退出或删除
	CodeInvalidInviteCode   = 14010 // 邀请码无效
)

// 评分模块错误 (15xxx)
const (
	CodeScoreNotFound   = 15001 // 评分不存在
	CodeScoreOutOfRange = 15002 // 评分必须在 0 到 10 之间
	CodeScoreNotInGroup = 15003 // 该评分未分享到此小组
	CodeNotScoreOwner   = 15004 // 只有评分作者可以删除
	CodeNoTargetGroups  = 15005 // 必须至少选择一个分享小组
	CodeStatusTooLong   = 15006 // 状态文字过长
)

// 评论模块错误 (16xxx)
const (
	CodeCommentNotFound  = 16001 // 评论不存在
	CodeCommentEmpty     = 16002 // 评论内容不能为空
	CodeCommentTooLong   = 16003 // 评论内容过长
	CodeNotCommentAuthor = 16004 // 只有评论作者可以删除
)

// 表态模块错误 (17xxx)
const (
	CodeInvalidEmoji = 17001 // 表情无效
)

// 邀请码模块错误 (18xxx)
const (
	CodeAppInviteNotFound = 18001 // 邀请码不存在
	CodeNotInviteCreator  = 18002 // 只有创建者可以作废邀请码
	CodeAppInviteExpired  = 18003 // 邀请码已过期
)

// 街机模块错误 (19xxx)
const (
	CodeLevelRequired = 19001 // 关卡 ID 不能为空
)

// 服务端错误 (3xxxx)
const (
	CodeInternalError      = 30001 // 服务器内部错误
	CodeServiceUnavailable = 30002 // 服务暂不可用
	CodeTimeoutError       = 30003 // 请求超时
)

// 错误消息映射
var CodeMessage = map[int32]string{
	CodeSuccess: "success",

	// 客户端错误
	CodeParamError:           "参数验证失败",
	CodeBodyError:            "请求体格式错误",
	CodeResourceNotFound:     "资源不存在",
	CodeMethodNotAllowed:     "请求方法不允许",
	CodeTooManyRequests:      "请求过于频繁",
	CodeBodyTooLarge:         "请求体过大",
	CodeFileFormatNotSupport: "文件格式不支持",

	// 认证错误
	CodeUnauthorized:   "未认证",
	CodeInvalidToken:   "Token 无效",
	CodeTokenExpired:   "Token 已过期",
	CodePermissionDeny: "权限不足",

	// 用户模块
	CodeUserNotFound:        "用户不存在",
	CodeEmailAlreadyUsed:    "邮箱已被使用",
	CodeDisplayNameRequired: "昵称不能为空",
	CodeUniqueCodeUsed:      "登录码已被占用",
	CodeAvatarUploadFail:    "头像上传失败",
	CodeLoginCodeInvalid:    "登录码无效",

	// 连接模块
	CodeConnectionNotFound:    "连接关系不存在",
	CodeAlreadyConnected:      "已经建立连接",
	CodeConnectionRequestSent: "连接请求已发送",
	CodeCannotConnectSelf:     "不能连接自己",
	CodeNotConnectionReceiver: "只有接收方可以处理该请求",
	CodeConnectionNotPending:  "连接请求不在待处理状态",

	// 小组模块
	CodeGroupNotFound:       "小组不存在",
	CodeNotGroupMember:      "不是小组成员",
	CodeNoPermission:        "没有权限",
	CodeGroupNameRequired:   "小组名称不能为空",
	CodeAlreadyGroupMember:  "已经是小组成员",
	CodeInviteAlreadyExists: "已有待处理的邀请",
	CodeInviteNotFound:      "邀请不存在",
	CodeOwnerCannotLeave:    "组长不能退出小组，请直接删除小组",
	CodeCannotRemoveSelf:    "不能通过移除成员操作移除自己，请退出或删除小组",
	CodeInvalidInviteCode:   "邀请码无效",

	// 评分模块
	CodeScoreNotFound:   "评分不存在",
	CodeScoreOutOfRange: "评分必须在 0 到 10 之间",
	CodeScoreNotInGroup: "该评分未分享到此小组",
	CodeNotScoreOwner:   "只有评分作者可以删除",
	CodeNoTargetGroups:  "必须至少选择一个分享小组",
	CodeStatusTooLong:   "状态文字不能超过 280 个字符",

	// 评论模块
	CodeCommentNotFound:  "评论不存在",
	CodeCommentEmpty:     "评论内容不能为空",
	CodeCommentTooLong:   "评论内容不能超过 500 个字符",
	CodeNotCommentAuthor: "只有评论作者可以删除",

	// 表态模块
	CodeInvalidEmoji: "表情无效",

	// 邀请码模块
	CodeAppInviteNotFound: "邀请码不存在",
	CodeNotInviteCreator:  "只有创建者可以作废邀请码",
	CodeAppInviteExpired:  "邀请码已过期",

	// 街机模块
	CodeLevelRequired: "关卡 ID 不能为空",

	// 服务端错误
	CodeInternalError:      "服务器内部错误",
	CodeServiceUnavailable: "服务暂不可用",
	CodeTimeoutError:       "请求超时",
}

// GetMessage 根据错误码获取错误消息
func GetMessage(code int32) string {
	if msg, ok := CodeMessage[code]; ok {
		return msg
	}
	return "未知错误"
}

// IsNonServerError 判断是否为非服务端错误（客户端/业务错误）。
// 这类错误属于正常业务流程，handler 不打 Error 日志。
func IsNonServerError(code int) bool {
	return code < CodeInternalError
}
