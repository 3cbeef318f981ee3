package errcode

// 错误码约定（用于异步导出通知）：
// - 0：无错误
// - 4xxx：请求本身的问题，重试无意义
// - 5xxx：系统错误（渲染、存储等）
const (
	OK             = 0
	InvalidRequest = 4000
	NotFound       = 4004
	RenderFailure  = 5000
	StorageFailure = 5001
)
