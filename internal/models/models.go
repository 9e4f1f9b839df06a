package models

// Credential 一次请求携带的 Basic 认证信息，仅在请求内使用，不落盘
type Credential struct {
	Username string
	Password string
}

// OperationRequest POST / 请求体
// 字段为 nil 表示请求体中不存在该键，空字符串表示键存在但值为空
type OperationRequest struct {
	Command *string `json:"command,omitempty"`
	Path    *string `json:"path,omitempty"`
}

// Result 所有 JSON 接口统一的返回结构
type Result struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
	Error   string `json:"error"`
}

// OK 成功结果
func OK(data string) Result {
	return Result{Success: true, Data: data}
}

// Fail 失败结果
func Fail(msg string) Result {
	return Result{Success: false, Error: msg}
}

// LinkParams /v 接口的查询参数，按拼接顺序排列；nil 表示参数缺失
type LinkParams struct {
	C        *string
	Security *string
	FP       *string
	PBK      *string
	SNI      *string
	SID      *string
	Name     *string
}
