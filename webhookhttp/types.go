package webhookhttp

import "context"

// TokenProvider 返回 GET /webhook 要求的访问令牌；空字符串表示不校验。
type TokenProvider func(ctx context.Context) (string, error)

type Config struct {
	// BasePath 仅用于 Gin 注册路由时拼接路径，默认 "/"。
	BasePath string
	// RecordsDir 通话记录目录，默认 realflow.DefaultRecordsDir；启动时创建。
	RecordsDir string
	// TokenProvider 可选，nil 时读接口不校验令牌。
	TokenProvider TokenProvider
	// MaskPII 为 true 时读接口对 phone/email 脱敏。
	MaskPII bool
	// StrictLeadFields 为 true 时，缺少 field/value 的 Set_Lead_Field 返回 400。
	StrictLeadFields bool
	// SerializeWrites 为 true 时同一 call_id 的写入串行执行。
	SerializeWrites bool
	// ListLimit 列表视图条数上限，默认 realflow.DefaultListLimit。
	ListLimit int
	// MaxBodyBytes POST /webhook 请求体上限，默认 4MiB。
	MaxBodyBytes int64
}
