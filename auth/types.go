package auth

import "context"

// Provider 返回只读接口要求的访问令牌；空字符串表示不校验。
type Provider interface {
	Token(ctx context.Context) (string, error)
}

type Source string

const (
	SourceStatic Source = "static"
	SourceFile   Source = "file"
	SourceAuto   Source = "auto"
)

// Options 为各来源提供输入。Token 来自配置（READ_TOKEN），Path 为令牌文件路径。
type Options struct {
	Token string
	Path  string
}
