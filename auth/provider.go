package auth

import (
	"context"
	"fmt"
	"strings"
)

// NewProvider 根据来源创建 Provider。
// source 允许：static/file/auto；空值按 static 处理。
func NewProvider(source string, opts Options) (Provider, error) {
	s := strings.ToLower(strings.TrimSpace(source))
	if s == "" {
		s = string(SourceStatic)
	}
	switch Source(s) {
	case SourceStatic:
		return &staticProvider{token: opts.Token}, nil
	case SourceFile:
		if strings.TrimSpace(opts.Path) == "" {
			return nil, fmt.Errorf("token file path is required for source %q", s)
		}
		return &fileProvider{path: opts.Path}, nil
	case SourceAuto:
		providers := []Provider{}
		if strings.TrimSpace(opts.Path) != "" {
			providers = append(providers, &fileProvider{path: opts.Path})
		}
		providers = append(providers, &staticProvider{token: opts.Token})
		return &autoProvider{providers: providers}, nil
	default:
		return nil, fmt.Errorf("unsupported token source: %s", source)
	}
}

// autoProvider 依次尝试各来源，返回第一个非空令牌；全部为空时视为不校验。
type autoProvider struct {
	providers []Provider
}

func (p *autoProvider) Token(ctx context.Context) (string, error) {
	for _, provider := range p.providers {
		token, err := provider.Token(ctx)
		if err == nil && strings.TrimSpace(token) != "" {
			return token, nil
		}
	}
	return "", nil
}
