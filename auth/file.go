package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type tokenFile struct {
	ReadToken string `json:"read_token"`
}

// ReadTokenFromPath 读取令牌文件。文件可以是 {"read_token": "..."} 形式的 JSON，
// 也可以只包含令牌本身。
func ReadTokenFromPath(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var f tokenFile
		if err := json.Unmarshal([]byte(trimmed), &f); err != nil {
			return "", fmt.Errorf("failed to parse token file: %w", err)
		}
		trimmed = strings.TrimSpace(f.ReadToken)
		if trimmed == "" {
			return "", fmt.Errorf("token file missing read_token")
		}
		return trimmed, nil
	}
	if trimmed == "" {
		return "", fmt.Errorf("token file is empty")
	}
	return trimmed, nil
}

// fileProvider 每次请求都重新读取文件，轮换令牌无需重启。
type fileProvider struct {
	path string
}

func (p *fileProvider) Token(ctx context.Context) (string, error) {
	return ReadTokenFromPath(p.path)
}
