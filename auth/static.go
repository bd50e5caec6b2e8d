package auth

import (
	"context"
	"strings"
)

type staticProvider struct {
	token string
}

func (p *staticProvider) Token(ctx context.Context) (string, error) {
	return strings.TrimSpace(p.token), nil
}
