// Package logview 实现通话记录的只读视图：访问令牌校验、单条查询与最近记录列表。
package logview

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sort"
	"strings"

	realflow "github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent"
	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/mask"
	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/record"
	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/vapiapi"
)

// ISOLayout 是列表视图中 modified_iso 的格式（UTC，秒精度）。
const ISOLayout = "2006-01-02T15:04:05Z"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTokenUnavailable 表示配置了令牌来源但读取失败；此时拒绝访问。
	ErrTokenUnavailable = errors.New("read token not available")
)

// TokenProvider 返回当前要求的读访问令牌；空字符串表示不校验。
type TokenProvider func(ctx context.Context) (string, error)

type Config struct {
	Store *record.Store
	// Masker 为 nil 时不脱敏。
	Masker *mask.Masker
	// Token 为 nil 时不校验令牌。
	Token TokenProvider
	// Limit 列表视图的条数上限，<=0 时使用 realflow.DefaultListLimit。
	Limit int
}

type Viewer struct {
	store  *record.Store
	masker *mask.Masker
	token  TokenProvider
	limit  int
}

func New(cfg Config) (*Viewer, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = realflow.DefaultListLimit
	}
	return &Viewer{
		store:  cfg.Store,
		masker: cfg.Masker,
		token:  cfg.Token,
		limit:  limit,
	}, nil
}

// Authorize 在触碰任何数据之前校验请求携带的令牌。
func (v *Viewer) Authorize(ctx context.Context, presented string) error {
	if v.token == nil {
		return nil
	}
	want, err := v.token(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTokenUnavailable, err)
	}
	want = strings.TrimSpace(want)
	if want == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(want)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Get 返回指定通话的记录（按配置脱敏）。记录不存在或 call_id 非法时返回 ErrNotFound。
func (v *Viewer) Get(callID string) (*record.Record, error) {
	if record.ValidateCallID(callID) != nil {
		return nil, ErrNotFound
	}
	rec, err := v.store.Load(callID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	out, _ := v.masker.Mask(rec)
	return out, nil
}

// Latest 返回按修改时间倒序的最近记录；Count 为全部记录数。
func (v *Viewer) Latest() (*vapiapi.RecordList, error) {
	entries, err := v.store.List()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].ModTime.Equal(entries[j].ModTime) {
			return entries[i].ModTime.After(entries[j].ModTime)
		}
		return entries[i].CallID < entries[j].CallID
	})

	n := len(entries)
	if n > v.limit {
		n = v.limit
	}
	latest := make([]vapiapi.RecordSummary, 0, n)
	for _, e := range entries[:n] {
		latest = append(latest, Summarize(e))
	}
	return &vapiapi.RecordList{Count: len(entries), Latest: latest}, nil
}

// Summarize 将存储元数据转换为列表项，时间戳取整到秒。
func Summarize(e record.Entry) vapiapi.RecordSummary {
	return vapiapi.RecordSummary{
		CallID:      e.CallID,
		Modified:    e.ModTime.Unix(),
		ModifiedISO: e.ModTime.UTC().Format(ISOLayout),
	}
}

// StaticToken 返回固定令牌的 TokenProvider。
func StaticToken(token string) TokenProvider {
	return func(context.Context) (string, error) { return token, nil }
}

