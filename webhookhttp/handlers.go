package webhookhttp

import (
	"fmt"
	"net/http"
	"strings"

	realflow "github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent"
	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/lead"
	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/logview"
	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/mask"
	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/record"
)

const defaultMaxBodyBytes = 4 << 20

type httpError struct {
	Status  int
	Message string
	Err     error
}

func (e *httpError) Error() string {
	if e == nil {
		return ""
	}
	if strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

func (e *httpError) Unwrap() error { return e.Err }

// HandlerSet 汇总全部路由的 net/http 处理器。
type HandlerSet struct {
	Health         http.HandlerFunc
	Ping           http.HandlerFunc
	ReceiveWebhook http.HandlerFunc
	ViewRecords    http.HandlerFunc
}

// Handlers 根据配置创建处理器；记录目录在此时创建。
func Handlers(cfg Config) (*HandlerSet, error) {
	resolved, err := resolveConfig(cfg)
	if err != nil {
		return nil, err
	}

	store, err := record.NewStore(resolved.RecordsDir)
	if err != nil {
		return nil, err
	}
	merger, err := lead.NewMerger(store, lead.Options{
		StrictLeadFields: resolved.StrictLeadFields,
		SerializeWrites:  resolved.SerializeWrites,
	})
	if err != nil {
		return nil, err
	}
	var token logview.TokenProvider
	if resolved.TokenProvider != nil {
		token = logview.TokenProvider(resolved.TokenProvider)
	}
	viewer, err := logview.New(logview.Config{
		Store:  store,
		Masker: mask.New(resolved.MaskPII),
		Token:  token,
		Limit:  resolved.ListLimit,
	})
	if err != nil {
		return nil, err
	}

	h := &handler{merger: merger, viewer: viewer, maxBodyBytes: resolved.MaxBodyBytes}
	return &HandlerSet{
		Health:         h.handleHealth,
		Ping:           h.handlePing,
		ReceiveWebhook: h.handleReceiveWebhook,
		ViewRecords:    h.handleViewRecords,
	}, nil
}

type handler struct {
	merger       *lead.Merger
	viewer       *logview.Viewer
	maxBodyBytes int64
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Webhook server running ✅"})
}

func (h *handler) handlePing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type resolvedConfig struct {
	BasePath         string
	RecordsDir       string
	TokenProvider    TokenProvider
	MaskPII          bool
	StrictLeadFields bool
	SerializeWrites  bool
	ListLimit        int
	MaxBodyBytes     int64
}

func resolveConfig(cfg Config) (resolvedConfig, error) {
	dir := strings.TrimSpace(cfg.RecordsDir)
	if dir == "" {
		dir = realflow.DefaultRecordsDir
	}

	limit := cfg.ListLimit
	if limit < 0 {
		return resolvedConfig{}, fmt.Errorf("ListLimit must not be negative")
	}
	if limit == 0 {
		limit = realflow.DefaultListLimit
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	return resolvedConfig{
		BasePath:         normalizeBasePath(cfg.BasePath),
		RecordsDir:       dir,
		TokenProvider:    cfg.TokenProvider,
		MaskPII:          cfg.MaskPII,
		StrictLeadFields: cfg.StrictLeadFields,
		SerializeWrites:  cfg.SerializeWrites,
		ListLimit:        limit,
		MaxBodyBytes:     maxBody,
	}, nil
}
