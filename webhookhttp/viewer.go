package webhookhttp

import (
	"errors"
	"log"
	"net/http"

	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/logview"
	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/vapiapi"
)

// handleViewRecords 处理 GET /webhook：
//   - 无 call_id：返回最近记录列表
//   - 带 call_id：返回单条记录
//
// 配置了令牌时，在读取任何数据之前先校验 token 查询参数。
func (h *handler) handleViewRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, vapiapi.ErrorResponse{Error: "method not allowed"})
		return
	}

	q := r.URL.Query()
	if err := h.viewer.Authorize(r.Context(), q.Get("token")); err != nil {
		if errors.Is(err, logview.ErrTokenUnavailable) {
			log.Printf("[realflow] read token unavailable: request_id=%s err=%v", requestIDFrom(r), err)
			writeJSON(w, http.StatusServiceUnavailable, vapiapi.ErrorResponse{Error: "auth not available"})
			return
		}
		writeJSON(w, http.StatusUnauthorized, vapiapi.ErrorResponse{Error: "unauthorized"})
		return
	}

	if callID := q.Get("call_id"); callID != "" {
		rec, err := h.viewer.Get(callID)
		if errors.Is(err, logview.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, vapiapi.ErrorResponse{Error: "not found", CallID: callID})
			return
		}
		if err != nil {
			log.Printf("[realflow] load record failed: request_id=%s call_id=%s err=%v", requestIDFrom(r), callID, err)
			writeJSON(w, http.StatusInternalServerError, vapiapi.ErrorResponse{Error: "internal error", Message: err.Error()})
			return
		}
		writePrettyJSON(w, http.StatusOK, rec)
		return
	}

	list, err := h.viewer.Latest()
	if err != nil {
		log.Printf("[realflow] list records failed: request_id=%s err=%v", requestIDFrom(r), err)
		writeJSON(w, http.StatusInternalServerError, vapiapi.ErrorResponse{Error: "internal error", Message: err.Error()})
		return
	}
	writePrettyJSON(w, http.StatusOK, list)
}
