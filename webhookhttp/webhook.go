package webhookhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/lead"
	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/record"
	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/vapiapi"
)

const (
	statusReceived   = "webhook received"
	statusBadRequest = "bad request"
	statusInvalid    = "invalid payload"
	statusError      = "error"
)

// handleReceiveWebhook 处理 POST /webhook：解析载荷 → 合并工具调用 → 落盘。
// 所有错误都在此转换为 JSON 响应，不会向上传播。
func (h *handler) handleReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	reqID := requestIDFrom(r)
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[realflow] /webhook panic: request_id=%s err=%v", reqID, p)
			writeJSON(w, http.StatusInternalServerError, vapiapi.WebhookAck{Status: statusError, Message: fmt.Sprint(p)})
		}
	}()

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, vapiapi.WebhookAck{Status: statusBadRequest, Reason: "method not allowed"})
		return
	}

	callID, err := h.receive(w, r)
	if err != nil {
		var he *httpError
		if !errors.As(err, &he) {
			he = &httpError{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
		}
		switch he.Status {
		case http.StatusInternalServerError:
			log.Printf("[realflow] /webhook error: request_id=%s err=%v", reqID, he.Err)
			writeJSON(w, he.Status, vapiapi.WebhookAck{Status: statusError, Message: he.Error()})
		default:
			log.Printf("[realflow] /webhook rejected: request_id=%s status=%d reason=%s", reqID, he.Status, he.Error())
			writeJSON(w, he.Status, ackForRejection(he))
		}
		return
	}

	log.Printf("[realflow] updated record: request_id=%s call_id=%s", reqID, callID)
	writeJSON(w, http.StatusOK, vapiapi.WebhookAck{Status: statusReceived, CallID: callID})
}

func (h *handler) receive(w http.ResponseWriter, r *http.Request) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", &httpError{Status: http.StatusRequestEntityTooLarge, Message: "body too large", Err: err}
		}
		return "", &httpError{Status: http.StatusBadRequest, Message: "invalid json", Err: err}
	}
	if !json.Valid(body) {
		return "", &httpError{Status: http.StatusBadRequest, Message: "invalid json"}
	}

	payload, err := vapiapi.DecodeWebhookPayload(body)
	if err != nil {
		return "", &httpError{Status: http.StatusBadRequest, Message: statusInvalid, Err: err}
	}

	res, ok, err := h.merger.Merge(r.Context(), payload)
	switch {
	case errors.Is(err, record.ErrInvalidCallID), errors.Is(err, lead.ErrIncompleteLeadField):
		return "", &httpError{Status: http.StatusBadRequest, Message: err.Error(), Err: err}
	case err != nil:
		return "", err
	case !ok:
		return "", &httpError{Status: http.StatusBadRequest, Message: "no call_id"}
	case !res.ToolCallsFound:
		return "", &httpError{Status: http.StatusBadRequest, Message: "no tool calls"}
	}
	return res.Record.CallID, nil
}

func ackForRejection(he *httpError) vapiapi.WebhookAck {
	switch he.Message {
	case "invalid json", "body too large":
		return vapiapi.WebhookAck{Status: statusBadRequest, Reason: he.Message}
	case statusInvalid:
		return vapiapi.WebhookAck{Status: statusInvalid}
	default:
		return vapiapi.WebhookAck{Status: statusInvalid, Reason: he.Message}
	}
}
