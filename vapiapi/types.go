package vapiapi

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
)

// ==================== 入站载荷 ====================

// WebhookPayload 是 POST /webhook 的请求体。
// 工具调用列表可能出现在三个位置，按优先级依次为：
// message.toolCalls、toolCallList、toolWithToolCallList。
type WebhookPayload struct {
	Message              *Message        `json:"message,omitempty"`
	ToolCallList         json.RawMessage `json:"toolCallList,omitempty"`
	ToolWithToolCallList json.RawMessage `json:"toolWithToolCallList,omitempty"`
}

// Message 对应载荷中的 message 对象。
type Message struct {
	Type      *string         `json:"type,omitempty"`
	Call      *Call           `json:"call,omitempty"`
	ToolCalls json.RawMessage `json:"toolCalls,omitempty"`
}

// Call 对应 message.call，ID 即 call_id。
type Call struct {
	ID *string `json:"id,omitempty"`
}

// ToolCall 是工具调用事件。toolWithToolCallList 的元素额外带有嵌套的 toolCall。
type ToolCall struct {
	ID       *string       `json:"id,omitempty"`
	Type     *string       `json:"type,omitempty"`
	Function *FunctionCall `json:"function,omitempty"`
	ToolCall *ToolCall     `json:"toolCall,omitempty"`
}

// FunctionCall 描述被调用的函数。Arguments 可能是 JSON 对象，也可能是 JSON 编码后的字符串。
type FunctionCall struct {
	Name      *string         `json:"name,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// DecodeWebhookPayload 严格解析请求体：数字保留为 json.Number，避免长电话号码丢失精度。
func DecodeWebhookPayload(data []byte) (*WebhookPayload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload WebhookPayload
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CallID 返回 message.call.id；任一层缺失或为空时 ok=false。
func (p *WebhookPayload) CallID() (id string, ok bool) {
	if p == nil || p.Message == nil || p.Message.Call == nil || p.Message.Call.ID == nil {
		return "", false
	}
	if *p.Message.Call.ID == "" {
		return "", false
	}
	return *p.Message.Call.ID, true
}

// ToolCallsRaw 按优先级返回第一个出现的工具调用列表原文；三处都没有时 ok=false。
// 键存在即视为命中（即使值为 null 或空数组），与后续位置无关。
func (p *WebhookPayload) ToolCallsRaw() (raw json.RawMessage, ok bool) {
	if p == nil {
		return nil, false
	}
	if p.Message != nil && len(p.Message.ToolCalls) > 0 {
		return p.Message.ToolCalls, true
	}
	if len(p.ToolCallList) > 0 {
		return p.ToolCallList, true
	}
	if len(p.ToolWithToolCallList) > 0 {
		return p.ToolWithToolCallList, true
	}
	return nil, false
}

// ==================== 对外响应 ====================

// WebhookAck 是 POST /webhook 成功与失败时的响应体。
type WebhookAck struct {
	Status  string `json:"status"`
	CallID  string `json:"call_id,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse 是只读接口的错误响应体。
type ErrorResponse struct {
	Error   string `json:"error"`
	CallID  string `json:"call_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// RecordSummary 是列表视图中的单条记录元数据。
type RecordSummary struct {
	CallID      string `json:"call_id"`
	Modified    int64  `json:"modified"`
	ModifiedISO string `json:"modified_iso"`
}

// RecordList 是 GET /webhook 列表视图的响应体。Count 为全部记录数，Latest 已按上限截断。
type RecordList struct {
	Count  int             `json:"count"`
	Latest []RecordSummary `json:"latest"`
}

// ==================== 辅助函数 ====================

// NewRequestID 生成请求 ID。
func NewRequestID() string {
	return "req_" + uuid.NewString()
}
