package lead

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/vapiapi"
	"github.com/cloudwego/eino/schema"
)

// ExtractToolCalls 按优先级取出第一个出现的工具调用列表，并规范化为 schema.ToolCall。
// 按键是否存在选定位置；选中的值为空数组、null 或不是数组时 found=false，
// 不会继续尝试后面的位置。单个元素无法解析时只跳过该元素。
func ExtractToolCalls(payload *vapiapi.WebhookPayload) (calls []schema.ToolCall, found bool) {
	raw, ok := payload.ToolCallsRaw()
	if !ok {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, false
	}

	calls = make([]schema.ToolCall, 0, len(items))
	for _, item := range items {
		dec := json.NewDecoder(bytes.NewReader(item))
		dec.UseNumber()
		var tc vapiapi.ToolCall
		if err := dec.Decode(&tc); err != nil {
			continue
		}
		calls = append(calls, toSchemaToolCall(&tc))
	}
	return calls, true
}

func toSchemaToolCall(tc *vapiapi.ToolCall) schema.ToolCall {
	fn := tc.Function
	// toolWithToolCallList 的元素里，function 是工具定义，实际参数在嵌套的 toolCall.function 中
	if tc.ToolCall != nil && tc.ToolCall.Function != nil && len(tc.ToolCall.Function.Arguments) > 0 {
		fn = tc.ToolCall.Function
	}

	out := schema.ToolCall{ID: firstNonEmpty(deref(tc.ID), nestedID(tc))}
	if fn == nil {
		return out
	}
	out.Function = schema.FunctionCall{
		Name:      deref(fn.Name),
		Arguments: argumentsText(fn.Arguments),
	}
	return out
}

// argumentsText 将 arguments 统一为 JSON 文本：字符串形式解包一次，对象形式保留原文，缺失时为 "{}"。
func argumentsText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "{}"
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}

// DecodeArguments 解析 arguments 文本。只接受 JSON 对象，其它情况 ok=false，由调用方跳过该事件。
func DecodeArguments(text string) (args map[string]any, ok bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	if err := dec.Decode(&args); err != nil || args == nil {
		return nil, false
	}
	// 不允许尾随内容，例如 `{"a":1} x`
	if dec.More() {
		return nil, false
	}
	return args, true
}

func nestedID(tc *vapiapi.ToolCall) string {
	if tc.ToolCall == nil {
		return ""
	}
	return deref(tc.ToolCall.ID)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
