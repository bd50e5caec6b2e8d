// Package lead 将 webhook 载荷中的线索工具调用合并进按通话累积的记录。
package lead

import (
	"context"
	"errors"
	"fmt"
	"log"

	realflow "github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent"
	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/record"
	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/vapiapi"
	"github.com/cloudwego/eino/schema"
)

const (
	argField = "field"
	argValue = "value"
)

// ErrIncompleteLeadField 仅在 StrictLeadFields 开启时返回：Set_Lead_Field 缺少 field 或 value。
var ErrIncompleteLeadField = errors.New("Set_Lead_Field requires both field and value")

// Options 控制合并行为。
type Options struct {
	// StrictLeadFields 为 true 时，缺少 field/value 的 Set_Lead_Field 会使整个请求失败且不落盘；
	// 默认静默跳过该事件。
	StrictLeadFields bool
	// SerializeWrites 为 true 时，同一 call_id 的读改写周期串行执行。
	SerializeWrites bool
}

// Result 是一次合并的结果。
type Result struct {
	Record *record.Record
	// ToolCallsFound 为 false 表示载荷里没有可用的工具调用列表（缺失、空数组、null 或非数组），此时 Record 未被修改也未落盘。
	ToolCallsFound bool
	Applied        int
	Skipped        int
}

// Merger 负责载入或新建记录、合并工具调用并落盘。
type Merger struct {
	store *record.Store
	opts  Options
}

func NewMerger(store *record.Store, opts Options) (*Merger, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	return &Merger{store: store, opts: opts}, nil
}

// Merge 处理一次 webhook 载荷。
// 缺少 call_id 时返回 ok=false 且不触碰存储；这是正常的“不适用”结果，不是错误。
func (m *Merger) Merge(ctx context.Context, payload *vapiapi.WebhookPayload) (res *Result, ok bool, err error) {
	callID, ok := payload.CallID()
	if !ok {
		return nil, false, nil
	}
	if err := record.ValidateCallID(callID); err != nil {
		return nil, true, fmt.Errorf("%w: %q", err, callID)
	}

	if m.opts.SerializeWrites {
		unlock := m.store.Lock(callID)
		defer unlock()
	}

	rec, err := m.store.Load(callID)
	if err != nil {
		return nil, true, err
	}
	if rec == nil {
		rec = record.New(callID)
	}

	calls, found := ExtractToolCalls(payload)
	if !found {
		return &Result{Record: rec}, true, nil
	}

	applied, skipped, err := Apply(rec, calls, m.opts)
	if err != nil {
		return nil, true, err
	}

	if err := ctx.Err(); err != nil {
		return nil, true, err
	}
	if err := m.store.Save(rec); err != nil {
		return nil, true, err
	}
	return &Result{Record: rec, ToolCallsFound: true, Applied: applied, Skipped: skipped}, true, nil
}

// Apply 将工具调用依次折叠进 rec，后到的值覆盖先前同名字段，已有字段不会被删除。
// 名称不可识别或参数无法解析的事件计入 skipped。
func Apply(rec *record.Record, calls []schema.ToolCall, opts Options) (applied, skipped int, err error) {
	for _, call := range calls {
		name := call.Function.Name
		if !realflow.IsLeadTool(name) {
			log.Printf("[realflow] skip unrecognized tool call: call_id=%s tool_call_id=%s tool=%q", rec.CallID, call.ID, name)
			skipped++
			continue
		}
		args, ok := DecodeArguments(call.Function.Arguments)
		if !ok {
			log.Printf("[realflow] skip tool call with undecodable arguments: call_id=%s tool_call_id=%s tool=%s", rec.CallID, call.ID, name)
			skipped++
			continue
		}

		switch name {
		case realflow.ToolSetLeadField:
			field, hasField := args[argField]
			value, hasValue := args[argValue]
			if !hasField || !hasValue {
				if opts.StrictLeadFields {
					return applied, skipped, ErrIncompleteLeadField
				}
				log.Printf("[realflow] skip incomplete %s: call_id=%s tool_call_id=%s", name, rec.CallID, call.ID)
				skipped++
				continue
			}
			key, ok := fieldKey(field)
			if !ok {
				if opts.StrictLeadFields {
					return applied, skipped, fmt.Errorf("%w: field must be a string or number", ErrIncompleteLeadField)
				}
				skipped++
				continue
			}
			rec.EnsureInvocation(name).Arguments[key] = value
		case realflow.ToolSubmitLead:
			inv := rec.EnsureInvocation(name)
			for k, v := range args {
				inv.Arguments[k] = v
			}
		}
		applied++
	}
	return applied, skipped, nil
}

// fieldKey 将 field 转为 map key；字符串原样使用，数字按其 JSON 文本。
func fieldKey(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case fmt.Stringer:
		return t.String(), true
	default:
		return "", false
	}
}
