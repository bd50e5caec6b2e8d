// Package mask 为只读视图对线索中的电话与邮箱做部分脱敏。
package mask

import (
	"strings"

	realflow "github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent"
	"github.com/Muhiyadeen/Real-Flow-Real-Estate-Agent/record"
)

const (
	fieldPhone = "phone"
	fieldEmail = "email"
)

// Masker 按开关决定是否脱敏。零值表示关闭。
type Masker struct {
	Enabled bool
}

func New(enabled bool) *Masker {
	return &Masker{Enabled: enabled}
}

// Mask 返回用于展示的记录，永不修改入参。
// 关闭时原样返回；开启时在深拷贝上处理 call_details.Set_Lead_Field.arguments 的 phone/email。
// 结构不完整时返回原记录与 masked=false，不会让读路径失败。
func (m *Masker) Mask(rec *record.Record) (out *record.Record, masked bool) {
	if m == nil || !m.Enabled || rec == nil {
		return rec, false
	}
	inv := rec.Invocation(realflow.ToolSetLeadField)
	if inv == nil || inv.Arguments == nil {
		return rec, false
	}

	cp := rec.Clone()
	args := cp.CallDetails[realflow.ToolSetLeadField].Arguments
	if v, ok := args[fieldPhone]; ok {
		args[fieldPhone] = Phone(v)
	}
	if v, ok := args[fieldEmail]; ok {
		args[fieldEmail] = Email(v)
	}
	return cp, true
}

// Phone 保留前 2 位与后 2 位；非字符串或少于 5 个字符时整体替换为标记。
func Phone(v any) string {
	s, ok := v.(string)
	if !ok {
		return realflow.MaskMarker
	}
	r := []rune(s)
	if len(r) < 5 {
		return realflow.MaskMarker
	}
	return string(r[:2]) + realflow.MaskMarker + string(r[len(r)-2:])
}

// Email 保留域名；本地部分超过 2 个字符时保留前 2 个，否则整体隐藏。
// 非字符串或不含 "@" 时整体替换为标记。
func Email(v any) string {
	s, ok := v.(string)
	if !ok {
		return realflow.MaskMarker
	}
	local, domain, found := strings.Cut(s, "@")
	if !found {
		return realflow.MaskMarker
	}
	shown := realflow.MaskMarker
	if r := []rune(local); len(r) > 2 {
		shown = string(r[:2]) + realflow.MaskMarker
	}
	return shown + "@" + domain
}
