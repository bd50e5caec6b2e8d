package realflow

const (
	// ToolSetLeadField 每次调用通过 field/value 设置一个线索字段。
	ToolSetLeadField = "Set_Lead_Field"
	// ToolSubmitLead 将 arguments 中的全部键值合并进记录。
	ToolSubmitLead = "Submit_Lead"

	// DefaultRecordsDir 是通话记录的默认存放目录（相对于工作目录）。
	DefaultRecordsDir = "logs/call_logs"
	// DefaultPort 是未配置 PORT 时的监听端口。
	DefaultPort = 8080
	// DefaultListLimit 是列表视图返回的最近记录条数上限。
	DefaultListLimit = 20

	// MaskMarker 是脱敏时替换原文的固定标记。
	MaskMarker = "•••"
)

var leadTools = []string{ToolSetLeadField, ToolSubmitLead}

// LeadTools 返回可识别的工具调用名称。
func LeadTools() []string {
	out := make([]string, len(leadTools))
	copy(out, leadTools)
	return out
}

// IsLeadTool 判断工具名是否为可识别的线索工具，按原样精确比较。
func IsLeadTool(name string) bool {
	for _, n := range leadTools {
		if n == name {
			return true
		}
	}
	return false
}
