package record

// Record 是按 call_id 持久化的累积状态，一个通话对应一个文件。
type Record struct {
	CallID      string                 `json:"call_id"`
	CallDetails map[string]*Invocation `json:"call_details"`
}

// Invocation 记录某个工具名在整个通话期间累积的参数。
type Invocation struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// New 创建一条空记录。
func New(callID string) *Record {
	return &Record{CallID: callID, CallDetails: map[string]*Invocation{}}
}

// Invocation 返回指定工具名的调用记录，不存在时返回 nil。
func (r *Record) Invocation(name string) *Invocation {
	if r == nil || r.CallDetails == nil {
		return nil
	}
	return r.CallDetails[name]
}

// EnsureInvocation 返回指定工具名的调用记录，不存在时创建。
func (r *Record) EnsureInvocation(name string) *Invocation {
	if r.CallDetails == nil {
		r.CallDetails = map[string]*Invocation{}
	}
	inv := r.CallDetails[name]
	if inv == nil {
		inv = &Invocation{Name: name, Arguments: map[string]any{}}
		r.CallDetails[name] = inv
	}
	if inv.Arguments == nil {
		inv.Arguments = map[string]any{}
	}
	return inv
}

// Clone 深拷贝记录，返回值与原记录不共享任何 map/slice。
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := &Record{CallID: r.CallID}
	if r.CallDetails != nil {
		out.CallDetails = make(map[string]*Invocation, len(r.CallDetails))
		for k, inv := range r.CallDetails {
			if inv == nil {
				out.CallDetails[k] = nil
				continue
			}
			out.CallDetails[k] = &Invocation{
				Name:      inv.Name,
				Arguments: cloneMap(inv.Arguments),
			}
		}
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
