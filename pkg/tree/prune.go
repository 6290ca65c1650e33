package tree

// Prune removes nil values and empty containers from v at every nesting
// level, returning nil when nothing survives. Maps and slices are copied;
// the input is never mutated.
func Prune(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			if p := Prune(val); p != nil {
				out[k] = p
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case map[string]string:
		if len(t) == 0 {
			return nil
		}
		return t
	case []any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			if p := Prune(val); p != nil {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case []string:
		if len(t) == 0 {
			return nil
		}
		return t
	default:
		return v
	}
}

// PruneMap prunes a string-keyed tree, returning nil when the result is empty.
func PruneMap(m map[string]any) map[string]any {
	if p, ok := Prune(m).(map[string]any); ok {
		return p
	}
	return nil
}
