package metrics

// ACTIVITIES is the one kind whose activity-type field genuinely shows
// up under different key spellings depending on endpoint and app
// version (see extract_activity.go). These helpers exist only to serve
// that dual-spelling tolerance; every other kind parses into an
// explicit struct via encoding/json instead.

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func getRaw(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func getFloat(m map[string]any, keys ...string) *float64 {
	v, ok := getRaw(m, keys...)
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	}
	return nil
}

func getInt(m map[string]any, keys ...string) *int64 {
	v, ok := getRaw(m, keys...)
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		i := int64(n)
		return &i
	case int:
		i := int64(n)
		return &i
	}
	return nil
}

func getString(m map[string]any, keys ...string) *string {
	v, ok := getRaw(m, keys...)
	if !ok {
		return nil
	}
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}
