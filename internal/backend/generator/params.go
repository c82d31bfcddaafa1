package generator

// GetFloatParam safely extracts a float parameter from the params map.
// YAML decodes whole numbers as int, so both int and float inputs are accepted.
func GetFloatParam(params map[string]any, key string, defaultValue float64) float64 {
	if val, ok := params[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		case int64:
			return float64(v)
		}
	}
	return defaultValue
}
