package generator

import "testing"

func TestGetFloatParam(t *testing.T) {
	params := map[string]any{
		"float":  2.5,
		"int":    3,
		"int64":  int64(4),
		"string": "5",
	}
	testCases := []struct {
		key  string
		want float64
	}{
		{"float", 2.5},
		{"int", 3},
		{"int64", 4},
		{"string", -1},
		{"missing", -1},
	}
	for _, tc := range testCases {
		if got := GetFloatParam(params, tc.key, -1); got != tc.want {
			t.Errorf("GetFloatParam(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}
