package bridge

import (
	"encoding/json"
	"math"
	"strconv"
)

// Lookup walks data along path. A string step indexes an object and an int step indexes
// an array. Any missing step yields nil.
func Lookup(data any, path ...any) any {
	cur := data
	for _, step := range path {
		switch s := step.(type) {
		case string:
			cur = ByKey(cur, s)
		case int:
			cur = ByIndex(cur, s)
		default:
			return nil
		}
		if cur == nil {
			return nil
		}
	}
	return cur
}

// ByKey returns obj[key] when obj is a JSON object.
func ByKey(obj any, key string) any {
	m, ok := obj.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

// ByIndex returns arr[i] when arr is a JSON array and i is in range.
func ByIndex(arr any, i int) any {
	a, ok := arr.([]any)
	if !ok || i < 0 || i >= len(a) {
		return nil
	}
	return a[i]
}

// FindBy returns the first element of arr whose field equals value when both are read
// as strings.
func FindBy(arr any, field, value string) any {
	a, ok := arr.([]any)
	if !ok {
		return nil
	}
	for _, el := range a {
		if String(ByKey(el, field)) == value {
			return el
		}
	}
	return nil
}

// String renders a JSON value as text. Objects and arrays are re-encoded.
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		out, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(out)
	}
}

// Float reads a JSON number, or a string holding one.
func Float(v any) float64 {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return f
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Int reads a JSON number truncated toward zero.
func Int(v any) int {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	f := Float(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// Bool reads a JSON boolean. The strings "true" and "1" and non-zero numbers are true.
func Bool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	case nil:
		return false
	default:
		return Float(t) != 0
	}
}

// Len returns the length of a JSON array or object, else 0.
func Len(v any) int {
	switch t := v.(type) {
	case []any:
		return len(t)
	case map[string]any:
		return len(t)
	default:
		return 0
	}
}

// ArrayLen returns the length of a JSON array. Objects and scalars count as 0.
func ArrayLen(v any) int {
	arr, _ := v.([]any)
	return len(arr)
}
