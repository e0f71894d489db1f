package bridge

import (
	"encoding/json"
	"testing"
)

func mustParse(t *testing.T, s string) any {
	t.Helper()
	data, err := parseJSON([]byte(s))
	if err != nil {
		t.Fatalf("parseJSON(%s) error = %v", s, err)
	}
	return data
}

func TestLookup(t *testing.T) {
	data := mustParse(t, `{
		"location": "London",
		"forecast": [
			{"date": "2025-03-03", "min_temp": 10, "max_temp": 18.5},
			{"date": "2025-03-04", "min_temp": 11, "max_temp": 19.5}
		],
		"source": {"name": "City Herald"}
	}`)

	tests := []struct {
		name string
		path []any
		want string
	}{
		{"top-level key", []any{"location"}, "London"},
		{"nested index", []any{"forecast", 1, "date"}, "2025-03-04"},
		{"number as text", []any{"forecast", 0, "max_temp"}, "18.5"},
		{"integer as text", []any{"forecast", 0, "min_temp"}, "10"},
		{"nested object", []any{"source", "name"}, "City Herald"},
		{"missing key", []any{"nope"}, ""},
		{"index out of range", []any{"forecast", 5, "date"}, ""},
		{"negative index", []any{"forecast", -1}, ""},
		{"index into object", []any{"source", 0}, ""},
		{"key into array", []any{"forecast", "date"}, ""},
		{"bad step type", []any{1.5}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(Lookup(data, tt.path...)); got != tt.want {
				t.Errorf("Lookup(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestFindBy(t *testing.T) {
	data := mustParse(t, `[{"id": 4101, "name": "Essay"}, {"id": 4102, "name": "Quiz"}]`)

	if got := String(ByKey(FindBy(data, "id", "4102"), "name")); got != "Quiz" {
		t.Errorf("FindBy(id=4102).name = %q, want Quiz", got)
	}
	if FindBy(data, "id", "9999") != nil {
		t.Error("FindBy for missing id should be nil")
	}
	if FindBy(map[string]any{}, "id", "1") != nil {
		t.Error("FindBy on non-array should be nil")
	}
}

func TestReaders(t *testing.T) {
	tests := []struct {
		name    string
		v       any
		wantF   float64
		wantI   int
		wantB   bool
		wantStr string
	}{
		{"nil", nil, 0, 0, false, ""},
		{"json number", json.Number("42.9"), 42.9, 42, true, "42.9"},
		{"json int", json.Number("12345678901234"), 12345678901234, 12345678901234, true, "12345678901234"},
		{"float", 3.5, 3.5, 3, true, "3.5"},
		{"numeric string", "7.25", 7.25, 7, false, "7.25"},
		{"true", true, 0, 0, true, "true"},
		{"string true", "true", 0, 0, true, "true"},
		{"garbage string", "abc", 0, 0, false, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Float(tt.v); got != tt.wantF {
				t.Errorf("Float() = %v, want %v", got, tt.wantF)
			}
			if got := Int(tt.v); got != tt.wantI {
				t.Errorf("Int() = %v, want %v", got, tt.wantI)
			}
			if got := Bool(tt.v); got != tt.wantB {
				t.Errorf("Bool() = %v, want %v", got, tt.wantB)
			}
			if got := String(tt.v); got != tt.wantStr {
				t.Errorf("String() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestLenAndJSON(t *testing.T) {
	resp := NewResponse(OK, mustParse(t, `{"articles": [1, 2, 3], "meta": {"a": 1}}`))

	if resp.Len("articles") != 3 {
		t.Errorf("Len(articles) = %d, want 3", resp.Len("articles"))
	}
	if resp.Len("meta") != 1 {
		t.Errorf("Len(meta) = %d, want 1", resp.Len("meta"))
	}
	if resp.Len("missing") != 0 {
		t.Error("Len(missing) should be 0")
	}
	if got := ArrayLen(resp.Get("articles")); got != 3 {
		t.Errorf("ArrayLen(articles) = %d, want 3", got)
	}
	if got := ArrayLen(resp.Data); got != 0 {
		t.Errorf("ArrayLen(object) = %d, want 0", got)
	}
	if resp.JSON() != `{"articles":[1,2,3],"meta":{"a":1}}` {
		t.Errorf("JSON() = %s", resp.JSON())
	}
	if (Response{}).JSON() != "" {
		t.Error("JSON() of empty response should be empty")
	}
	if resp.String("meta") != `{"a":1}` {
		t.Errorf("String(meta) = %q", resp.String("meta"))
	}
}
