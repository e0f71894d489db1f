package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func init() {
	DisableStyling()
}

func TestResultRender(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("Device registered", Detail{"Device ID", "AABBCC112233"}),
			want:   []string{"SUCCESS", "Device registered", "Device ID:", "AABBCC112233"},
		},
		{
			name:   "failure",
			result: NewFailureResult("Registration failed", errors.New("boom"), []string{"Check the URL"}),
			want:   []string{"FAILED", "Error: boom", "Troubleshooting:", "• Check the URL"},
		},
		{
			name:   "warning",
			result: NewWarningResult("Not registered").AddDetail("API key", "(none)"),
			want:   []string{"WARNING", "Not registered", "API key:", "(none)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(80).Render()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("render missing %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestDetailsKeepOrder(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf).SetWidth(80)
	p.PrintTable(Detail{"zeta", "1"}, Detail{"alpha", "2"}, Detail{"mid", "3"})

	out := buf.String()
	if !(strings.Index(out, "zeta") < strings.Index(out, "alpha") && strings.Index(out, "alpha") < strings.Index(out, "mid")) {
		t.Errorf("details out of order:\n%s", out)
	}
}

func TestPrinterHeader(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).SetWidth(70).PrintHeader("Device status", "inkbridge status")

	out := buf.String()
	if !strings.Contains(out, "DEVICE STATUS") || !strings.Contains(out, "inkbridge status") {
		t.Errorf("header = %q", out)
	}
}

func TestHintLines(t *testing.T) {
	hint := "The backend could not be reached.\nTroubleshooting:\n  • Verify the URL\n  • Check DNS"
	summary, tips := HintLines(hint)

	if summary != "The backend could not be reached." {
		t.Errorf("summary = %q", summary)
	}
	if len(tips) != 2 || tips[0] != "Verify the URL" || tips[1] != "Check DNS" {
		t.Errorf("tips = %q", tips)
	}

	summary, tips = HintLines("Single line hint.")
	if summary != "Single line hint." || tips != nil {
		t.Errorf("single line = %q, %q", summary, tips)
	}
}
