// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}
}

func TestLayoutMode(t *testing.T) {
	tests := []struct {
		name  string
		width int
		want  LayoutMode
	}{
		{"very narrow", 40, LayoutNarrow},
		{"boundary narrow", 59, LayoutNarrow},
		{"medium", 60, LayoutMedium},
		{"boundary medium", 99, LayoutMedium},
		{"wide", 100, LayoutWide},
		{"very wide", 200, LayoutWide},
	}

	theme := NewTheme()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme.SetSize(tt.width, 40)
			if got := theme.GetLayoutMode(); got != tt.want {
				t.Errorf("GetLayoutMode() with width %d = %v, want %v", tt.width, got, tt.want)
			}
		})
	}
}

func TestSetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("SetSize did not store dimensions: got %dx%d", theme.Width, theme.Height)
	}
}

func TestStatusIndicatorsAreASCII(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Pending,
		StatusIndicators.Active,
	}
	for _, ind := range indicators {
		for _, r := range ind {
			if r > 127 {
				t.Errorf("indicator %q contains non-ASCII rune %q", ind, r)
			}
		}
	}
}

func TestRenderStatusIncludesIndicator(t *testing.T) {
	out := RenderStatus(true, "saved")
	if !strings.Contains(out, StatusIndicators.Success) {
		t.Errorf("success status missing indicator: %q", out)
	}
	if !strings.Contains(out, "saved") {
		t.Errorf("success status missing message: %q", out)
	}

	out = RenderStatus(false, "failed")
	if !strings.Contains(out, StatusIndicators.Error) {
		t.Errorf("error status missing indicator: %q", out)
	}
}

func TestSpinnerDuration(t *testing.T) {
	if BrailleSpinner.Duration() <= 0 {
		t.Error("BrailleSpinner duration must be positive")
	}
	if DotsSpinner.Duration() <= BrailleSpinner.Duration() {
		t.Error("DotsSpinner should be slower than BrailleSpinner")
	}
}

func TestStrengthStyle(t *testing.T) {
	theme := NewTheme()
	for _, label := range []string{"Weak", "Fair", "Good", "Strong", "unknown"} {
		// Must not panic and must return a usable style
		_ = theme.StrengthStyle(label).Render(label)
	}
}
