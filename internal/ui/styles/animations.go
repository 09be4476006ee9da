// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "time"

// =============================================================================
// SPINNER FRAME SETS
// =============================================================================

// BrailleSpinner - Smooth braille rotation, the default
var BrailleSpinner = SpinnerConfig{
	Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	FPS:    12,
}

// DotsSpinner - Three dots cycling, used for the typing indicator
var DotsSpinner = SpinnerConfig{
	Frames: []string{"   ", ".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    5,
}

// LineSpinner - ASCII fallback for limited terminals
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    8,
}

// SpinnerConfig describes an animated frame set.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the per-frame duration for the spinner.
func (s SpinnerConfig) Duration() time.Duration {
	return time.Second / time.Duration(s.FPS)
}

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// TypingCursor frames for the blinking input cursor.
var TypingCursor = []string{"_", " "}

// CursorBlinkRate is the cursor blink interval.
var CursorBlinkRate = 530 * time.Millisecond
