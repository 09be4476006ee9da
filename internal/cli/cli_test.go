// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/converse-tui/internal/config"
)

func TestHandleREPLCommandQuit(t *testing.T) {
	for _, cmd := range []string{"/quit", "/exit", "/q", "/QUIT"} {
		if !handleREPLCommand(cmd) {
			t.Errorf("handleREPLCommand(%q) = false, want quit", cmd)
		}
	}
}

func TestHandleREPLCommandNonQuit(t *testing.T) {
	for _, cmd := range []string{"/help", "/h", "/clear", "/bogus"} {
		if handleREPLCommand(cmd) {
			t.Errorf("handleREPLCommand(%q) = true, want to keep running", cmd)
		}
	}
}

func TestHistoryPathInDataDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	config.ResetGlobalForTesting()

	path := historyPath()
	if !strings.HasSuffix(path, "quick_history") {
		t.Errorf("historyPath() = %q, want a quick_history file", path)
	}
}

func TestHistoryPathHonorsDataDirOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	override := t.TempDir()
	t.Setenv("CONVERSE_DATA_DIR", override)
	config.ResetGlobalForTesting()

	if got, want := historyPath(), filepath.Join(override, "quick_history"); got != want {
		t.Errorf("historyPath() = %q, want %q", got, want)
	}
}
