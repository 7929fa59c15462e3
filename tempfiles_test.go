package main

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestWorkspaceCreatesInputFile(t *testing.T) {
	base := t.TempDir()
	payload := []byte("fake doc content")

	ws, err := NewWorkspace(base, "job-1", "doc", payload, zap.NewNop())
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	defer ws.Cleanup()

	if want := filepath.Join(base, "job-1", "input.doc"); ws.InputPath != want {
		t.Fatalf("InputPath = %q, want %q", ws.InputPath, want)
	}
	got, err := os.ReadFile(ws.InputPath)
	if err != nil {
		t.Fatalf("reading input file: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("input file content = %q, want %q", got, payload)
	}

	if want := filepath.Join(base, "job-1", "input.odt"); ws.OutputPath("odt") != want {
		t.Fatalf("OutputPath = %q, want %q", ws.OutputPath("odt"), want)
	}
}

func TestWorkspaceCleanupRemovesEverything(t *testing.T) {
	base := t.TempDir()

	ws, err := NewWorkspace(base, "job-2", "xls", []byte("x"), zap.NewNop())
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	// simulate soffice dropping an output file
	if err := os.WriteFile(ws.OutputPath("ods"), []byte("converted"), 0o600); err != nil {
		t.Fatalf("writing fake output: %v", err)
	}

	ws.Cleanup()

	entries, err := os.ReadDir(base)
	if err != nil {
		t.Fatalf("reading base dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("base dir still has %d entries after cleanup", len(entries))
	}

	// second call must be a harmless no-op
	ws.Cleanup()
}

func TestWorkspaceCleanupNilSafe(t *testing.T) {
	var ws *Workspace
	ws.Cleanup()
}
