package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Workspace is a per-job scratch directory holding the temporary input file
// and, for subprocess conversions, the file soffice drops next to it.
type Workspace struct {
	Dir       string
	InputPath string
	log       *zap.Logger
}

// NewWorkspace creates <baseDir>/<jobID>/input.<ext> containing the upload.
func NewWorkspace(baseDir, jobID, ext string, payload []byte, log *zap.Logger) (*Workspace, error) {
	dir := filepath.Join(baseDir, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	inputPath := filepath.Join(dir, "input."+ext)
	if err := os.WriteFile(inputPath, payload, 0o600); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("writing temp input: %w", err)
	}

	return &Workspace{Dir: dir, InputPath: inputPath, log: log}, nil
}

// OutputPath is where soffice --outdir places the converted file.
func (w *Workspace) OutputPath(target string) string {
	return filepath.Join(w.Dir, "input."+target)
}

// Cleanup removes the workspace directory. Failures are logged as warnings
// and never surfaced to the client; calling Cleanup twice is a no-op.
func (w *Workspace) Cleanup() {
	if w == nil || w.Dir == "" {
		return
	}
	if err := os.RemoveAll(w.Dir); err != nil {
		w.log.Warn("could not remove temp workspace",
			zap.String("dir", w.Dir), zap.Error(err))
	}
	w.Dir = ""
}
