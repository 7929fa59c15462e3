package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// convertWithLibreOffice shells out to soffice for formats the native
// converters cannot read. soffice drops the converted file next to the input
// inside the job workspace.
func convertWithLibreOffice(ctx context.Context, bin string, timeout time.Duration, ws *Workspace, target string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin,
		"--headless",
		"--convert-to", target,
		"--outdir", ws.Dir,
		ws.InputPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("soffice failed: %v | %s", err, strings.TrimSpace(stderr.String()))
	}

	data, err := os.ReadFile(ws.OutputPath(target))
	if err != nil {
		return nil, fmt.Errorf("soffice produced no output file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("soffice produced an empty %s file", target)
	}
	return data, nil
}
