package main

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Port:             "0",
		RateLimit:        10,
		RateWindow:       time.Minute,
		FloodRPS:         1000,
		FloodBurst:       1000,
		Workers:          2,
		QueueCapacity:    16,
		SofficeBin:       "soffice",
		ConvertTimeout:   time.Minute,
		TempDir:          t.TempDir(),
		MaxUploadBytes:   10 << 20,
		RateLimitBackend: "memory",
		ShutdownTimeout:  time.Second,
	}
}

// newTestServer builds a server with running workers and an in-memory
// limiter. Mutators adjust the config before wiring.
func newTestServer(t *testing.T, mutate ...func(*Config)) *server {
	t.Helper()
	cfg := testConfig(t)
	for _, m := range mutate {
		m(&cfg)
	}

	s := newServer(cfg, zap.NewNop(), NewMemoryLimiter(cfg.RateLimit, cfg.RateWindow))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	s.startWorkers(ctx)
	return s
}

// buildXLSX produces a real workbook in memory.
func buildXLSX(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetCellValue("Sheet1", name, cell); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// buildDocx produces a minimal OOXML word document with the given paragraphs.
func buildDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		fmt.Fprintf(&body, `<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, p)
	}
	body.WriteString(`</w:body></w:document>`)
	return buildZip(t, map[string]string{"word/document.xml": body.String()})
}

// buildPptx produces a minimal OOXML presentation, one slide per entry.
func buildPptx(t *testing.T, slides [][]string) []byte {
	t.Helper()
	entries := make(map[string]string, len(slides))
	for i, texts := range slides {
		var slide bytes.Buffer
		slide.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
		slide.WriteString(`<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`)
		slide.WriteString(` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><p:cSld><p:spTree>`)
		for _, text := range texts {
			fmt.Fprintf(&slide, `<p:sp><p:txBody><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`, text)
		}
		slide.WriteString(`</p:spTree></p:cSld></p:sld>`)
		entries[fmt.Sprintf("ppt/slides/slide%d.xml", i+1)] = slide.String()
	}
	return buildZip(t, entries)
}

// readODFEntry pulls one entry out of a generated OpenDocument package.
func readODFEntry(t *testing.T, pkg []byte, name string) []byte {
	t.Helper()
	data, err := zipPart(pkg, name)
	if err != nil {
		t.Fatalf("reading %s from package: %v", name, err)
	}
	return data
}
