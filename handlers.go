package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleConvert accepts a multipart upload, dispatches it to a conversion
// strategy and streams the converted document back. The conversion itself
// runs on the worker pool; this goroutine only waits for the result.
func (s *server) handleConvert(w http.ResponseWriter, r *http.Request) {
	enableCORS(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "Uploaded file is too large")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	// Dispatch before reading the payload: unsupported uploads are rejected
	// without creating anything on disk.
	route, err := Dispatch(header.Filename)
	if err != nil {
		s.log.Warn("rejected upload", zap.String("file", header.Filename), zap.Error(err))
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Failed to read file: "+err.Error())
		return
	}
	if len(payload) == 0 {
		writeJSONError(w, http.StatusBadRequest, "Uploaded file is empty")
		return
	}

	base, ext := splitName(header.Filename)
	job := &ConversionJob{
		ID:        uuid.New().String(),
		Filename:  header.Filename,
		BaseName:  base,
		Ext:       ext,
		Route:     route,
		Payload:   payload,
		Status:    StatusPending,
		CreatedAt: time.Now(),
		done:      make(chan struct{}),
	}

	select {
	case s.jobQueue <- job:
		atomic.AddInt64(&s.stats.queued, 1)
	default:
		http.Error(w, "Server busy, please try again later.", http.StatusServiceUnavailable)
		return
	}

	select {
	case <-job.done:
	case <-r.Context().Done():
		// client went away; the worker still finishes and cleans up after
		// itself
		return
	}

	if job.Status != StatusCompleted {
		status := http.StatusInternalServerError
		if errors.Is(job.Err, ErrCorruptUpload) {
			status = http.StatusBadRequest
		}
		writeJSONError(w, status, "Conversion failed: "+job.Err.Error())
		return
	}
	if len(job.Result) == 0 {
		writeJSONError(w, http.StatusInternalServerError, "Converted file is empty")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", job.OutputName))
	w.Header().Set("X-Conversion-Status", "success")
	_, _ = w.Write(job.Result)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
