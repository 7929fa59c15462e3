package main

import (
	"net/http"
	"sync/atomic"
	"time"
)

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	enableCORS(w)

	status := "healthy"
	if atomic.LoadInt64(&s.stats.active) > int64(s.cfg.Workers*2) {
		status = "overloaded"
	}

	writeJSON(w, http.StatusOK, HealthStatus{
		Status:        status,
		ActiveJobs:    atomic.LoadInt64(&s.stats.active),
		QueuedJobs:    atomic.LoadInt64(&s.stats.queued),
		CompletedJobs: atomic.LoadInt64(&s.stats.completed),
		FailedJobs:    atomic.LoadInt64(&s.stats.failed),
		Workers:       s.cfg.Workers,
		Uptime:        time.Since(s.startedAt).String(),
	})
}

func (s *server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	enableCORS(w)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"active_jobs":         atomic.LoadInt64(&s.stats.active),
		"queued_jobs":         atomic.LoadInt64(&s.stats.queued),
		"completed_jobs":      atomic.LoadInt64(&s.stats.completed),
		"failed_jobs":         atomic.LoadInt64(&s.stats.failed),
		"workers":             s.cfg.Workers,
		"queue_capacity":      s.cfg.QueueCapacity,
		"rate_limit_requests": s.cfg.RateLimit,
		"rate_limit_window_s": s.cfg.RateWindow.Seconds(),
		"uptime_seconds":      time.Since(s.startedAt).Seconds(),
	})
}
