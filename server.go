package main

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type serverStats struct {
	active    int64
	queued    int64
	completed int64
	failed    int64
}

// server wires the admission control, the dispatcher and the worker pool
// together. The rate limiter is injected so tests can drive it with a
// controlled clock and production can swap in the Redis backend.
type server struct {
	cfg       Config
	log       *zap.Logger
	limiter   RateLimiter
	flood     *rate.Limiter
	jobQueue  chan *ConversionJob
	stats     serverStats
	startedAt time.Time
}

func newServer(cfg Config, log *zap.Logger, limiter RateLimiter) *server {
	return &server{
		cfg:       cfg,
		log:       log,
		limiter:   limiter,
		flood:     rate.NewLimiter(rate.Limit(cfg.FloodRPS), cfg.FloodBurst),
		jobQueue:  make(chan *ConversionJob, cfg.QueueCapacity),
		startedAt: time.Now(),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/convert/", s.rateLimit(s.handleConvert))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/metrics", s.handleMetrics)
	return mux
}
