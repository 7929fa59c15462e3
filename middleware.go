package main

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// clientKey extracts the rate-limit partition key for a request: the first
// X-Forwarded-For hop when the proxy is trusted, else the RemoteAddr host.
func clientKey(r *http.Request, trustXFF bool) string {
	if trustXFF {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// rateLimit gates a handler behind the server-wide flood guard and the
// per-client fixed window. Every admitted or denied request carries the
// X-Rate-Limit-Remaining and X-Rate-Limit-Reset headers.
func (s *server) rateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			// preflight never consumes the client's budget
			next(w, r)
			return
		}

		if !s.flood.Allow() {
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		key := clientKey(r, s.cfg.TrustForwardedFor)
		dec, err := s.limiter.Check(r.Context(), key, time.Now())
		if err != nil {
			// fail open: a broken limiter backend must not take the API down
			s.log.Error("rate limit check failed", zap.String("client", key), zap.Error(err))
			next(w, r)
			return
		}

		w.Header().Set("X-Rate-Limit-Remaining", strconv.Itoa(dec.Remaining))
		w.Header().Set("X-Rate-Limit-Reset", strconv.FormatInt(dec.ResetAt.Unix(), 10))
		if !dec.Allowed {
			s.log.Warn("rate limit exceeded", zap.String("client", key))
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next(w, r)
	}
}

func enableCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}
