package server

import (
	"net"
	"net/http"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/lexora/lexora-server/internal/metrics"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds configuration for the per-client rate limiter
type RateLimiterConfig struct {
	// RequestsPerMinute defines the rate at which tokens are replenished
	RequestsPerMinute float64
	// Burst defines the maximum number of requests that can be made in a burst
	Burst int
	// LimiterTTL defines how long an idle client's limiter is kept
	LimiterTTL time.Duration
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	config   RateLimiterConfig
	limiters *ttlcache.Cache[string, *rate.Limiter]
	metrics  *metrics.Metrics
}

func NewRateLimiter(config RateLimiterConfig, m *metrics.Metrics) *RateLimiter {
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 30
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}
	if config.LimiterTTL <= 0 {
		config.LimiterTTL = 10 * time.Minute
	}

	rl := &RateLimiter{
		config:   config,
		limiters: ttlcache.New[string, *rate.Limiter](ttlcache.WithTTL[string, *rate.Limiter](config.LimiterTTL)),
		metrics:  m,
	}
	go rl.limiters.Start()
	return rl
}

// Allow checks if a request for the given key is allowed
func (rl *RateLimiter) Allow(key string) bool {
	limiter := rate.NewLimiter(rate.Limit(rl.config.RequestsPerMinute/60.0), rl.config.Burst)
	item, _ := rl.limiters.GetOrSet(key, limiter)
	return item.Value().Allow()
}

// Stop stops the expiry goroutine
func (rl *RateLimiter) Stop() {
	rl.limiters.Stop()
}

// Middleware rate limits requests by client IP and answers 429 when exceeded.
func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			rl.metrics.RateLimited()
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Error: "Too many authentication attempts, please try again later",
				Code:  "RATE_LIMITED",
			})
			return
		}
		next(w, r)
	}
}

// clientIP uses the connection address. Forwarded headers are not trusted.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
