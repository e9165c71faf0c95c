package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/lexora/lexora-server/access"
	"github.com/lexora/lexora-server/ai"
	"github.com/lexora/lexora-server/auth"
	"github.com/lexora/lexora-server/forms"
	"github.com/lexora/lexora-server/internal/config"
	"github.com/lexora/lexora-server/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the HTTP layer exposes.
type Deps struct {
	Auth     *auth.Service
	Forms    *forms.Service
	Files    forms.FileStore // stores uploaded form files; uploads are rejected when nil
	AI       *ai.Service
	Policy   access.Policy
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer // served on /metrics when set
	Database Pinger
}

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	mux     *http.ServeMux
	handler http.Handler
	routes  []string
	config  config.Config

	auth     *auth.Service
	forms    *forms.Service
	files    forms.FileStore
	ai       *ai.Service
	policy   access.Policy
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	database Pinger
	limiter  *RateLimiter
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Auth == nil {
		return nil, errors.New("[Server New] auth service is required")
	}
	if deps.Forms == nil {
		return nil, errors.New("[Server New] forms service is required")
	}
	if deps.AI == nil {
		return nil, errors.New("[Server New] ai service is required")
	}
	if deps.Policy == nil {
		deps.Policy = access.AllowAll()
	}

	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		auth:     deps.Auth,
		forms:    deps.Forms,
		files:    deps.Files,
		ai:       deps.AI,
		policy:   deps.Policy,
		metrics:  deps.Metrics,
		gatherer: deps.Gatherer,
		database: deps.Database,
		limiter: NewRateLimiter(RateLimiterConfig{
			RequestsPerMinute: float64(cfg.GetRateLimitPerMinute()),
			Burst:             cfg.GetRateLimitBurst(),
		}, deps.Metrics),
	}

	s.initRoutes()
	s.logRoutes()

	s.handler = cors.New(cors.Options{
		AllowedOrigins:   cfg.GetAllowedOrigins(),
		AllowedMethods:   cfg.GetAllowedMethods(),
		AllowedHeaders:   cfg.GetAllowedHeaders(),
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(s.mux)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.limiter.Stop()
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			log.Debug().Str("method", parts[0]).Msg(parts[1])
		} else {
			log.Debug().Msg(parts[0])
		}
	}
	log.Info().Int("count", len(s.routes)).Msg("registered routes")
}
