package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/archsearch/internal/domain/event"
	"github.com/kailas-cloud/archsearch/internal/domain/search/request"
	"github.com/kailas-cloud/archsearch/internal/metrics"
	agenticuc "github.com/kailas-cloud/archsearch/internal/usecase/agentic"
	healthuc "github.com/kailas-cloud/archsearch/internal/usecase/health"
	traditionaluc "github.com/kailas-cloud/archsearch/internal/usecase/traditional"
)

// Chat modes.
const (
	ModeTraditional = "traditional"
	ModeAgentic     = "agentic"
)

const maxChatBodyBytes = 64 << 10

// TraditionalRunner runs the traditional pipeline.
type TraditionalRunner interface {
	Run(ctx context.Context, query string, sink event.Sink) (*traditionaluc.Result, error)
}

// AgenticRunner runs the agentic pipeline.
type AgenticRunner interface {
	Run(ctx context.Context, query string, sink event.Sink) (*agenticuc.Result, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Mode  string `json:"mode"`
	Query string `json:"query"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Options configures the router.
type Options struct {
	APIKeys        []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server serves the chat front end over HTTP.
type Server struct {
	traditional TraditionalRunner
	agentic     AgenticRunner
	health      HealthChecker
	logger      *zap.Logger
}

// NewServer creates a chat server. agentic can be nil when no knowledge agent is configured.
func NewServer(traditional TraditionalRunner, agentic AgenticRunner, health HealthChecker, logger *zap.Logger) *Server {
	return &Server{
		traditional: traditional,
		agentic:     agentic,
		health:      health,
		logger:      logger,
	}
}

// Router wires middleware and routes.
func (s *Server) Router(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(opts.APIKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.With(RateLimitMiddleware(opts.RateLimitRPS, opts.RateLimitBurst)).Post("/api/chat", s.Chat)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeBadRequest, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
	return r
}

// Chat handles POST /api/chat and streams the run as server-sent events.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "query is required")
		return
	}
	if len(req.Query) > request.MaxQueryLength {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "query too long")
		return
	}
	if req.Mode == "" {
		req.Mode = ModeTraditional
	}
	annotate(r.Context(), zap.String("mode", req.Mode), zap.Int("query_length", len(req.Query)))

	switch req.Mode {
	case ModeTraditional:
		s.streamTraditional(w, r, req.Query)
	case ModeAgentic:
		if s.agentic == nil {
			writeError(w, http.StatusBadRequest, ErrorCodeNotConfigured, "agentic mode is not configured")
			return
		}
		s.streamAgentic(w, r, req.Query)
	default:
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "mode must be \"traditional\" or \"agentic\"")
	}
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}
