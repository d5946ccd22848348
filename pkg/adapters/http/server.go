package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/optionsbot"
	"github.com/aretw0/optionsbot/internal/logging"
	"github.com/aretw0/optionsbot/internal/validator"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/runner"
	"github.com/aretw0/optionsbot/pkg/serialization"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Engine defines what the API needs from the optionsbot core.
type Engine interface {
	Compile(src string) (*optionsbot.Program, error)
	Check(src string) ([]validator.Finding, error)
	Simulate(ctx context.Context, src string, opts ...runner.Option) (*domain.Report, error)
	Report(ctx context.Context, id string) (*domain.Report, error)
}

type envelope = optionsbot.Response[any]

// SourceRequest carries program text.
type SourceRequest struct {
	Source string `json:"source"`
}

// SimulateRequest carries program text plus per-batch settings.
type SimulateRequest struct {
	Source       string             `json:"source"`
	Variables    map[string]float64 `json:"variables,omitempty"`
	KeepOutcomes bool               `json:"keep_outcomes,omitempty"`
}

// CompileResult describes a program that compiled.
type CompileResult struct {
	Variables map[string]float64 `json:"variables"`
	Stages    int                `json:"stages"`
}

// Server holds the HTTP handlers.
type Server struct {
	Engine   Engine
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithGatherer sets the registry served at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine. Requests are validated
// against the embedded OpenAPI document before they reach a handler.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	server := &Server{
		Engine:   engine,
		gatherer: prometheus.DefaultGatherer,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	doc, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	router, err := newRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(RawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(validateRequests(router))
		r.Get("/health", server.GetHealth)
		r.Get("/info", server.GetInfo)
		r.Post("/compile", server.Compile)
		r.Post("/check", server.Check)
		r.Post("/format", server.Format)
		r.Post("/serialize", server.Serialize)
		r.Post("/deserialize", server.Deserialize)
		r.Post("/simulate", server.Simulate)
		r.Get("/reports/{id}", server.GetReport)
	})

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>optionsbot API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "optionsbot-http",
		"version": optionsbot.Version,
	})
}

// Compile handles POST /compile.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	var body SourceRequest
	if !s.decode(w, r, &body) {
		return
	}
	prog, err := s.Engine.Compile(body.Source)
	if err != nil {
		s.fail(w, "Compile", err)
		return
	}

	vars := make(map[string]float64, len(prog.Variables))
	for _, a := range prog.Variables {
		vars[a.Name] = a.Value
	}
	s.ok(w, CompileResult{Variables: vars, Stages: prog.Stages()})
}

// Check handles POST /check.
func (s *Server) Check(w http.ResponseWriter, r *http.Request) {
	var body SourceRequest
	if !s.decode(w, r, &body) {
		return
	}
	findings, err := s.Engine.Check(body.Source)
	if err != nil {
		s.fail(w, "Check", err)
		return
	}
	if findings == nil {
		findings = []validator.Finding{}
	}
	s.ok(w, findings)
}

// Format handles POST /format.
func (s *Server) Format(w http.ResponseWriter, r *http.Request) {
	var body SourceRequest
	if !s.decode(w, r, &body) {
		return
	}
	text, err := optionsbot.Format(body.Source)
	if err != nil {
		s.fail(w, "Format", err)
		return
	}
	s.ok(w, text)
}

// Serialize handles POST /serialize.
func (s *Server) Serialize(w http.ResponseWriter, r *http.Request) {
	var body SourceRequest
	if !s.decode(w, r, &body) {
		return
	}
	doc, err := optionsbot.Serialize(body.Source)
	if err != nil {
		s.fail(w, "Serialize", err)
		return
	}
	s.ok(w, doc)
}

// Deserialize handles POST /deserialize.
func (s *Server) Deserialize(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Errors: []string{"invalid request body"}})
		return
	}
	doc, err := serialization.FromJSON(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Errors: []string{err.Error()}})
		return
	}
	text, err := optionsbot.Deserialize(doc)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Errors: []string{err.Error()}})
		return
	}
	s.ok(w, text)
}

// Simulate handles POST /simulate.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	var (
		trials, workers *int
		seed            *uint64
	)
	query := r.URL.Query()
	for name, dest := range map[string]any{"trials": &trials, "workers": &workers, "seed": &seed} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			writeJSON(w, http.StatusBadRequest, envelope{Errors: []string{fmt.Sprintf("invalid format for parameter %s: %v", name, err)}})
			return
		}
	}

	var body SimulateRequest
	if !s.decode(w, r, &body) {
		return
	}

	var opts []runner.Option
	if trials != nil {
		opts = append(opts, runner.WithTrials(*trials))
	}
	if workers != nil {
		opts = append(opts, runner.WithWorkers(*workers))
	}
	if seed != nil {
		opts = append(opts, runner.WithSeed(*seed))
	}
	if len(body.Variables) > 0 {
		opts = append(opts, runner.WithVariables(body.Variables))
	}
	if body.KeepOutcomes {
		opts = append(opts, runner.WithKeepOutcomes(true))
	}

	report, err := s.Engine.Simulate(r.Context(), body.Source, opts...)
	if err != nil {
		s.fail(w, "Simulate", err)
		return
	}
	s.ok(w, report)
}

// GetReport handles GET /reports/{id}.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	report, err := s.Engine.Report(r.Context(), id)
	if err != nil {
		s.fail(w, "GetReport", err)
		return
	}
	s.ok(w, report)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dest); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Errors: []string{"invalid request body"}})
		s.logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		return false
	}
	return true
}

func (s *Server) ok(w http.ResponseWriter, result any) {
	writeJSON(w, http.StatusOK, optionsbot.Respond(result, nil))
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Debug(op+" rejected", "err", err)
	}
	writeJSON(w, status, optionsbot.Respond[any](nil, err))
}

// statusFor maps core errors to HTTP status codes. Authoring mistakes are the
// caller's fault; anything unrecognized is ours.
func statusFor(err error) int {
	var syn *domain.SyntaxErrors
	switch {
	case errors.As(err, &syn),
		errors.Is(err, domain.ErrProbabilityOverflow),
		errors.Is(err, domain.ErrMultipleElse),
		errors.Is(err, domain.ErrMissingVariable),
		errors.Is(err, domain.ErrInvalidTrials):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrReportNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
