package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/optionsbot"
	"github.com/aretw0/optionsbot/internal/logging"
	"github.com/aretw0/optionsbot/internal/presentation/graph"
	"github.com/aretw0/optionsbot/internal/validator"
	"github.com/aretw0/optionsbot/pkg/domain"
	"github.com/aretw0/optionsbot/pkg/runner"
	"github.com/aretw0/optionsbot/pkg/schema"
	"github.com/aretw0/optionsbot/pkg/serialization"
)

// Engine defines what the MCP server needs from the optionsbot core.
type Engine interface {
	Compile(src string) (*optionsbot.Program, error)
	Check(src string) ([]validator.Finding, error)
	Simulate(ctx context.Context, src string, opts ...runner.Option) (*domain.Report, error)
	Scenarios(ctx context.Context) ([]string, error)
	Scenario(ctx context.Context, name string) (*domain.Scenario, error)
}

// SourceArgs is the argument of every tool that takes program text.
type SourceArgs struct {
	Source string `json:"source"`
}

// DocumentArgs carries a structured document as JSON text.
type DocumentArgs struct {
	Document string `json:"document"`
}

// SimulateArgs configures one batch.
type SimulateArgs struct {
	Source    string             `json:"source"`
	Scenario  string             `json:"scenario"`
	Trials    int                `json:"trials"`
	Seed      *uint64            `json:"seed"`
	Variables map[string]float64 `json:"variables"`
}

// Server wraps the optionsbot Engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("optionsbot-mcp", strings.TrimSpace(optionsbot.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, mainly for tests.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sourceParam := mcp.WithString("source", mcp.Required(), mcp.Description("Program text, e.g. [totalGrant=100 ...]{c_0.5: ipo(1 - 2 share) | c_else: fail()}"))

	s.mcpServer.AddTool(mcp.NewTool("compile",
		mcp.WithDescription("Compile a program and report its header and number of decision points."),
		sourceParam,
	), mcp.NewStructuredToolHandler(s.handleCompile))

	s.mcpServer.AddTool(mcp.NewTool("check",
		mcp.WithDescription("Compile a program and list header values out of range, unreachable branches and reversed ranges."),
		sourceParam,
	), mcp.NewStructuredToolHandler(s.handleCheck))

	s.mcpServer.AddTool(mcp.NewTool("format",
		mcp.WithDescription("Render a program in canonical form."),
		sourceParam,
	), mcp.NewStructuredToolHandler(s.handleFormat))

	s.mcpServer.AddTool(mcp.NewTool("serialize",
		mcp.WithDescription("Convert a program into its structured stage list."),
		sourceParam,
	), mcp.NewStructuredToolHandler(s.handleSerialize))

	s.mcpServer.AddTool(mcp.NewTool("deserialize",
		mcp.WithDescription("Convert a structured stage list back into program text."),
		mcp.WithString("document", mcp.Required(), mcp.Description("The structured document as JSON")),
	), mcp.NewStructuredToolHandler(s.handleDeserialize))

	s.mcpServer.AddTool(mcp.NewTool("graph",
		mcp.WithDescription("Draw the decision tree of a program as a Mermaid flowchart."),
		sourceParam,
	), mcp.NewStructuredToolHandler(s.handleGraph))

	s.mcpServer.AddTool(mcp.NewTool("simulate",
		mcp.WithDescription("Run a Monte Carlo batch and summarize the profit distribution. Give either source or scenario."),
		mcp.WithString("source", mcp.Description("Program text")),
		mcp.WithString("scenario", mcp.Description("Name of a library scenario to run instead of source")),
		mcp.WithNumber("trials", mcp.Description("Number of trials (default 10000)")),
		mcp.WithNumber("seed", mcp.Description("Fixed seed for a reproducible batch")),
		mcp.WithObject("variables", mcp.Description("Header overrides, e.g. {\"totalGrant\": 400}")),
	), mcp.NewStructuredToolHandler(s.handleSimulate))

	s.mcpServer.AddTool(mcp.NewTool("list_scenarios",
		mcp.WithDescription("List the named scenarios in the library."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := s.engine.Scenarios(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(names)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools. Authoring errors are part of the
// response, not tool failures.

func (s *Server) handleCompile(ctx context.Context, request mcp.CallToolRequest, args SourceArgs) (optionsbot.Response[map[string]any], error) {
	prog, err := s.engine.Compile(args.Source)
	if err != nil {
		return optionsbot.Respond[map[string]any](nil, err), nil
	}
	vars := make(map[string]float64, len(prog.Variables))
	for _, a := range prog.Variables {
		vars[a.Name] = a.Value
	}
	return optionsbot.Respond(map[string]any{"variables": vars, "stages": prog.Stages()}, nil), nil
}

func (s *Server) handleCheck(ctx context.Context, request mcp.CallToolRequest, args SourceArgs) (optionsbot.Response[[]string], error) {
	findings, err := s.engine.Check(args.Source)
	if err != nil {
		return optionsbot.Respond[[]string](nil, err), nil
	}
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.String()
	}
	return optionsbot.Respond(out, nil), nil
}

func (s *Server) handleFormat(ctx context.Context, request mcp.CallToolRequest, args SourceArgs) (optionsbot.Response[string], error) {
	return optionsbot.Respond(optionsbot.Format(args.Source)), nil
}

func (s *Server) handleSerialize(ctx context.Context, request mcp.CallToolRequest, args SourceArgs) (optionsbot.Response[*serialization.Document], error) {
	return optionsbot.Respond(optionsbot.Serialize(args.Source)), nil
}

func (s *Server) handleDeserialize(ctx context.Context, request mcp.CallToolRequest, args DocumentArgs) (optionsbot.Response[string], error) {
	doc, err := serialization.FromJSON([]byte(args.Document))
	if err != nil {
		return optionsbot.Respond("", err), nil
	}
	return optionsbot.Respond(optionsbot.Deserialize(doc)), nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest, args SourceArgs) (optionsbot.Response[string], error) {
	prog, err := optionsbot.Parse(args.Source)
	if err != nil {
		return optionsbot.Respond("", err), nil
	}
	return optionsbot.Respond(graph.GenerateMermaid(prog), nil), nil
}

func (s *Server) handleSimulate(ctx context.Context, request mcp.CallToolRequest, args SimulateArgs) (optionsbot.Response[*domain.Report], error) {
	src := args.Source
	var opts []runner.Option
	if args.Scenario != "" {
		sc, err := s.engine.Scenario(ctx, args.Scenario)
		if err != nil {
			return optionsbot.Respond[*domain.Report](nil, err), nil
		}
		src = sc.Source
		if sc.Trials > 0 {
			opts = append(opts, runner.WithTrials(sc.Trials))
		}
	}
	if args.Trials > 0 {
		opts = append(opts, runner.WithTrials(args.Trials))
	}
	if args.Seed != nil {
		opts = append(opts, runner.WithSeed(*args.Seed))
	}
	if len(args.Variables) > 0 {
		opts = append(opts, runner.WithVariables(args.Variables))
	}

	report, err := s.engine.Simulate(ctx, src, opts...)
	if err != nil {
		s.logger.Debug("MCP simulate rejected", "err", err)
	}
	return optionsbot.Respond(report, err), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("optionsbot://header-rules", "Header Variable Rules",
		mcp.WithResourceDescription("Every required header variable and the rule its value must satisfy."),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(schema.Header())
		if err != nil {
			return nil, fmt.Errorf("failed to encode header rules: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "optionsbot://header-rules",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource("optionsbot://default-program", "Default Program",
		mcp.WithResourceDescription("A complete program to start from."),
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "optionsbot://default-program",
				MIMEType: "text/plain",
				Text:     optionsbot.DefaultProgram,
			},
		}, nil
	})
}
