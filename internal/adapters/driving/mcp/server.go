package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/domain"
	"github.com/DynamicEndpoints/documentation-mcp-using-pocketbase/internal/core/services"
)

// Version is the MCP server version.
const Version = "1.0.0"

// serverName is the implementation name reported to clients.
const serverName = "documentation-mcp"

// stdioSessionID keys the process-wide pipe session.
const stdioSessionID = "stdio"

// sessionHeader carries the streamable HTTP session identifier.
const sessionHeader = "Mcp-Session-Id"

// Server is the MCP server for the documentation store.
type Server struct {
	ports     *Ports
	registry  *Registry
	logger    *zap.Logger
	startTime time.Time
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports, logger *zap.Logger) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		ports:     ports,
		registry:  NewRegistry(logger),
		logger:    logger,
		startTime: time.Now(),
	}, nil
}

// Registry exposes the session registry, mainly for tests and the
// liveness endpoint.
func (s *Server) Registry() *Registry {
	return s.registry
}

// newMCPServer builds a protocol server with all tools registered.
// Each connection-bound session gets its own instance so tool state is
// never shared across unrelated sessions.
func (s *Server) newMCPServer() *mcp.Server {
	impl := &mcp.Implementation{
		Name:    serverName,
		Version: Version,
	}
	server := mcp.NewServer(impl, nil)
	s.registerTools(server)
	return server
}

// Run starts the MCP server over stdio.
// The pipe session is a process-wide singleton: registered once here,
// removed only when the process exits.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	_, _ = s.registry.Resolve(stdioSessionID, domain.TransportStdio)
	defer s.registry.Close(stdioSessionID)

	return s.newMCPServer().Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the streamable HTTP and SSE bindings plus the liveness
// endpoint on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	router := chi.NewRouter()
	router.Use(s.overrideMiddleware)

	streamable := s.streamableHandler()
	router.Handle("/mcp", streamable)

	sse := s.sseHandler()
	router.Handle("/sse", sse)
	router.Handle("/messages", sse)

	router.Get("/healthz", s.handleHealth)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	if err != nil {
		return &domain.TransportError{Err: err}
	}
	return nil
}

// streamableHandler serves the request/response HTTP binding.
//
// The protocol handler mints the session id during initialize and
// carries it in the Mcp-Session-Id header; requests naming an unknown
// id that are not initialize requests are rejected by the protocol
// layer before any domain logic runs. The registry shadows the
// handler's session lifecycle: ids observed on responses are
// registered, explicit DELETE terminations are removed.
func (s *Server) streamableHandler() http.Handler {
	inner := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.newMCPServer()
	}, nil)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner.ServeHTTP(w, r)

		if id := w.Header().Get(sessionHeader); id != "" {
			s.registry.Resolve(id, domain.TransportHTTP)
		}
		if r.Method == http.MethodDelete {
			if id := r.Header.Get(sessionHeader); id != "" {
				s.registry.Close(id)
			}
		}
	})
}

// sseHandler serves the server-push event stream and its companion
// message endpoint. Each GET opens one stream session; the session is
// removed exactly once when the stream's connection closes.
func (s *Server) sseHandler() http.Handler {
	inner := mcp.NewSSEHandler(func(_ *http.Request) *mcp.Server {
		return s.newMCPServer()
	}, nil)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			inner.ServeHTTP(w, r)
			return
		}

		session, _ := s.registry.Resolve(uuid.NewString(), domain.TransportSSE)
		defer s.registry.Close(session.ID)

		inner.ServeHTTP(w, r)
	})
}

// overrideMiddleware applies request-level configuration overrides
// before routing: dotted query keys are merged into the settings and
// the configuration is invalidated, so reconfiguration takes effect for
// this and all subsequent calls until overridden again.
func (s *Server) overrideMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		overrides := overridesFromQuery(r)
		if len(overrides) > 0 {
			s.logger.Debug("applying request overrides", zap.Int("keys", len(overrides)))
			s.ports.Config.ApplyOverrides(overrides)
		}
		next.ServeHTTP(w, r)
	})
}

// overrideKeys are the non-dotted settings accepted from query
// parameters. Dotted keys are always treated as overrides.
var overrideKeys = map[string]bool{
	services.OverrideCollection: true,
	services.OverrideDebug:      true,
	services.OverridePort:       true,
	services.OverrideReadOnly:   true,
}

// overridesFromQuery extracts configuration overrides from a request's
// query parameters. Transport-internal parameters are left alone.
func overridesFromQuery(r *http.Request) map[string]string {
	var overrides map[string]string
	for key, values := range r.URL.Query() {
		if len(values) == 0 || values[0] == "" {
			continue
		}
		lower := strings.ToLower(key)
		if lower == "sessionid" {
			// SSE message routing parameter, not a setting.
			continue
		}
		if !strings.Contains(key, ".") && !overrideKeys[key] {
			continue
		}
		if overrides == nil {
			overrides = make(map[string]string)
		}
		overrides[key] = values[0]
	}
	return overrides
}
