package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/viant/toolproxy/mcp"
	authctx "github.com/viant/toolproxy/mcp/context"
	"github.com/viant/toolproxy/mcp/matcher"
	"github.com/viant/toolproxy/mcp/tool"
)

// ForwardTokenHeader carries a token to forward to remote endpoints when the
// Authorization header authenticates against the gateway itself.
const ForwardTokenHeader = "X-Mcp-Token"

const maxBodySize = 4 << 20

// Dispatcher resolves endpoint dispatchers.
type Dispatcher interface {
	Endpoints() []string
	Proxy(endpoint string) (*tool.Proxy, error)
}

// Server routes HTTP requests to endpoint dispatchers.
type Server struct {
	dispatcher Dispatcher
	token      string
	timeout    time.Duration
	logger     zerolog.Logger
	router     *chi.Mux
}

// Option customises a Server.
type Option func(*Server)

// WithToken requires token as a bearer token on every endpoint route.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithTimeout bounds request processing.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Server) { s.timeout = timeout }
}

// New constructs a Server with middleware and routes configured.
func New(dispatcher Dispatcher, opts ...Option) *Server {
	s := &Server{
		dispatcher: dispatcher,
		timeout:    5 * time.Minute,
		logger:     zerolog.Nop(),
		router:     chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.timeout))

	s.router.Get("/health", s.handleHealth)
	s.router.Route("/endpoints", func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/", s.handleEndpoints)
		r.Get("/{endpoint}/tools", s.handleTools)
		r.Post("/{endpoint}/tools/{name}", s.handleInvoke)
		r.Post("/{endpoint}/call/{tool}", s.handleCall)
	})
	return s
}

// Handler exposes the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("requestId", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(started)).
			Msg("request")
	})
}

// auth checks the gateway token and puts the token to forward, if any, on
// the request context.
func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer, hasBearer := authctx.BearerToken(r.Header.Get("Authorization"))
		if s.token != "" && (!hasBearer || bearer != s.token) {
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		forward := r.Header.Get(ForwardTokenHeader)
		if forward == "" && s.token == "" && hasBearer {
			forward = bearer
		}
		if forward != "" {
			r = r.WithContext(authctx.WithAuthToken(r.Context(), forward))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleEndpoints(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"endpoints": s.dispatcher.Endpoints()})
}

type toolView struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Keys        []string        `json:"keys"`
	Required    []string        `json:"required,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	proxy, ok := s.proxy(w, r)
	if !ok {
		return
	}
	infos, err := proxy.Tools(r.Context())
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	patterns := r.URL.Query().Get("match")
	tools := make([]toolView, 0, len(infos))
	for _, info := range infos {
		if patterns != "" && !matcher.MatchAny(patterns, info.Name) {
			continue
		}
		tools = append(tools, toolView{
			Name:        info.Name,
			Description: info.Description,
			Keys:        info.Keys,
			Required:    info.Required,
			InputSchema: info.Schema,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tools": tools})
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	proxy, ok := s.proxy(w, r)
	if !ok {
		return
	}
	args, err := decodeArguments(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	view, err := proxy.Invoke(r.Context(), chi.URLParam(r, "name"), args...)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view.Raw())
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	proxy, ok := s.proxy(w, r)
	if !ok {
		return
	}
	var args map[string]interface{}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &args); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	call := &tool.Call{Args: args, HasArgs: true}
	if args == nil {
		call.Args = map[string]interface{}{}
	}
	view, err := proxy.CallTool(r.Context(), chi.URLParam(r, "tool"), call)
	if err != nil {
		writeError(w, statusOf(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view.Raw())
}

func (s *Server) proxy(w http.ResponseWriter, r *http.Request) (*tool.Proxy, bool) {
	proxy, err := s.dispatcher.Proxy(chi.URLParam(r, "endpoint"))
	if err != nil {
		writeError(w, statusOf(err), err)
		return nil, false
	}
	return proxy, true
}

// decodeArguments reads call arguments: a JSON array spreads into several
// arguments, any other value is a single argument, an empty body is none.
func decodeArguments(body io.Reader) ([]interface{}, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, err
	}
	if list, ok := value.([]interface{}); ok {
		return list, nil
	}
	return []interface{}{value}, nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, mcp.ErrUnknownEndpoint):
		return http.StatusNotFound
	case errors.Is(err, tool.ErrInvalidCallName),
		errors.Is(err, tool.ErrMissingRequiredArguments),
		errors.Is(err, tool.ErrTooManyPositionalArguments),
		errors.Is(err, tool.ErrInvalidOverride),
		errors.Is(err, tool.ErrInvalidArguments):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
