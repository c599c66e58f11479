package server

import (
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/teemow/personal-calendar-mcp/internal/config"
	"github.com/teemow/personal-calendar-mcp/internal/instrumentation"
	"github.com/teemow/personal-calendar-mcp/internal/logging"
)

// ServiceName is reported by the liveness probe.
const ServiceName = "personal-calendar-mcp"

// Liveness probe paths.
const (
	HealthPath    = "/health"
	APIHealthPath = "/api/health"
)

// DispatcherConfig holds the collaborators of a Dispatcher.
type DispatcherConfig struct {
	// Config supplies the API key on every request.
	Config config.Provider

	// Transport handles every request that passes the auth gate.
	Transport http.Handler

	// Health serves the liveness probe. A new checker is used when nil.
	Health *HealthChecker

	Metrics *instrumentation.Metrics
	Logger  logging.Logger
}

// Dispatcher is the single HTTP entry point of the MCP server.
//
// Liveness requests are answered directly. Everything else gets CORS
// headers; OPTIONS preflights end there with 204. Remaining requests pass the
// auth gate and are handed to the transport. A panic before the response has
// started is answered with a 500 JSON-RPC envelope.
type Dispatcher struct {
	router  chi.Router
	metrics *instrumentation.Metrics
	logger  logging.Logger
}

// NewDispatcher wires the routes for cfg.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.Logger == nil {
		cfg.Logger = logging.DefaultLogger().With(logging.KeyComponent, "dispatcher")
	}
	if cfg.Health == nil {
		cfg.Health = NewHealthChecker(ServiceName)
	}

	d := &Dispatcher{
		router:  chi.NewRouter(),
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}

	gated := withCORS(RequireAPIKey(cfg.Config, cfg.Metrics, cfg.Logger)(cfg.Transport))

	d.router.Use(middleware.RequestID)
	d.router.Use(middleware.RealIP)
	d.router.Use(d.observe)

	liveness := cfg.Health.LivenessHandler()
	d.router.Method(http.MethodGet, HealthPath, liveness)
	d.router.Method(http.MethodGet, APIHealthPath, liveness)

	d.router.Handle("/*", gated)
	d.router.NotFound(gated.ServeHTTP)
	d.router.MethodNotAllowed(gated.ServeHTTP)

	return d
}

// ServeHTTP implements http.Handler.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.router.ServeHTTP(w, r)
}

// observe records request metrics and turns panics into fault responses.
// The wrapped writer keeps the optional interfaces of w, which the streaming
// transport relies on.
func (d *Dispatcher) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var (
			started atomic.Bool
			status  atomic.Int32
		)
		status.Store(http.StatusOK)

		ww := httpsnoop.Wrap(w, httpsnoop.Hooks{
			WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
				return func(code int) {
					if started.CompareAndSwap(false, true) {
						status.Store(int32(code))
					}
					next(code)
				}
			},
			Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
				return func(b []byte) (int, error) {
					started.Store(true)
					return next(b)
				}
			},
			ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
				return func(src io.Reader) (int64, error) {
					started.Store(true)
					return next(src)
				}
			},
			Flush: func(next httpsnoop.FlushFunc) httpsnoop.FlushFunc {
				return func() {
					started.Store(true)
					next()
				}
			},
		})

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				d.handleFault(ww, r, started.Load(), fmt.Sprint(rec))
			}

			code := int(status.Load())
			d.metrics.RecordHTTPRequest(r.Context(), r.Method, routePattern(r), code, time.Since(start))
			d.logger.Debug("handled request",
				"method", r.Method,
				"path", r.URL.Path,
				logging.HTTPStatus(code),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()))
		}()

		next.ServeHTTP(ww, r)
	})
}

// handleFault answers with the fault envelope when nothing has been written
// yet. Once the response has started the fault can only be logged.
func (d *Dispatcher) handleFault(w http.ResponseWriter, r *http.Request, started bool, message string) {
	if started {
		d.logger.Error("fault after response started",
			"method", r.Method,
			"path", r.URL.Path,
			logging.KeyError, message,
			"request_id", middleware.GetReqID(r.Context()))
		return
	}
	d.logger.Error("request fault",
		"method", r.Method,
		"path", r.URL.Path,
		logging.KeyError, message,
		"request_id", middleware.GetReqID(r.Context()))
	writeFault(w, message)
}

// routePattern returns the matched chi route, keeping metric labels bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "other"
}
