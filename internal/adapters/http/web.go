package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"timetable/internal/adapters/http/flash"
	"timetable/internal/adapters/http/middleware"
	"timetable/internal/adapters/http/perf"
	"timetable/internal/application/gateway"
)

// DefaultRateLimit is the per-IP requests per second when Options leaves it unset.
const DefaultRateLimit = 10

// Options holds everything NewMux wires together.
type Options struct {
	Backend        gateway.Backend
	Flash          *flash.Store
	Collector      *perf.Collector
	Registry       *prometheus.Registry
	StaticDir      string
	Version        string
	CSRFKey        []byte
	SecureCookies  bool
	TrustedOrigins []string
	RateLimit      int
	SlowRequestMs  int
}

// App serves the admin front end. It holds no per-request state.
type App struct {
	backend   gateway.Backend
	flash     *flash.Store
	collector *perf.Collector
	gatherer  prometheus.Gatherer
	staticDir string
	version   string
	secure    bool
}

// NewApp builds the handler set without middleware.
// PRE: opts.Backend and opts.Flash are non-nil
func NewApp(opts Options) *App {
	var gatherer prometheus.Gatherer = prometheus.NewRegistry()
	if opts.Registry != nil {
		gatherer = opts.Registry
	}
	return &App{
		backend:   opts.Backend,
		flash:     opts.Flash,
		collector: opts.Collector,
		gatherer:  gatherer,
		staticDir: opts.StaticDir,
		version:   opts.Version,
		secure:    opts.SecureCookies,
	}
}

// NewMux wires HTTP handlers for the app behind the full middleware chain.
// The rate limiter's sweeper stops when ctx is done.
// PRE: len(opts.CSRFKey) == 32
// POST: Every form post is CSRF-checked; every request is timed and carries a request ID
func NewMux(ctx context.Context, opts Options) http.Handler {
	app := NewApp(opts)

	rate := opts.RateLimit
	if rate <= 0 {
		rate = DefaultRateLimit
	}
	limiter := middleware.NewRateLimiter(ctx, rate, time.Second)

	var metrics *middleware.RequestMetrics
	if opts.Registry != nil {
		metrics = middleware.NewRequestMetrics(opts.Registry)
	}

	slog.Info("mux_ready", "secure_cookies", opts.SecureCookies, "rate_limit", rate, "static_dir", opts.StaticDir)

	// Applied inner to outer: Auth -> CSRF -> SecurityHeaders -> RateLimit -> Timing -> mux
	return middleware.Chain(app.Routes(),
		middleware.Auth(opts.SecureCookies),
		middleware.CSRF(opts.CSRFKey, middleware.CSRFOptions{
			Secure:         opts.SecureCookies,
			TrustedOrigins: opts.TrustedOrigins,
		}),
		middleware.SecurityHeaders,
		middleware.RateLimit(limiter),
		middleware.Timing(middleware.TimingOptions{
			Collector: opts.Collector,
			Metrics:   metrics,
			SlowMs:    opts.SlowRequestMs,
		}),
	)
}
