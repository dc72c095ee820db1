package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"timetable/internal/adapters/backend"
	web "timetable/internal/adapters/http"
	"timetable/internal/adapters/http/flash"
	"timetable/internal/adapters/http/perf"
	"timetable/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	slog.SetDefault(newLogger(cfg))

	if cfg.SecretKey == "" && (cfg.CSRFKey == "" || cfg.FlashKey == "") {
		slog.Warn("config_event", "event", "random_keys", "detail", "sessions won't survive restart; set TIMETABLE_SECRET_KEY")
	}

	// Performance instrumentation shared by inbound requests and backend calls
	collector := perf.NewCollector(perf.DefaultRingSize)
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	transport := backend.NewTimedTransport(http.DefaultTransport, collector, backend.NewMetrics(registry), cfg.SlowBackendMs)
	client := backend.New(cfg.APIBaseURL, cfg.BackendTimeout, transport)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := web.NewMux(ctx, web.Options{
		Backend:        client,
		Flash:          flash.NewStore(cfg.FlashSecret, cfg.FlashMaxAge, cfg.IsProduction()),
		Collector:      collector,
		Registry:       registry,
		StaticDir:      cfg.StaticDir,
		Version:        version,
		CSRFKey:        cfg.CSRFSecret,
		SecureCookies:  cfg.IsProduction(),
		TrustedOrigins: cfg.TrustedOrigins,
		RateLimit:      cfg.RateLimit,
		SlowRequestMs:  cfg.SlowRequestMs,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown_failed", "error", err)
		}
	}()

	slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env, "api_base_url", client.BaseURL())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	slog.Info("server_stopped")
}

// newLogger logs JSON in production and text otherwise.
func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
