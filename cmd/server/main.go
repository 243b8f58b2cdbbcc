// Command server runs the Instagram video resolver HTTP API.
//
// Configuration comes from the environment (and an optional .env file); see
// internal/config. The server binds 0.0.0.0:$PORT (default 5000). On SIGINT
// or SIGTERM it closes the listener and all connections immediately, without
// draining in-flight requests, flushes pending traces, and exits 0.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-insta-resolver/internal/config"
	httpapi "github.com/tbourn/go-insta-resolver/internal/http"
	"github.com/tbourn/go-insta-resolver/internal/observability"
	"github.com/tbourn/go-insta-resolver/internal/resolver"
	"github.com/tbourn/go-insta-resolver/internal/services"
	"github.com/tbourn/go-insta-resolver/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version string

// otelFlushTimeout bounds the trace flush after the listener is closed.
const otelFlushTimeout = 5 * time.Second

func main() {
	// A missing .env is normal in containers.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.ConfigureLogging(os.Stdout, cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// run wires the dependencies and serves until ctx is cancelled.
func run(ctx context.Context, cfg config.Config) error {
	ver := sysutil.BuildVersion(version)

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, observability.BuildInfo{
		Version:     ver,
		Environment: cfg.AppEnv,
		Backend:     cfg.Resolver.Backend,
	})
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}

	res, err := resolver.New(cfg.Resolver)
	if err != nil {
		return fmt.Errorf("build resolver: %w", err)
	}
	svc := services.NewVideoService(res, cfg.BatchConcurrency)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, svc, cfg)

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr(), err)
	}

	log.Info().
		Str("addr", ln.Addr().String()).
		Str("version", ver).
		Str("backend", cfg.Resolver.Backend).
		Int("batch_concurrency", cfg.BatchConcurrency).
		Bool("debug", cfg.Debug).
		Msg("server listening")

	return serve(ctx, newServer(cfg, r), ln, shutdownOTel)
}

func newServer(cfg config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// serve runs srv on ln until it fails or ctx is done. Cancellation closes
// the server at once (no graceful drain), then flushes traces.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, flush func(context.Context) error) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		if err := srv.Close(); err != nil {
			log.Warn().Err(err).Msg("close server")
		}
		<-errCh
	}

	fctx, cancel := context.WithTimeout(context.Background(), otelFlushTimeout)
	defer cancel()
	if err := flush(fctx); err != nil {
		log.Warn().Err(err).Msg("flush traces")
	}
	return serveErr
}
