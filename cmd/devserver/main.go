// Command devserver serves the embedded page bundle on its own port so the
// page talks to the API server cross-origin.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/hello/internal/adapters/http/site"
	"github.com/okian/hello/internal/config"
	"github.com/okian/hello/pkg/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Named("devserver")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	srv := &http.Server{
		Addr:              cfg.DevAddr,
		Handler:           newMux(ctx),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "serving page bundle", logger.String("addr", cfg.DevAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "dev server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "dev server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "dev server stopped")
}

func newMux(ctx context.Context) *http.ServeMux {
	mux := http.NewServeMux()
	site.Register(ctx, mux, site.WithCacheControl("no-store"))
	return mux
}
