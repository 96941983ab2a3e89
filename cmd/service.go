package cmd

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/isometry/obelix/internal/config"
	"github.com/isometry/obelix/internal/runtime"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func cmdService() *cobra.Command {
	return &cobra.Command{
		Use:              "service",
		Aliases:          []string{"s", "serve", "standalone", "server"},
		Short:            "Serve the telemetry endpoints over HTTP",
		PersistentPreRunE: forceMode(config.ModeService),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runService(cmd)
		},
	}
}

func newServer(rtm *runtime.Runtime) *http.Server {
	h := http.NewServeMux()
	h.HandleFunc("/", rtm.ServeHTTP)

	return &http.Server{
		Handler:      h,
		Addr:         net.JoinHostPort(config.Service.Addr, config.Service.Port),
		WriteTimeout: config.Service.Timeout,
		ReadTimeout:  config.Service.Timeout,
		IdleTimeout:  config.Service.Timeout,
	}
}

func runService(cmd *cobra.Command) error {
	logger.Info("spawning...")
	s := newServer(newRuntime())

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return logStartupError(errors.Wrapf(err, "failed to listen on %s", s.Addr))
	}
	return serve(cmd.Context(), s, ln)
}

// serve blocks until ln fails or ctx is cancelled, in which case in-flight requests are drained.
func serve(ctx context.Context, s *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving...", "address", ln.Addr().String(), "timeout", config.Service.Timeout.String())
		errCh <- s.Serve(ln)
	}()

	select {
	case err := <-errCh:
		err = errors.Wrap(err, "server stopped")
		logger.Error("server failed", slog.Any("error", err))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		err = errors.Wrap(err, "failed to shut down server")
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		return err
	}
	return nil
}
