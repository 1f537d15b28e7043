package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/fystack/jetton-buy-notifier/pkg/common/config"
)

type Server struct {
	http   *http.Server
	logger *slog.Logger
}

func NewServer(cfg config.ServerConfig, handler *Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	handler.Register(mux)

	return &Server{
		http: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
	}
}

func (s *Server) Addr() string { return s.http.Addr }

// Start blocks until the server stops. A graceful Shutdown yields nil.
func (s *Server) Start() error {
	s.logger.Info("Webhook server started",
		"addr", s.http.Addr,
		"webhook_endpoint", "/webhook",
		"health_endpoint", "/health",
	)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down webhook server")
	return s.http.Shutdown(ctx)
}
