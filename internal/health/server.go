package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	server *http.Server
}

func NewServer(port string) *Server {
	return &Server{
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           NewRouter(NewController()),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Serve until the context is done, then shut down gracefully
func (s *Server) Run(ctx context.Context) error {

	errs := make(chan error, 1)
	go func() {
		log.Info().Msgf("Health server listening on %s", s.server.Addr)
		errs <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("health server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down health server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("health server shutdown failed: %w", err)
	}
	return nil
}
