package transport

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.trai.ch/pathwatch/internal/core/domain"
	"go.trai.ch/zerr"
)

const shutdownTimeout = 5 * time.Second

// Server serves a Hub over HTTP on a bound listener.
type Server struct {
	hub      *Hub
	listener net.Listener
	srv      *http.Server
}

// Listen binds addr and prepares a Server for hub. The address is bound
// eagerly so Addr reports the real port when addr ends in ":0".
func Listen(addr string, hub *Hub) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrServerFailed.Error()), "addr", addr)
	}

	return &Server{
		hub:      hub,
		listener: ln,
		srv: &http.Server{
			Handler:           hub.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Serve handles requests until ctx is cancelled, then shuts down gracefully
// and disconnects the hub's clients.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		s.hub.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	case <-ctx.Done():
	}

	// Hijacked websocket connections are not tracked by Shutdown.
	s.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, domain.ErrServerFailed.Error())
	}
	<-errCh
	return nil
}
