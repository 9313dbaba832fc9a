package ops

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the bounded operations HTTP surface. It carries no gameplay
// authority and never touches the simulation's component stores directly —
// only the heartbeat recorded via Heartbeat.
type Server struct {
	http *http.Server
	log  *zap.Logger

	lastTick atomic.Int64 // unix nanos of the most recent Heartbeat call
	maxSilence time.Duration
}

// NewServer builds the router. Construction is side-effect free; call
// Start to bind and serve.
func NewServer(addr string, maxSilence time.Duration, log *zap.Logger) *Server {
	s := &Server{log: log, maxSilence: maxSilence}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	s.http = &http.Server{Addr: addr, Handler: r}
	return s
}

// Heartbeat records that the simulation loop just completed a tick.
func (s *Server) Heartbeat() {
	s.lastTick.Store(time.Now().UnixNano())
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	last := s.lastTick.Load()
	if last == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("not started"))
		return
	}
	silence := time.Since(time.Unix(0, last))
	if silence > s.maxSilence {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("tick loop stalled"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Start binds and serves in the background, logging an error-level entry if
// ListenAndServe returns anything other than a clean shutdown.
func (s *Server) Start() {
	go func() {
		s.log.Info("ops server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("ops server exited", zap.Error(err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
