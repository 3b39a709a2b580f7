package http

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server — служебный HTTP бота: /health для проб живости и /metrics
// со счётчиками заявок, когда метрики включены в конфиге.
type Server struct {
	srv *http.Server
}

func New(addr string, exposeMetrics bool) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           Handler(exposeMetrics),
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

func Handler(exposeMetrics bool) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("supply-bot OK"))
	})

	if exposeMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	return mux
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
