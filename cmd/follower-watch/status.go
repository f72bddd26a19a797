package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"followerwatch"
)

// startStatusServer serves a small JSON status endpoint alongside the poll
// loop so the monitor can be watched from the outside.
func startStatusServer(log *zap.SugaredLogger, addr string, m *followerwatch.Monitor) *http.Server {
	r := chi.NewRouter()
	r.Get("/healthz", func(rw http.ResponseWriter, req *http.Request) {
		rw.WriteHeader(http.StatusNoContent)
	})
	r.Get("/status", func(rw http.ResponseWriter, req *http.Request) {
		resp := struct {
			Account string `json:"account"`
			followerwatch.MonitorStats
		}{
			Account:      m.Account,
			MonitorStats: m.Stats(),
		}
		rw.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(rw).Encode(resp); err != nil {
			http.Error(rw, "error encoding response", http.StatusInternalServerError)
		}
	})

	srv := &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Errorw("error running HTTP status server", "err", err)
		}
		log.Infow("HTTP status server stopped")
	}()
	return srv
}
