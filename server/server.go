package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"pagesim/paging"
	"pagesim/system"
)

// Server exposes the simulator as a JSON HTTP API
type Server struct {
	sim *system.Simulator
	log *slog.Logger
	mux *http.ServeMux
}

// New registers the routes of the API
func New(sim *system.Simulator, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{sim: sim, log: log, mux: http.NewServeMux()}

	s.mux.HandleFunc("GET /processes", s.listProcesses)
	s.mux.HandleFunc("POST /processes", s.createProcess)
	s.mux.HandleFunc("GET /processes/{pid}", s.getProcess)
	s.mux.HandleFunc("DELETE /processes/{pid}", s.removeProcess)
	s.mux.HandleFunc("POST /processes/{pid}/{action}", s.processAction)
	s.mux.HandleFunc("GET /processes/{pid}/translate", s.translate)
	s.mux.HandleFunc("GET /memory", s.memory)
	s.mux.HandleFunc("GET /memory/usage", s.usage)
	s.mux.HandleFunc("GET /memory/graph", s.graph)
	s.mux.HandleFunc("GET /history", s.history)
	s.mux.HandleFunc("POST /reset", s.reset)
	return s
}

// ServeHTTP logs and dispatches the request
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.log.Debug("request", "method", r.Method, "path", r.URL.Path)
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("http api listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrapf(err, "can't listen on %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	s.log.Info("http api stopped")
	return nil
}

// response envelope
type response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// sendJSON writes data with the given status code
func sendJSON(w http.ResponseWriter, code int, data interface{}) {
	body, err := json.Marshal(response{Status: "success", Data: data})
	if err != nil {
		http.Error(w, "can't encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

// sendError maps err to a status code and writes it as JSON
func (s *Server) sendError(w http.ResponseWriter, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	body, _ := json.Marshal(response{Status: "error", Error: err.Error()})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

// ErrBadRequest - malformed parameters or body
var ErrBadRequest = errors.New("bad request")

func statusCode(err error) int {
	switch {
	case errors.Is(err, paging.ErrUnknownPID):
		return http.StatusNotFound
	case errors.Is(err, paging.ErrInvalidTransition),
		errors.Is(err, paging.ErrProcessActive),
		errors.Is(err, system.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, paging.ErrInsufficientMemory):
		return http.StatusInsufficientStorage
	case errors.Is(err, paging.ErrInvalidAddress),
		errors.Is(err, paging.ErrInvalidSize),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
