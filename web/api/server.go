package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hochfrequenz/orgchart/internal/orgservice"
	"github.com/sirupsen/logrus"
)

// Server is the HTTP API server
type Server struct {
	svc  *orgservice.Service
	addr string
	mux  *http.ServeMux
	hub  *Hub
	log  logrus.FieldLogger
}

// NewServer creates a new API server
func NewServer(svc *orgservice.Service, addr string, log logrus.FieldLogger) *Server {
	s := &Server{
		svc:  svc,
		addr: addr,
		mux:  http.NewServeMux(),
		hub:  NewHub(svc, log),
		log:  log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/status", s.statusHandler())
	s.mux.HandleFunc("GET /api/tree", s.treeHandler())
	s.mux.HandleFunc("PUT /api/company", s.createCompanyHandler())
	s.mux.HandleFunc("GET /api/employees", s.findByPositionHandler())
	s.mux.HandleFunc("POST /api/employees", s.addEmployeeHandler())
	s.mux.HandleFunc("GET /api/employees/{id}", s.getEmployeeHandler())
	s.mux.HandleFunc("GET /api/employees/{id}/reports", s.reportsHandler())
	s.mux.HandleFunc("PATCH /api/employees/{id}", s.updateEmployeeHandler())
	s.mux.HandleFunc("POST /api/employees/{id}/promote", s.positionHandler(s.svc.Promote))
	s.mux.HandleFunc("POST /api/employees/{id}/demote", s.positionHandler(s.svc.Demote))
	s.mux.HandleFunc("DELETE /api/employees/{id}", s.deleteEmployeeHandler())
	s.mux.HandleFunc("GET /api/ws", s.hub.ServeWS)
}

// Handler returns the routed handler with request logging
func (s *Server) Handler() http.Handler {
	return s.withRequestLog(s.mux)
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.hub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.addr).Info("api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.CloseAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).Round(time.Microsecond).String(),
		}).Info("request")
	})
}

// statusRecorder captures the response status for logging. It passes
// Hijack through so websocket upgrades still work behind it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, map[string]string{"error": message})
}
