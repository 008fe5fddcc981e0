// Package health содержит health check сервер.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const checkTimeout = 3 * time.Second

// Server представляет health check сервер
type Server struct {
	server    *http.Server
	db        Pinger
	snapshots SnapshotSource
	logger    *zap.Logger
	now       func() time.Time
}

type snapshotStatus struct {
	Date      string    `json:"date"`
	UID       string    `json:"uid"`
	Groups    int       `json:"groups"`
	FetchedAt time.Time `json:"fetched_at"`
}

type response struct {
	Status    string                    `json:"status"`
	Timestamp string                    `json:"timestamp"`
	Error     string                    `json:"error,omitempty"`
	Snapshots map[string]snapshotStatus `json:"snapshots,omitempty"`
}

// NewServer создает новый health check сервер
func NewServer(port string, logger *zap.Logger, db Pinger, snapshots SnapshotSource) *Server {
	mux := http.NewServeMux()

	healthServer := &Server{
		server: &http.Server{
			Addr:              ":" + port,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		db:        db,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}

	mux.HandleFunc("/health", healthServer.healthHandler)
	mux.HandleFunc("/ready", healthServer.readyHandler)
	mux.HandleFunc("/live", healthServer.liveHandler)

	return healthServer
}

// Handler возвращает маршруты сервера
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start запускает health check сервер
func (s *Server) Start() error {
	s.logger.Info("Starting health check server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Stop останавливает health check сервер
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("Stopping health check server")
	return s.server.Shutdown(ctx)
}

// healthHandler обрабатывает запросы /health: база и сведения о снимках
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := response{Status: "healthy", Snapshots: s.snapshotStatuses()}
	code := http.StatusOK

	if err := s.checkDatabase(r.Context()); err != nil {
		resp.Status, resp.Error = "unhealthy", err.Error()
		code = http.StatusServiceUnavailable
		s.logger.Error("Health check failed", zap.Error(err))
	}

	s.write(w, code, resp)
}

// readyHandler обрабатывает запросы /ready: база доступна и есть хотя бы один снимок
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	resp := response{Status: "ready"}
	code := http.StatusOK

	if err := s.checkReadiness(r.Context()); err != nil {
		resp.Status, resp.Error = "not ready", err.Error()
		code = http.StatusServiceUnavailable
		s.logger.Warn("Readiness check failed", zap.Error(err))
	}

	s.write(w, code, resp)
}

// liveHandler обрабатывает запросы /live
func (s *Server) liveHandler(w http.ResponseWriter, _ *http.Request) {
	s.write(w, http.StatusOK, response{Status: "alive"})
}

func (s *Server) write(w http.ResponseWriter, code int, resp response) {
	resp.Timestamp = s.now().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Debug("Failed to write health response", zap.Error(err))
	}
}

// checkDatabase проверяет подключение к базе данных
func (s *Server) checkDatabase(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// checkReadiness проверяет готовность к работе
func (s *Server) checkReadiness(ctx context.Context) error {
	if err := s.checkDatabase(ctx); err != nil {
		return fmt.Errorf("database is not ready: %w", err)
	}

	if s.snapshots == nil || len(s.snapshots.Modes()) == 0 {
		return fmt.Errorf("no timetable snapshot loaded yet")
	}
	return nil
}

func (s *Server) snapshotStatuses() map[string]snapshotStatus {
	if s.snapshots == nil {
		return nil
	}

	statuses := make(map[string]snapshotStatus)
	for _, mode := range s.snapshots.Modes() {
		e, ok := s.snapshots.Get(mode)
		if !ok {
			continue
		}
		statuses[mode.String()] = snapshotStatus{
			Date:      e.Snapshot.Date.Format("2006-01-02"),
			UID:       e.Snapshot.UID,
			Groups:    len(e.Snapshot.Groups),
			FetchedAt: e.FetchedAt,
		}
	}
	return statuses
}
