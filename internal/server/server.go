package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"gamecatalog/internal/api"
	"gamecatalog/internal/config"
	"gamecatalog/internal/lockfile"
	"gamecatalog/internal/logging"
)

// maxBodyBytes bounds request bodies; screenshots arrive inline as base64.
const maxBodyBytes = 64 << 20

const requestIDHeader = "X-Request-ID"

// Server is the HTTP bridge between the UI and the catalog service.
type Server struct {
	bind     string
	lockPath string
	logger   *slog.Logger
	svc      *api.Service
	handler  http.Handler

	lock     *lockfile.Lock
	listener net.Listener
	server   *http.Server
}

// gameRequest is the body of create and update calls.
type gameRequest struct {
	Game       api.GameInput `json:"game"`
	Screenshot *string       `json:"screenshot"`
}

type resultResponse struct {
	OK bool `json:"ok"`
}

// New builds a server for svc using the bind address and lock file from cfg.
func New(cfg *config.Config, svc *api.Service, logger *slog.Logger) (*Server, error) {
	if cfg == nil || svc == nil {
		return nil, errors.New("server requires config and service")
	}
	bind := strings.TrimSpace(cfg.API.Bind)
	if bind == "" {
		return nil, errors.New("api bind address is empty")
	}

	srv := &Server{
		bind:     bind,
		lockPath: cfg.Paths.LockFile,
		logger:   logging.NewComponentLogger(logger, "api-server"),
		svc:      svc,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/games", srv.handleListGames)
	mux.HandleFunc("POST /api/games", srv.handleCreateGame)
	mux.HandleFunc("PUT /api/games/{id}", srv.handleUpdateGame)
	mux.HandleFunc("DELETE /api/games/{id}", srv.handleDeleteGame)
	mux.HandleFunc("GET /api/statistics", srv.handleStatistics)
	mux.HandleFunc("GET /api/version", srv.handleVersion)

	srv.handler = srv.withRequestID(authMiddleware(cfg.API.Token, mux))
	srv.server = &http.Server{
		Handler:           srv.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start takes the catalog lock, binds the listener, and serves until ctx is
// cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	lock, err := lockfile.Acquire(s.lockPath)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		_ = lock.Release()
		return fmt.Errorf("api listen: %w", err)
	}
	s.lock = lock
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the listener down and releases the catalog lock.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.lock != nil {
		if err := s.lock.Release(); err != nil {
			s.logger.Warn("failed to release catalog lock", logging.Error(err))
		}
	}
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logging.WithRequestID(r.Context(), id)
		logging.WithContext(ctx, s.logger).Debug("api request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, api.GameListResponse{Games: s.svc.LoadAll(r.Context())})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeGameRequest(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, resultResponse{OK: s.svc.Add(r.Context(), req.Game, req.Screenshot)})
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	req, ok := s.decodeGameRequest(w, r)
	if !ok {
		return
	}
	if !s.svc.Update(r.Context(), id, req.Game, req.Screenshot) {
		s.writeJSON(w, http.StatusNotFound, resultResponse{OK: false})
		return
	}
	s.writeJSON(w, http.StatusOK, resultResponse{OK: true})
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if !s.svc.Delete(r.Context(), id) {
		s.writeJSON(w, http.StatusNotFound, resultResponse{OK: false})
		return
	}
	s.writeJSON(w, http.StatusOK, resultResponse{OK: true})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Statistics(r.Context()))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.Version())
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid game id")
		return 0, false
	}
	return id, true
}

func (s *Server) decodeGameRequest(w http.ResponseWriter, r *http.Request) (gameRequest, bool) {
	var req gameRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return gameRequest{}, false
	}
	return req, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
