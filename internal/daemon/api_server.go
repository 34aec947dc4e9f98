package daemon

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

	"medialib/internal/api"
	"medialib/internal/config"
	"medialib/internal/logging"
	"medialib/internal/queue"
)

const maxRequestBody = 64 << 10

type apiServer struct {
	bind     string
	logger   *slog.Logger
	daemon   *Daemon
	queueSvc *api.QueueService
	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, errors.New("api server requires config and daemon")
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}
	srv := &apiServer{
		bind:     bind,
		logger:   logging.NewComponentLogger(logger, "api"),
		daemon:   d,
		queueSvc: api.NewQueueService(d.store),
	}

	srv.server = &http.Server{
		Handler:           authMiddleware(cfg.Paths.APIToken, srv.routes()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/queue", s.handleQueueList)
	mux.HandleFunc("POST /api/queue", s.handleEnqueue)
	mux.HandleFunc("GET /api/queue/{id}", s.handleQueueItem)
	mux.HandleFunc("GET /api/owners", s.handleOwners)
	return mux
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.stop()
	}()

	s.log().Info("api server listening", logging.String("bind", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil || s.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log().Warn("api shutdown error", logging.Error(err))
	}
}

func (s *apiServer) address() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.daemon.Status(r.Context())
	s.writeJSON(w, http.StatusOK, status.APIStatus())
}

func (s *apiServer) handleQueueList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	statuses, err := api.ParseStatusFilters(query["status"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := s.queueSvc.List(r.Context(), query.Get("owner"), statuses...)
	if err != nil {
		s.log().Error("queue list failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list queue")
		return
	}
	if items == nil {
		items = []api.QueueItem{}
	}
	s.writeJSON(w, http.StatusOK, api.QueueListResponse{Items: items})
}

func (s *apiServer) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	var body api.EnqueueRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := s.daemon.Enqueue(r.Context(), body.Owner, body.Source)
	if err != nil {
		if errors.Is(err, queue.ErrInvalidRequest) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log().Error("enqueue failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to enqueue request")
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/queue/%d", req.ID))
	s.writeJSON(w, http.StatusCreated, api.EnqueueResponse{Item: api.FromQueueRequest(req)})
}

func (s *apiServer) handleQueueItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid queue id")
		return
	}
	item, err := s.queueSvc.Describe(r.Context(), id)
	if err != nil {
		s.log().Error("queue lookup failed", logging.Int64(logging.FieldRequestID, id), logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to load queue item")
		return
	}
	if item == nil {
		s.writeError(w, http.StatusNotFound, "queue item not found")
		return
	}
	s.writeJSON(w, http.StatusOK, api.QueueItemResponse{Item: *item})
}

func (s *apiServer) handleOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := s.daemon.ListOwners(r.Context())
	if err != nil {
		s.log().Error("owner list failed", logging.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list owners")
		return
	}
	s.writeJSON(w, http.StatusOK, api.OwnerListResponse{Owners: api.FromOwners(owners)})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		s.log().Warn("failed to encode api response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func (s *apiServer) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return logging.NewNop()
}

// APIStatus converts the runtime status into its transport form.
func (s Status) APIStatus() api.DaemonStatus {
	return api.DaemonStatus{
		Running:      s.Running,
		PID:          s.PID,
		QueueDBPath:  s.QueueDBPath,
		LockFilePath: s.LockFilePath,
		SocketPath:   s.SocketPath,
		APIBind:      s.APIBind,
		LogPath:      s.LogPath,
		Workflow:     api.FromStatusSummary(s.Workflow),
		Dependencies: api.FromDependencyStatuses(s.Dependencies),
	}
}
