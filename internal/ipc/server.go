package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"medialib/internal/api"
	"medialib/internal/daemon"
	"medialib/internal/logging"
	"medialib/internal/queue"
)

// ServiceName is the JSON-RPC receiver name clients call methods on.
const ServiceName = "Medialib"

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "ipc")

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName(ServiceName, srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				if errors.Is(err, net.ErrClosed) {
					return
				}
				logging.WarnWithContext(s.logger, "accept failed", "ipc_accept_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon if needed"),
				)
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file. Connected clients are
// disconnected.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		logging.WarnWithContext(s.logger, "failed to remove socket", "ipc_socket_cleanup_failed",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "remove the socket file manually"),
		)
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) Start(_ StartRequest, resp *StartResponse) error {
	if err := s.daemon.Start(s.ctx); err != nil {
		resp.Started = false
		resp.Message = err.Error()
		return nil
	}
	resp.Started = true
	resp.Message = "daemon started"
	s.logger.Info("daemon started via IPC", logging.String(logging.FieldEventType, "daemon_start"))
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.daemon.Stop()
	resp.Stopped = true
	s.logger.Info("daemon stopped via IPC", logging.String(logging.FieldEventType, "daemon_stop"))
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	*resp = s.daemon.Status(s.ctx).APIStatus()
	return nil
}

func (s *service) Enqueue(req EnqueueRequest, resp *EnqueueResponse) error {
	row, err := s.daemon.Enqueue(s.ctx, req.Owner, req.Source)
	if err != nil {
		return err
	}
	resp.Item = api.FromQueueRequest(row)
	return nil
}

func (s *service) QueueList(req QueueListRequest, resp *QueueListResponse) error {
	statuses, err := api.ParseStatusFilters(req.Statuses)
	if err != nil {
		return err
	}
	rows, err := s.daemon.ListQueue(s.ctx, req.Owner, statuses)
	if err != nil {
		return err
	}
	resp.Items = api.FromQueueRequests(rows)
	return nil
}

func (s *service) QueueDescribe(req QueueDescribeRequest, resp *QueueDescribeResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid queue item id %d", req.ID)
	}
	row, err := s.daemon.Describe(s.ctx, req.ID)
	if err != nil {
		return err
	}
	if row == nil {
		resp.Found = false
		return nil
	}
	resp.Found = true
	resp.Item = api.FromQueueRequest(row)
	return nil
}

func (s *service) QueueRequeue(req QueueRequeueRequest, resp *QueueRequeueResponse) error {
	if len(req.IDs) == 0 {
		return errors.New("queue requeue requires at least one id")
	}
	result, err := api.RequeueItemsByID(s.ctx, daemonActions{d: s.daemon}, req.IDs)
	if err != nil {
		return err
	}
	*resp = result
	s.logger.Info("queue items requeued",
		logging.String(logging.FieldEventType, "queue_requeue"),
		logging.Int64("created_count", result.CreatedCount),
	)
	return nil
}

func (s *service) QueueClear(req QueueClearRequest, resp *QueueClearResponse) error {
	statuses, err := api.ParseStatusFilters(req.Statuses)
	if err != nil {
		return err
	}
	removed, err := s.daemon.ClearTerminal(s.ctx, statuses...)
	if err != nil {
		return err
	}
	resp.Removed = removed
	s.logger.Info("queue cleared",
		logging.String(logging.FieldEventType, "queue_clear"),
		logging.Int64("removed_count", removed),
	)
	return nil
}

func (s *service) QueueHealth(_ QueueHealthRequest, resp *QueueHealthResponse) error {
	health, err := s.daemon.QueueHealth(s.ctx)
	if err != nil {
		return err
	}
	*resp = QueueHealthResponse(health)
	return nil
}

func (s *service) DatabaseHealth(_ DatabaseHealthRequest, resp *DatabaseHealthResponse) error {
	health, err := s.daemon.DatabaseHealth(s.ctx)
	if err != nil && health.Error == "" {
		return err
	}
	*resp = databaseHealthResponse(health)
	return err
}

func (s *service) OwnerSet(req OwnerSetRequest, resp *OwnerSetResponse) error {
	owner, err := s.daemon.SetOwner(s.ctx, req.Name, req.Directory)
	if err != nil {
		return err
	}
	resp.Owner = api.FromOwner(owner)
	s.logger.Info("owner registered",
		logging.String(logging.FieldOwner, owner.Name),
		logging.String("directory", owner.Directory),
	)
	return nil
}

func (s *service) OwnerList(_ OwnerListRequest, resp *OwnerListResponse) error {
	owners, err := s.daemon.ListOwners(s.ctx)
	if err != nil {
		return err
	}
	resp.Owners = api.FromOwners(owners)
	return nil
}

func (s *service) OwnerRemove(req OwnerRemoveRequest, resp *OwnerRemoveResponse) error {
	removed, err := s.daemon.RemoveOwner(s.ctx, req.Name)
	if err != nil {
		return err
	}
	resp.Removed = removed
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}

// daemonActions adapts the daemon to api.QueueActionService.
type daemonActions struct {
	d *daemon.Daemon
}

func (a daemonActions) Describe(ctx context.Context, id int64) (*api.QueueItem, error) {
	row, err := a.d.Describe(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	item := api.FromQueueRequest(row)
	return &item, nil
}

func (a daemonActions) Requeue(ctx context.Context, id int64) (*api.QueueItem, error) {
	row, err := a.d.Requeue(ctx, id)
	if err != nil {
		return nil, err
	}
	item := api.FromQueueRequest(row)
	return &item, nil
}

func databaseHealthResponse(health queue.DatabaseHealth) DatabaseHealthResponse {
	return DatabaseHealthResponse{
		DBPath:           health.DBPath,
		DatabaseExists:   health.DatabaseExists,
		DatabaseReadable: health.DatabaseReadable,
		SchemaVersion:    health.SchemaVersion,
		TablesPresent:    append([]string(nil), health.TablesPresent...),
		MissingTables:    append([]string(nil), health.MissingTables...),
		IntegrityCheck:   health.IntegrityCheck,
		TotalRequests:    health.TotalRequests,
		TotalOwners:      health.TotalOwners,
		Error:            health.Error,
	}
}
