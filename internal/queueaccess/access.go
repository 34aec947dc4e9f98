package queueaccess

import (
	"context"

	"medialib/internal/api"
	"medialib/internal/config"
	"medialib/internal/daemon"
	"medialib/internal/ipc"
	"medialib/internal/queue"
)

// Access provides queue operations regardless of IPC or direct store backing.
type Access interface {
	Stats(ctx context.Context) (map[string]int, error)
	Health(ctx context.Context) (queue.HealthSummary, error)
	Enqueue(ctx context.Context, owner, source string) (api.QueueItem, error)
	List(ctx context.Context, owner string, statuses []string) ([]api.QueueItem, error)
	Describe(ctx context.Context, id int64) (*api.QueueItem, error)
	Requeue(ctx context.Context, ids []int64) (api.RequeueItemsResult, error)
	Clear(ctx context.Context, statuses []string) (int64, error)
	SetOwner(ctx context.Context, name, directory string) (api.OwnerItem, error)
	ListOwners(ctx context.Context) ([]api.OwnerItem, error)
	RemoveOwner(ctx context.Context, name string) (bool, error)
}

// NewIPCAccess returns an Access backed by daemon IPC.
func NewIPCAccess(client *ipc.Client) Access {
	return &ipcAccess{client: client}
}

// NewStoreAccess returns an Access backed by direct DB access. cfg supplies
// the library directory used for owners registered without one.
func NewStoreAccess(cfg *config.Config, store *queue.Store) Access {
	return &storeAccess{cfg: cfg, store: store, service: api.NewQueueService(store)}
}

type ipcAccess struct {
	client *ipc.Client
}

func (a *ipcAccess) Stats(_ context.Context) (map[string]int, error) {
	resp, err := a.client.Status()
	if err != nil {
		return nil, err
	}
	return resp.Workflow.QueueStats, nil
}

func (a *ipcAccess) Health(_ context.Context) (queue.HealthSummary, error) {
	resp, err := a.client.QueueHealth()
	if err != nil {
		return queue.HealthSummary{}, err
	}
	return queue.HealthSummary(*resp), nil
}

func (a *ipcAccess) Enqueue(_ context.Context, owner, source string) (api.QueueItem, error) {
	resp, err := a.client.Enqueue(owner, source)
	if err != nil {
		return api.QueueItem{}, err
	}
	return resp.Item, nil
}

func (a *ipcAccess) List(_ context.Context, owner string, statuses []string) ([]api.QueueItem, error) {
	resp, err := a.client.QueueList(owner, statuses)
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (a *ipcAccess) Describe(_ context.Context, id int64) (*api.QueueItem, error) {
	resp, err := a.client.QueueDescribe(id)
	if err != nil {
		return nil, err
	}
	if resp == nil || !resp.Found {
		return nil, nil
	}
	return &resp.Item, nil
}

func (a *ipcAccess) Requeue(_ context.Context, ids []int64) (api.RequeueItemsResult, error) {
	resp, err := a.client.QueueRequeue(ids)
	if err != nil {
		return api.RequeueItemsResult{}, err
	}
	return *resp, nil
}

func (a *ipcAccess) Clear(_ context.Context, statuses []string) (int64, error) {
	resp, err := a.client.QueueClear(statuses)
	if err != nil {
		return 0, err
	}
	return resp.Removed, nil
}

func (a *ipcAccess) SetOwner(_ context.Context, name, directory string) (api.OwnerItem, error) {
	resp, err := a.client.OwnerSet(name, directory)
	if err != nil {
		return api.OwnerItem{}, err
	}
	return resp.Owner, nil
}

func (a *ipcAccess) ListOwners(_ context.Context) ([]api.OwnerItem, error) {
	resp, err := a.client.OwnerList()
	if err != nil {
		return nil, err
	}
	return resp.Owners, nil
}

func (a *ipcAccess) RemoveOwner(_ context.Context, name string) (bool, error) {
	resp, err := a.client.OwnerRemove(name)
	if err != nil {
		return false, err
	}
	return resp.Removed, nil
}

type storeAccess struct {
	cfg     *config.Config
	store   *queue.Store
	service *api.QueueService
}

func (a *storeAccess) Stats(ctx context.Context) (map[string]int, error) {
	return a.service.Stats(ctx)
}

func (a *storeAccess) Health(ctx context.Context) (queue.HealthSummary, error) {
	return a.store.Health(ctx)
}

func (a *storeAccess) Enqueue(ctx context.Context, owner, source string) (api.QueueItem, error) {
	return a.service.Enqueue(ctx, api.EnqueueRequest{Owner: owner, Source: source})
}

func (a *storeAccess) List(ctx context.Context, owner string, statuses []string) ([]api.QueueItem, error) {
	filters, err := api.ParseStatusFilters(statuses)
	if err != nil {
		return nil, err
	}
	return a.service.List(ctx, owner, filters...)
}

func (a *storeAccess) Describe(ctx context.Context, id int64) (*api.QueueItem, error) {
	return a.service.Describe(ctx, id)
}

func (a *storeAccess) Requeue(ctx context.Context, ids []int64) (api.RequeueItemsResult, error) {
	return api.RequeueItemsByID(ctx, storeActions{a}, ids)
}

func (a *storeAccess) Clear(ctx context.Context, statuses []string) (int64, error) {
	filters, err := api.ParseStatusFilters(statuses)
	if err != nil {
		return 0, err
	}
	return a.store.ClearTerminal(ctx, filters...)
}

func (a *storeAccess) SetOwner(ctx context.Context, name, directory string) (api.OwnerItem, error) {
	resolved, err := daemon.ResolveOwnerDirectory(a.cfg, name, directory)
	if err != nil {
		return api.OwnerItem{}, err
	}
	owner, err := a.store.UpsertOwner(ctx, name, resolved)
	if err != nil {
		return api.OwnerItem{}, err
	}
	return api.FromOwner(owner), nil
}

func (a *storeAccess) ListOwners(ctx context.Context) ([]api.OwnerItem, error) {
	owners, err := a.store.ListOwners(ctx)
	if err != nil {
		return nil, err
	}
	return api.FromOwners(owners), nil
}

func (a *storeAccess) RemoveOwner(ctx context.Context, name string) (bool, error) {
	return a.store.RemoveOwner(ctx, name)
}

// storeActions adapts direct store access to api.QueueActionService.
type storeActions struct {
	a *storeAccess
}

func (s storeActions) Describe(ctx context.Context, id int64) (*api.QueueItem, error) {
	return s.a.service.Describe(ctx, id)
}

func (s storeActions) Requeue(ctx context.Context, id int64) (*api.QueueItem, error) {
	row, err := s.a.store.Requeue(ctx, id)
	if err != nil {
		return nil, err
	}
	item := api.FromQueueRequest(row)
	return &item, nil
}
