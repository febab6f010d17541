package instance

import (
	"context"
	"sync"
	"testing"

	"horizonx-gauge/internal/domain"

	"github.com/google/uuid"
	"github.com/shoenig/test/must"
)

type memRepo struct {
	mu        sync.Mutex
	instances map[uuid.UUID]*domain.Instance
}

func newMemRepo() *memRepo {
	return &memRepo{instances: map[uuid.UUID]*domain.Instance{}}
}

func (r *memRepo) List(_ context.Context, _ domain.ListOptions) ([]*domain.Instance, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Instance, 0, len(r.instances))
	for _, i := range r.instances {
		c := *i
		out = append(out, &c)
	}
	return out, int64(len(out)), nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.instances[id]
	if !ok {
		return nil, domain.ErrInstanceNotFound
	}
	c := *i
	return &c, nil
}

func (r *memRepo) Create(_ context.Context, i *domain.Instance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *i
	r.instances[i.ID] = &c
	return nil
}

func (r *memRepo) Update(_ context.Context, i *domain.Instance, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.instances[id]; !ok {
		return domain.ErrInstanceNotFound
	}
	c := *i
	r.instances[id] = &c
	return nil
}

func (r *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.instances[id]; !ok {
		return domain.ErrInstanceNotFound
	}
	delete(r.instances, id)
	return nil
}

type forgetRecorder struct {
	domain.GaugeService
	forgotten []uuid.UUID
}

func (f *forgetRecorder) Forget(id uuid.UUID) {
	f.forgotten = append(f.forgotten, id)
}

func TestService_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	gauges := &forgetRecorder{}
	svc := NewService(newMemRepo(), gauges)

	created, err := svc.Create(ctx, domain.InstanceSaveRequest{
		Name:       "vm-1",
		Source:     domain.SourceHTTP,
		MetricsURL: "https://api.example.com",
	})
	must.NoError(t, err)
	must.NotEq(t, uuid.Nil, created.ID)

	renamed, err := svc.Update(ctx, domain.InstanceSaveRequest{
		Name:       "vm-1-renamed",
		Source:     domain.SourceHTTP,
		MetricsURL: "https://api.example.com",
	}, created.ID)
	must.NoError(t, err)
	must.Eq(t, "vm-1-renamed", renamed.Name)
	must.SliceEmpty(t, gauges.forgotten)

	moved, err := svc.Update(ctx, domain.InstanceSaveRequest{
		Name:       "vm-1-renamed",
		Source:     domain.SourceLocal,
		MetricsURL: "https://ignored.example.com",
	}, created.ID)
	must.NoError(t, err)
	must.Eq(t, "", moved.MetricsURL)
	must.Eq(t, []uuid.UUID{created.ID}, gauges.forgotten)

	must.NoError(t, svc.Delete(ctx, created.ID))
	must.Len(t, 2, gauges.forgotten)

	_, err = svc.GetByID(ctx, created.ID)
	must.ErrorIs(t, err, domain.ErrInstanceNotFound)
}

func TestService_UpdateMissing(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	_, err := svc.Update(context.Background(), domain.InstanceSaveRequest{Name: "x", Source: domain.SourceLocal}, uuid.New())
	must.ErrorIs(t, err, domain.ErrInstanceNotFound)
}

func TestService_ListPaginationDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo(), nil)

	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, domain.InstanceSaveRequest{Name: name, Source: domain.SourceLocal})
		must.NoError(t, err)
	}

	res, err := svc.List(ctx, domain.ListOptions{IsPaginate: true})
	must.NoError(t, err)
	must.NotNil(t, res.Meta)
	must.Eq(t, 1, res.Meta.CurrentPage)
	must.Eq(t, 10, res.Meta.PerPage)
	must.Eq(t, int64(3), res.Meta.Total)

	all, err := svc.All(ctx)
	must.NoError(t, err)
	must.Len(t, 3, all)
}
