package http

import (
	"context"
	"io"
	"sync"

	"github.com/melih/composedeck/internal/core/domain"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type fakeInventory struct {
	clients  []domain.Client
	services map[string][]domain.Service
	err      error
}

func (f *fakeInventory) ListClients(context.Context) ([]domain.Client, error) {
	return f.clients, f.err
}

func (f *fakeInventory) ReconcileClient(_ context.Context, client string) ([]domain.Service, error) {
	if err := domain.ValidateClientName(client); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	if svcs, ok := f.services[client]; ok {
		return svcs, nil
	}
	return []domain.Service{}, nil
}

func (f *fakeInventory) ReconcileService(ctx context.Context, client, service string) (domain.Service, error) {
	svcs, err := f.ReconcileClient(ctx, client)
	if err != nil {
		return domain.Service{}, err
	}
	for _, s := range svcs {
		if s.Name == service {
			return s, nil
		}
	}
	return domain.Service{}, domain.ErrNotFound
}

type fakeActions struct {
	mu    sync.Mutex
	calls []string
	res   domain.ActionResult
	err   error
	logs  string
}

func (f *fakeActions) do(action domain.Action, service string) (domain.ActionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, string(action)+":"+service)
	if f.err != nil {
		return domain.ActionResult{}, f.err
	}
	res := f.res
	res.Name, res.Action = service, action
	return res, nil
}

func (f *fakeActions) Start(_ context.Context, _, service string) (domain.ActionResult, error) {
	return f.do(domain.ActionStart, service)
}

func (f *fakeActions) Stop(_ context.Context, _, service string) (domain.ActionResult, error) {
	return f.do(domain.ActionStop, service)
}

func (f *fakeActions) Fetch(_ context.Context, _, service string) (domain.ActionResult, error) {
	return f.do(domain.ActionFetch, service)
}

func (f *fakeActions) Logs(context.Context, string, string) (string, error) {
	return f.logs, f.err
}

type fakeSource struct {
	cloned map[string]string
	synced []string
	err    error
}

func (f *fakeSource) Clone(_ context.Context, client, repoURL string) error {
	if f.err != nil {
		return f.err
	}
	if f.cloned == nil {
		f.cloned = map[string]string{}
	}
	f.cloned[client] = repoURL
	return nil
}

func (f *fakeSource) Sync(_ context.Context, client string) error {
	if f.err != nil {
		return f.err
	}
	f.synced = append(f.synced, client)
	return nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }
