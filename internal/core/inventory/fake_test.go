package inventory

import (
	"context"
	"io"
	"sync"

	"github.com/melih/composedeck/internal/compose"
	"github.com/melih/composedeck/internal/core/domain"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type fakeRuntime struct {
	mu sync.Mutex

	images     []domain.Image
	containers []domain.Container

	imagesErr     error
	containersErr error
	createErr     error
	startErr      error
	stopErr       error
	pullErr       error

	// pullGate, when set, blocks PullImage until it is closed.
	pullGate chan struct{}
	// pullStarted is closed when PullImage is entered.
	pullStarted chan struct{}

	calls   map[string]int
	created []domain.ContainerSpec
	stopped []string
	pulled  []string
	logs    string
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{calls: map[string]int{}}
}

func (f *fakeRuntime) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeRuntime) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRuntime) ListImages(context.Context) ([]domain.Image, error) {
	f.record("ListImages")
	return f.images, f.imagesErr
}

func (f *fakeRuntime) ListContainers(context.Context) ([]domain.Container, error) {
	f.record("ListContainers")
	return f.containers, f.containersErr
}

func (f *fakeRuntime) CreateContainer(_ context.Context, spec domain.ContainerSpec) (string, error) {
	f.record("CreateContainer")
	if f.createErr != nil {
		return "", f.createErr
	}
	f.mu.Lock()
	f.created = append(f.created, spec)
	f.mu.Unlock()
	return "id-" + spec.Name, nil
}

func (f *fakeRuntime) StartContainer(context.Context, string) error {
	f.record("StartContainer")
	return f.startErr
}

func (f *fakeRuntime) StopContainer(_ context.Context, id string) error {
	f.record("StopContainer")
	if f.stopErr != nil {
		return f.stopErr
	}
	f.mu.Lock()
	f.stopped = append(f.stopped, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeRuntime) PullImage(_ context.Context, image string) error {
	f.record("PullImage")
	if f.pullStarted != nil {
		close(f.pullStarted)
	}
	if f.pullGate != nil {
		<-f.pullGate
	}
	if f.pullErr != nil {
		return f.pullErr
	}
	f.mu.Lock()
	f.pulled = append(f.pulled, image)
	f.mu.Unlock()
	return nil
}

func (f *fakeRuntime) ContainerLogs(context.Context, string, int) (string, error) {
	f.record("ContainerLogs")
	return f.logs, nil
}

func (f *fakeRuntime) Ping(context.Context) error { return nil }

// fakeLoader serves compose documents from memory.
type fakeLoader struct {
	clients []string
	files   map[string]string
}

func (l *fakeLoader) Clients() ([]string, error) {
	return l.clients, nil
}

func (l *fakeLoader) Load(client string) (*compose.Project, error) {
	if err := domain.ValidateClientName(client); err != nil {
		return nil, err
	}
	src, ok := l.files[client]
	if !ok {
		return nil, nil
	}
	p, err := compose.Parse([]byte(src))
	if err != nil {
		return nil, nil
	}
	return p, nil
}
