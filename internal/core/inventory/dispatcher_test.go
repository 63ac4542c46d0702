package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/melih/composedeck/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(rt *fakeRuntime) *Dispatcher {
	loader := &fakeLoader{files: map[string]string{"acme": acmeCompose}}
	return NewDispatcher(loader, rt, NameMatcher{}, 0, testLogger())
}

func TestDispatcher_Start(t *testing.T) {
	rt := newFakeRuntime()
	res, err := newTestDispatcher(rt).Start(context.Background(), "acme", "web")
	require.NoError(t, err)

	assert.Equal(t, domain.ActionResult{
		Name:    "web",
		Action:  domain.ActionStart,
		Success: true,
		Message: "Container web started successfully",
	}, res)
	require.Len(t, rt.created, 1)
	assert.Equal(t, domain.ContainerSpec{
		Name:  "web",
		Image: "nginx",
		Ports: []string{"8080:80", "8443:443"},
		Labels: map[string]string{
			domain.LabelComposeProject: "acme",
			domain.LabelComposeService: "web",
		},
	}, rt.created[0])
	assert.Equal(t, 1, rt.count("StartContainer"))
}

func TestDispatcher_StartUndefinedService(t *testing.T) {
	rt := newFakeRuntime()
	d := newTestDispatcher(rt)

	for _, target := range [][2]string{{"acme", "nope"}, {"acme", "worker"}, {"unknown", "web"}} {
		_, err := d.Start(context.Background(), target[0], target[1])
		assert.True(t, errors.Is(err, domain.ErrNotFound), "%v: %v", target, err)
	}
	assert.Zero(t, rt.count("CreateContainer"))
	assert.Zero(t, rt.count("StartContainer"))
}

func TestDispatcher_StartRuntimeFailure(t *testing.T) {
	rt := newFakeRuntime()
	rt.createErr = errors.New(`Conflict. The container name "/web" is already in use`)

	res, err := newTestDispatcher(rt).Start(context.Background(), "acme", "web")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, `Failed to start web: Conflict. The container name "/web" is already in use`, res.Message)
	assert.Zero(t, rt.count("StartContainer"))
}

func TestDispatcher_Stop(t *testing.T) {
	rt := newFakeRuntime()
	rt.containers = []domain.Container{
		{ID: "other", Names: []string{"/db"}, State: "running"},
		{ID: "target", Names: []string{"/acme_web"}, State: "running"},
	}

	res, err := newTestDispatcher(rt).Stop(context.Background(), "acme", "web")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Container web stopped successfully", res.Message)
	assert.Equal(t, []string{"target"}, rt.stopped)
}

func TestDispatcher_StopNoContainer(t *testing.T) {
	rt := newFakeRuntime()
	_, err := newTestDispatcher(rt).Stop(context.Background(), "acme", "web")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Zero(t, rt.count("StopContainer"))
}

func TestDispatcher_StopRuntimeFailure(t *testing.T) {
	rt := newFakeRuntime()
	rt.containersErr = errors.New("daemon unreachable")

	res, err := newTestDispatcher(rt).Stop(context.Background(), "acme", "web")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionResult{
		Name:    "web",
		Action:  domain.ActionStop,
		Message: "Failed to stop web: daemon unreachable",
	}, res)
}

func TestDispatcher_FetchBlocksUntilPullCompletes(t *testing.T) {
	rt := newFakeRuntime()
	rt.pullGate = make(chan struct{})
	rt.pullStarted = make(chan struct{})
	d := newTestDispatcher(rt)

	done := make(chan domain.ActionResult, 1)
	go func() {
		res, err := d.Fetch(context.Background(), "acme", "db")
		assert.NoError(t, err)
		done <- res
	}()

	<-rt.pullStarted
	select {
	case <-done:
		t.Fatal("Fetch returned before the pull completed")
	case <-time.After(50 * time.Millisecond):
	}

	close(rt.pullGate)
	select {
	case res := <-done:
		assert.True(t, res.Success)
		assert.Equal(t, "Image for db fetched successfully", res.Message)
	case <-time.After(time.Second):
		t.Fatal("Fetch did not return after the pull completed")
	}
	assert.Equal(t, []string{"postgres:16"}, rt.pulled)
}

func TestDispatcher_FetchFailures(t *testing.T) {
	rt := newFakeRuntime()
	rt.pullErr = errors.New("manifest unknown")
	d := newTestDispatcher(rt)

	res, err := d.Fetch(context.Background(), "acme", "db")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Failed to fetch image for db: manifest unknown", res.Message)

	_, err = d.Fetch(context.Background(), "acme", "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// build-only services are never loaded, so they have nothing to pull
	_, err = d.Fetch(context.Background(), "acme", "worker")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 1, rt.count("PullImage"))
}

func TestDispatcher_ConcurrentStartCreatesOnce(t *testing.T) {
	rt := newFakeRuntime()
	d := newTestDispatcher(rt)

	// Hold the first start inside the runtime until every caller has joined.
	release := make(chan struct{})
	blocking := &blockingCreate{fakeRuntime: rt, release: release, entered: make(chan struct{})}
	d.runtime = blocking

	const callers = 5
	var wg sync.WaitGroup
	results := make([]domain.ActionResult, callers)
	wg.Add(callers)
	go func() {
		defer wg.Done()
		res, err := d.Start(context.Background(), "acme", "web")
		assert.NoError(t, err)
		results[0] = res
	}()
	<-blocking.entered
	for i := 1; i < callers; i++ {
		go func() {
			defer wg.Done()
			res, err := d.Start(context.Background(), "acme", "web")
			assert.NoError(t, err)
			results[i] = res
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 1, rt.count("CreateContainer"))
	for _, res := range results {
		assert.True(t, res.Success)
	}
}

type blockingCreate struct {
	*fakeRuntime
	release chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (b *blockingCreate) CreateContainer(ctx context.Context, spec domain.ContainerSpec) (string, error) {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return b.fakeRuntime.CreateContainer(ctx, spec)
}

func TestDispatcher_Logs(t *testing.T) {
	rt := newFakeRuntime()
	rt.containers = []domain.Container{{ID: "c1", Names: []string{"/web"}, State: "running"}}
	rt.logs = "ready\n"
	d := newTestDispatcher(rt)

	out, err := d.Logs(context.Background(), "acme", "web")
	require.NoError(t, err)
	assert.Equal(t, "ready\n", out)

	_, err = d.Logs(context.Background(), "acme", "db")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = d.Logs(context.Background(), "../x", "web")
	assert.True(t, errors.Is(err, domain.ErrInvalidClientName))
}
