package assets_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"asset-core/core/asset"
	"asset-core/core/assets"
	"asset-core/core/binstream"
	"asset-core/core/jobs"
	"asset-core/core/serializer"
	"asset-core/core/vfs"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	crateGUID  = uuid.MustParse("3c0f6d1e-2a4b-4f7e-9d8c-1b2a3c4d5e6f")
	shaderGUID = uuid.MustParse("8e2d4c6b-0a1f-4e3d-b5c7-9f8e7d6c5b4a")
)

type dependencyEvent struct {
	Handle asset.Handle
	State  asset.ChangedState
}

type crate struct {
	asset.Base
	X   int32
	Dep asset.Handle

	mu     sync.Mutex
	events []dependencyEvent
}

func (c *crate) TypeGUID() uuid.UUID { return crateGUID }

func (c *crate) OnDependencyChanged(h asset.Handle, state asset.ChangedState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, dependencyEvent{Handle: h, State: state})
}

func (c *crate) Events() []dependencyEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]dependencyEvent(nil), c.events...)
}

// shader has a type but no serializer.
type shader struct {
	asset.Base
}

func (s *shader) TypeGUID() uuid.UUID { return shaderGUID }

type crateSerializer struct {
	decodes atomic.Int32
	gate    chan struct{}
}

func (s *crateSerializer) Serialize(host serializer.Host, meta asset.Metadata, a asset.Asset) error {
	c := a.(*crate)
	return serializer.WriteAssetFile(host, meta, c.Version(), func(w *binstream.Writer) error {
		if err := w.Write(c.X); err != nil {
			return err
		}
		return w.Write(uint64(c.Dep))
	})
}

func (s *crateSerializer) Deserialize(host serializer.Host, meta asset.Metadata, a asset.Asset) error {
	s.decodes.Add(1)
	if s.gate != nil {
		<-s.gate
	}

	r, _, err := serializer.OpenAssetFile(host, meta, a)
	if err != nil {
		return err
	}
	c := a.(*crate)
	var dep uint64
	if err := r.Read(&c.X); err != nil {
		return err
	}
	if err := r.Read(&dep); err != nil {
		return err
	}
	c.Dep = asset.Handle(dep)
	if c.Dep.IsValid() {
		return host.AddDependencyToAsset(meta.Handle, c.Dep)
	}
	return nil
}

type fixture struct {
	fs          afero.Fs
	mgr         *assets.Manager
	scheduler   *jobs.Scheduler
	serializer  *crateSerializer
	types       *asset.TypeRegistry
	serializers *serializer.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(t, afero.NewMemMapFs(), &crateSerializer{})
}

func newFixtureOn(t *testing.T, fs afero.Fs, cs *crateSerializer, opts ...func(cfg *assets.Config)) *fixture {
	t.Helper()

	types := asset.NewTypeRegistry()
	require.NoError(t, types.Register(&asset.Type{
		GUID: crateGUID, Name: "Crate", Extensions: []string{".asset"},
		New: func() asset.Asset { return &crate{} },
	}))
	require.NoError(t, types.Register(&asset.Type{
		GUID: shaderGUID, Name: "Shader", Extensions: []string{".shader"},
		New: func() asset.Asset { return &shader{} },
	}))

	serializers := serializer.NewRegistry()
	require.NoError(t, serializers.RegisterSerializer(crateGUID, cs))

	logger := zaptest.NewLogger(t)
	scheduler := jobs.New(jobs.Config{Workers: 4}, logger)
	t.Cleanup(scheduler.Close)

	cfg := assets.Config{
		ProjectDir:  "/project",
		AssetsDir:   "Assets",
		Extension:   ".asset",
		Compression: "zlib",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	mgr, err := assets.NewManager(cfg, types, serializers, vfs.New(fs, vfs.NewLocalBin("/project/.recycle")), scheduler, logger)
	require.NoError(t, err)

	return &fixture{
		fs:          fs,
		mgr:         mgr,
		scheduler:   scheduler,
		serializer:  cs,
		types:       types,
		serializers: serializers,
	}
}

// writeCrate saves a crate at rel with a fixed handle through a throwaway
// manager sharing the filesystem.
func (f *fixture) writeCrate(t *testing.T, rel string, h asset.Handle, x int32, dep asset.Handle) {
	t.Helper()
	writer := newFixtureOn(t, f.fs, &crateSerializer{}, func(cfg *assets.Config) { *cfg = f.mgr.Config() })
	c := &crate{X: x, Dep: dep}
	c.SetHandle(h)
	require.NoError(t, writer.mgr.SaveAssetAs(c, rel))
}
