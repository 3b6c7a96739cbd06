package inspect

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"asset-core/core/asset"
	"asset-core/core/assets"
	"asset-core/core/jobs"
	"asset-core/core/serializer"
	"asset-core/core/vfs"
	"asset-core/feature/blob"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	app      *fiber.App
	manager  *assets.Manager
	texture  *blob.Blob
	material *blob.Blob
}

func setupTestApp(t *testing.T) *testEnv {
	t.Helper()
	types := asset.NewTypeRegistry()
	serializers := serializer.NewRegistry()
	require.NoError(t, blob.Register(types, serializers))

	scheduler := jobs.New(jobs.Config{Workers: 2}, nil)
	t.Cleanup(scheduler.Close)

	cfg := assets.Config{ProjectDir: "/project", AssetsDir: "Assets", Extension: ".asset", Compression: "none"}
	fs := vfs.New(afero.NewMemMapFs(), vfs.NewLocalBin("/project/.recycle"))
	mgr, err := assets.NewManager(cfg, types, serializers, fs, scheduler, zap.NewNop())
	require.NoError(t, err)

	texture := blob.FromFile("wood.png", []byte{1, 2, 3})
	_, err = mgr.CreateAsset("Textures", "wood", texture)
	require.NoError(t, err)
	require.NoError(t, mgr.SaveAsset(texture))

	material := &blob.Blob{ContentType: "text/plain", References: []asset.Handle{texture.Handle()}}
	_, err = mgr.CreateAsset("Materials", "wood", material)
	require.NoError(t, err)
	require.NoError(t, mgr.SaveAsset(material))
	require.NoError(t, mgr.AddDependencyToAsset(material.Handle(), texture.Handle()))

	app := fiber.New()
	NewHandler(NewService(mgr, zap.NewNop())).RegisterRoutes(app)
	return &testEnv{app: app, manager: mgr, texture: texture, material: material}
}

func doJSON(t *testing.T, app *fiber.App, method, target string, out any) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHandleList(t *testing.T) {
	env := setupTestApp(t)

	var body struct {
		Count  int              `json:"count"`
		Assets []asset.Metadata `json:"assets"`
	}
	assert.Equal(t, 200, doJSON(t, env.app, "GET", "/assets", &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "Materials/wood.blob", body.Assets[0].FilePath)

	assert.Equal(t, 200, doJSON(t, env.app, "GET", "/assets?type="+blob.TypeGUID.String(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, 400, doJSON(t, env.app, "GET", "/assets?type=nope", nil))
}

func TestHandleGet(t *testing.T) {
	env := setupTestApp(t)

	var meta asset.Metadata
	assert.Equal(t, 200, doJSON(t, env.app, "GET", "/assets/"+env.texture.Handle().String(), &meta))
	assert.Equal(t, "Textures/wood.blob", meta.FilePath)
	assert.True(t, meta.IsLoaded)

	assert.Equal(t, 404, doJSON(t, env.app, "GET", "/assets/12345", nil))
	assert.Equal(t, 400, doJSON(t, env.app, "GET", "/assets/abc", nil))
	assert.Equal(t, 400, doJSON(t, env.app, "GET", "/assets/0", nil))
}

func TestHandleGraph(t *testing.T) {
	env := setupTestApp(t)

	var dependents struct {
		Dependents []asset.Handle `json:"dependents"`
	}
	assert.Equal(t, 200, doJSON(t, env.app, "GET", "/assets/"+env.texture.Handle().String()+"/dependents", &dependents))
	assert.Equal(t, []asset.Handle{env.material.Handle()}, dependents.Dependents)

	var dependencies struct {
		Dependencies []asset.Handle `json:"dependencies"`
	}
	assert.Equal(t, 200, doJSON(t, env.app, "GET", "/assets/"+env.texture.Handle().String()+"/dependencies", &dependencies))
	assert.Empty(t, dependencies.Dependencies)
	assert.NotNil(t, dependencies.Dependencies)

	assert.Equal(t, 404, doJSON(t, env.app, "GET", "/assets/777/dependents", nil))
}

func TestHandleUnloadAndReload(t *testing.T) {
	env := setupTestApp(t)
	target := "/assets/" + env.texture.Handle().String()

	var unload struct {
		Unloaded bool `json:"unloaded"`
	}
	assert.Equal(t, 200, doJSON(t, env.app, "POST", target+"/unload", &unload))
	assert.True(t, unload.Unloaded)
	assert.False(t, env.manager.IsLoaded(env.texture.Handle()))

	var reload struct {
		Valid bool `json:"valid"`
	}
	assert.Equal(t, 200, doJSON(t, env.app, "POST", target+"/reload", &reload))
	assert.True(t, reload.Valid)
	assert.True(t, env.manager.IsLoaded(env.texture.Handle()))

	assert.Equal(t, 404, doJSON(t, env.app, "POST", "/assets/99/reload", nil))
}

func TestHandleRescan(t *testing.T) {
	env := setupTestApp(t)

	var report assets.ScanReport
	assert.Equal(t, 200, doJSON(t, env.app, "POST", "/rescan", &report))
	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 2, report.Registered)
}

func TestLoader(t *testing.T) {
	env := setupTestApp(t)
	feature := NewFeature(env.manager, zap.NewNop())

	assert.Equal(t, "inspect", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}
