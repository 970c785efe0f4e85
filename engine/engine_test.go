package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/assets"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/headless"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

const triangleOBJ = "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
const quadOBJ = "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n"

func writeModel(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "model.obj")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEngineInitializeLoadsModel(t *testing.T) {
	cfg := DefaultApplicationConfig()
	cfg.Model = writeModel(t, t.TempDir(), quadOBJ)

	backend := headless.New()
	e, err := New(cfg, backend)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	mesh := e.Scene().Active()
	require.NotNil(t, mesh)
	assert.EqualValues(t, 2, mesh.TriangleCount)
	assert.True(t, mesh.Normalized)
	assert.Equal(t, 1, backend.Live())

	require.NoError(t, e.Shutdown())
	assert.Equal(t, 0, backend.Live())
}

func TestEngineInitializeFailedModel(t *testing.T) {
	cfg := DefaultApplicationConfig()
	cfg.Model = writeModel(t, t.TempDir(), "f 1 2 3\n")

	e, err := New(cfg, headless.New())
	require.NoError(t, err)
	require.ErrorIs(t, e.Initialize(), core.ErrMalformedRecord)
	assert.Nil(t, e.Scene().Active())
	require.NoError(t, e.Shutdown())
}

func TestEngineNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultApplicationConfig()
	cfg.HistorySize = -1
	_, err := New(cfg, headless.New())
	assert.Error(t, err)

	_, err = New(DefaultApplicationConfig(), nil)
	assert.Error(t, err)
}

func TestEngineRunWithoutWatchStopsOnCancel(t *testing.T) {
	e, err := New(DefaultApplicationConfig(), headless.New())
	require.NoError(t, err)
	require.NoError(t, e.Initialize())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.NoError(t, e.Shutdown())
}

func TestEngineReloadsChangedModel(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultApplicationConfig()
	cfg.Model = writeModel(t, dir, triangleOBJ)
	cfg.Watch = true

	e, err := New(cfg, headless.New())
	require.NoError(t, err)

	loaded := make(chan *metadata.Mesh, 4)
	e.Events().Register(core.EVENT_CODE_MESH_LOADED, t, func(code core.SystemEventCode, sender, listener interface{}, data core.EventContext) bool {
		loaded <- data.Payload.(*metadata.Mesh)
		return false
	})
	require.NoError(t, e.Initialize())
	first := <-loaded
	assert.EqualValues(t, 1, first.TriangleCount)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	writeModel(t, dir, quadOBJ)

	select {
	case mesh := <-loaded:
		assert.EqualValues(t, 2, mesh.TriangleCount)
		assert.NotEqual(t, first.ID, mesh.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("model was not reloaded")
	}

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, e.Shutdown())
}

func TestEngineAffectsModel(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultApplicationConfig()
	cfg.Model = writeModel(t, dir, triangleOBJ)

	e, err := New(cfg, headless.New())
	require.NoError(t, err)
	defer e.Shutdown()

	other := filepath.Join(t.TempDir(), "other.mtl")
	cases := []struct {
		event assets.AssetEvent
		want  bool
	}{
		{assets.AssetEvent{Path: cfg.Model, Type: metadata.ResourceTypeMesh}, true},
		{assets.AssetEvent{Path: filepath.Join(dir, "other.obj"), Type: metadata.ResourceTypeMesh}, false},
		{assets.AssetEvent{Path: filepath.Join(dir, "model.mtl"), Type: metadata.ResourceTypeMaterial}, true},
		{assets.AssetEvent{Path: filepath.Join(dir, "brick.png"), Type: metadata.ResourceTypeImage}, true},
		{assets.AssetEvent{Path: filepath.Join(dir, "textures", "brick.png"), Type: metadata.ResourceTypeImage}, true},
		{assets.AssetEvent{Path: filepath.Join(dir, "lib", "deep", "model.mtl"), Type: metadata.ResourceTypeMaterial}, true},
		{assets.AssetEvent{Path: filepath.Join(dir, "..", "brick.png"), Type: metadata.ResourceTypeImage}, false},
		{assets.AssetEvent{Path: other, Type: metadata.ResourceTypeMaterial}, false},
		{assets.AssetEvent{Path: cfg.Model, Type: metadata.ResourceTypeMesh, Removed: true}, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, e.affectsModel(c.event), c.event.Path)
	}
}

func TestEngineAffectsModelReferencedTexture(t *testing.T) {
	root := t.TempDir()
	modelDir := filepath.Join(root, "model")
	shared := filepath.Join(root, "shared")
	require.NoError(t, os.MkdirAll(modelDir, 0o755))
	require.NoError(t, os.MkdirAll(shared, 0o755))

	mtl := "newmtl brick\nKd 1 1 1\nmap_Kd ../shared/brick.png\n"
	require.NoError(t, os.WriteFile(filepath.Join(modelDir, "model.mtl"), []byte(mtl), 0o644))

	cfg := DefaultApplicationConfig()
	cfg.Model = writeModel(t, modelDir, "mtllib model.mtl\nusemtl brick\n"+triangleOBJ)
	require.NoError(t, cfg.Validate())

	e, err := New(cfg, headless.New())
	require.NoError(t, err)
	defer e.Shutdown()

	texture := filepath.Join(shared, "brick.png")
	unrelated := filepath.Join(shared, "stone.png")
	image := func(path string) assets.AssetEvent {
		return assets.AssetEvent{Path: path, Type: metadata.ResourceTypeImage}
	}

	// Nothing is loaded yet, so only the model directory counts.
	assert.False(t, e.affectsModel(image(texture)))

	require.NoError(t, e.Initialize())
	require.NotNil(t, e.Scene().Active())

	assert.True(t, e.affectsModel(image(texture)), "texture outside the model directory")
	assert.False(t, e.affectsModel(image(unrelated)))
	assert.False(t, e.affectsModel(assets.AssetEvent{Path: texture, Type: metadata.ResourceTypeImage, Removed: true}))
}
