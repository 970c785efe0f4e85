package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

func TestDetermineAssetType(t *testing.T) {
	cases := map[string]metadata.ResourceType{
		"models/cube.obj":  metadata.ResourceTypeMesh,
		"models/CUBE.OBJ":  metadata.ResourceTypeMesh,
		"cube.mtl":         metadata.ResourceTypeMaterial,
		"brick.png":        metadata.ResourceTypeImage,
		"brick.jpeg":       metadata.ResourceTypeImage,
		"brick.tga":        metadata.ResourceTypeImage,
		"brick.webp":       metadata.ResourceTypeImage,
		"notes.txt":        metadata.ResourceTypeNone,
		"no-extension":     metadata.ResourceTypeNone,
		"shader.frag.spv":  metadata.ResourceTypeNone,
		"archive.obj.bak":  metadata.ResourceTypeNone,
		"textures/a.b.bmp": metadata.ResourceTypeImage,
	}
	for path, want := range cases {
		assert.Equal(t, want, determineAssetType(path), path)
	}
}

func TestLoadAssetByExtension(t *testing.T) {
	dir := t.TempDir()
	mtl := filepath.Join(dir, "lib.mtl")
	require.NoError(t, os.WriteFile(mtl, []byte("newmtl a\nKd 1 1 1\n"), 0o644))

	am := NewAssetManager()
	defer am.Close()

	res, err := am.LoadAsset(mtl, nil)
	require.NoError(t, err)
	assert.Equal(t, metadata.ResourceTypeMaterial, res.Type)
	require.NoError(t, am.UnloadAsset(res))

	_, err = am.LoadAsset(filepath.Join(dir, "readme.txt"), nil)
	assert.ErrorIs(t, err, core.ErrUnknownAssetType)
}

func TestCloseWithoutWatching(t *testing.T) {
	am := NewAssetManager()
	require.NoError(t, am.Close())

	_, open := <-am.Changes()
	assert.False(t, open)
	assert.ErrorIs(t, am.Watch(t.TempDir()), core.ErrWatcherClosed)
	assert.NoError(t, am.Close())
}

func TestWatchMissingDirectory(t *testing.T) {
	am := NewAssetManager()
	assert.Error(t, am.Watch(filepath.Join(t.TempDir(), "nope")))
	assert.NoError(t, am.Close())
}

func TestWatchReportsChanges(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "cube.obj")
	require.NoError(t, os.WriteFile(model, []byte("v 0 0 0\n"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".cache"), 0o755))

	am := NewAssetManager()
	require.NoError(t, am.Watch(dir))

	info, ok := am.Asset(model)
	require.True(t, ok, "existing files are indexed on watch")
	assert.Equal(t, metadata.ResourceTypeMesh, info.Type)

	// Untracked files produce no events.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cube.mtl"), []byte("newmtl a\n"), 0o644))

	select {
	case ev := <-am.Changes():
		assert.Equal(t, filepath.Join(dir, "cube.mtl"), ev.Path)
		assert.Equal(t, metadata.ResourceTypeMaterial, ev.Type)
		assert.False(t, ev.Removed)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for the new material library")
	}

	require.NoError(t, am.Close())
	for range am.Changes() {
	}
}
