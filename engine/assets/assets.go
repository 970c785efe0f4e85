package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/meshview/engine/assets/loaders"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

type AssetInfo struct {
	Path        string
	Type        metadata.ResourceType
	LastChanged time.Time
}

// AssetEvent reports that a tracked asset was created, written or removed.
type AssetEvent struct {
	Path    string
	Type    metadata.ResourceType
	Removed bool
}

type AssetManager struct {
	assets   map[string]AssetInfo
	loaders  map[metadata.ResourceType]Loader
	textures *loaders.TextureLoader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	events   chan AssetEvent
}

func NewAssetManager() *AssetManager {
	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[metadata.ResourceType]Loader),
		textures: loaders.NewTextureLoader(),
		events:   make(chan AssetEvent, 64),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	// Register loaders
	am.registerLoader(metadata.ResourceTypeMesh, &loaders.ModelLoader{})
	am.registerLoader(metadata.ResourceTypeMaterial, &loaders.MaterialLoader{})
	am.registerLoader(metadata.ResourceTypeImage, am.textures)

	return am
}

// Textures returns the shared texture loader used to resolve material maps.
func (am *AssetManager) Textures() *loaders.TextureLoader {
	return am.textures
}

// Changes delivers asset events while watching. It is closed by Close.
func (am *AssetManager) Changes() <-chan AssetEvent {
	return am.events
}

// Watch starts watching assetsDir and all of its sub-directories.
func (am *AssetManager) Watch(assetsDir string) error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return core.ErrWatcherClosed
	}
	if am.fsnotify != nil {
		am.mutex.Unlock()
		return fmt.Errorf("asset manager is already watching")
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		am.mutex.Unlock()
		return err
	}
	am.fsnotify = fsWatch
	am.mutex.Unlock()

	if err := am.watchRecursive(assetsDir); err != nil {
		am.mutex.Lock()
		am.fsnotify = nil
		am.mutex.Unlock()
		fsWatch.Close()
		return err
	}
	go am.start()

	core.LogInfo("Watching assets under '%s'.", assetsDir)
	return nil
}

// Close stops the watcher and closes the Changes channel.
func (am *AssetManager) Close() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	watching := am.fsnotify != nil
	am.mutex.Unlock()

	if !watching {
		close(am.events)
		return nil
	}
	close(am.done)
	<-am.stopped
	return nil
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// Loader returns the loader registered for assetType.
func (am *AssetManager) Loader(assetType metadata.ResourceType) (Loader, bool) {
	loader, ok := am.loaders[assetType]
	return loader, ok
}

// LoadAsset loads the file with the loader registered for its extension.
func (am *AssetManager) LoadAsset(path string, params interface{}) (*metadata.Resource, error) {
	assetType := determineAssetType(path)
	loader, exists := am.loaders[assetType]
	if !exists {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownAssetType, path)
	}
	return loader.Load(path, params)
}

// UnloadAsset releases what the matching loader allocated for res.
func (am *AssetManager) UnloadAsset(res *metadata.Resource) error {
	if res == nil {
		return nil
	}
	loader, exists := am.loaders[res.Type]
	if !exists {
		return fmt.Errorf("%w: %s", core.ErrUnknownAssetType, res.FullPath)
	}
	return loader.Unload(res)
}

// Asset returns what is known about a tracked path.
func (am *AssetManager) Asset(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[filepath.Clean(path)]
	return info, ok
}

func (am *AssetManager) start() {
	defer func() {
		am.fsnotify.Close()
		close(am.events)
		close(am.stopped)
	}()
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			am.handleFSEvent(e)

		case e, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", e.Error())

		case <-am.done:
			return
		}
	}
}

func (am *AssetManager) handleFSEvent(e fsnotify.Event) {
	s, err := os.Stat(e.Name)
	if err == nil && s != nil && s.IsDir() {
		if e.Op&fsnotify.Create != 0 {
			if err := am.watchRecursive(e.Name); err != nil {
				core.LogWarn("asset watcher: cannot watch '%s': %v", e.Name, err)
			}
		}
		return
	}

	var info AssetInfo
	var tracked bool
	removed := false
	switch {
	case e.Op&(fsnotify.Create|fsnotify.Write) != 0:
		info, tracked = am.handleFileEvent(e.Name)
	case e.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// Can't stat a deleted path, so try to drop it from the watch list too.
		info, tracked = am.removeAsset(e.Name)
		_ = am.fsnotify.Remove(e.Name)
		removed = true
	}
	if !tracked {
		return
	}

	select {
	case am.events <- AssetEvent{Path: info.Path, Type: info.Type, Removed: removed}:
	default:
		core.LogDebug("asset watcher: event queue full, dropping '%s'", info.Path)
	}
}

// watchRecursive adds all directories under the given one to the watch list.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if strings.HasPrefix(fi.Name(), ".") && walkPath != path {
				return filepath.SkipDir
			}
			return am.fsnotify.Add(walkPath)
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) (AssetInfo, bool) {
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return AssetInfo{}, false
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	info := AssetInfo{
		Path:        filepath.Clean(path),
		Type:        assetType,
		LastChanged: time.Now(),
	}
	am.assets[info.Path] = info
	return info, true
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) (AssetInfo, bool) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	path = filepath.Clean(path)
	info, ok := am.assets[path]
	delete(am.assets, path)
	return info, ok
}

func determineAssetType(path string) metadata.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return metadata.ResourceTypeMesh
	case ".mtl":
		return metadata.ResourceTypeMaterial
	case ".png", ".jpg", ".jpeg", ".gif", ".tga", ".bmp", ".tif", ".tiff", ".webp":
		return metadata.ResourceTypeImage
	default:
		return metadata.ResourceTypeNone
	}
}
