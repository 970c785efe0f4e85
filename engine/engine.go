package engine

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spaghettifunk/meshview/engine/assets"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
	"github.com/spaghettifunk/meshview/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// Editors often write a file in several steps; reloads wait for this long
// after the last change.
const reloadDelay = 150 * time.Millisecond

type Engine struct {
	currentStage  Stage
	config        ApplicationConfig
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	events        *core.EventBus
	watching      bool
}

func New(config ApplicationConfig, backend renderer.RendererBackend) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	am := assets.NewAssetManager()
	events := core.NewEventBus()
	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		Params:      config.MeshLoadParams(),
		HistorySize: config.HistorySize,
	}, backend, am, events)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage:  EngineStageUninitialized,
		config:        config,
		assetManager:  am,
		systemManager: sm,
		events:        events,
	}, nil
}

func (e *Engine) Config() ApplicationConfig {
	return e.config
}

func (e *Engine) Scene() *systems.Scene {
	return e.systemManager.Scene()
}

func (e *Engine) Events() *core.EventBus {
	return e.events
}

func (e *Engine) SystemManager() *systems.SystemManager {
	return e.systemManager
}

// Initialize applies the log level, starts watching when configured and
// loads the configured model. A failed model load is returned but leaves
// the engine usable with an empty scene.
func (e *Engine) Initialize() error {
	level, _ := core.ParseLogLevel(e.config.LogLevel)
	core.SetLogLevel(level)

	if e.config.Watch {
		if err := e.assetManager.Watch(e.config.AssetsDir); err != nil {
			core.LogError("failed to watch '%s': %v", e.config.AssetsDir, err)
			return err
		}
		e.watching = true
	}
	e.currentStage = EngineStageInitialized
	core.LogInfo("%s initialized.", e.config.Name)

	if e.config.Model != "" {
		return e.LoadModel(e.config.Model)
	}
	return nil
}

// LoadModel replaces the active mesh. On failure the previous mesh stays active.
func (e *Engine) LoadModel(path string) error {
	return e.Scene().Load(path)
}

// Run processes asset changes until ctx is done. Without watching it only
// waits for ctx.
func (e *Engine) Run(ctx context.Context) error {
	e.currentStage = EngineStageRunning
	if !e.watching {
		<-ctx.Done()
		return nil
	}

	changes := e.assetManager.Changes()
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-changes:
			if !ok {
				return nil
			}
			e.events.Fire(core.EVENT_CODE_ASSET_CHANGED, e, core.EventContext{Path: ev.Path})
			if !e.affectsModel(ev) {
				continue
			}
			core.LogDebug("'%s' changed, scheduling reload.", ev.Path)
			if timer == nil {
				timer = time.NewTimer(reloadDelay)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(reloadDelay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			e.reload()
		}
	}
}

func (e *Engine) reload() {
	target := e.modelPath()
	if target == "" {
		return
	}
	core.LogInfo("Reloading '%s'.", target)
	if err := e.Scene().Load(target); err != nil {
		core.LogError("Reload of '%s' failed: %v", target, err)
	}
}

// modelPath is the active mesh's file, or the configured model when nothing
// loaded yet, so a broken model is retried once it is fixed.
func (e *Engine) modelPath() string {
	if active := e.Scene().Active(); active != nil {
		return active.Path
	}
	return e.config.Model
}

func (e *Engine) affectsModel(ev assets.AssetEvent) bool {
	if ev.Removed {
		return false
	}
	target := e.modelPath()
	if target == "" {
		return false
	}
	targetAbs, err := filepath.Abs(target)
	if err != nil {
		return false
	}
	changedAbs, err := filepath.Abs(ev.Path)
	if err != nil {
		return false
	}

	switch ev.Type {
	case metadata.ResourceTypeMesh:
		return changedAbs == targetAbs
	case metadata.ResourceTypeMaterial, metadata.ResourceTypeImage:
		if rel, err := filepath.Rel(filepath.Dir(targetAbs), changedAbs); err == nil && filepath.IsLocal(rel) {
			return true
		}
		return e.referencesTexture(changedAbs)
	default:
		return false
	}
}

// referencesTexture reports whether a material of the active mesh uses the
// file at path as its diffuse map.
func (e *Engine) referencesTexture(path string) bool {
	active := e.Scene().Active()
	if active == nil {
		return false
	}
	for _, m := range active.Materials {
		if m.DiffuseMap == nil {
			continue
		}
		if mapAbs, err := filepath.Abs(m.DiffuseMap.Path); err == nil && mapAbs == path {
			return true
		}
	}
	return false
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if err := e.assetManager.Close(); err != nil {
		core.LogError(err.Error())
	}
	if err := e.systemManager.Shutdown(); err != nil {
		core.LogError(err.Error())
		return err
	}
	core.LogInfo("%s shut down.", e.config.Name)
	return nil
}
