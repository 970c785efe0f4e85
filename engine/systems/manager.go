package systems

import (
	"github.com/spaghettifunk/meshview/engine/assets"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

type SystemManagerConfig struct {
	Params      metadata.MeshLoadParams
	HistorySize int
}

type SystemManager struct {
	geometrySystem   *GeometrySystem
	meshLoaderSystem *MeshLoaderSystem
	scene            *Scene
}

func NewSystemManager(config SystemManagerConfig, backend renderer.RendererBackend, am *assets.AssetManager, events *core.EventBus) (*SystemManager, error) {
	gs, err := NewGeometrySystem(backend)
	if err != nil {
		return nil, err
	}
	mls, err := NewMeshLoaderSystem(am, gs, config.Params)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		geometrySystem:   gs,
		meshLoaderSystem: mls,
		scene:            NewScene(mls, events, config.HistorySize),
	}, nil
}

func (sm *SystemManager) GeometrySystem() *GeometrySystem {
	return sm.geometrySystem
}

func (sm *SystemManager) MeshLoaderSystem() *MeshLoaderSystem {
	return sm.meshLoaderSystem
}

func (sm *SystemManager) Scene() *Scene {
	return sm.scene
}

func (sm *SystemManager) Shutdown() error {
	return sm.scene.Close()
}
