package systems

import (
	"time"

	"github.com/google/uuid"
	"github.com/spaghettifunk/meshview/engine/containers"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// LoadRecord is one entry of the scene load history.
type LoadRecord struct {
	Path     string
	MeshID   uuid.UUID
	Err      error
	Duration time.Duration
	Summary  string
	At       time.Time
}

// Scene owns the single active mesh. A load builds the replacement fully
// before swapping it in; a failed load leaves the previous mesh active.
type Scene struct {
	loader  *MeshLoaderSystem
	events  *core.EventBus
	active  *metadata.Mesh
	history *containers.RingQueue[LoadRecord]
	metrics *core.LoadMetrics
	clock   *core.Clock
}

func NewScene(loader *MeshLoaderSystem, events *core.EventBus, historySize int) *Scene {
	if events == nil {
		events = core.NewEventBus()
	}
	return &Scene{
		loader:  loader,
		events:  events,
		history: containers.NewRingQueue[LoadRecord](historySize),
		metrics: core.NewLoadMetrics(),
		clock:   core.NewClock(),
	}
}

// Active returns the current mesh, or nil.
func (s *Scene) Active() *metadata.Mesh {
	return s.active
}

// Events returns the bus scene events are fired on.
func (s *Scene) Events() *core.EventBus {
	return s.events
}

// History returns the recent load attempts, oldest first.
func (s *Scene) History() []LoadRecord {
	return s.history.Items()
}

func (s *Scene) Metrics() *core.LoadMetrics {
	return s.metrics
}

// Load replaces the active mesh with the model at path.
func (s *Scene) Load(path string) error {
	s.clock.Start()
	mesh, err := s.loader.Load(path)
	s.clock.Stop()

	record := LoadRecord{Path: path, Err: err, Duration: s.clock.Elapsed(), At: time.Now()}
	s.metrics.Record(record.Duration, err != nil)

	if err != nil {
		s.history.Push(record)
		if s.active != nil {
			core.LogWarn("Keeping '%s' active after failed load of '%s'.", s.active.Name, path)
		}
		s.events.Fire(core.EVENT_CODE_MESH_LOAD_FAILED, s, core.EventContext{Path: path, Err: err})
		return err
	}

	previous := s.active
	s.active = mesh
	s.release(previous)

	record.MeshID = mesh.ID
	record.Summary = mesh.Summary()
	s.history.Push(record)

	core.LogInfo("Loaded '%s' in %s.\n%s", path, record.Duration, record.Summary)
	s.events.Fire(core.EVENT_CODE_MESH_LOADED, s, core.EventContext{Path: path, Payload: mesh})
	return nil
}

// Reload loads the active mesh's file again.
func (s *Scene) Reload() error {
	if s.active == nil {
		return core.ErrNoActiveMesh
	}
	return s.Load(s.active.Path)
}

// Close releases the active mesh.
func (s *Scene) Close() error {
	previous := s.active
	s.active = nil
	return s.release(previous)
}

func (s *Scene) release(mesh *metadata.Mesh) error {
	if mesh == nil {
		return nil
	}
	err := s.loader.Unload(mesh)
	s.events.Fire(core.EVENT_CODE_MESH_RELEASED, s, core.EventContext{Path: mesh.Path, Payload: mesh})
	return err
}
