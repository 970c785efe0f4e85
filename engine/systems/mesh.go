package systems

import (
	"fmt"

	"github.com/spaghettifunk/meshview/engine/assets"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// TextureStatus describes the diffuse texture of one material after resolution.
type TextureStatus struct {
	Material string
	Path     string
	Width    int
	Height   int
	Err      error
}

type MeshLoaderSystem struct {
	assetManager   *assets.AssetManager
	geometrySystem *GeometrySystem
	params         metadata.MeshLoadParams
}

func NewMeshLoaderSystem(am *assets.AssetManager, gs *GeometrySystem, params metadata.MeshLoadParams) (*MeshLoaderSystem, error) {
	if am == nil || gs == nil {
		return nil, fmt.Errorf("func NewMeshLoaderSystem - asset manager and geometry system are required")
	}
	return &MeshLoaderSystem{
		assetManager:   am,
		geometrySystem: gs,
		params:         params,
	}, nil
}

// Params returns the options every load uses.
func (mls *MeshLoaderSystem) Params() metadata.MeshLoadParams {
	return mls.params
}

/**
 * @brief Parses, optionally normalizes, packages and uploads the model at path.
 * Nothing is kept on failure: the returned error is the first one hit.
 */
func (mls *MeshLoaderSystem) Load(path string) (*metadata.Mesh, error) {
	loader, ok := mls.assetManager.Loader(metadata.ResourceTypeMesh)
	if !ok {
		return nil, fmt.Errorf("%w: no mesh loader registered", core.ErrUnknownAssetType)
	}

	res, err := loader.Load(path, mls.params)
	if err != nil {
		core.LogError("Failed to load mesh '%s': %v", path, err)
		return nil, err
	}
	mesh, ok := res.Data.(*metadata.Mesh)
	if !ok {
		err := fmt.Errorf("failed to cast resource data to *metadata.Mesh")
		core.LogError(err.Error())
		return nil, err
	}

	if mls.params.Normalize {
		if err := NormalizeMesh(mesh); err != nil {
			core.LogError("Failed to normalize mesh '%s': %v", path, err)
			_ = loader.Unload(res)
			return nil, err
		}
	} else if extents, ok := ComputeExtents(mesh); ok {
		// Diagnostics still report the box in model units.
		mesh.Center = extents.Center()
		mesh.Extent = extents.Size()
	}

	// This also handles the GPU upload.
	if err := mls.geometrySystem.Upload(mesh); err != nil {
		core.LogError("Failed to upload mesh '%s': %v", path, err)
		_ = loader.Unload(res)
		return nil, err
	}

	core.LogDebug("Successfully loaded mesh '%s' (%s).", mesh.Name, core.IdentifierShort(mesh.ID))
	return mesh, nil
}

// Unload releases the backend geometry and decoded textures of the mesh.
func (mls *MeshLoaderSystem) Unload(mesh *metadata.Mesh) error {
	if mesh == nil {
		return nil
	}
	err := mls.geometrySystem.Release(mesh)
	textures := mls.assetManager.Textures()
	for _, m := range mesh.Materials {
		if m.DiffuseMap != nil {
			textures.Forget(m.DiffuseMap.Path)
			m.DiffuseMap.Release()
		}
	}
	if err != nil {
		core.LogError("Failed to release mesh '%s': %v", mesh.Name, err)
		return err
	}
	core.LogDebug("Released mesh '%s' (%s).", mesh.Name, core.IdentifierShort(mesh.ID))
	return nil
}

// ResolveTextures decodes the diffuse maps of every material used by the
// mesh. Decode failures are reported, never returned.
func (mls *MeshLoaderSystem) ResolveTextures(mesh *metadata.Mesh) []TextureStatus {
	var out []TextureStatus
	seen := make(map[*metadata.Material]bool)
	textures := mls.assetManager.Textures()
	for _, sm := range mesh.SubMeshes {
		m := sm.Material
		if m == nil || m.DiffuseMap == nil || seen[m] {
			continue
		}
		seen[m] = true
		status := TextureStatus{Material: m.Name, Path: m.DiffuseMap.Path}
		if img := textures.Resolve(m.DiffuseMap); img != nil {
			status.Width, status.Height = img.Bounds().Dx(), img.Bounds().Dy()
		} else {
			status.Err = m.DiffuseMap.Err()
		}
		out = append(out, status)
	}
	return out
}
