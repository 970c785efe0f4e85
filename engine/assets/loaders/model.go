package loaders

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/samber/lo"
	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// ModelLoader reads OBJ models together with the material libraries they reference.
type ModelLoader struct{}

// Load parses the model at path. params may be nil, a metadata.MeshLoadParams or a pointer to one.
func (ml *ModelLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	var p metadata.MeshLoadParams
	switch v := params.(type) {
	case metadata.MeshLoadParams:
		p = v
	case *metadata.MeshLoadParams:
		if v != nil {
			p = *v
		}
	case nil:
	default:
		return nil, fmt.Errorf("model loader: unexpected params type %T", params)
	}

	mesh, err := ParseOBJ(path, p)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypeMesh,
		Name:     mesh.Name,
		FullPath: path,
		DataSize: uint64(mesh.VertexCount) * uint64(metadata.VertexStride),
		Data:     mesh,
	}, nil
}

func (ml *ModelLoader) Unload(res *metadata.Resource) error {
	if res == nil {
		return nil
	}
	if mesh, ok := res.Data.(*metadata.Mesh); ok {
		releaseMaterials(mesh.Materials)
	}
	res.Data = nil
	return nil
}

// ParseOBJ reads the OBJ file at path into a mesh. Faces are fan-triangulated
// and grouped into one submesh per material. Normalization is not applied here.
func ParseOBJ(path string, params metadata.MeshLoadParams) (*metadata.Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open OBJ file %s: %v", core.ErrFileNotFound, path, err)
	}
	defer file.Close()

	p := &objParser{
		path:   path,
		dir:    filepath.Dir(path),
		params: params,
		mesh:   metadata.NewMesh(filepath.Base(path), path),
	}

	scanner := newLineScanner(file)
	for scanner.Scan() {
		p.line++
		if err := p.parseLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &core.RecordError{Path: path, Line: p.line, Reason: err.Error(), Err: core.ErrMalformedRecord}
	}

	p.finish()
	return p.mesh, nil
}

type objParser struct {
	path   string
	dir    string
	line   int
	params metadata.MeshLoadParams

	positions []math.Vec3
	normals   []math.Vec3
	texcoords []math.Vec2

	mesh       *metadata.Mesh
	current    *metadata.SubMesh
	defaultSub *metadata.SubMesh
	// missingNormal[i] is true when vertex i came from a corner without a normal index.
	missingNormal []bool
}

func (p *objParser) malformed(tag, reason string, args ...interface{}) error {
	return &core.RecordError{Path: p.path, Line: p.line, Tag: tag, Reason: fmt.Sprintf(reason, args...), Err: core.ErrMalformedRecord}
}

func (p *objParser) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	tag, args := fields[0], fields[1:]
	switch tag {
	case "v":
		// x y z, optionally followed by w or by an r g b vertex colour.
		values, err := parseFloats(args, 3, 6)
		if err != nil {
			return p.malformed(tag, "%v", err)
		}
		p.positions = append(p.positions, math.NewVec3(values[0], values[1], values[2]))
	case "vn":
		values, err := parseFloats(args, 3, 3)
		if err != nil {
			return p.malformed(tag, "%v", err)
		}
		p.normals = append(p.normals, math.NewVec3(values[0], values[1], values[2]))
	case "vt":
		values, err := parseFloats(args, 2, 3)
		if err != nil {
			return p.malformed(tag, "%v", err)
		}
		p.texcoords = append(p.texcoords, math.NewVec2(values[0], values[1]))
	case "f":
		return p.parseFace(args)
	case "mtllib":
		return p.parseMaterialLibrary(args)
	case "usemtl":
		return p.parseUseMaterial(args)
	default:
		core.LogDebug("%s:%d: unsupported record '%s'. Skipping...", p.path, p.line, tag)
	}
	return nil
}

func (p *objParser) parseMaterialLibrary(args []string) error {
	if len(args) == 0 {
		return p.malformed("mtllib", "missing material library name")
	}
	for _, name := range args {
		materials, err := ParseMTL(resolveRelative(p.dir, name))
		if err != nil {
			return err
		}
		maps.Copy(p.mesh.Materials, materials)
	}
	return nil
}

func (p *objParser) parseUseMaterial(args []string) error {
	if len(args) == 0 {
		return p.malformed("usemtl", "missing material name")
	}
	name := args[0]

	// One submesh per material: re-selecting moves the existing one to the end.
	for i, sm := range p.mesh.SubMeshes {
		if sm == p.defaultSub || sm.MaterialName() != name {
			continue
		}
		subs := append(p.mesh.SubMeshes[:i:i], p.mesh.SubMeshes[i+1:]...)
		p.mesh.SubMeshes = append(subs, sm)
		p.current = sm
		return nil
	}

	mat, ok := p.mesh.Material(name)
	if !ok {
		return &core.RecordError{Path: p.path, Line: p.line, Tag: "usemtl", Reason: fmt.Sprintf("material '%s' is not defined by any mtllib", name), Err: core.ErrUnknownMaterial}
	}
	sm := &metadata.SubMesh{Material: mat}
	p.mesh.SubMeshes = append(p.mesh.SubMeshes, sm)
	p.current = sm
	return nil
}

// activeSubMesh returns the submesh new faces go to. Faces before any
// usemtl go to an implicit submesh bound to the default material.
func (p *objParser) activeSubMesh() *metadata.SubMesh {
	if p.current == nil {
		p.defaultSub = &metadata.SubMesh{Material: metadata.DefaultMaterial()}
		p.mesh.SubMeshes = append(p.mesh.SubMeshes, p.defaultSub)
		p.current = p.defaultSub
	}
	return p.current
}

func (p *objParser) parseFace(args []string) error {
	if len(args) < 3 {
		return p.malformed("f", "face needs at least 3 corners, got %d", len(args))
	}

	corners := make([]math.Vertex3D, len(args))
	hasNormal := make([]bool, len(args))
	for i, token := range args {
		v, n, err := p.resolveCorner(token)
		if err != nil {
			return err
		}
		corners[i] = v
		hasNormal[i] = n
	}

	base := uint32(len(p.mesh.Vertices))
	p.mesh.Vertices = append(p.mesh.Vertices, corners...)
	for _, n := range hasNormal {
		p.missingNormal = append(p.missingNormal, !n)
	}

	// Fan triangulation around the first corner: n corners give n-2 triangles.
	sm := p.activeSubMesh()
	count := uint32(len(corners))
	for i := uint32(2); i < count; i++ {
		sm.Indices = append(sm.Indices, base, base+i-1, base+i)
	}
	p.mesh.VertexCount += count
	p.mesh.TriangleCount += count - 2
	return nil
}

// resolveCorner looks up a pos[/tex][/normal] token. hasNormal reports
// whether the token carried a normal index.
func (p *objParser) resolveCorner(token string) (v math.Vertex3D, hasNormal bool, err error) {
	parts := strings.Split(token, "/")
	if len(parts) > 3 || parts[0] == "" {
		return v, false, p.malformed("f", "invalid face corner '%s'", token)
	}

	pi, err := resolveIndex(parts[0], len(p.positions))
	if err != nil {
		return v, false, p.malformed("f", "position of corner '%s': %v", token, err)
	}
	v.Position = p.positions[pi]

	hasTexcoord := len(parts) > 1 && parts[1] != ""
	hasNormal = len(parts) > 2 && parts[2] != ""
	if p.params.RequireAttributes && (!hasTexcoord || !hasNormal) {
		return v, false, p.malformed("f", "corner '%s' must reference a texcoord and a normal", token)
	}

	if hasTexcoord {
		ti, err := resolveIndex(parts[1], len(p.texcoords))
		if err != nil {
			return v, false, p.malformed("f", "texcoord of corner '%s': %v", token, err)
		}
		v.Texcoord = p.texcoords[ti]
	}
	if hasNormal {
		ni, err := resolveIndex(parts[2], len(p.normals))
		if err != nil {
			return v, false, p.malformed("f", "normal of corner '%s': %v", token, err)
		}
		v.Normal = p.normals[ni]
	}
	return v, hasNormal, nil
}

func (p *objParser) finish() {
	p.mesh.SubMeshes = lo.Filter(p.mesh.SubMeshes, func(sm *metadata.SubMesh, _ int) bool {
		return len(sm.Indices) > 0
	})

	if p.params.GenerateNormals && lo.Contains(p.missingNormal, true) {
		needs := func(v uint32) bool { return p.missingNormal[v] }
		for _, sm := range p.mesh.SubMeshes {
			math.GeometryGenerateNormals(p.mesh.Vertices, sm.Indices, needs)
		}
	}

	core.LogDebug("Parsed '%s': %d vertices, %d triangles, %d submeshes, %d materials.",
		p.path, p.mesh.VertexCount, p.mesh.TriangleCount, len(p.mesh.SubMeshes), len(p.mesh.Materials))
}

// resolveIndex converts a 1-based (or negative, relative) OBJ index into a
// 0-based index into a pool of size n.
func resolveIndex(s string, n int) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("non-numeric index '%s'", s)
	}
	switch {
	case idx > 0 && idx <= n:
		return idx - 1, nil
	case idx < 0 && -idx <= n:
		return n + idx, nil
	default:
		return 0, fmt.Errorf("index %d out of range (%d defined)", idx, n)
	}
}

// parseFloats parses between minCount and maxCount finite float tokens.
func parseFloats(args []string, minCount, maxCount int) ([]float32, error) {
	if len(args) < minCount || len(args) > maxCount {
		if minCount == maxCount {
			return nil, fmt.Errorf("expected %d values, got %d", minCount, len(args))
		}
		return nil, fmt.Errorf("expected %d to %d values, got %d", minCount, maxCount, len(args))
	}
	values := make([]float32, len(args))
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value '%s'", s)
		}
		// ParseFloat accepts "nan" and "inf".
		v := float32(f)
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return nil, fmt.Errorf("non-numeric value '%s'", s)
		}
		values[i] = v
	}
	return values, nil
}
