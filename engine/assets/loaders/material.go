package loaders

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/meshview/engine/core"
	"github.com/spaghettifunk/meshview/engine/math"
	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

// MaterialLoader reads MTL material libraries.
type MaterialLoader struct{}

func (ml *MaterialLoader) Load(path string, params interface{}) (*metadata.Resource, error) {
	materials, err := ParseMTL(path)
	if err != nil {
		return nil, err
	}
	return &metadata.Resource{
		Type:     metadata.ResourceTypeMaterial,
		Name:     filepath.Base(path),
		FullPath: path,
		DataSize: uint64(len(materials)),
		Data:     materials,
	}, nil
}

func (ml *MaterialLoader) Unload(res *metadata.Resource) error {
	if res == nil {
		return nil
	}
	if materials, ok := res.Data.(map[string]*metadata.Material); ok {
		releaseMaterials(materials)
	}
	res.Data = nil
	return nil
}

// ParseMTL reads the material library at path into a name-keyed table.
// A missing file fails with core.ErrFileNotFound.
func ParseMTL(path string) (map[string]*metadata.Material, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open MTL file %s: %v", core.ErrFileNotFound, path, err)
	}
	defer file.Close()

	dir := filepath.Dir(path)
	materials := make(map[string]*metadata.Material)
	var current *metadata.Material

	scanner := newLineScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())

		// Skip comments and empty lines
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		tag, args := fields[0], fields[1:]
		malformed := func(reason string, a ...interface{}) error {
			return &core.RecordError{Path: path, Line: lineNo, Tag: tag, Reason: fmt.Sprintf(reason, a...), Err: core.ErrMalformedRecord}
		}

		if tag == "newmtl" {
			if len(args) == 0 {
				return nil, malformed("missing material name")
			}
			current = metadata.NewMaterial(args[0])
			materials[current.Name] = current
			continue
		}

		switch tag {
		case "Ns", "Ka", "Kd", "Ks", "map_Kd":
			if current == nil {
				core.LogDebug("%s:%d: '%s' before any newmtl. Skipping...", path, lineNo, tag)
				continue
			}
		default:
			continue
		}

		switch tag {
		case "Ns":
			values, err := parseFloats(args, 1, 1)
			if err != nil {
				return nil, malformed("%v", err)
			}
			current.Shininess = values[0]
		case "Ka", "Kd", "Ks":
			values, err := parseFloats(args, 3, 3)
			if err != nil {
				return nil, malformed("%v", err)
			}
			colour := math.NewVec3(values[0], values[1], values[2])
			switch tag {
			case "Ka":
				current.Ambient = colour
			case "Kd":
				current.Diffuse = colour
			case "Ks":
				current.Specular = colour
			}
		case "map_Kd":
			if len(args) == 0 {
				return nil, malformed("missing texture file name")
			}
			// Map options (-s, -o, ...) precede the file name.
			name := args[len(args)-1]
			current.DiffuseMap = metadata.NewTextureMap(name, resolveRelative(dir, name))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &core.RecordError{Path: path, Line: lineNo, Reason: err.Error(), Err: core.ErrMalformedRecord}
	}

	core.LogDebug("Loaded %d materials from '%s'.", len(materials), path)
	return materials, nil
}

func releaseMaterials(materials map[string]*metadata.Material) {
	for _, m := range materials {
		if m.DiffuseMap != nil {
			m.DiffuseMap.Release()
		}
	}
}

func resolveRelative(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, filepath.FromSlash(name))
}

func newLineScanner(f *os.File) *bufio.Scanner {
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return scanner
}
