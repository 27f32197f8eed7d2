package loaders

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Scene files store colors in [0,1]; the renderer works in [0,255]
const colorScale = 255.0

// Number of numeric fields each object tag requires
var tagArity = map[string]int{
	"cam": 11, // position(3) look-at(3) up(3) screen distance, screen width
	"set": 5,  // background(3) shadow grid root, max recursion
	"mtl": 11, // diffuse(3) specular(3) reflection(3) shininess, transparency
	"sph": 5,  // center(3) radius, material
	"pln": 5,  // normal(3) offset, material
	"box": 5,  // center(3) edge length, material
	"lgt": 9,  // position(3) color(3) specular intensity, shadow intensity, radius
}

// ParseScene reads a scene description. Surfaces, materials and lights keep
// file order; materials are numbered from 1. The returned scene has been
// validated and has its camera built.
func ParseScene(reader io.Reader) (*scene.Scene, error) {
	s := &scene.Scene{}
	var haveCamera, haveSettings bool

	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++

		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		tag := strings.ToLower(fields[0])
		arity, known := tagArity[tag]
		if !known {
			return nil, newParseError(lineNumber, "", "unknown object type", nil)
		}
		if len(fields)-1 < arity {
			return nil, newParseError(lineNumber, tag, "expected "+strconv.Itoa(arity)+" values, got "+strconv.Itoa(len(fields)-1), nil)
		}

		params := make([]float64, len(fields)-1)
		for i, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, newParseError(lineNumber, tag, "invalid number "+strconv.Quote(field), err)
			}
			params[i] = v
		}

		switch tag {
		case "cam":
			s.CameraConfig = geometry.CameraConfig{
				Position:       vec(params[0:3]),
				LookAt:         vec(params[3:6]),
				Up:             vec(params[6:9]),
				ScreenDistance: params[9],
				ScreenWidth:    params[10],
			}
			haveCamera = true
		case "set":
			root, err := wholeNumber(params[3])
			if err != nil {
				return nil, newParseError(lineNumber, tag, "shadow ray grid root", err)
			}
			depth, err := wholeNumber(params[4])
			if err != nil {
				return nil, newParseError(lineNumber, tag, "max recursion depth", err)
			}
			s.Settings = scene.Settings{
				BackgroundColor:   vec(params[0:3]).Multiply(colorScale),
				ShadowRayGridRoot: root,
				MaxRecursionDepth: depth,
			}
			haveSettings = true
		case "mtl":
			s.AddMaterial(&scene.Material{
				DiffuseColor:    vec(params[0:3]).Multiply(colorScale),
				SpecularColor:   vec(params[3:6]).Multiply(colorScale),
				ReflectionColor: vec(params[6:9]),
				Shininess:       params[9],
				Transparency:    params[10],
			})
		case "sph", "pln", "box":
			materialIndex, err := wholeNumber(params[4])
			if err != nil {
				return nil, newParseError(lineNumber, tag, "material index", err)
			}
			s.Surfaces = append(s.Surfaces, newSurface(tag, params, materialIndex))
		case "lgt":
			s.Lights = append(s.Lights, &scene.Light{
				Position:          vec(params[0:3]),
				Color:             vec(params[3:6]),
				SpecularIntensity: params[6],
				ShadowIntensity:   params[7],
				Radius:            params[8],
			})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, xerrors.Errorf("while reading scene: %w", err)
	}
	if !haveCamera {
		return nil, newParseError(0, "cam", "missing camera line", nil)
	}
	if !haveSettings {
		return nil, newParseError(0, "set", "missing settings line", nil)
	}

	if err := s.Preprocess(); err != nil {
		return nil, xerrors.Errorf("while validating scene: %w", err)
	}

	return s, nil
}

// LoadScene loads and parses a scene file
func LoadScene(filename string) (*scene.Scene, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, xerrors.Errorf("while opening scene file %q: %w", filename, err)
	}
	defer file.Close()

	s, err := ParseScene(file)
	if err != nil {
		return nil, xerrors.Errorf("while parsing scene file %q: %w", filename, err)
	}
	s.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return s, nil
}

// ResolvedScene is a loaded scene together with a fingerprint of its source,
// suitable for keying render caches
type ResolvedScene struct {
	Scene       *scene.Scene
	Fingerprint []byte
}

// ErrInvalidSceneName is returned by ResolveSceneName for names that are not
// a bare file name
var ErrInvalidSceneName = xerrors.New("invalid scene name")

// ResolveScene finds a scene by built-in id, by file path, or by name inside
// scenesDir (with or without the .txt extension), in that order
func ResolveScene(name, scenesDir string) (*ResolvedScene, error) {
	if resolved, ok, err := resolveBuiltin(name); ok {
		return resolved, err
	}

	candidates := []string{name}
	if scenesDir != "" {
		base := strings.TrimPrefix(name, "file:")
		candidates = append(candidates, filepath.Join(scenesDir, base), filepath.Join(scenesDir, base+".txt"))
	}
	return resolveFile(name, candidates)
}

// ResolveSceneName is ResolveScene restricted to built-in ids and files
// directly inside scenesDir. Names containing a path separator or naming a
// parent directory are rejected with ErrInvalidSceneName.
func ResolveSceneName(name, scenesDir string) (*ResolvedScene, error) {
	if resolved, ok, err := resolveBuiltin(name); ok {
		return resolved, err
	}

	base := strings.TrimPrefix(name, "file:")
	if base == "" || base == "." || base == ".." || strings.ContainsAny(base, `/\`) || filepath.VolumeName(base) != "" {
		return nil, xerrors.Errorf("scene %q: %w", name, ErrInvalidSceneName)
	}
	if scenesDir == "" {
		return nil, xerrors.Errorf("scene %q is not a built-in scene", name)
	}
	return resolveFile(name, []string{filepath.Join(scenesDir, base), filepath.Join(scenesDir, base+".txt")})
}

func resolveBuiltin(name string) (*ResolvedScene, bool, error) {
	s, ok := scene.BuiltinScene(name)
	if !ok {
		return nil, false, nil
	}
	if err := s.Preprocess(); err != nil {
		return nil, true, xerrors.Errorf("while preparing built-in scene %q: %w", name, err)
	}
	return &ResolvedScene{Scene: s, Fingerprint: []byte("builtin:" + name)}, true, nil
}

// resolveFile loads the first candidate that is a regular file
func resolveFile(name string, candidates []string) (*ResolvedScene, error) {
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, xerrors.Errorf("while reading scene file %q: %w", path, err)
		}
		s, err := ParseScene(bytes.NewReader(data))
		if err != nil {
			return nil, xerrors.Errorf("while parsing scene file %q: %w", path, err)
		}
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return &ResolvedScene{Scene: s, Fingerprint: data}, nil
	}

	return nil, xerrors.Errorf("scene %q is not a built-in scene or a readable scene file", name)
}

func newSurface(tag string, params []float64, materialIndex int) geometry.Surface {
	switch tag {
	case "sph":
		return geometry.NewSphere(vec(params[0:3]), params[3], materialIndex)
	case "pln":
		return geometry.NewPlane(vec(params[0:3]), params[3], materialIndex)
	default:
		return geometry.NewCube(vec(params[0:3]), params[3], materialIndex)
	}
}

func vec(p []float64) core.Vec3 {
	return core.NewVec3(p[0], p[1], p[2])
}

func wholeNumber(v float64) (int, error) {
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, xerrors.Errorf("%g is not a whole number", v)
	}
	return int(v), nil
}
