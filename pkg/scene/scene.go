package scene

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// Material describes how a surface responds to light. Colors are in [0,255]
// except ReflectionColor, which is a per-channel multiplier.
type Material struct {
	DiffuseColor    core.Vec3
	SpecularColor   core.Vec3
	ReflectionColor core.Vec3
	Shininess       float64 // Phong exponent, >= 0
	Transparency    float64 // 0 = opaque, 1 = fully transparent
}

// Light is a square area light of side Radius centered at Position
type Light struct {
	Position          core.Vec3
	Color             core.Vec3 // Per-channel multiplier
	SpecularIntensity float64
	ShadowIntensity   float64 // 0 = casts no shadow, 1 = full shadow
	Radius            float64
}

// Settings holds the global render parameters of a scene
type Settings struct {
	BackgroundColor   core.Vec3 // Returned for rays that escape the scene
	ShadowRayGridRoot int       // N, giving N×N shadow rays per light
	MaxRecursionDepth int       // Reflection/transmission bounce limit
}

// Scene contains all the elements needed for rendering.
// It is built once, validated, and then only read during rendering.
type Scene struct {
	Name         string
	Camera       *geometry.Camera
	CameraConfig geometry.CameraConfig
	Surfaces     []geometry.Surface // Objects in the scene
	Materials    []*Material        // Indexed by 1-based material index minus one
	Lights       []*Light           // Lights in the scene
	Settings     Settings
}

// ValidationError reports the first scene object that cannot be rendered
type ValidationError struct {
	Object string // e.g. "surface", "material", "light", "settings"
	Index  int    // Position of the object in its list, -1 when not applicable
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid %s: %s", e.Object, e.Reason)
	}
	return fmt.Sprintf("invalid %s %d: %s", e.Object, e.Index, e.Reason)
}

// MaterialFor returns the material of a surface. Surfaces store a 1-based index.
func (s *Scene) MaterialFor(surface geometry.Surface) *Material {
	return s.Materials[surface.MaterialIndex()-1]
}

// AddMaterial appends a material and returns its 1-based index
func (s *Scene) AddMaterial(m *Material) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials)
}

// Preprocess validates the scene and builds the camera from its config
func (s *Scene) Preprocess() error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.Camera = geometry.NewCamera(s.CameraConfig)
	return nil
}

// Sine of the smallest accepted angle between the camera up vector and the view direction
const parallelTolerance = 1e-6

// Validate checks everything the renderer assumes without re-checking per ray
func (s *Scene) Validate() error {
	if s.Settings.ShadowRayGridRoot < 1 {
		return &ValidationError{Object: "settings", Index: -1, Reason: fmt.Sprintf("shadow ray grid root %d must be >= 1", s.Settings.ShadowRayGridRoot)}
	}
	if s.Settings.MaxRecursionDepth < 0 {
		return &ValidationError{Object: "settings", Index: -1, Reason: fmt.Sprintf("max recursion depth %d must be >= 0", s.Settings.MaxRecursionDepth)}
	}
	forward := s.CameraConfig.LookAt.Subtract(s.CameraConfig.Position)
	if forward.LengthSquared() == 0 {
		return &ValidationError{Object: "camera", Index: -1, Reason: "look-at point equals camera position"}
	}
	// |f×u|² ≤ ε²|f|²|u|² also catches a zero up vector
	up := s.CameraConfig.Up
	if forward.Cross(up).LengthSquared() <= parallelTolerance*parallelTolerance*forward.LengthSquared()*up.LengthSquared() {
		return &ValidationError{Object: "camera", Index: -1, Reason: "up vector is parallel to the view direction"}
	}
	if s.CameraConfig.ScreenWidth <= 0 {
		return &ValidationError{Object: "camera", Index: -1, Reason: "screen width must be positive"}
	}

	for i, m := range s.Materials {
		if m.Transparency < 0 || m.Transparency > 1 {
			return &ValidationError{Object: "material", Index: i + 1, Reason: fmt.Sprintf("transparency %g outside [0,1]", m.Transparency)}
		}
		if m.Shininess < 0 {
			return &ValidationError{Object: "material", Index: i + 1, Reason: fmt.Sprintf("negative shininess %g", m.Shininess)}
		}
	}

	for i, l := range s.Lights {
		if l.ShadowIntensity < 0 || l.ShadowIntensity > 1 {
			return &ValidationError{Object: "light", Index: i, Reason: fmt.Sprintf("shadow intensity %g outside [0,1]", l.ShadowIntensity)}
		}
		if l.Radius < 0 {
			return &ValidationError{Object: "light", Index: i, Reason: fmt.Sprintf("negative radius %g", l.Radius)}
		}
	}

	for i, surface := range s.Surfaces {
		idx := surface.MaterialIndex()
		if idx < 1 || idx > len(s.Materials) {
			return &ValidationError{Object: "surface", Index: i, Reason: fmt.Sprintf("material index %d out of range [1,%d]", idx, len(s.Materials))}
		}
		switch v := surface.(type) {
		case *geometry.Sphere:
			if v.Radius <= 0 {
				return &ValidationError{Object: "surface", Index: i, Reason: fmt.Sprintf("sphere radius %g must be positive", v.Radius)}
			}
		case *geometry.Cube:
			if v.EdgeLength <= 0 {
				return &ValidationError{Object: "surface", Index: i, Reason: fmt.Sprintf("cube edge %g must be positive", v.EdgeLength)}
			}
		case *geometry.Plane:
			if v.Normal.LengthSquared() == 0 {
				return &ValidationError{Object: "surface", Index: i, Reason: "plane normal is zero"}
			}
		}
	}

	return nil
}

// SurfaceKind names the primitive type of a surface
func SurfaceKind(surface geometry.Surface) string {
	switch surface.(type) {
	case *geometry.Sphere:
		return "sphere"
	case *geometry.Plane:
		return "plane"
	case *geometry.Cube:
		return "cube"
	default:
		return "unknown"
	}
}
