package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Surface is any primitive that can be hit by a ray.
// Implementations are pointer types so that dispatch can skip a surface by identity.
type Surface interface {
	// Intersect returns the nearest hit with t > core.Epsilon, or false on a miss.
	Intersect(ray core.Ray) (*Intersection, bool)
	// MaterialIndex returns the 1-based index into the scene's material table.
	MaterialIndex() int
}

// Intersection records where a ray hit a surface.
// Surface is a borrowed handle into the scene and is never copied.
type Intersection struct {
	HitPoint core.Vec3
	Normal   core.Vec3 // Unit length
	Distance float64   // Ray parameter t, always > core.Epsilon
	Surface  Surface
}
