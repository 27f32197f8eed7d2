package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Plane represents an infinite plane P·Normal = Offset
type Plane struct {
	Normal   core.Vec3 // Unit normal, shared by both faces
	Offset   float64
	Material int // 1-based material index
}

// NewPlane creates a new plane
func NewPlane(normal core.Vec3, offset float64, materialIndex int) *Plane {
	return &Plane{
		Normal:   normal.Normalize(), // Ensure normal is normalized
		Offset:   offset,
		Material: materialIndex,
	}
}

// MaterialIndex returns the 1-based material index
func (p *Plane) MaterialIndex() int {
	return p.Material
}

// Intersect tests if a ray intersects with the plane
func (p *Plane) Intersect(ray core.Ray) (*Intersection, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray is parallel to the plane
	if math.Abs(denominator) < core.ParallelEpsilon {
		return nil, false
	}

	t := (p.Offset - ray.Origin.Dot(p.Normal)) / denominator
	if t < core.Epsilon {
		return nil, false
	}

	return &Intersection{
		HitPoint: ray.At(t),
		Normal:   p.Normal,
		Distance: t,
		Surface:  p,
	}, true
}
