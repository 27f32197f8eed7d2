package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material int // 1-based material index
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, materialIndex int) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: materialIndex,
	}
}

// MaterialIndex returns the 1-based material index
func (s *Sphere) MaterialIndex() int {
	return s.Material
}

// Intersect tests if a ray intersects with the sphere
func (s *Sphere) Intersect(ray core.Ray) (*Intersection, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := 2 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 || a == 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first, then the farther one (origin inside the sphere)
	root := (-b - sqrtD) / (2 * a)
	if root <= core.Epsilon {
		root = (-b + sqrtD) / (2 * a)
		if root <= core.Epsilon {
			return nil, false
		}
	}

	point := ray.At(root)
	return &Intersection{
		HitPoint: point,
		Normal:   point.Subtract(s.Center).Multiply(1.0 / s.Radius),
		Distance: root,
		Surface:  s,
	}, true
}
