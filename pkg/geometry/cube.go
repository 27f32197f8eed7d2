package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Cube represents an axis-aligned cube centered at Center
type Cube struct {
	Center     core.Vec3
	EdgeLength float64
	Material   int // 1-based material index
	bounds     AABB
}

// NewCube creates a new axis-aligned cube
func NewCube(center core.Vec3, edgeLength float64, materialIndex int) *Cube {
	half := edgeLength / 2
	extent := core.NewVec3(half, half, half)
	return &Cube{
		Center:     center,
		EdgeLength: edgeLength,
		Material:   materialIndex,
		bounds:     NewAABB(center.Subtract(extent), center.Add(extent)),
	}
}

// MaterialIndex returns the 1-based material index
func (c *Cube) MaterialIndex() int {
	return c.Material
}

// Bounds returns the cube as a bounding box
func (c *Cube) Bounds() AABB {
	return c.bounds
}

// Intersect tests if a ray intersects with the cube
func (c *Cube) Intersect(ray core.Ray) (*Intersection, bool) {
	t, normal, ok := c.bounds.Hit(ray)
	if !ok {
		return nil, false
	}

	return &Intersection{
		HitPoint: ray.At(t),
		Normal:   normal,
		Distance: t,
		Surface:  c,
	}, true
}
