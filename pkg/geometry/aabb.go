package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min core.Vec3 // Minimum corner
	Max core.Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max core.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Hit intersects the ray with the box using the slab method. It returns the
// entry distance and the normal of the entry face. When the origin is inside
// the box the exit distance is returned instead, with the normal of the last
// entry face that was crossed.
func (aabb AABB) Hit(ray core.Ray) (float64, core.Vec3, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	var normal core.Vec3

	for axis := 0; axis < 3; axis++ {
		min := aabb.Min.Component(axis)
		max := aabb.Max.Component(axis)
		origin := ray.Origin.Component(axis)
		direction := ray.Direction.Component(axis)

		// Handle parallel rays (direction near zero)
		if math.Abs(direction) < core.ParallelEpsilon {
			if origin < min || origin > max {
				return 0, core.Vec3{}, false // Ray origin outside slab
			}
			continue
		}

		t1 := (min - origin) / direction
		t2 := (max - origin) / direction

		// Ensure t1 <= t2 (swap if needed)
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		if t1 > tMin {
			tMin = t1
			normal = axisNormal(axis, -math.Copysign(1, direction))
		}
		if t2 < tMax {
			tMax = t2
		}

		// Slabs don't overlap
		if tMin > tMax {
			return 0, core.Vec3{}, false
		}
	}

	// Degenerate direction never crossed a slab
	if math.IsInf(tMax, 1) {
		return 0, core.Vec3{}, false
	}

	if tMin < core.Epsilon {
		// Origin inside the box: use the exit point
		if tMax < core.Epsilon {
			return 0, core.Vec3{}, false
		}
		tMin = tMax
	}

	return tMin, normal, true
}

func axisNormal(axis int, sign float64) core.Vec3 {
	switch axis {
	case 0:
		return core.NewVec3(sign, 0, 0)
	case 1:
		return core.NewVec3(0, sign, 0)
	default:
		return core.NewVec3(0, 0, sign)
	}
}
