package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ShadowIntensity estimates how much of a light reaches hitPoint, in [0,1].
//
// The light is treated as a square of side light.Radius facing hitPoint and
// split into an N×N grid, N being the scene's shadow ray grid root. One
// jittered shadow ray is traced to each cell. Transparent blockers attenuate
// a ray by their transparency; an opaque blocker stops it. The mean
// transmittance is blended by the light's shadow intensity, so a light with
// zero shadow intensity never darkens anything.
func ShadowIntensity(hitPoint core.Vec3, light *scene.Light, scn *scene.Scene, sampler core.Sampler) float64 {
	toLight := light.Position.Subtract(hitPoint)
	if toLight.LengthSquared() == 0 {
		return 1.0
	}
	u, v := core.PerpendicularAxes(toLight.Normalize())

	n := scn.Settings.ShadowRayGridRoot
	cell := light.Radius / float64(n)
	corner := light.Position.
		Subtract(u.Multiply(light.Radius / 2)).
		Subtract(v.Multiply(light.Radius / 2))

	total := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			jitter := sampler.Get2D()
			target := corner.
				Add(u.Multiply((float64(i) + jitter.X) * cell)).
				Add(v.Multiply((float64(j) + jitter.Y) * cell))
			total += transmittance(hitPoint, target, scn)
		}
	}
	hitRatio := total / float64(n*n)

	// Same as (1-s) + s*hitRatio, but exact at hitRatio 0 and 1
	return 1.0 - light.ShadowIntensity*(1.0-hitRatio)
}

// transmittance traces from one point toward another through every blocker
// and returns the product of their transparencies
func transmittance(from, to core.Vec3, scn *scene.Scene) float64 {
	direction := to.Subtract(from)
	remaining := direction.Length()
	if remaining == 0 {
		return 1.0
	}
	direction = direction.Multiply(1 / remaining)

	ray := core.NewRay(from.Add(direction.Multiply(core.Epsilon)), direction)
	var ignore geometry.Surface
	result := 1.0

	for {
		hit, ok := geometry.FindNearest(ray, scn.Surfaces, ignore)
		if !ok || hit.Distance >= remaining {
			return result
		}

		result *= scn.MaterialFor(hit.Surface).Transparency
		if result == 0 {
			return 0
		}

		// Continue past the blocker. The remaining distance is tracked
		// along the ray rather than recomputed from the new origin.
		remaining -= hit.Distance + core.Epsilon
		ray = core.NewRay(hit.HitPoint.Add(direction.Multiply(core.Epsilon)), direction)
		ignore = hit.Surface
	}
}
