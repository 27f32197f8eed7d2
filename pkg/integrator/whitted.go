package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// WhittedIntegrator shades hits with Phong direct lighting plus recursive
// mirror reflection and straight-through transparency
type WhittedIntegrator struct{}

// NewWhittedIntegrator creates a new Whitted-style integrator
func NewWhittedIntegrator() *WhittedIntegrator {
	return &WhittedIntegrator{}
}

// RayColor traces a primary ray and shades its nearest hit at depth 0
func (wi *WhittedIntegrator) RayColor(ray core.Ray, scn *scene.Scene, sampler core.Sampler) core.Vec3 {
	hit, _ := geometry.FindNearest(ray, scn.Surfaces, nil)
	return wi.ComputeColor(scn, ray, hit, 0, sampler)
}

// ComputeColor returns the color for a ray that produced hit at the given
// recursion depth. A nil hit yields the background color unchanged. Every
// other result is clamped to [0,255].
func (wi *WhittedIntegrator) ComputeColor(scn *scene.Scene, ray core.Ray, hit *geometry.Intersection, depth int, sampler core.Sampler) core.Vec3 {
	if hit == nil {
		return scn.Settings.BackgroundColor
	}

	material := scn.MaterialFor(hit.Surface)

	var direct core.Vec3
	for _, light := range scn.Lights {
		direct = direct.Add(wi.ComputeLightContribution(scn, ray, hit, material, light, sampler))
	}

	// Secondary rays stop at the depth limit and contribute black
	canRecurse := depth < scn.Settings.MaxRecursionDepth

	var reflection core.Vec3
	if canRecurse && material.ReflectionColor.AnyPositive() {
		mirrored := ray.Direction.Reflect(hit.Normal)
		reflection = wi.traceSecondary(scn, hit, mirrored, depth+1, sampler).MultiplyVec(material.ReflectionColor)
	}

	var behind core.Vec3
	if canRecurse && material.Transparency > 0 {
		// No refraction: the ray continues in its original direction
		behind = wi.traceSecondary(scn, hit, ray.Direction, depth+1, sampler)
	}

	final := behind.Multiply(material.Transparency).
		Add(direct.Multiply(1 - material.Transparency)).
		Add(reflection)

	return final.Clamp(0, 255)
}

// ComputeLightContribution returns the diffuse plus specular light a single
// light adds at hit, scaled by its shadow visibility
func (wi *WhittedIntegrator) ComputeLightContribution(scn *scene.Scene, ray core.Ray, hit *geometry.Intersection, material *scene.Material, light *scene.Light, sampler core.Sampler) core.Vec3 {
	toLight := light.Position.Subtract(hit.HitPoint).Normalize()

	visibility := ShadowIntensity(hit.HitPoint, light, scn, sampler)
	if visibility == 0 {
		return core.Vec3{}
	}

	diffuse := material.DiffuseColor.Multiply(math.Max(0, hit.Normal.Dot(toLight)))

	reflected := toLight.Negate().Reflect(hit.Normal)
	view := ray.Direction.Negate().Normalize()
	specularFactor := math.Pow(math.Max(0, view.Dot(reflected)), material.Shininess)
	specular := material.SpecularColor.Multiply(specularFactor * light.SpecularIntensity)

	return diffuse.Add(specular).MultiplyVec(light.Color).Multiply(visibility)
}

// traceSecondary spawns a ray from hit, skipping the surface it leaves
func (wi *WhittedIntegrator) traceSecondary(scn *scene.Scene, hit *geometry.Intersection, direction core.Vec3, depth int, sampler core.Sampler) core.Vec3 {
	ray := core.NewRay(hit.HitPoint.Add(direction.Multiply(core.Epsilon)), direction)
	next, _ := geometry.FindNearest(ray, scn.Surfaces, hit.Surface)
	return wi.ComputeColor(scn, ray, next, depth, sampler)
}
