package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// fixedSampler always returns the same value, centering every jitter
type fixedSampler struct {
	value float64
}

func (f fixedSampler) Get1D() float64 { return f.value }

func (f fixedSampler) Get2D() core.Vec2 { return core.NewVec2(f.value, f.value) }

func newTestScene(settings scene.Settings, materials []*scene.Material, surfaces []geometry.Surface, lights []*scene.Light) *scene.Scene {
	return &scene.Scene{
		Surfaces:  surfaces,
		Materials: materials,
		Lights:    lights,
		Settings:  settings,
	}
}

func opaque() *scene.Material {
	return &scene.Material{DiffuseColor: core.NewVec3(100, 100, 100)}
}

func seeThrough(transparency float64) *scene.Material {
	return &scene.Material{Transparency: transparency}
}
