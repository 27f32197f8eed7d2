package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

// BuiltinGroup is the group name used for scenes constructed in code
const BuiltinGroup = "Built-in Scenes"

var builtins = []struct {
	info  SceneInfo
	build func() *Scene
}{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			DisplayName: "Default Scene",
			Description: "Spheres, a cube and a ground plane with mirror and glass materials",
			Group:       BuiltinGroup,
			Type:        "builtin",
		},
		build: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "mirror",
			Name:        "Mirror Hall",
			DisplayName: "Mirror Hall",
			Description: "Facing mirrors that exercise deep reflection recursion",
			Group:       BuiltinGroup,
			Type:        "builtin",
		},
		build: NewMirrorScene,
	},
	{
		info: SceneInfo{
			ID:          "shadow",
			Name:        "Soft Shadows",
			DisplayName: "Soft Shadows",
			Description: "Cube and tinted glass under a large area light",
			Group:       BuiltinGroup,
			Type:        "builtin",
		},
		build: NewShadowScene,
	},
}

// BuiltinScene constructs the built-in scene with the given id
func BuiltinScene(id string) (*Scene, bool) {
	for _, b := range builtins {
		if b.info.ID == id {
			return b.build(), true
		}
	}
	return nil, false
}

// BuiltinScenes returns the metadata of every built-in scene
func BuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, 0, len(builtins))
	for _, b := range builtins {
		infos = append(infos, b.info)
	}
	return infos
}

// NewDefaultScene creates a default scene with spheres, a cube, and ground
func NewDefaultScene() *Scene {
	s := &Scene{
		Name: "default",
		CameraConfig: geometry.CameraConfig{
			Position:       core.NewVec3(0, 2.5, 9),
			LookAt:         core.NewVec3(0, 0.8, 0),
			Up:             core.NewVec3(0, 1, 0),
			ScreenDistance: 1.5,
			ScreenWidth:    1.4,
		},
		Settings: Settings{
			BackgroundColor:   core.NewVec3(30, 35, 50),
			ShadowRayGridRoot: 3,
			MaxRecursionDepth: 4,
		},
	}

	ground := s.AddMaterial(&Material{
		DiffuseColor:    core.NewVec3(180, 180, 170),
		SpecularColor:   core.NewVec3(40, 40, 40),
		ReflectionColor: core.NewVec3(0.1, 0.1, 0.1),
		Shininess:       10,
	})
	red := s.AddMaterial(&Material{
		DiffuseColor:  core.NewVec3(210, 50, 45),
		SpecularColor: core.NewVec3(255, 255, 255),
		Shininess:     50,
	})
	mirror := s.AddMaterial(&Material{
		DiffuseColor:    core.NewVec3(15, 15, 15),
		SpecularColor:   core.NewVec3(255, 255, 255),
		ReflectionColor: core.NewVec3(0.85, 0.85, 0.85),
		Shininess:       120,
	})
	glass := s.AddMaterial(&Material{
		DiffuseColor:    core.NewVec3(40, 80, 110),
		SpecularColor:   core.NewVec3(255, 255, 255),
		ReflectionColor: core.NewVec3(0.1, 0.1, 0.1),
		Shininess:       100,
		Transparency:    0.7,
	})
	blue := s.AddMaterial(&Material{
		DiffuseColor:  core.NewVec3(50, 80, 220),
		SpecularColor: core.NewVec3(120, 120, 120),
		Shininess:     20,
	})

	s.Surfaces = append(s.Surfaces,
		geometry.NewPlane(core.NewVec3(0, 1, 0), 0, ground),
		geometry.NewSphere(core.NewVec3(-1.6, 1, 0), 1, red),
		geometry.NewSphere(core.NewVec3(1.6, 1, 0), 1, mirror),
		geometry.NewSphere(core.NewVec3(0, 0.6, 2), 0.6, glass),
		geometry.NewCube(core.NewVec3(0, 0.5, -2), 1, blue),
	)

	s.Lights = append(s.Lights,
		&Light{
			Position:          core.NewVec3(0, 6, 4),
			Color:             core.NewVec3(1, 1, 1),
			SpecularIntensity: 1,
			ShadowIntensity:   0.85,
			Radius:            1,
		},
		&Light{
			Position:          core.NewVec3(-5, 5, -2),
			Color:             core.NewVec3(0.4, 0.4, 0.5),
			SpecularIntensity: 0.5,
			ShadowIntensity:   0.6,
			Radius:            0.5,
		},
	)

	return s
}

// NewMirrorScene creates two facing mirrors with a sphere between them
func NewMirrorScene() *Scene {
	s := &Scene{
		Name: "mirror",
		CameraConfig: geometry.CameraConfig{
			Position:       core.NewVec3(0, 1.5, 7),
			LookAt:         core.NewVec3(0, 1, 0),
			Up:             core.NewVec3(0, 1, 0),
			ScreenDistance: 1,
			ScreenWidth:    1.2,
		},
		Settings: Settings{
			BackgroundColor:   core.NewVec3(10, 10, 10),
			ShadowRayGridRoot: 1,
			MaxRecursionDepth: 8,
		},
	}

	floor := s.AddMaterial(&Material{
		DiffuseColor:  core.NewVec3(120, 120, 120),
		SpecularColor: core.NewVec3(0, 0, 0),
		Shininess:     1,
	})
	mirror := s.AddMaterial(&Material{
		DiffuseColor:    core.NewVec3(5, 5, 5),
		SpecularColor:   core.NewVec3(255, 255, 255),
		ReflectionColor: core.NewVec3(0.9, 0.9, 0.95),
		Shininess:       200,
	})
	gold := s.AddMaterial(&Material{
		DiffuseColor:    core.NewVec3(220, 170, 60),
		SpecularColor:   core.NewVec3(255, 240, 200),
		ReflectionColor: core.NewVec3(0.3, 0.25, 0.1),
		Shininess:       60,
	})

	s.Surfaces = append(s.Surfaces,
		geometry.NewPlane(core.NewVec3(0, 1, 0), 0, floor),
		geometry.NewPlane(core.NewVec3(1, 0, 0), -3, mirror),
		geometry.NewPlane(core.NewVec3(-1, 0, 0), -3, mirror),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, gold),
	)

	s.Lights = append(s.Lights, &Light{
		Position:          core.NewVec3(0, 5, 3),
		Color:             core.NewVec3(1, 1, 1),
		SpecularIntensity: 1,
		ShadowIntensity:   1,
		Radius:            0.5,
	})

	return s
}

// NewShadowScene creates a cube and tinted glass slab under a large area light
func NewShadowScene() *Scene {
	s := &Scene{
		Name: "shadow",
		CameraConfig: geometry.CameraConfig{
			Position:       core.NewVec3(4, 5, 6),
			LookAt:         core.NewVec3(0, 0.5, 0),
			Up:             core.NewVec3(0, 1, 0),
			ScreenDistance: 1,
			ScreenWidth:    1,
		},
		Settings: Settings{
			BackgroundColor:   core.NewVec3(0, 0, 0),
			ShadowRayGridRoot: 6,
			MaxRecursionDepth: 2,
		},
	}

	floor := s.AddMaterial(&Material{
		DiffuseColor:  core.NewVec3(230, 230, 230),
		SpecularColor: core.NewVec3(20, 20, 20),
		Shininess:     5,
	})
	clay := s.AddMaterial(&Material{
		DiffuseColor:  core.NewVec3(200, 120, 80),
		SpecularColor: core.NewVec3(60, 60, 60),
		Shininess:     15,
	})
	tinted := s.AddMaterial(&Material{
		DiffuseColor:  core.NewVec3(60, 200, 90),
		SpecularColor: core.NewVec3(255, 255, 255),
		Shininess:     80,
		Transparency:  0.5,
	})

	s.Surfaces = append(s.Surfaces,
		geometry.NewPlane(core.NewVec3(0, 1, 0), 0, floor),
		geometry.NewCube(core.NewVec3(-0.8, 0.6, 0), 1.2, clay),
		geometry.NewSphere(core.NewVec3(1, 0.7, 0.5), 0.7, tinted),
	)

	s.Lights = append(s.Lights, &Light{
		Position:          core.NewVec3(0, 6, 0),
		Color:             core.NewVec3(1, 1, 1),
		SpecularIntensity: 0.8,
		ShadowIntensity:   0.9,
		Radius:            3,
	})

	return s
}
