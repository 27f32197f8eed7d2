package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
)

func validScene() *Scene {
	s := &Scene{
		CameraConfig: geometry.CameraConfig{
			Position:       core.NewVec3(0, 0, 5),
			LookAt:         core.NewVec3(0, 0, 0),
			Up:             core.NewVec3(0, 1, 0),
			ScreenDistance: 1,
			ScreenWidth:    1,
		},
		Settings: Settings{ShadowRayGridRoot: 1, MaxRecursionDepth: 2},
	}
	first := s.AddMaterial(&Material{DiffuseColor: core.NewVec3(255, 0, 0)})
	second := s.AddMaterial(&Material{DiffuseColor: core.NewVec3(0, 255, 0), Transparency: 0.5})
	s.Surfaces = []geometry.Surface{
		geometry.NewSphere(core.NewVec3(0, 0, 0), 1, first),
		geometry.NewCube(core.NewVec3(2, 0, 0), 1, second),
	}
	s.Lights = []*Light{{Position: core.NewVec3(0, 5, 0), Color: core.NewVec3(1, 1, 1), ShadowIntensity: 1}}
	return s
}

func TestScene_MaterialForIsOneBased(t *testing.T) {
	s := validScene()

	assert.Same(t, s.Materials[0], s.MaterialFor(s.Surfaces[0]))
	assert.Same(t, s.Materials[1], s.MaterialFor(s.Surfaces[1]))
}

func TestScene_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Scene)
		object string
	}{
		{"material index zero", func(s *Scene) { s.Surfaces[0] = geometry.NewSphere(core.Vec3{}, 1, 0) }, "surface"},
		{"material index past end", func(s *Scene) { s.Surfaces[1] = geometry.NewPlane(core.NewVec3(0, 1, 0), 0, 3) }, "surface"},
		{"shadow grid root zero", func(s *Scene) { s.Settings.ShadowRayGridRoot = 0 }, "settings"},
		{"negative recursion", func(s *Scene) { s.Settings.MaxRecursionDepth = -1 }, "settings"},
		{"transparency above one", func(s *Scene) { s.Materials[0].Transparency = 1.5 }, "material"},
		{"negative shininess", func(s *Scene) { s.Materials[1].Shininess = -1 }, "material"},
		{"shadow intensity above one", func(s *Scene) { s.Lights[0].ShadowIntensity = 2 }, "light"},
		{"negative light radius", func(s *Scene) { s.Lights[0].Radius = -1 }, "light"},
		{"zero sphere radius", func(s *Scene) { s.Surfaces[0] = geometry.NewSphere(core.Vec3{}, 0, 1) }, "surface"},
		{"camera looks at itself", func(s *Scene) { s.CameraConfig.LookAt = s.CameraConfig.Position }, "camera"},
		{"up along view direction", func(s *Scene) { s.CameraConfig.Up = core.NewVec3(0, 0, -3) }, "camera"},
		{"up opposite view direction", func(s *Scene) { s.CameraConfig.Up = core.NewVec3(0, 0, 1) }, "camera"},
		{"zero up vector", func(s *Scene) { s.CameraConfig.Up = core.Vec3{} }, "camera"},
	}

	require.NoError(t, validScene().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScene()
			tt.mutate(s)

			err := s.Validate()
			require.Error(t, err)

			var validationErr *ValidationError
			require.True(t, xerrors.As(err, &validationErr))
			assert.Equal(t, tt.object, validationErr.Object)
		})
	}
}

func TestScene_PreprocessBuildsCamera(t *testing.T) {
	s := validScene()
	require.NoError(t, s.Preprocess())
	require.NotNil(t, s.Camera)
	assert.Equal(t, s.CameraConfig, s.Camera.Config())
}

func TestBuiltinScenesAreValid(t *testing.T) {
	for _, info := range BuiltinScenes() {
		t.Run(info.ID, func(t *testing.T) {
			s, ok := BuiltinScene(info.ID)
			require.True(t, ok)
			assert.NoError(t, s.Preprocess())
			assert.NotEmpty(t, s.Surfaces)
			assert.NotEmpty(t, s.Lights)
		})
	}

	_, ok := BuiltinScene("does-not-exist")
	assert.False(t, ok)
}

func TestSurfaceKind(t *testing.T) {
	assert.Equal(t, "sphere", SurfaceKind(geometry.NewSphere(core.Vec3{}, 1, 1)))
	assert.Equal(t, "plane", SurfaceKind(geometry.NewPlane(core.NewVec3(0, 1, 0), 0, 1)))
	assert.Equal(t, "cube", SurfaceKind(geometry.NewCube(core.Vec3{}, 1, 1)))
}
