package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPlane_Intersect(t *testing.T) {
	tests := []struct {
		name          string
		plane         *Plane
		ray           core.Ray
		shouldHit     bool
		expectedT     float64
		expectedPoint core.Vec3
	}{
		{
			name:          "Straight down onto ground",
			plane:         NewPlane(core.NewVec3(0, 1, 0), 0, 1),
			ray:           core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0)),
			shouldHit:     true,
			expectedT:     5.0,
			expectedPoint: core.NewVec3(0, 0, 0),
		},
		{
			name:      "Parallel ray",
			plane:     NewPlane(core.NewVec3(0, 1, 0), 0, 1),
			ray:       core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(1, 0, 0)),
			shouldHit: false,
		},
		{
			name:      "Plane behind origin",
			plane:     NewPlane(core.NewVec3(0, 1, 0), 0, 1),
			ray:       core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, 1, 0)),
			shouldHit: false,
		},
		{
			name:          "Hit from the back side",
			plane:         NewPlane(core.NewVec3(0, 1, 0), 2, 1),
			ray:           core.NewRay(core.NewVec3(1, 0, 1), core.NewVec3(0, 1, 0)),
			shouldHit:     true,
			expectedT:     2.0,
			expectedPoint: core.NewVec3(1, 2, 1),
		},
		{
			name:          "Unnormalized plane normal",
			plane:         NewPlane(core.NewVec3(0, 0, 4), -3, 1),
			ray:           core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1)),
			shouldHit:     true,
			expectedT:     4.0,
			expectedPoint: core.NewVec3(0, 0, -3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := tt.plane.Intersect(tt.ray)

			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, isHit)
			}
			if !tt.shouldHit {
				return
			}

			if math.Abs(hit.Distance-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.Distance)
			}
			if hit.HitPoint.Subtract(tt.expectedPoint).Length() > 1e-9 {
				t.Errorf("Expected point %v, got %v", tt.expectedPoint, hit.HitPoint)
			}
			// The stored normal is returned for both faces
			if hit.Normal.Subtract(tt.plane.Normal).Length() > 1e-12 {
				t.Errorf("Expected normal %v, got %v", tt.plane.Normal, hit.Normal)
			}
		})
	}
}
