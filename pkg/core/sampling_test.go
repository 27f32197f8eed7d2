package core

import (
	"math"
	"testing"
)

func TestSeededSampler_Deterministic(t *testing.T) {
	a := NewSeededSampler(7)
	b := NewSeededSampler(7)

	for i := 0; i < 16; i++ {
		va, vb := a.Get2D(), b.Get2D()
		if va != vb {
			t.Fatalf("Sample %d differs: %v vs %v", i, va, vb)
		}
		if va.X < 0 || va.X >= 1 || va.Y < 0 || va.Y >= 1 {
			t.Errorf("Sample %d out of [0,1): %v", i, va)
		}
	}
}

func TestPerpendicularAxes(t *testing.T) {
	tests := []struct {
		name string
		w    Vec3
	}{
		{"Horizontal", NewVec3(1, 0, 0)},
		{"Diagonal", NewVec3(1, 1, 1).Normalize()},
		{"Straight up", NewVec3(0, 1, 0)},
		{"Nearly down", NewVec3(0.01, -1, 0).Normalize()},
	}

	const tolerance = 1e-9
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, v := PerpendicularAxes(tt.w)

			if math.Abs(u.Length()-1) > tolerance || math.Abs(v.Length()-1) > tolerance {
				t.Fatalf("Expected unit axes, got |u|=%f |v|=%f", u.Length(), v.Length())
			}
			if math.Abs(u.Dot(tt.w)) > tolerance || math.Abs(v.Dot(tt.w)) > tolerance || math.Abs(u.Dot(v)) > tolerance {
				t.Errorf("Axes not orthogonal: u=%v v=%v w=%v", u, v, tt.w)
			}
		})
	}
}
