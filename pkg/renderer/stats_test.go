package renderer

import (
	"image"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestColorToRGBA(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  uint8
	}{
		{"negative clamps to zero", -20, 0},
		{"zero", 0, 0},
		{"rounds down", 127.4, 127},
		{"rounds half up", 127.5, 128},
		{"rounds up", 127.6, 128},
		{"top of range", 255, 255},
		{"overflow clamps", 400, 255},
		{"NaN is black", math.NaN(), 0},
		{"infinity clamps", math.Inf(1), 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ColorToRGBA(core.NewVec3(tt.input, tt.input, tt.input))
			if got.R != tt.want || got.G != tt.want || got.B != tt.want || got.A != 255 {
				t.Errorf("ColorToRGBA(%v) = %+v, want channels %d", tt.input, got, tt.want)
			}
		})
	}
}

func shadedImage(colors ...core.Vec3) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, len(colors), 1))
	for x, c := range colors {
		img.SetRGBA(x, 0, ColorToRGBA(c))
	}
	return img
}

func TestCalculateAverageLuminance(t *testing.T) {
	tests := []struct {
		name   string
		colors []core.Vec3
		want   float64
	}{
		{"primaries and black", []core.Vec3{
			core.NewVec3(255, 0, 0),
			core.NewVec3(0, 255, 0),
			core.NewVec3(0, 0, 255),
			core.NewVec3(0, 0, 0),
		}, 0.25},
		{"over-bright shading saturates", []core.Vec3{core.NewVec3(900, 300, 256)}, 1},
		{"unlit and NaN pixels are black", []core.Vec3{core.NewVec3(-5, -5, -5), core.NewVec3(math.NaN(), 0, 0)}, 0},
		{"mid grey rounds to 128", []core.Vec3{core.NewVec3(127.5, 127.5, 127.5)}, 128.0 / 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateAverageLuminance(shadedImage(tt.colors...))
			if math.Abs(got-tt.want) > 1e-4 {
				t.Errorf("CalculateAverageLuminance = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCalculateAverageLuminance_Empty(t *testing.T) {
	if got := CalculateAverageLuminance(image.NewRGBA(image.Rect(0, 0, 0, 0))); got != 0 {
		t.Errorf("empty image luminance = %f, want 0", got)
	}
}
