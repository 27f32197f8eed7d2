package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// CameraConfig describes a pinhole camera looking through a flat screen
type CameraConfig struct {
	Position       core.Vec3 // Eye position
	LookAt         core.Vec3 // Point the camera looks at
	Up             core.Vec3 // Approximate up direction, corrected to be orthogonal
	ScreenDistance float64   // Distance from eye to screen
	ScreenWidth    float64   // Screen width in world units; height follows the image aspect
}

// Camera generates primary rays for pixel coordinates
type Camera struct {
	config  CameraConfig
	forward core.Vec3
	right   core.Vec3
	up      core.Vec3
}

// NewCamera builds the orthonormal camera basis from the config
func NewCamera(config CameraConfig) *Camera {
	forward := config.LookAt.Subtract(config.Position).Normalize()
	right := forward.Cross(config.Up).Normalize()
	up := right.Cross(forward).Normalize()

	return &Camera{
		config:  config,
		forward: forward,
		right:   right,
		up:      up,
	}
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// GetRay returns the ray through the center of pixel (px, py) of a width×height
// image. Pixel rows grow downward.
func (c *Camera) GetRay(px, py, width, height int) core.Ray {
	aspect := float64(width) / float64(height)
	screenHeight := c.config.ScreenWidth / aspect

	sx := ((float64(px)+0.5)/float64(width) - 0.5) * c.config.ScreenWidth
	sy := (0.5 - (float64(py)+0.5)/float64(height)) * screenHeight

	point := c.config.Position.
		Add(c.forward.Multiply(c.config.ScreenDistance)).
		Add(c.right.Multiply(sx)).
		Add(c.up.Multiply(sy))

	return core.NewRay(c.config.Position, point.Subtract(c.config.Position))
}
