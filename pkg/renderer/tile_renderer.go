package renderer

import (
	"image"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Tile represents a rectangular region of the image rendered as one unit of work
type Tile struct {
	ID     int             // Unique tile identifier, row-major
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1)
}

// NewTileGrid splits a width×height image into tiles in row-major order.
// Edge tiles are clipped to the image bounds.
func NewTileGrid(width, height, tileSize int) []*Tile {
	if width <= 0 || height <= 0 {
		return nil
	}
	if tileSize <= 0 {
		tileSize = max(width, height)
	}

	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, &Tile{ID: tileID, Bounds: image.Rect(x0, y0, x1, y1)})
			tileID++
		}
	}

	return tiles
}

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	width      int
	height     int
	seed       int64
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(scn *scene.Scene, integratorInst integrator.Integrator, width, height int, seed int64) *TileRenderer {
	return &TileRenderer{
		scene:      scn,
		integrator: integratorInst,
		width:      width,
		height:     height,
		seed:       seed,
	}
}

// RenderTile renders the pixels of tile into a new image covering tile.Bounds.
// The tile's sampler is derived from the render seed and tile ID only, so
// the result does not depend on which worker renders it or when.
func (tr *TileRenderer) RenderTile(tile *Tile) TileResult {
	img := image.NewRGBA(tile.Bounds)
	sampler := core.NewSeededSampler(tr.seed + int64(tile.ID))
	camera := tr.scene.Camera

	rays := 0
	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			ray := camera.GetRay(x, y, tr.width, tr.height)
			color := tr.integrator.RayColor(ray, tr.scene, sampler)
			img.SetRGBA(x, y, ColorToRGBA(color))
			rays++
		}
	}

	return TileResult{Tile: tile, Image: img, PrimaryRays: rays}
}
