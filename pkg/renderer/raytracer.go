package renderer

import (
	"context"
	"image"
	"image/draw"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"golang.org/x/xerrors"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const tracerName = "github.com/df07/go-whitted-raytracer/pkg/renderer"

// RenderConfig contains rendering configuration
type RenderConfig struct {
	TileSize         int            // Tile edge in pixels
	NumWorkers       int            // Parallel workers, 0 = NumCPU
	Seed             int64          // Base seed for per-tile samplers
	Logger           zerolog.Logger // Destination for progress output
	ProgressInterval time.Duration  // Minimum time between progress lines, 0 disables them
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		TileSize:         32,
		NumWorkers:       0,
		Seed:             42,
		Logger:           log.Logger,
		ProgressInterval: 2 * time.Second,
	}
}

// Raytracer renders a scene into an image, one primary ray per pixel
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	width      int
	height     int
	config     RenderConfig
}

// NewRaytracer creates a new raytracer. The scene must have been preprocessed.
func NewRaytracer(scn *scene.Scene, integratorInst integrator.Integrator, width, height int, config RenderConfig) *Raytracer {
	return &Raytracer{
		scene:      scn,
		integrator: integratorInst,
		width:      width,
		height:     height,
		config:     config,
	}
}

// Render traces the whole image. onTile, if non-nil, is called once per
// finished tile from a single goroutine, in completion order.
// On cancellation the partially rendered image is returned with the context error.
func (rt *Raytracer) Render(ctx context.Context, onTile func(TileResult)) (*image.RGBA, RenderStats, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Render")
	defer span.End()

	start := time.Now()
	logger := rt.config.Logger

	if rt.width <= 0 || rt.height <= 0 {
		return nil, RenderStats{}, xerrors.Errorf("invalid image size %dx%d", rt.width, rt.height)
	}
	if rt.scene == nil || rt.scene.Camera == nil {
		return nil, RenderStats{}, xerrors.New("scene has no camera; was it preprocessed?")
	}

	tiles := NewTileGrid(rt.width, rt.height, rt.config.TileSize)
	pool := NewWorkerPool(NewTileRenderer(rt.scene, rt.integrator, rt.width, rt.height, rt.config.Seed), rt.config.NumWorkers)

	stats := RenderStats{
		TotalTiles: len(tiles),
		Workers:    pool.GetNumWorkers(),
	}
	span.SetAttributes(
		attribute.Int("width", rt.width),
		attribute.Int("height", rt.height),
		attribute.Int("tiles", stats.TotalTiles),
		attribute.Int("workers", stats.Workers),
		attribute.Int64("seed", rt.config.Seed),
	)

	logger.Info().
		Str("scene", rt.scene.Name).
		Int("width", rt.width).
		Int("height", rt.height).
		Int("tiles", stats.TotalTiles).
		Int("workers", stats.Workers).
		Msg("Starting render")

	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	results := make(chan TileResult, stats.Workers)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer close(results)
		return pool.Run(egCtx, tiles, results)
	})

	var progress *rate.Limiter
	if rt.config.ProgressInterval > 0 {
		progress = rate.NewLimiter(rate.Every(rt.config.ProgressInterval), 1)
		progress.Allow() // the start line above already reported progress
	}

	done := 0
	for result := range results {
		draw.Draw(img, result.Tile.Bounds, result.Image, result.Tile.Bounds.Min, draw.Src)
		stats.TotalPixels += result.Tile.Bounds.Dx() * result.Tile.Bounds.Dy()
		stats.PrimaryRays += result.PrimaryRays
		done++

		if onTile != nil {
			onTile(result)
		}
		if progress != nil && progress.Allow() {
			logger.Info().
				Int("tiles_done", done).
				Int("tiles_total", stats.TotalTiles).
				Float64("percent", 100*float64(done)/float64(stats.TotalTiles)).
				Msg("Render progress")
		}
	}

	stats.Elapsed = time.Since(start)
	if err := eg.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn().Err(err).Int("tiles_done", done).Msg("Render stopped")
		return img, stats, xerrors.Errorf("render cancelled after %d of %d tiles: %w", done, stats.TotalTiles, err)
	}

	span.SetAttributes(attribute.Int("primary_rays", stats.PrimaryRays))
	span.SetStatus(codes.Ok, "")
	logger.Info().
		Dur("elapsed", stats.Elapsed).
		Int("pixels", stats.TotalPixels).
		Float64("avg_luminance", CalculateAverageLuminance(img)).
		Msg("Render complete")

	return img, stats, nil
}
