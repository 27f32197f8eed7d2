package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/xerrors"

	"github.com/df07/go-whitted-raytracer/pkg/cache"
	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, log.Logger))
}

// run executes the CLI and returns the process exit status
func run(ctx context.Context, args []string, stdout io.Writer, logger zerolog.Logger) int {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stdout)
	defaults := config.Default()

	var (
		width      = fs.Int("width", defaults.Width, "Image width in pixels")
		height     = fs.Int("height", defaults.Height, "Image height in pixels")
		workers    = fs.Int("workers", defaults.Workers, "Number of parallel workers (0 = auto-detect CPU count)")
		tileSize   = fs.Int("tile-size", defaults.TileSize, "Tile edge in pixels")
		seed       = fs.Int64("seed", defaults.Seed, "Seed for soft shadow sampling")
		configPath = fs.String("config", "", "Optional YAML config file")
		cacheDir   = fs.String("cache-dir", "", "Directory of the render cache (empty disables it)")
		logLevel   = fs.String("log-level", defaults.LogLevel, "Log level: trace, debug, info, warn, error")
		list       = fs.Bool("list", false, "List available scenes and exit")
	)
	fs.Usage = func() {
		fmt.Fprintln(stdout, "Whitted Raytracer")
		fmt.Fprintln(stdout, "Usage: raytracer [options] <scene> [output.png]")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "<scene> is a built-in scene id or a scene file. Without an output path the")
		fmt.Fprintln(stdout, "render is saved to <output_dir>/<scene>/render_<timestamp>.png")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(*configPath, logger)
	if err != nil {
		logger.Error().Err(err).Str("path", *configPath).Msg("Invalid config file")
		return 1
	}

	// Flags given on the command line win over the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "workers":
			cfg.Workers = *workers
		case "tile-size":
			cfg.TileSize = *tileSize
		case "seed":
			cfg.Seed = *seed
		case "cache-dir":
			cfg.CacheDir = *cacheDir
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("Invalid settings")
		return 1
	}
	lvl, _ := cfg.Level()
	logger = logger.Level(lvl)

	scenesDir := scene.FindScenesDir()
	if *list {
		if err := listScenes(stdout, scenesDir); err != nil {
			logger.Error().Err(err).Msg("Failed to list scenes")
			return 1
		}
		return 0
	}

	if fs.NArg() < 1 || fs.NArg() > 2 {
		fs.Usage()
		return 2
	}
	sceneName := fs.Arg(0)
	outputPath := fs.Arg(1)
	if outputPath == "" {
		outputPath = defaultOutputPath(cfg.OutputDir, sceneName, time.Now())
	}

	if err := render(ctx, cfg, sceneName, scenesDir, outputPath, logger); err != nil {
		logger.Error().Err(err).Str("scene", sceneName).Msg("Render failed")
		return 1
	}
	return 0
}

// loadConfig returns the defaults overlaid with the config file at path, if any.
// A missing file only produces a warning.
func loadConfig(path string, logger zerolog.Logger) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if os.IsNotExist(err) {
		logger.Warn().Err(err).Str("path", path).Msg("config load failed; proceeding with flags")
		return config.Default(), nil
	}
	return cfg, err
}

func render(ctx context.Context, cfg *config.Config, sceneName, scenesDir, outputPath string, logger zerolog.Logger) error {
	resolved, err := loaders.ResolveScene(sceneName, scenesDir)
	if err != nil {
		return err
	}
	scn := resolved.Scene

	logger.Info().
		Str("scene", scn.Name).
		Msgf("Scene: %d surfaces, %d lights, %d materials", len(scn.Surfaces), len(scn.Lights), len(scn.Materials))
	logger.Info().
		Int("shadow_grid", scn.Settings.ShadowRayGridRoot).
		Int("max_depth", scn.Settings.MaxRecursionDepth).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Int64("seed", cfg.Seed).
		Msg("Render settings")

	var renderCache *cache.RenderCache
	var key []byte
	if cfg.CacheDir != "" {
		renderCache, err = cache.Open(cfg.CacheDir, logger)
		if err != nil {
			return err
		}
		defer renderCache.Close()

		key = cache.Key(resolved.Fingerprint, cfg.Width, cfg.Height, cfg.TileSize, cfg.Seed)
		data, found, err := renderCache.Get(key)
		if err != nil {
			logger.Warn().Err(err).Msg("Render cache lookup failed")
		} else if found {
			if err := loaders.WriteImageFile(outputPath, data); err != nil {
				return err
			}
			logger.Info().Str("output", outputPath).Msg("Render served from cache")
			return nil
		}
	}

	rc := renderer.RenderConfig{
		TileSize:         cfg.TileSize,
		NumWorkers:       cfg.Workers,
		Seed:             cfg.Seed,
		Logger:           logger,
		ProgressInterval: cfg.Progress(),
	}
	rt := renderer.NewRaytracer(scn, integrator.NewWhittedIntegrator(), cfg.Width, cfg.Height, rc)

	img, stats, err := rt.Render(ctx, nil)
	if err != nil {
		return err
	}

	data, err := loaders.PNGBytes(img)
	if err != nil {
		return xerrors.Errorf("while encoding render: %w", err)
	}
	if err := loaders.WriteImageFile(outputPath, data); err != nil {
		return err
	}
	if renderCache != nil {
		if err := renderCache.Put(key, data); err != nil {
			logger.Warn().Err(err).Msg("Failed to store render in cache")
		}
	}

	logger.Info().
		Dur("elapsed", stats.Elapsed).
		Int("workers", stats.Workers).
		Str("output", outputPath).
		Msg("Render saved")
	return nil
}

// defaultOutputPath builds output/<scene>/render_<timestamp>.png, using the
// file name without extension for scene files
func defaultOutputPath(outputDir, sceneName string, now time.Time) string {
	base := strings.TrimPrefix(sceneName, "file:")
	base = strings.TrimSuffix(filepath.Base(base), filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "scene"
	}
	if outputDir == "" {
		outputDir = "output"
	}
	return filepath.Join(outputDir, base, fmt.Sprintf("render_%s.png", now.Format("20060102_150405")))
}

func listScenes(w io.Writer, scenesDir string) error {
	response, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			id := info.ID
			if info.FilePath != "" {
				id = info.FilePath
			}
			fmt.Fprintf(w, "  %-28s %s\n", id, info.Description)
		}
	}
	return nil
}
