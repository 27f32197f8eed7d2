package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/df07/go-whitted-raytracer/pkg/cache"
	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/web/server"
)

func main() {
	// Parse command line flags
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	configPath := flag.String("config", "", "Optional YAML config file")
	cacheDir := flag.String("cache-dir", "", "Directory of the render cache (overrides config)")
	traceRatio := flag.Float64("trace-ratio", 0.1, "Fraction of requests to trace")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	cfg := config.Default()
	if *configPath != "" {
		if c, err := config.Load(*configPath); err != nil {
			log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
		} else {
			cfg = c
		}
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *cacheDir != "" {
		cfg.CacheDir = *cacheDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid settings")
	}
	lvl, _ := cfg.Level()
	zerolog.SetGlobalLevel(lvl)

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.TraceIDRatioBased(*traceRatio)))
	otel.SetTracerProvider(tp)
	defer tp.Shutdown(context.Background())

	var renderCache *cache.RenderCache
	if cfg.CacheDir != "" {
		c, err := cache.Open(cfg.CacheDir, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open render cache")
		}
		defer c.Close()
		renderCache = c
	}

	webServer := server.NewServer(cfg, scene.FindScenesDir(), renderCache, log.Logger)

	log.Info().Msg("Whitted Raytracer Web Server")
	log.Info().Msgf("Visit http://localhost%s/api/scenes to list scenes", cfg.Addr)

	if err := webServer.Start(); err != nil {
		log.Error().Err(err).Msg("Error starting server")
		os.Exit(1)
	}
}
