package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/df07/go-whitted-raytracer/pkg/cache"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Tile updates are sent in bursts of at most tileBurst, tileUpdatesPerSecond times a second
const (
	tileUpdatesPerSecond = 20
	tileBurst            = 8
	writeTimeout         = 5 * time.Second
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene  string `json:"scene"` // Built-in id or scene file name
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Seed   int64  `json:"seed"`
}

// RenderEvent is one message on the render websocket
type RenderEvent struct {
	Type string      `json:"type"` // "console", "tile", "complete", "error"
	Data interface{} `json:"data"`
}

// TileUpdate carries the pixels of one finished tile
type TileUpdate struct {
	TileID     int    `json:"tileId"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	ImageData  string `json:"imageData"`  // Base64 encoded PNG of just this tile
	TileNumber int    `json:"tileNumber"` // 1-based count of tiles sent so far
	TotalTiles int    `json:"totalTiles"`
}

// CompleteUpdate carries the final image
type CompleteUpdate struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Cached      bool   `json:"cached"`
	ElapsedMs   int64  `json:"elapsedMs"`
	TotalTiles  int    `json:"totalTiles,omitempty"`
	Workers     int    `json:"workers,omitempty"`
	PrimaryRays int    `json:"primaryRays,omitempty"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, req.Height, err = s.parseSize(query); err != nil {
		return nil, err
	}
	if req.Seed, err = parseInt64Param(query, "seed", s.cfg.Seed); err != nil {
		return nil, err
	}
	return req, nil
}

// handleRender renders a scene and streams console output, tiles and the
// final image over a websocket
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request: " + err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "render")
	defer span.End()
	span.SetAttributes(
		attribute.String("scene", req.Scene),
		attribute.Int("width", req.Width),
		attribute.Int("height", req.Height),
	)

	// The client never sends anything we act on; a read error means it went away
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	events := make(chan RenderEvent, 100)
	writerDone := make(chan struct{})
	go s.writeEvents(conn, events, cancel, writerDone)

	consoleChan := make(chan ConsoleMessage, 50)
	consoleDone := make(chan struct{})
	go streamConsoleMessages(consoleChan, events, consoleDone)

	start := time.Now()
	outcome, final := s.runRender(ctx, req, consoleChan, events)

	// Console output of this render precedes its final event
	close(consoleChan)
	<-consoleDone
	if final != nil {
		events <- *final
	}
	close(events)
	<-writerDone

	s.metrics.RecordRender(ctx, req.Scene, outcome)
	span.SetAttributes(attribute.String("outcome", outcome))
	s.logger.Info().
		Str("scene", req.Scene).
		Str("outcome", outcome).
		Dur("elapsed", time.Since(start)).
		Msg("Render request finished")

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// writeEvents is the only goroutine writing to conn. After a write error it
// keeps draining events so that senders never block.
func (s *Server) writeEvents(conn *websocket.Conn, events <-chan RenderEvent, cancel context.CancelFunc, done chan<- struct{}) {
	defer close(done)

	failed := false
	for event := range events {
		if failed {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(event); err != nil {
			s.logger.Debug().Err(err).Msg("Websocket write failed")
			failed = true
			cancel()
		}
	}
}

// streamConsoleMessages forwards console messages as events until consoleChan is closed
func streamConsoleMessages(consoleChan <-chan ConsoleMessage, events chan<- RenderEvent, done chan<- struct{}) {
	defer close(done)
	for msg := range consoleChan {
		events <- RenderEvent{Type: "console", Data: msg}
	}
}

// runRender performs one render, streaming tiles to events. It returns the
// outcome for metrics and the final "complete" or "error" event, if any.
func (s *Server) runRender(ctx context.Context, req *RenderRequest, consoleChan chan<- ConsoleMessage, events chan<- RenderEvent) (string, *RenderEvent) {
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	logger := zerolog.New(NewConsoleWriter(renderID, consoleChan)).With().Timestamp().Logger()
	start := time.Now()

	resolved, err := s.resolveScene(req.Scene)
	if err != nil {
		return outcomeFailed, &RenderEvent{Type: "error", Data: err.Error()}
	}
	scn := resolved.Scene
	logger.Info().Msgf("Scene: %d surfaces, %d lights, %d materials", len(scn.Surfaces), len(scn.Lights), len(scn.Materials))

	var key []byte
	if s.cache != nil {
		key = cache.Key(resolved.Fingerprint, req.Width, req.Height, s.cfg.TileSize, req.Seed)
		data, found, err := s.cache.Get(key)
		if err != nil {
			logger.Warn().Err(err).Msg("Render cache lookup failed")
		} else if found {
			logger.Info().Msg("Render served from cache")
			trace.SpanFromContext(ctx).AddEvent("cache hit")
			return outcomeCached, &RenderEvent{Type: "complete", Data: CompleteUpdate{
				Width:     req.Width,
				Height:    req.Height,
				ImageData: base64.StdEncoding.EncodeToString(data),
				Cached:    true,
				ElapsedMs: time.Since(start).Milliseconds(),
			}}
		}
	}

	rc := renderer.RenderConfig{
		TileSize:         s.cfg.TileSize,
		NumWorkers:       s.cfg.Workers,
		Seed:             req.Seed,
		Logger:           logger,
		ProgressInterval: s.cfg.Progress(),
	}
	rt := renderer.NewRaytracer(scn, integrator.NewWhittedIntegrator(), req.Width, req.Height, rc)
	totalTiles := len(renderer.NewTileGrid(req.Width, req.Height, rc.TileSize))

	limiter := rate.NewLimiter(rate.Limit(tileUpdatesPerSecond), tileBurst)
	var pending []renderer.TileResult
	sent := 0
	flush := func() {
		for _, result := range pending {
			update, err := tileUpdate(result)
			if err != nil {
				logger.Warn().Err(err).Int("tile", result.Tile.ID).Msg("Failed to encode tile")
				continue
			}
			sent++
			update.TileNumber = sent
			update.TotalTiles = totalTiles
			events <- RenderEvent{Type: "tile", Data: update}
		}
		pending = pending[:0]
	}

	img, stats, err := rt.Render(ctx, func(result renderer.TileResult) {
		pending = append(pending, result)
		if limiter.Allow() {
			flush()
		}
	})
	if err != nil {
		if ctx.Err() != nil {
			return outcomeCancelled, nil
		}
		return outcomeFailed, &RenderEvent{Type: "error", Data: err.Error()}
	}
	flush()

	data, err := loaders.PNGBytes(img)
	if err != nil {
		return outcomeFailed, &RenderEvent{Type: "error", Data: err.Error()}
	}
	if s.cache != nil {
		if err := s.cache.Put(key, data); err != nil {
			logger.Warn().Err(err).Msg("Failed to store render in cache")
		}
	}

	return outcomeRendered, &RenderEvent{Type: "complete", Data: CompleteUpdate{
		Width:       req.Width,
		Height:      req.Height,
		ImageData:   base64.StdEncoding.EncodeToString(data),
		ElapsedMs:   time.Since(start).Milliseconds(),
		TotalTiles:  stats.TotalTiles,
		Workers:     stats.Workers,
		PrimaryRays: stats.PrimaryRays,
	}}
}

func tileUpdate(result renderer.TileResult) (TileUpdate, error) {
	imageData, err := imageToBase64PNG(result.Image)
	if err != nil {
		return TileUpdate{}, err
	}
	bounds := result.Tile.Bounds
	return TileUpdate{
		TileID:    result.Tile.ID,
		X:         bounds.Min.X,
		Y:         bounds.Min.Y,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		ImageData: imageData,
	}, nil
}
