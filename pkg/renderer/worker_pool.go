package renderer

import (
	"context"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile   *Tile
	TaskID int // Position in the submitted tile list
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID      int
	Tile        *Tile
	Image       *image.RGBA // Pixels of the tile, bounds equal to Tile.Bounds
	PrimaryRays int
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	renderer   *TileRenderer
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// A non-positive count uses one worker per CPU.
func NewWorkerPool(renderer *TileRenderer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{renderer: renderer, numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run renders every tile and sends each result on results as it completes.
// It returns once all tiles are done or ctx is cancelled; results is not closed.
func (wp *WorkerPool) Run(ctx context.Context, tiles []*Tile, results chan<- TileResult) error {
	tasks := make(chan TileTask)
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(tasks)
		for i, tile := range tiles {
			select {
			case tasks <- TileTask{Tile: tile, TaskID: i}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < wp.numWorkers; i++ {
		eg.Go(func() error {
			for task := range tasks {
				if err := ctx.Err(); err != nil {
					return err
				}
				result := wp.renderer.RenderTile(task.Tile)
				result.TaskID = task.TaskID
				select {
				case results <- result:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	return eg.Wait()
}
