package renderer

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/sampling"
	"github.com/df07/go-flat-raytracer/pkg/scene"
)

// ProgressFunc is called after each completed row
type ProgressFunc func(rowsDone, totalRows int)

// Raytracer renders a scene into a pixel buffer
type Raytracer struct {
	scene   *scene.Scene
	config  Config
	camera  *Camera
	sampler *sampling.Sampler // Template; workers render with clones
	logger  core.Logger
}

// NewRaytracer validates the configuration and prepares the sample table.
// All configuration errors are reported here, before any pixel is traced.
func NewRaytracer(s *scene.Scene, config Config, logger core.Logger) (*Raytracer, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: scene is required", core.ErrInvalidConfiguration)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	sampler, err := sampling.NewSamplerWithSets(config.Strategy, config.SamplesPerPixel, config.numSets(), config.Seed)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = core.NopLogger{}
	}

	return &Raytracer{
		scene:   s,
		config:  config,
		camera:  NewCamera(config),
		sampler: sampler,
		logger:  logger,
	}, nil
}

// Scene returns the scene being rendered
func (rt *Raytracer) Scene() *scene.Scene {
	return rt.scene
}

// Camera returns the camera built from the configuration
func (rt *Raytracer) Camera() *Camera {
	return rt.camera
}

// Config returns the render configuration
func (rt *Raytracer) Config() Config {
	return rt.config
}

// NewSampler returns a sampler owned by one worker
func (rt *Raytracer) NewSampler(workerID int) *sampling.Sampler {
	return rt.sampler.Clone(rt.config.Seed + int64(workerID))
}

// TraceRay returns the flat color of the nearest primitive, or the background
func (rt *Raytracer) TraceRay(ray core.Ray) core.Vec3 {
	record := rt.scene.Resolve(ray)
	if !record.DidHit {
		return rt.scene.Background
	}
	return record.Color
}

// RenderPixel averages SamplesPerPixel samples of pixel (row, col).
// It returns the gamma-corrected color and the number of samples that hit.
func (rt *Raytracer) RenderPixel(row, col int, sampler *sampling.Sampler) (core.Vec3, int) {
	colorAccum := core.Vec3{}
	hits := 0

	for s := 0; s < rt.config.SamplesPerPixel; s++ {
		ray := rt.camera.GetRay(row, col, sampler.SampleUnitSquare())
		record := rt.scene.Resolve(ray)
		if record.DidHit {
			hits++
			colorAccum = colorAccum.Add(record.Color)
		} else {
			colorAccum = colorAccum.Add(rt.scene.Background)
		}
	}

	// Box filter: unweighted mean of all samples
	pixel := colorAccum.Multiply(1.0 / float64(rt.config.SamplesPerPixel))
	return pixel.GammaCorrect(rt.config.Gamma), hits
}

// RenderRow renders one logical row into buf using the given sampler.
// The sampler is reset from the row number so the result does not depend on
// which worker renders the row.
func (rt *Raytracer) RenderRow(row int, sampler *sampling.Sampler, buf *PixelBuffer) RenderStats {
	sampler.Reset(rt.config.Seed + int64(row))

	stats := RenderStats{
		TotalPixels:  rt.config.Width,
		TotalSamples: rt.config.Width * rt.config.SamplesPerPixel,
		RowsRendered: 1,
	}

	for col := 0; col < rt.config.Width; col++ {
		pixel, hits := rt.RenderPixel(row, col, sampler)
		buf.Set(row, col, pixel)
		stats.Hits += hits
	}
	stats.Misses = stats.TotalSamples - stats.Hits

	return stats
}

// Render renders every row with a pool of workers.
// Cancellation is checked between rows; a cancelled render returns ctx.Err().
func (rt *Raytracer) Render(ctx context.Context, progress ProgressFunc) (*PixelBuffer, RenderStats, error) {
	startTime := time.Now()
	buf := NewPixelBuffer(rt.config.Width, rt.config.Height)

	pool := NewWorkerPool(rt, buf, rt.config.NumWorkers)
	rt.logger.Printf("Rendering %q: %dx%d, %d %s samples/pixel, %s projection, %d workers\n",
		rt.scene.Name, rt.config.Width, rt.config.Height, rt.config.SamplesPerPixel,
		rt.config.Strategy, rt.config.Projection, pool.GetNumWorkers())

	pool.Start(ctx)
	go func() {
		defer pool.Stop()
		for row := 0; row < rt.config.Height; row++ {
			if ctx.Err() != nil {
				return
			}
			pool.SubmitTask(RowTask{Row: row})
		}
	}()

	stats := RenderStats{NumWorkers: pool.GetNumWorkers()}
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		stats.Add(result.Stats)
		if progress != nil {
			progress(stats.RowsRendered, rt.config.Height)
		}
	}
	stats.Elapsed = time.Since(startTime)

	if stats.RowsRendered < rt.config.Height {
		err := ctx.Err()
		if err == nil {
			err = fmt.Errorf("render stopped after %d of %d rows", stats.RowsRendered, rt.config.Height)
		}
		rt.logger.Printf("Render cancelled after %d/%d rows: %v\n", stats.RowsRendered, rt.config.Height, err)
		return nil, stats, err
	}

	rt.logger.Printf("Render completed in %v (%d rays, %.1f%% hits)\n",
		stats.Elapsed, stats.TotalSamples, 100*stats.HitRatio())
	return buf, stats, nil
}

// RenderImage renders the scene and converts the result to an RGBA image
func (rt *Raytracer) RenderImage(ctx context.Context) (*image.RGBA, RenderStats, error) {
	buf, stats, err := rt.Render(ctx, nil)
	if err != nil {
		return nil, stats, err
	}
	return buf.ToImage(), stats, nil
}
