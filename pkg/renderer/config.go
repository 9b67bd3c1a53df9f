package renderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/sampling"
)

// Projection selects how sample points on the screen become rays
type Projection int

const (
	// Orthographic casts parallel rays along -z from the view plane
	Orthographic Projection = iota
	// Perspective casts rays from a single eye point through the view plane
	Perspective
)

// String returns the flag name of the projection
func (p Projection) String() string {
	switch p {
	case Orthographic:
		return "orthographic"
	case Perspective:
		return "perspective"
	default:
		return fmt.Sprintf("projection(%d)", int(p))
	}
}

// ParseProjection converts a name such as "perspective" into a Projection
func ParseProjection(name string) (Projection, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "orthographic", "ortho":
		return Orthographic, nil
	case "perspective", "pinhole":
		return Perspective, nil
	default:
		return 0, fmt.Errorf("%w: unknown projection %q", core.ErrInvalidConfiguration, name)
	}
}

// Config contains the screen and sampling configuration for a render
type Config struct {
	Width           int               // Screen width in pixels
	Height          int               // Screen height in pixels
	PixelSize       float64           // World-space pixel pitch
	Gamma           float64           // Output gamma; 1.0 disables correction
	SamplesPerPixel int               // Number of rays per pixel
	Strategy        sampling.Strategy // Sub-pixel sample layout
	NumSets         int               // Sample sets per sampler (0 = sampling.DefaultNumSets)

	Projection   Projection
	ViewPlaneZ   float64 // Orthographic: z of the ray origins
	EyeDistance  float64 // Perspective: z of the eye point
	ViewDistance float64 // Perspective: distance from the eye to the view plane

	NumWorkers int   // Number of parallel workers (0 = use CPU count)
	Seed       int64 // Seed for sample generation and per-row set selection
}

// DefaultConfig returns the classic 200x200 single-sample orthographic setup
func DefaultConfig() Config {
	return Config{
		Width:           200,
		Height:          200,
		PixelSize:       1.0,
		Gamma:           1.0,
		SamplesPerPixel: 1,
		Strategy:        sampling.Uniform,
		NumSets:         sampling.DefaultNumSets,
		Projection:      Orthographic,
		ViewPlaneZ:      100.0,
		EyeDistance:     400.0,
		ViewDistance:    400.0,
		NumWorkers:      0,
		Seed:            42,
	}
}

// Validate reports settings that cannot produce a render
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: screen dimensions must be positive, got %dx%d",
			core.ErrInvalidConfiguration, c.Width, c.Height)
	}
	if !(c.PixelSize > 0) || math.IsInf(c.PixelSize, 0) {
		return fmt.Errorf("%w: pixel size must be positive, got %g", core.ErrInvalidConfiguration, c.PixelSize)
	}
	if !(c.Gamma > 0) || math.IsInf(c.Gamma, 0) {
		return fmt.Errorf("%w: gamma must be positive, got %g", core.ErrInvalidConfiguration, c.Gamma)
	}
	if err := sampling.ValidateCount(c.Strategy, c.SamplesPerPixel); err != nil {
		return err
	}
	if c.NumSets < 0 {
		return fmt.Errorf("%w: sample set count cannot be negative, got %d", core.ErrInvalidConfiguration, c.NumSets)
	}
	if c.NumWorkers < 0 {
		return fmt.Errorf("%w: worker count cannot be negative, got %d", core.ErrInvalidConfiguration, c.NumWorkers)
	}

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"view plane z", c.ViewPlaneZ},
		{"eye distance", c.EyeDistance},
		{"view distance", c.ViewDistance},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite, got %g", core.ErrInvalidConfiguration, f.name, f.value)
		}
	}

	switch c.Projection {
	case Orthographic:
	case Perspective:
		if !(c.ViewDistance > 0) {
			return fmt.Errorf("%w: view distance must be positive, got %g",
				core.ErrInvalidConfiguration, c.ViewDistance)
		}
	default:
		return fmt.Errorf("%w: unknown projection %d", core.ErrInvalidConfiguration, int(c.Projection))
	}

	return nil
}

// numSets returns the effective number of sample sets
func (c Config) numSets() int {
	if c.NumSets == 0 {
		return sampling.DefaultNumSets
	}
	return c.NumSets
}
