package main

import (
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/output"
	"github.com/df07/go-flat-raytracer/pkg/renderer"
	"github.com/df07/go-flat-raytracer/pkg/sampling"
	"github.com/df07/go-flat-raytracer/pkg/scene"
)

func newTestFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseFlagsDefaults(t *testing.T) {
	t.Setenv("RAYTRACER_OUT", "")

	opts, err := parseFlags(newTestFlagSet(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if opts.sceneID != "default" {
		t.Errorf("Expected default scene, got %q", opts.sceneID)
	}
	if opts.config != renderer.DefaultConfig() {
		t.Errorf("Expected default config, got %+v", opts.config)
	}
	if opts.format != output.PNG {
		t.Errorf("Expected png format, got %q", opts.format)
	}
	if opts.outDir != "output" {
		t.Errorf("Expected output dir 'output', got %q", opts.outDir)
	}
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags(newTestFlagSet(), []string{
		"-scene", "sphere-plane",
		"-width", "64", "-height", "32",
		"-samples", "16", "-sampler", "jittered",
		"-projection", "perspective", "-eye", "300", "-view-distance", "150",
		"-gamma", "2.2", "-workers", "3", "-seed", "7",
		"-format", "jpg", "-out", "s3://renders/nightly", "-thumbnail", "16",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cfg := opts.config
	if cfg.Width != 64 || cfg.Height != 32 {
		t.Errorf("Expected 64x32, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.SamplesPerPixel != 16 || cfg.Strategy != sampling.Jittered {
		t.Errorf("Expected 16 jittered samples, got %d %s", cfg.SamplesPerPixel, cfg.Strategy)
	}
	if cfg.Projection != renderer.Perspective || cfg.EyeDistance != 300 || cfg.ViewDistance != 150 {
		t.Errorf("Unexpected projection settings: %+v", cfg)
	}
	if cfg.Gamma != 2.2 || cfg.NumWorkers != 3 || cfg.Seed != 7 {
		t.Errorf("Unexpected gamma/workers/seed: %+v", cfg)
	}
	if opts.format != output.JPEG || opts.outDir != "s3://renders/nightly" || opts.thumbnail != 16 {
		t.Errorf("Unexpected output options: %+v", opts)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		invalidConfig bool
	}{
		{"unknown sampler", []string{"-sampler", "halton"}, false},
		{"unknown projection", []string{"-projection", "fisheye"}, false},
		{"unknown format", []string{"-format", "webp"}, false},
		{"zero width", []string{"-width", "0"}, true},
		{"negative gamma", []string{"-gamma", "-1"}, true},
		{"jittered non-square", []string{"-sampler", "jittered", "-samples", "5"}, true},
		{"NaN eye distance", []string{"-eye", "NaN"}, true},
		{"infinite view distance", []string{"-projection", "perspective", "-view-distance", "Inf"}, true},
		{"bad flag value", []string{"-width", "wide"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(newTestFlagSet(), tt.args)
			if err == nil {
				t.Fatalf("Expected error for %v", tt.args)
			}
			if tt.invalidConfig && !errors.Is(err, core.ErrInvalidConfiguration) {
				t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestParseFlagsSkipsValidationForHelpAndList(t *testing.T) {
	for _, flagName := range []string{"-list", "-help"} {
		t.Run(flagName, func(t *testing.T) {
			opts, err := parseFlags(newTestFlagSet(), []string{flagName, "-sampler", "jittered", "-samples", "5"})
			if err != nil {
				t.Fatalf("Expected %s to parse despite invalid config, got %v", flagName, err)
			}
			if !opts.list && !opts.help {
				t.Errorf("Expected %s to be set, got %+v", flagName, opts)
			}
		})
	}

	// Unknown enum values are still parse errors
	if _, err := parseFlags(newTestFlagSet(), []string{"-list", "-sampler", "halton"}); err == nil {
		t.Error("Expected error for unknown sampler with -list")
	}
}

func TestSceneDirName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"default", "default"},
		{"file:two-spheres", "two-spheres"},
		{"scenes/two-spheres.scene", "two-spheres"},
		{`scenes\ball.scene`, "ball"},
		{"", "scene"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sceneDirName(tt.input); got != tt.expected {
				t.Errorf("sceneDirName(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestOutputKey(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	if got := outputKey("sphere", ts, "", output.PNG); got != "sphere/render_20240305_140709.png" {
		t.Errorf("Unexpected key %q", got)
	}
	if got := outputKey("sphere", ts, "_thumb", output.JPEG); got != "sphere/render_20240305_140709_thumb.jpg" {
		t.Errorf("Unexpected thumbnail key %q", got)
	}
}

func TestShippedScenesLoad(t *testing.T) {
	files, err := scene.ListFileScenes()
	if err != nil {
		t.Fatalf("Failed to list scene files: %v", err)
	}
	if len(files) < 3 {
		t.Fatalf("Expected the scenes directory to hold at least 3 scene files, got %d", len(files))
	}

	for _, info := range files {
		t.Run(info.ID, func(t *testing.T) {
			s, err := scene.Lookup(info.ID)
			if err != nil {
				t.Fatalf("Failed to load %s: %v", info.FilePath, err)
			}
			if s.GetPrimitiveCount() == 0 {
				t.Error("Expected at least one primitive")
			}
			if info.Group == "Scene Files" {
				t.Errorf("Expected %s to declare a group", info.FilePath)
			}
		})
	}
}
