package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/df07/go-flat-raytracer/pkg/output"
	"github.com/df07/go-flat-raytracer/pkg/renderer"
	"github.com/df07/go-flat-raytracer/pkg/sampling"
	"github.com/df07/go-flat-raytracer/pkg/scene"
)

// options holds the parsed command line
type options struct {
	sceneID   string
	config    renderer.Config
	format    output.Format
	outDir    string
	thumbnail int
	list      bool
	help      bool
}

func main() {
	// Values from .env become flag defaults; real environment variables win
	_ = godotenv.Load(".env")

	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	if opts.help {
		printHelp(flag.CommandLine)
		return
	}

	if opts.list {
		if err := listScenes(); err != nil {
			fmt.Printf("Error listing scenes: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	defaults := renderer.DefaultConfig()
	var opts options

	fs.StringVar(&opts.sceneID, "scene", "default", "Scene ID (see -list), 'file:<name>' or path to a .scene file")
	width := fs.Int("width", defaults.Width, "Screen width in pixels")
	height := fs.Int("height", defaults.Height, "Screen height in pixels")
	pixelSize := fs.Float64("pixel-size", defaults.PixelSize, "World-space size of one pixel")
	samples := fs.Int("samples", defaults.SamplesPerPixel, "Samples per pixel")
	samplerName := fs.String("sampler", defaults.Strategy.String(), "Sampling strategy: uniform, random or jittered")
	projectionName := fs.String("projection", defaults.Projection.String(), "Projection: orthographic or perspective")
	eye := fs.Float64("eye", defaults.EyeDistance, "Eye distance on the z axis (perspective)")
	viewDistance := fs.Float64("view-distance", defaults.ViewDistance, "Eye to view plane distance (perspective)")
	gamma := fs.Float64("gamma", defaults.Gamma, "Gamma exponent applied to final colors")
	workers := fs.Int("workers", defaults.NumWorkers, "Number of render workers (0 = number of CPUs)")
	seed := fs.Int64("seed", defaults.Seed, "Sampler random seed")
	formatName := fs.String("format", "png", "Output format: png, jpeg, gif, bmp or tiff")
	fs.StringVar(&opts.outDir, "out", envOr("RAYTRACER_OUT", "output"), "Output directory or s3://bucket/prefix")
	fs.IntVar(&opts.thumbnail, "thumbnail", 0, "Also save a thumbnail no larger than this many pixels (0 = off)")
	fs.BoolVar(&opts.list, "list", false, "List available scenes")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	strategy, err := sampling.ParseStrategy(*samplerName)
	if err != nil {
		return opts, err
	}
	projection, err := renderer.ParseProjection(*projectionName)
	if err != nil {
		return opts, err
	}
	opts.format, err = output.ParseFormat(*formatName)
	if err != nil {
		return opts, err
	}

	opts.config = defaults
	opts.config.Width = *width
	opts.config.Height = *height
	opts.config.PixelSize = *pixelSize
	opts.config.SamplesPerPixel = *samples
	opts.config.Strategy = strategy
	opts.config.Projection = projection
	opts.config.EyeDistance = *eye
	opts.config.ViewDistance = *viewDistance
	opts.config.Gamma = *gamma
	opts.config.NumWorkers = *workers
	opts.config.Seed = *seed

	// -help and -list never render, so a bad render config must not block them
	if opts.help || opts.list {
		return opts, nil
	}
	return opts, opts.config.Validate()
}

func printHelp(fs *flag.FlagSet) {
	fmt.Println("Flat Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	fs.PrintDefaults()
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  RAYTRACER_OUT                 - Default output destination")
	fmt.Println("  S3_ACCESS_KEY, S3_SECRET_KEY  - Credentials for s3:// destinations")
	fmt.Println("  S3_ENDPOINT, S3_REGION        - S3 endpoint and region")
	fmt.Println()
	fmt.Println("Output will be saved to <out>/<scene>/render_<timestamp>.<ext>")
}

func listScenes() error {
	response, err := scene.ListAllScenes()
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Printf("%s:\n", group.Name)
		for _, info := range group.Scenes {
			if info.Description != "" {
				fmt.Printf("  %-20s - %s\n", info.ID, info.Description)
			} else {
				fmt.Printf("  %s\n", info.ID)
			}
		}
	}
	return nil
}

func run(ctx context.Context, opts options) error {
	fmt.Println("Starting Flat Raytracer...")

	s, err := scene.Lookup(opts.sceneID)
	if err != nil {
		return err
	}
	fmt.Printf("Using scene %q (%d primitives)\n", s.Name, s.GetPrimitiveCount())

	sink, err := output.NewSink(opts.outDir, s3ConfigFromEnv())
	if err != nil {
		return err
	}

	rt, err := renderer.NewRaytracer(s, opts.config, renderer.NewDefaultLogger())
	if err != nil {
		return err
	}

	buf, stats, err := rt.Render(ctx, progressPrinter(10))
	if err != nil {
		return err
	}
	fmt.Printf("Render completed in %v\n", stats.Elapsed)
	fmt.Printf("Rays traced: %d (%.1f per pixel, %.1f%% hits)\n",
		stats.TotalSamples, stats.AverageSamples(), 100*stats.HitRatio())

	img := buf.ToImage()
	now := time.Now()
	key := outputKey(sceneDirName(opts.sceneID), now, "", opts.format)
	if err := save(ctx, sink, key, img, opts.format); err != nil {
		return err
	}

	if opts.thumbnail > 0 {
		thumbKey := outputKey(sceneDirName(opts.sceneID), now, "_thumb", opts.format)
		if err := save(ctx, sink, thumbKey, output.Thumbnail(img, opts.thumbnail), opts.format); err != nil {
			return err
		}
	}

	return nil
}

func save(ctx context.Context, sink output.Sink, key string, img image.Image, format output.Format) error {
	data, err := output.EncodeBytes(img, format)
	if err != nil {
		return err
	}
	location, err := sink.Put(ctx, key, data, format.ContentType())
	if err != nil {
		return err
	}
	fmt.Printf("Render saved as %s\n", location)
	return nil
}

// progressPrinter reports progress each time another 1/steps of the rows is done
func progressPrinter(steps int) renderer.ProgressFunc {
	lastStep := 0
	return func(rowsDone, totalRows int) {
		step := rowsDone * steps / totalRows
		if step > lastStep {
			lastStep = step
			fmt.Printf("Progress: %d/%d rows (%d%%)\n", rowsDone, totalRows, 100*rowsDone/totalRows)
		}
	}
}

// sceneDirName turns a scene ID or path into a directory-safe name
func sceneDirName(sceneID string) string {
	name := strings.TrimPrefix(sceneID, "file:")
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSuffix(name, ".scene")
	if name == "" || name == "." || name == "/" {
		return "scene"
	}
	return name
}

// outputKey builds "<scene>/render_<timestamp><suffix>.<ext>"
func outputKey(sceneName string, t time.Time, suffix string, format output.Format) string {
	timestamp := t.Format("20060102_150405")
	return fmt.Sprintf("%s/render_%s%s%s", sceneName, timestamp, suffix, format.Extension())
}

func s3ConfigFromEnv() output.S3Config {
	return output.S3Config{
		AccessKey: os.Getenv("S3_ACCESS_KEY"),
		SecretKey: os.Getenv("S3_SECRET_KEY"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		Region:    envOr("S3_REGION", "us-east-1"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
