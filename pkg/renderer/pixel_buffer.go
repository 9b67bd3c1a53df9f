package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-flat-raytracer/pkg/core"
)

// PixelBuffer is a row-major Width×Height grid of linear RGB colors.
//
// Logical rows count up from the bottom of the screen (row 0 has the most
// negative y), while buffer rows count down from the top of the image, so
// logical row r is stored in buffer row Height-1-r.
type PixelBuffer struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewPixelBuffer creates a black pixel buffer
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

func (b *PixelBuffer) index(row, col int) int {
	return (b.Height-1-row)*b.Width + col
}

// Set stores the color of logical pixel (row, col)
func (b *PixelBuffer) Set(row, col int, c core.Vec3) {
	b.Pixels[b.index(row, col)] = c
}

// Get returns the color of logical pixel (row, col)
func (b *PixelBuffer) Get(row, col int) core.Vec3 {
	return b.Pixels[b.index(row, col)]
}

// At returns the color at image coordinates (x, y) with y=0 at the top
func (b *PixelBuffer) At(x, y int) core.Vec3 {
	return b.Pixels[y*b.Width+x]
}

// ToImage converts the buffer to an 8-bit RGBA image with clamping
func (b *PixelBuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			img.SetRGBA(x, y, vec3ToColor(b.At(x, y)))
		}
	}
	return img
}

// vec3ToColor converts a Vec3 color to RGBA with clamping
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
