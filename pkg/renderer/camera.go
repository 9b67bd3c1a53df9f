package renderer

import "github.com/df07/go-flat-raytracer/pkg/core"

// Camera maps sample points on the screen to world-space rays.
// The screen lies in the xy plane centred on the z axis.
type Camera struct {
	width, height int
	pixelSize     float64
	projection    Projection
	viewPlaneZ    float64
	eye           core.Vec3
	viewDistance  float64
}

// NewCamera creates a camera for the given configuration
func NewCamera(config Config) *Camera {
	return &Camera{
		width:        config.Width,
		height:       config.Height,
		pixelSize:    config.PixelSize,
		projection:   config.Projection,
		viewPlaneZ:   config.ViewPlaneZ,
		eye:          core.NewVec3(0, 0, config.EyeDistance),
		viewDistance: config.ViewDistance,
	}
}

// ScreenPoint returns the view-plane coordinates of a sample inside pixel (row, col).
// Row 0 is the bottom of the screen; sample is the offset within the pixel in [0,1)².
func (c *Camera) ScreenPoint(row, col int, sample core.Vec2) (x, y float64) {
	x = c.pixelSize * (float64(col) - 0.5*float64(c.width) + sample.X)
	y = c.pixelSize * (float64(row) - 0.5*float64(c.height) + sample.Y)
	return x, y
}

// GetRay generates the ray through a sample of pixel (row, col).
// Orthographic rays keep the unit -z direction; perspective directions are normalized.
func (c *Camera) GetRay(row, col int, sample core.Vec2) core.Ray {
	x, y := c.ScreenPoint(row, col, sample)

	switch c.projection {
	case Perspective:
		direction := core.NewVec3(x, y, -c.viewDistance).Normalize()
		return core.NewRay(c.eye, direction)
	default:
		return core.NewRay(core.NewVec3(x, y, c.viewPlaneZ), core.NewVec3(0, 0, -1))
	}
}
