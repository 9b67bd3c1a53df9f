package server

import (
	"fmt"
	"net/http"

	"github.com/df07/go-flat-raytracer/pkg/core"
	"github.com/df07/go-flat-raytracer/pkg/geometry"
	"github.com/df07/go-flat-raytracer/pkg/renderer"
	"github.com/df07/go-flat-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	Primitive    string                 `json:"primitive,omitempty"`
	Index        int                    `json:"index"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Color        string                 `json:"color"` // Hex color of the primitive, or the background on a miss
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// inspectPixel casts a ray through the centre of image pixel (x, y).
// Image y runs top to bottom, so it maps to screen row height-1-y.
func inspectPixel(s *scene.Scene, camera *renderer.Camera, height, x, y int) scene.HitRecord {
	row := height - 1 - y
	ray := camera.GetRay(row, x, core.NewVec2(0.5, 0.5))
	return s.Resolve(ray)
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = toArray(geom.Center)
		properties["radius"] = geom.Radius
	case *geometry.Plane:
		properties["point"] = toArray(geom.Point)
		properties["normal"] = toArray(geom.Normal)
	}
	return shape.Kind(), properties
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	cfg := req.Config
	pixelX, err := parseIntParam(r.URL.Query(), "x", -1, 0, cfg.Width-1)
	if err != nil || pixelX < 0 {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := parseIntParam(r.URL.Query(), "y", -1, 0, cfg.Height-1)
	if err != nil || pixelY < 0 {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	rt, status, err := s.newRaytracer(req, nil)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	sceneObj := rt.Scene()
	hit := inspectPixel(sceneObj, rt.Camera(), cfg.Height, pixelX, pixelY)
	if !hit.DidHit {
		writeJSON(w, http.StatusOK, InspectResponse{
			Hit:   false,
			Index: -1,
			Color: hexColor(sceneObj.Background),
		})
		return
	}

	prim := sceneObj.Primitives[hit.Index]
	geometryType, geometryProps := extractGeometryInfo(prim.Shape)
	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		Primitive:    prim.Name,
		Index:        hit.Index,
		GeometryType: geometryType,
		Point:        toArray(hit.Point),
		Normal:       toArray(hit.Normal),
		Distance:     hit.T,
		Color:        hexColor(hit.Color),
		Properties:   geometryProps,
	})
}
