package scene

import (
	"fmt"

	"github.com/df07/go-flat-raytracer/pkg/geometry"
	"github.com/df07/go-flat-raytracer/pkg/loaders"
)

// NewFileScene loads a scene description file and builds a scene from it
func NewFileScene(filename string) (*Scene, error) {
	sf, err := loaders.LoadSceneFile(filename)
	if err != nil {
		return nil, err
	}
	return FromSceneFile(sf)
}

// FromSceneFile converts parsed scene file data into a validated scene
func FromSceneFile(sf *loaders.SceneFile) (*Scene, error) {
	primitives := make([]Primitive, 0, len(sf.Shapes))
	for _, stmt := range sf.Shapes {
		var shape geometry.Shape
		switch stmt.Type {
		case "sphere":
			shape = geometry.NewSphere(stmt.Point, stmt.Radius)
		case "plane":
			shape = geometry.NewPlane(stmt.Point, stmt.Normal)
		default:
			return nil, fmt.Errorf("line %d: unsupported shape type %q", stmt.Line, stmt.Type)
		}
		primitives = append(primitives, Primitive{
			Name:  stmt.Name,
			Shape: shape,
			Color: stmt.Color,
		})
	}

	s, err := NewScene(sf.Background, primitives...)
	if err != nil {
		return nil, err
	}
	s.Name = sf.Name
	return s, nil
}
