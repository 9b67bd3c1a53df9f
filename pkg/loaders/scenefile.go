package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-flat-raytracer/pkg/core"
)

// SceneFileExt is the extension of scene description files
const SceneFileExt = ".scene"

// ShapeStatement is one primitive line of a scene file
type ShapeStatement struct {
	Type   string    // "sphere" or "plane"
	Name   string    // Primitive name
	Point  core.Vec3 // Sphere center or point on the plane
	Normal core.Vec3 // Plane normal (planes only)
	Radius float64   // Sphere radius (spheres only)
	Color  core.Vec3 // Flat RGB color
	Line   int       // Source line number
}

// SceneFile contains all parsed scene file data
type SceneFile struct {
	Name        string
	Description string
	Group       string
	Background  core.Vec3
	Shapes      []ShapeStatement
}

// ParseSceneFile parses scene content from an io.Reader.
//
// The format is line based:
//
//	# Scene: Two spheres
//	background 0 0 0
//	sphere left -40 0 0 60 1 0 0
//	plane floor 0 -80 0 0 1 0 0.5 0.5 0.5
//
// Header comments carry metadata; other comments and blank lines are ignored.
func ParseSceneFile(reader io.Reader) (*SceneFile, error) {
	sf := &SceneFile{Shapes: make([]ShapeStatement, 0)}

	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			parseMetadata(sf, line)
			continue
		}
		if err := sf.parseStatement(strings.Fields(line), lineNumber); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return sf, nil
}

// LoadSceneFile loads and parses a scene file
func LoadSceneFile(filename string) (*SceneFile, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sf, err := ParseSceneFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if sf.Name == "" {
		sf.Name = strings.TrimSuffix(filepath.Base(filename), SceneFileExt)
	}
	return sf, nil
}

// ParseSceneMetadata reads only the header comments of a scene file
func ParseSceneMetadata(reader io.Reader) (*SceneFile, error) {
	sf := &SceneFile{}
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}
		parseMetadata(sf, line)
	}
	return sf, scanner.Err()
}

func parseMetadata(sf *SceneFile, line string) {
	content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	key, value, found := strings.Cut(content, ":")
	if !found {
		return
	}
	value = strings.TrimSpace(value)

	switch strings.TrimSpace(key) {
	case "Scene":
		sf.Name = value
	case "Description":
		sf.Description = value
	case "Group":
		sf.Group = value
	}
}

func (sf *SceneFile) parseStatement(fields []string, line int) error {
	keyword := strings.ToLower(fields[0])
	args := fields[1:]

	switch keyword {
	case "background":
		values, err := parseFloats(args, 3, line)
		if err != nil {
			return err
		}
		sf.Background = core.NewVec3(values[0], values[1], values[2])

	case "sphere":
		if len(args) != 8 {
			return fmt.Errorf("line %d: sphere needs name, center (3), radius and color (3), got %d values", line, len(args))
		}
		values, err := parseFloats(args[1:], 7, line)
		if err != nil {
			return err
		}
		sf.Shapes = append(sf.Shapes, ShapeStatement{
			Type:   "sphere",
			Name:   args[0],
			Point:  core.NewVec3(values[0], values[1], values[2]),
			Radius: values[3],
			Color:  core.NewVec3(values[4], values[5], values[6]),
			Line:   line,
		})

	case "plane":
		if len(args) != 10 {
			return fmt.Errorf("line %d: plane needs name, point (3), normal (3) and color (3), got %d values", line, len(args))
		}
		values, err := parseFloats(args[1:], 9, line)
		if err != nil {
			return err
		}
		sf.Shapes = append(sf.Shapes, ShapeStatement{
			Type:   "plane",
			Name:   args[0],
			Point:  core.NewVec3(values[0], values[1], values[2]),
			Normal: core.NewVec3(values[3], values[4], values[5]),
			Color:  core.NewVec3(values[6], values[7], values[8]),
			Line:   line,
		})

	default:
		return fmt.Errorf("line %d: unknown statement %q", line, fields[0])
	}

	return nil
}

func parseFloats(args []string, count, line int) ([]float64, error) {
	if len(args) != count {
		return nil, fmt.Errorf("line %d: expected %d numbers, got %d", line, count, len(args))
	}
	values := make([]float64, count)
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid number %q: %w", line, arg, err)
		}
		values[i] = v
	}
	return values, nil
}

// validateFilePath only allows .scene files without directory traversal
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	cleanPath := filepath.Clean(filename)
	for _, part := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		if part == ".." {
			return fmt.Errorf("invalid file path: directory traversal not allowed")
		}
	}

	if !strings.EqualFold(filepath.Ext(cleanPath), SceneFileExt) {
		return fmt.Errorf("only %s files are allowed, got %q", SceneFileExt, filepath.Ext(cleanPath))
	}

	return nil
}
