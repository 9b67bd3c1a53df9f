package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-flat-raytracer/pkg/loaders"
)

// builtInGroup is the listing group for scenes compiled into the binary
const builtInGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, accepted by Lookup
	Name        string `json:"name"`        // Scene name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to scene file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

type builtInScene struct {
	info  SceneInfo
	build func() *Scene
}

var builtInScenes = []builtInScene{
	{
		info: SceneInfo{
			ID:          "sphere",
			Name:        "Sphere",
			Description: "Single red sphere on black",
		},
		build: NewSphereScene,
	},
	{
		info: SceneInfo{
			ID:          "sphere-plane",
			Name:        "Sphere And Plane",
			Description: "Sphere cut by a tilted plane",
		},
		build: NewSpherePlaneScene,
	},
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			Description: "Overlapping spheres in front of a sloped floor",
		},
		build: NewDefaultScene,
	},
}

// ErrSceneNotFound is returned by Lookup for IDs that match no scene
var ErrSceneNotFound = errors.New("scene not found")

// ScenesDirs are the directories searched for scene files
var ScenesDirs = []string{"scenes", "../scenes"}

// Lookup returns a scene by built-in ID, "file:<name>" ID, or scene file path
func Lookup(id string) (*Scene, error) {
	if id == "" {
		return nil, fmt.Errorf("scene name cannot be empty")
	}

	for _, b := range builtInScenes {
		if b.info.ID == id {
			return b.build(), nil
		}
	}

	if strings.HasSuffix(id, loaders.SceneFileExt) {
		return NewFileScene(id)
	}

	if name, ok := strings.CutPrefix(id, "file:"); ok {
		files, err := ListFileScenes()
		if err != nil {
			return nil, err
		}
		for _, info := range files {
			if info.ID == id || strings.EqualFold(info.Name, name) {
				return NewFileScene(info.FilePath)
			}
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrSceneNotFound, id)
}

// ListFileScenes scans the scenes directory and returns discovered scene files
func ListFileScenes() ([]SceneInfo, error) {
	var scenesDir string
	for _, path := range ScenesDirs {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			scenesDir = path
			break
		}
	}

	if scenesDir == "" {
		// No scenes directory found, return empty list
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(scenesDir, "*"+loaders.SceneFileExt))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		scenes = append(scenes, parseFileSceneInfo(filePath))
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// parseFileSceneInfo extracts listing metadata, falling back to the file name
func parseFileSceneInfo(filePath string) SceneInfo {
	base := strings.TrimSuffix(filepath.Base(filePath), loaders.SceneFileExt)
	info := SceneInfo{
		ID:       "file:" + base,
		Name:     titleCase(base),
		Group:    "Scene Files",
		Type:     "file",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info
	}
	defer file.Close()

	meta, err := loaders.ParseSceneMetadata(file)
	if err != nil {
		return info
	}
	if meta.Name != "" {
		info.Name = meta.Name
	}
	if meta.Group != "" {
		info.Group = meta.Group
	}
	info.Description = meta.Description
	return info
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	builtIns := make([]SceneInfo, 0, len(builtInScenes))
	for _, b := range builtInScenes {
		info := b.info
		info.Group = builtInGroup
		info.Type = "builtin"
		builtIns = append(builtIns, info)
	}

	fileScenes, err := ListFileScenes()
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}

	groupMap := make(map[string][]SceneInfo)
	for _, s := range append(builtIns, fileScenes...) {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtInGroup,
		Scenes: groupMap[builtInGroup],
	})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "two-spheres" -> "Two Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
