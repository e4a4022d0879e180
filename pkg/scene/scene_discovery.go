package scene

import (
	"fmt"
	"sort"
	"strings"
)

// SceneInfo represents a built-in scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
}

type builtinScene struct {
	info    SceneInfo
	factory func() *Scene
}

var builtinScenes = map[string]builtinScene{
	"default": {
		info: SceneInfo{
			ID:          "default",
			DisplayName: "Five Spheres",
			Description: "Two mirror spheres and three rough spheres",
		},
		factory: NewDefaultScene,
	},
	"single-sphere": {
		info: SceneInfo{
			ID:          "single-sphere",
			DisplayName: "Single Sphere",
			Description: "One red mirror sphere at the origin",
		},
		factory: NewSingleSphereScene,
	},
	"empty": {
		info: SceneInfo{
			ID:          "empty",
			DisplayName: "Empty",
			Description: "Camera only, renders black",
		},
		factory: NewEmptyScene,
	},
}

// ListScenes returns the built-in scenes sorted by display name
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtinScenes))
	for _, s := range builtinScenes {
		scenes = append(scenes, s.info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes
}

// NewScene builds a fresh copy of the named built-in scene
func NewScene(id string) (*Scene, error) {
	s, ok := builtinScenes[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q", id)
	}
	return s.factory(), nil
}
