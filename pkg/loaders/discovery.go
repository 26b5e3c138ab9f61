package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-smallpaint/pkg/log"
	"gopkg.in/yaml.v2"
)

var logger = log.New("loaders")

// SceneFileInfo describes a scene file found on disk
type SceneFileInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Path        string `json:"path"`
	Objects     int    `json:"objects"`
}

// ListSceneFiles scans dir for scene files and returns their metadata
// sorted by name. A missing directory yields no scenes and unreadable files
// are skipped with a warning.
func ListSceneFiles(dir string) ([]SceneFileInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loaders: scanning %s: %w", dir, err)
	}

	var scenes []SceneFileInfo
	for _, entry := range entries {
		if entry.IsDir() || !IsSceneFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := readSceneInfo(path)
		if err != nil {
			logger.Warningf("skipping scene file: %v", err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// readSceneInfo decodes the header of a scene file. The name falls back to
// the file name without its extension.
func readSceneInfo(path string) (SceneFileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SceneFileInfo{}, fmt.Errorf("loaders: %w", err)
	}

	var file SceneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return SceneFileInfo{}, fmt.Errorf("%s: %w: %v", path, ErrSceneFile, err)
	}

	info := SceneFileInfo{
		Name:        file.Name,
		Description: file.Description,
		Path:        path,
		Objects:     len(file.Objects),
	}
	if info.Name == "" {
		base := filepath.Base(path)
		info.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return info, nil
}
