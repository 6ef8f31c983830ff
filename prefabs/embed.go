// Package prefabs holds yaml-defined entity presets. Presets are embedded at
// build time; a copy on disk under DiskDir shadows the embedded one so edits
// take effect without a rebuild.
package prefabs

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

//go:embed *.yaml
var PrefabsFS embed.FS

const defaultDiskDir = "prefabs"

var diskDir atomic.Pointer[string]

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if dir := DiskDir(); dir != "" {
		if data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	return PrefabsFS.ReadFile(clean)
}

// DiskDir is the directory checked before the embedded copies, and the one
// hosts watch for edits. Empty means embedded only.
func DiskDir() string {
	if p := diskDir.Load(); p != nil {
		return *p
	}
	return defaultDiskDir
}

func SetDiskDir(dir string) {
	diskDir.Store(&dir)
}

func cleanPrefabPath(path string) string {
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, defaultDiskDir+"/"); ok {
		return after
	}
	return s
}
