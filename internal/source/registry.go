package source

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var (
	registry   = make(map[string]Adapter)
	registryMu sync.RWMutex
)

// Register adds an adapter for each of its extensions.
// Panics if an extension is already claimed by another adapter.
func Register(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()

	for _, ext := range a.Extensions() {
		ext = normalizeExt(ext)
		if existing, exists := registry[ext]; exists {
			panic(fmt.Sprintf("extension %s already registered by %s", ext, existing.Format()))
		}
		registry[ext] = a
	}
}

// ForPath returns the adapter registered for the extension of path.
// Returns false if the extension is not recognized.
func ForPath(path string) (Adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	a, ok := registry[normalizeExt(filepath.Ext(path))]
	return a, ok
}

// Extensions returns all registered extensions, sorted.
func Extensions() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
