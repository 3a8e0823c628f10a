package loader

import (
	"path"
	"sort"
	"sync"
)

var _ FileSystem = (*MemoryFS)(nil)

// MemoryFS holds documents in memory, keyed by slash separated path. It
// lets loader tests build import graphs without touching the disk.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{files: make(map[string][]byte)}
}

func (m *MemoryFS) WriteFile(p string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path.Clean(p)] = append([]byte(nil), data...)
}

func (m *MemoryFS) ReadFile(p string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path.Clean(p)]
	if !ok {
		return nil, notFound(p)
	}
	return append([]byte(nil), data...), nil
}

// ListFiles returns the files directly inside dir.
func (m *MemoryFS) ListFiles(dir string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dir = path.Clean(dir)
	var files []string
	for p := range m.files {
		if path.Dir(p) == dir {
			files = append(files, p)
		}
	}
	sort.Strings(files)
	return files, nil
}

func (m *MemoryFS) Exists(p string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[path.Clean(p)]
	return ok
}
