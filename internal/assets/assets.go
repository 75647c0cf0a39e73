// Package assets resolves and caches startup assets: shader sources and
// mesh datasets.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/Faultbox/shaderbunny/pkg/formats"
)

// DefaultMeshPath is the embedded mesh used when no dataset is configured.
const DefaultMeshPath = "meshes/icosphere.obj"

//go:embed meshes shaders
var embedded embed.FS

// Embedded returns the built-in asset tree.
func Embedded() fs.FS {
	return embedded
}

// Open returns the asset filesystem rooted at dir.
// An empty dir selects the embedded assets.
func Open(dir string) fs.FS {
	if dir == "" {
		return embedded
	}
	return os.DirFS(dir)
}

// Manager loads files from an asset filesystem.
type Manager struct {
	fsys  fs.FS
	cache *Cache
}

// NewManager creates a manager reading from fsys.
func NewManager(fsys fs.FS) *Manager {
	return &Manager{
		fsys:  fsys,
		cache: NewCache(),
	}
}

// Load reads a file, serving repeats from the cache.
func (m *Manager) Load(path string) ([]byte, error) {
	if data, ok := m.cache.Get(path); ok {
		return data, nil
	}

	data, err := fs.ReadFile(m.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("loading asset %s: %w", path, err)
	}
	m.cache.Set(path, data)
	return data, nil
}

// LoadText reads a file as a string.
func (m *Manager) LoadText(path string) (string, error) {
	data, err := m.Load(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LoadMesh reads and parses a mesh dataset.
func (m *Manager) LoadMesh(path string) (*formats.Mesh, error) {
	data, err := m.Load(path)
	if err != nil {
		return nil, err
	}
	mesh, err := formats.ParseMesh(path, data)
	if err != nil {
		return nil, fmt.Errorf("parsing mesh %s: %w", path, err)
	}
	return mesh, nil
}

// ShaderSources holds the GLSL text of one program.
type ShaderSources struct {
	Vertex   string
	Fragment string
}

// LoadShaders reads a vertex and fragment shader pair. Either file
// missing or empty is an error.
func (m *Manager) LoadShaders(vertexPath, fragmentPath string) (ShaderSources, error) {
	var src ShaderSources
	for _, f := range []struct {
		path string
		dst  *string
	}{
		{vertexPath, &src.Vertex},
		{fragmentPath, &src.Fragment},
	} {
		text, err := m.LoadText(f.path)
		if err != nil {
			return ShaderSources{}, err
		}
		if text == "" {
			return ShaderSources{}, fmt.Errorf("shader %s is empty", f.path)
		}
		*f.dst = text
	}
	return src, nil
}

// Stats returns cache hits and misses.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// DefaultMesh parses the embedded mesh.
func DefaultMesh() (*formats.Mesh, error) {
	return NewManager(embedded).LoadMesh(DefaultMeshPath)
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
