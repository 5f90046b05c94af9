// Package assets loads sprite sheets from disk and caches them by id.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/png" // PNG decoder registration
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // BMP decoder registration

	"github.com/Faultbox/kag-mapper/internal/engine/sprite"
	"github.com/Faultbox/kag-mapper/internal/engine/texture"
	"github.com/Faultbox/kag-mapper/internal/logger"
)

// ErrSheetNotFound is returned when no image file exists for a sheet id.
var ErrSheetNotFound = errors.New("sprite sheet not found")

// extensions are tried in order when resolving a sheet id to a file.
var extensions = []string{".png", ".bmp", ".tga"}

// Manager resolves sheet ids like "world" or "Back/BackgroundCastle" to
// decoded sheets under a root directory.
type Manager struct {
	root    string
	cache   *Cache
	watcher *fsnotify.Watcher
	// changed receives the id of every sheet file the watcher saw written
	changed chan string
}

// NewManager creates a manager reading from root.
func NewManager(root string) *Manager {
	return &Manager{
		root:    root,
		cache:   NewCache(),
		changed: make(chan string, 8),
	}
}

// Root returns the directory sheets are read from.
func (m *Manager) Root() string { return m.root }

// Sheet returns the sheet with the given id, loading it on first use.
func (m *Manager) Sheet(id string) (*sprite.Sheet, error) {
	if s, ok := m.cache.Get(id); ok {
		return s, nil
	}

	path, err := m.resolve(id)
	if err != nil {
		return nil, err
	}
	return m.load(id, path)
}

// load decodes path and caches it under id, replacing any previous sheet.
func (m *Manager) load(id, path string) (*sprite.Sheet, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading sheet %s: %w", id, err)
	}

	s := sprite.NewSheet(id, img)
	m.cache.Set(id, s)

	w, h := s.Size()
	logger.Debug("sprite sheet loaded",
		zap.String("id", id),
		zap.String("path", path),
		zap.Int("width", w),
		zap.Int("height", h),
	)
	return s, nil
}

// Preload loads every listed sheet, failing on the first error.
func (m *Manager) Preload(ids []string) error {
	for _, id := range ids {
		if _, err := m.Sheet(id); err != nil {
			return err
		}
	}
	return nil
}

// Sheets returns all loaded sheets keyed by id.
func (m *Manager) Sheets() map[string]*sprite.Sheet {
	return m.cache.All()
}

// Close stops watching and drops all cached sheets.
func (m *Manager) Close() {
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
	m.cache.Clear()
}

func (m *Manager) resolve(id string) (string, error) {
	base := filepath.Join(m.root, filepath.FromSlash(id))
	for _, ext := range extensions {
		path := base + ext
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s (looked in %s)", ErrSheetNotFound, id, m.root)
}

// decodeFile decodes a sheet. BMP and TGA sheets predate alpha support
// and mark transparency with magenta, which is keyed out here.
func decodeFile(path string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var img image.Image
	if ext == ".tga" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if img, err = texture.DecodeTGA(data); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if img, _, err = image.Decode(f); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	}

	if ext == ".png" {
		return img, nil
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	if n := texture.ApplyMagentaKey(rgba); n > 0 {
		logger.Debug("color key applied", zap.String("path", path), zap.Int("pixels", n))
	}
	return rgba, nil
}

// Cache is a simple in-memory cache for loaded sheets.
type Cache struct {
	data map[string]*sprite.Sheet
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*sprite.Sheet),
	}
}

// Get retrieves a sheet from cache.
func (c *Cache) Get(key string) (*sprite.Sheet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return s, ok
}

// Has reports whether key is cached without touching the stats.
func (c *Cache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.data[key]
	return ok
}

// Set stores a sheet in cache.
func (c *Cache) Set(key string, s *sprite.Sheet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = s
}

// All returns a copy of the cached entries.
func (c *Cache) All() map[string]*sprite.Sheet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]*sprite.Sheet, len(c.data))
	for k, v := range c.data {
		out[k] = v
	}
	return out
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*sprite.Sheet)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
