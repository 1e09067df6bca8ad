package material

import (
	"sync"

	"github.com/df07/go-kd-pathtracer/pkg/core"
	"github.com/df07/go-kd-pathtracer/pkg/log"
)

var logger = log.New("material")

// TextureLoader decodes the texture stored at path
type TextureLoader func(path string) (*ColorTexture, error)

// TextureCache loads each texture path once and shares the result.
type TextureCache struct {
	mu       sync.Mutex
	load     TextureLoader
	textures map[string]*ColorTexture
}

// NewTextureCache creates an empty cache backed by load
func NewTextureCache(load TextureLoader) *TextureCache {
	return &TextureCache{load: load, textures: make(map[string]*ColorTexture)}
}

// Get returns the cached texture for path, loading it on first use.
// Failed loads are not cached.
func (c *TextureCache) Get(path string) (core.Texture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t, ok := c.textures[path]; ok {
		return t, nil
	}
	t, err := c.load(path)
	if err != nil {
		return nil, err
	}
	logger.Debugf("loaded texture %s (%dx%d)", path, t.Width, t.Height)
	c.textures[path] = t
	return t, nil
}

// Len returns the number of cached textures
func (c *TextureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textures)
}
