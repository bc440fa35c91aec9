package glyph

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-ribbon/internal/logger"
)

// Texture is a GPU-side copy of a glyph.
type Texture interface {
	Release()
}

// Uploader turns a glyph into a texture with the given anisotropy level.
type Uploader interface {
	Upload(g *Glyph, anisotropy float32) (Texture, error)
}

// Cache owns the arrow glyph and one texture per anisotropy level.
// Textures are created on first use and shared read-only by every route
// until Release.
type Cache struct {
	mu       sync.Mutex
	uploader Uploader
	size     int
	glyph    *Glyph
	textures map[float32]Texture
}

// NewCache creates an empty cache. Nothing is rasterized or uploaded
// until first use.
func NewCache(uploader Uploader, size int) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	return &Cache{
		uploader: uploader,
		size:     size,
		textures: make(map[float32]Texture),
	}
}

// Glyph returns the CPU glyph, building it on first call.
func (c *Cache) Glyph() *Glyph {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.glyphLocked()
}

func (c *Cache) glyphLocked() *Glyph {
	if c.glyph == nil {
		c.glyph = NewArrow(c.size)
		logger.Debug("arrow glyph built", zap.Int("size", c.size), zap.Int("levels", len(c.glyph.Levels)))
	}
	return c.glyph
}

// Get returns the texture for the anisotropy level, uploading it on first
// request.
func (c *Cache) Get(anisotropy float32) (Texture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tex, ok := c.textures[anisotropy]; ok {
		return tex, nil
	}
	if c.uploader == nil {
		return nil, fmt.Errorf("glyph cache has no uploader")
	}

	tex, err := c.uploader.Upload(c.glyphLocked(), anisotropy)
	if err != nil {
		return nil, fmt.Errorf("uploading arrow glyph (anisotropy %.0f): %w", anisotropy, err)
	}
	c.textures[anisotropy] = tex
	logger.Info("arrow glyph texture created", zap.Float32("anisotropy", anisotropy))
	return tex, nil
}

// Len returns the number of live textures.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textures)
}

// Release frees every texture. The cache stays usable; later calls to Get
// upload again.
func (c *Cache) Release() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, tex := range c.textures {
		tex.Release()
		delete(c.textures, k)
	}
}
