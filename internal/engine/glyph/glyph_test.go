package glyph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrowShape(t *testing.T) {
	img := Arrow(64)
	at := func(u, v float32) uint8 {
		return img.AlphaAt(int(u*64), int(v*64)).A
	}

	// Inside the chevron body and its tip.
	assert.Greater(t, at(0.7, 0.5), uint8(250))
	assert.Greater(t, at(0.45, 0.2), uint8(250))
	// The notch, the corners and behind the tip stay empty.
	assert.Zero(t, at(0.3, 0.5))
	assert.Zero(t, at(0.05, 0.05))
	assert.Zero(t, at(0.95, 0.5))
	assert.Zero(t, at(0.9, 0.95))
}

func TestArrowSymmetricAcrossPath(t *testing.T) {
	const size = 64
	img := Arrow(size)
	for y := 0; y < size/2; y++ {
		for x := 0; x < size; x++ {
			a := img.AlphaAt(x, y).A
			b := img.AlphaAt(x, size-1-y).A
			assert.InDelta(t, a, b, 2, "x=%d y=%d", x, y)
		}
	}
}

func TestMipChain(t *testing.T) {
	g := NewArrow(128)
	require.Len(t, g.Levels, 8)

	for i, lvl := range g.Levels {
		assert.Equal(t, 128>>i, lvl.Bounds().Dx())
		assert.Equal(t, 128>>i, lvl.Bounds().Dy())
	}

	w, h := g.Size()
	assert.Equal(t, 128, w)
	assert.Equal(t, 128, h)

	// Coarse levels keep the coverage of the shape, not its edges.
	last := g.Levels[len(g.Levels)-1].Pix[0]
	assert.Greater(t, last, uint8(0))
	assert.Less(t, last, uint8(255))
}

func TestMipChainSingleTexel(t *testing.T) {
	g := New(Arrow(1))
	assert.Len(t, g.Levels, 1)
}

func TestSampleAlpha(t *testing.T) {
	g := NewArrow(128)

	// Magnified: base level, bilinear.
	assert.InDelta(t, 1, g.SampleAlpha(0.7, 0.5, 0.001), 1e-2)
	assert.InDelta(t, 0, g.SampleAlpha(0.05, 0.05, 0.001), 1e-3)
	assert.InDelta(t, 0, g.SampleAlpha(0.3, 0.5, 0.001), 1e-3)

	// Heavily minified: the coarsest level everywhere.
	coarse := float32(g.Levels[len(g.Levels)-1].Pix[0]) / 255
	assert.InDelta(t, coarse, g.SampleAlpha(0.05, 0.05, 10), 1e-5)
	assert.InDelta(t, coarse, g.SampleAlpha(0.7, 0.5, 10), 1e-5)

	// Out of range coordinates clamp to the border.
	assert.InDelta(t, g.SampleAlpha(0, 0.5, 0.001), g.SampleAlpha(-1, 0.5, 0.001), 1e-6)
}

func TestSampleAlphaBlendsLevels(t *testing.T) {
	g := NewArrow(128)
	// Two texels per pixel sits exactly on level 1.
	lvl1 := bilinear(g.Levels[1], 0.3, 0.5)
	assert.InDelta(t, lvl1, g.SampleAlpha(0.3, 0.5, 2.0/128), 1e-4)

	// Between level 1 and 2 the result lies between them.
	lvl2 := bilinear(g.Levels[2], 0.3, 0.5)
	mid := g.SampleAlpha(0.3, 0.5, 3.0/128)
	assert.GreaterOrEqual(t, mid, min(lvl1, lvl2)-1e-5)
	assert.LessOrEqual(t, mid, max(lvl1, lvl2)+1e-5)
}

type fakeTexture struct {
	released int
}

func (f *fakeTexture) Release() { f.released++ }

type fakeUploader struct {
	uploads []float32
	created []*fakeTexture
	err     error
}

func (f *fakeUploader) Upload(g *Glyph, anisotropy float32) (Texture, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.uploads = append(f.uploads, anisotropy)
	tex := &fakeTexture{}
	f.created = append(f.created, tex)
	return tex, nil
}

func TestCacheLazyPerAnisotropy(t *testing.T) {
	up := &fakeUploader{}
	c := NewCache(up, 32)
	assert.Empty(t, up.uploads)

	a, err := c.Get(1)
	require.NoError(t, err)
	b, err := c.Get(1)
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = c.Get(16)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 16}, up.uploads)
	assert.Equal(t, 2, c.Len())

	w, _ := c.Glyph().Size()
	assert.Equal(t, 32, w)
}

func TestCacheRelease(t *testing.T) {
	up := &fakeUploader{}
	c := NewCache(up, 0)
	_, _ = c.Get(1)
	_, _ = c.Get(4)

	c.Release()
	c.Release()
	assert.Zero(t, c.Len())
	for _, tex := range up.created {
		assert.Equal(t, 1, tex.released)
	}

	// Usable again after release.
	_, err := c.Get(1)
	require.NoError(t, err)
	assert.Len(t, up.uploads, 3)

	var nilCache *Cache
	assert.NotPanics(t, nilCache.Release)
}

func TestCacheUploadError(t *testing.T) {
	boom := errors.New("no context")
	c := NewCache(&fakeUploader{err: boom}, 16)

	_, err := c.Get(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, c.Len())

	_, err = NewCache(nil, 16).Get(1)
	assert.Error(t, err)
}
