// Package texture uploads CPU images to OpenGL textures.
package texture

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-ribbon/internal/engine/glyph"
)

// Texture is an OpenGL 2D texture.
type Texture struct {
	ID     uint32
	Width  int32
	Height int32
	Levels int
}

// Bind binds the texture to a texture unit (0-based).
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
}

// Release deletes the GL texture. Safe to call twice.
func (t *Texture) Release() {
	if t == nil || t.ID == 0 {
		return
	}
	gl.DeleteTextures(1, &t.ID)
	t.ID = 0
}

// MaxAnisotropy returns the driver's anisotropic filtering limit, 1 when
// the extension is unavailable.
func MaxAnisotropy() float32 {
	var v float32
	gl.GetFloatv(gl.MAX_TEXTURE_MAX_ANISOTROPY, &v)
	if gl.GetError() != gl.NO_ERROR || v < 1 {
		return 1
	}
	return v
}

// GlyphUploader uploads glyph mip chains as single channel textures.
// It implements glyph.Uploader.
type GlyphUploader struct {
	// MaxAnisotropy caps the requested level, 0 for no cap.
	MaxAnisotropy float32
}

// Upload creates an R8 texture with every glyph level as an explicit mip.
func (u GlyphUploader) Upload(g *glyph.Glyph, anisotropy float32) (glyph.Texture, error) {
	if g == nil || len(g.Levels) == 0 {
		return nil, fmt.Errorf("empty glyph")
	}

	tex := &Texture{Levels: len(g.Levels)}
	gl.GenTextures(1, &tex.ID)
	gl.BindTexture(gl.TEXTURE_2D, tex.ID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	for level, img := range g.Levels {
		w, h := int32(img.Bounds().Dx()), int32(img.Bounds().Dy())
		if level == 0 {
			tex.Width, tex.Height = w, h
		}
		pix := PackAlpha(img)
		gl.TexImage2D(gl.TEXTURE_2D, int32(level), gl.R8, w, h, 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	}
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_BASE_LEVEL, 0)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, int32(len(g.Levels)-1))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	if a := u.clampAnisotropy(anisotropy); a > 1 {
		gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, a)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		tex.Release()
		return nil, fmt.Errorf("uploading glyph texture: GL error 0x%x", errCode)
	}
	return tex, nil
}

func (u GlyphUploader) clampAnisotropy(a float32) float32 {
	if u.MaxAnisotropy > 0 && a > u.MaxAnisotropy {
		return u.MaxAnisotropy
	}
	return a
}

// PackAlpha returns the pixels of img as tightly packed rows.
func PackAlpha(img *image.Alpha) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if img.Stride == w && len(img.Pix) == w*h {
		return img.Pix
	}
	out := make([]byte, w*h)
	for y := 0; y < h; y++ {
		start := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*w:(y+1)*w], img.Pix[start:start+w])
	}
	return out
}
