package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-ribbon/internal/engine/compositor"
	"github.com/Faultbox/midgard-ribbon/internal/engine/ribbon"
	"github.com/Faultbox/midgard-ribbon/internal/engine/scene/shaders"
	"github.com/Faultbox/midgard-ribbon/internal/engine/shader"
	"github.com/Faultbox/midgard-ribbon/internal/engine/texture"
	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// RibbonShader is the compiled ribbon program shared by all route renderers.
type RibbonShader struct {
	program uint32

	// Uniform locations
	locViewProj    int32
	locResolution  int32
	locWidth       int32
	locSpacing     int32
	locOffset      int32
	locMode        int32
	locLODBias     int32
	locLODMin      int32
	locLODMax      int32
	locBorderWidth int32
	locArrowColor  int32
	locBorderColor int32
	locGlyph       int32
	locHasGlyph    int32
}

// NewRibbonShader compiles the ribbon program.
func NewRibbonShader() (*RibbonShader, error) {
	program, err := shader.CompileProgram(shaders.RibbonVertexShader, shaders.RibbonFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("ribbon shader: %w", err)
	}

	rs := &RibbonShader{program: program}
	rs.locViewProj = shader.GetUniform(program, "uViewProj")
	rs.locResolution = shader.GetUniform(program, "uResolution")
	rs.locWidth = shader.GetUniform(program, "uWidth")
	rs.locSpacing = shader.GetUniform(program, "uSpacing")
	rs.locOffset = shader.GetUniform(program, "uOffset")
	rs.locMode = shader.GetUniform(program, "uMode")
	rs.locLODBias = shader.GetUniform(program, "uLodBias")
	rs.locLODMin = shader.GetUniform(program, "uLodMin")
	rs.locLODMax = shader.GetUniform(program, "uLodMax")
	rs.locBorderWidth = shader.GetUniform(program, "uBorderWidth")
	rs.locArrowColor = shader.GetUniform(program, "uArrowColor")
	rs.locBorderColor = shader.GetUniform(program, "uBorderColor")
	rs.locGlyph = shader.GetUniform(program, "uGlyph")
	rs.locHasGlyph = shader.GetUniform(program, "uHasGlyph")
	return rs, nil
}

// NewRenderer creates an empty per-route renderer using this program.
func (rs *RibbonShader) NewRenderer() *RibbonRenderer {
	return &RibbonRenderer{shader: rs}
}

// Destroy deletes the program.
func (rs *RibbonShader) Destroy() {
	if rs.program != 0 {
		gl.DeleteProgram(rs.program)
		rs.program = 0
	}
}

// use binds the program and uploads the per-draw uniforms.
func (rs *RibbonShader) use(u compositor.Uniforms, viewProj math.Mat4, glyphTex *texture.Texture) {
	gl.UseProgram(rs.program)
	gl.UniformMatrix4fv(rs.locViewProj, 1, false, viewProj.Ptr())
	gl.Uniform2f(rs.locResolution, u.Resolution.X, u.Resolution.Y)
	gl.Uniform1f(rs.locWidth, u.Width)
	gl.Uniform1f(rs.locSpacing, u.Spacing)
	gl.Uniform1f(rs.locOffset, u.Offset)
	gl.Uniform1i(rs.locMode, int32(u.Mode))
	gl.Uniform1f(rs.locLODBias, u.LODBias)
	gl.Uniform1f(rs.locLODMin, u.LODMinMultiple)
	gl.Uniform1f(rs.locLODMax, u.LODMaxMultiple)
	gl.Uniform1f(rs.locBorderWidth, u.BorderWidth)
	gl.Uniform4fv(rs.locArrowColor, 1, &u.ArrowColor[0])
	gl.Uniform4fv(rs.locBorderColor, 1, &u.BorderColor[0])

	gl.Uniform1i(rs.locGlyph, 0)
	if glyphTex != nil && glyphTex.ID != 0 {
		glyphTex.Bind(0)
		gl.Uniform1i(rs.locHasGlyph, 1)
	} else {
		gl.Uniform1i(rs.locHasGlyph, 0)
	}
}

// Vertex layout of ribbon.Vertex.
var (
	ribbonStride         = int32(unsafe.Sizeof(ribbon.Vertex{}))
	ribbonOffsetPosition = uintptr(unsafe.Offsetof(ribbon.Vertex{}.Position))
	ribbonOffsetTangent  = uintptr(unsafe.Offsetof(ribbon.Vertex{}.Tangent))
	ribbonOffsetOffset   = uintptr(unsafe.Offsetof(ribbon.Vertex{}.Offset))
	ribbonOffsetColor    = uintptr(unsafe.Offsetof(ribbon.Vertex{}.Color))
	ribbonOffsetDistance = uintptr(unsafe.Offsetof(ribbon.Vertex{}.Distance))
	ribbonOffsetCap      = uintptr(unsafe.Offsetof(ribbon.Vertex{}.Cap))
)

// RibbonRenderer holds the GPU buffers of one route. It implements
// route.Drawable.
type RibbonRenderer struct {
	shader *RibbonShader

	vao uint32
	vbo uint32
	ebo uint32

	vertexCount int
	indexCount  int32
	disposed    bool
}

func (r *RibbonRenderer) createBuffers() {
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)

	// Position (location 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, ribbonStride, ribbonOffsetPosition)
	gl.EnableVertexAttribArray(0)
	// Tangent (location 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, ribbonStride, ribbonOffsetTangent)
	gl.EnableVertexAttribArray(1)
	// Offset (location 2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, ribbonStride, ribbonOffsetOffset)
	gl.EnableVertexAttribArray(2)
	// Color (location 3)
	gl.VertexAttribPointerWithOffset(3, 4, gl.FLOAT, false, ribbonStride, ribbonOffsetColor)
	gl.EnableVertexAttribArray(3)
	// Distance (location 4)
	gl.VertexAttribPointerWithOffset(4, 1, gl.FLOAT, false, ribbonStride, ribbonOffsetDistance)
	gl.EnableVertexAttribArray(4)
	// Cap (location 5)
	gl.VertexAttribPointerWithOffset(5, 1, gl.FLOAT, false, ribbonStride, ribbonOffsetCap)
	gl.EnableVertexAttribArray(5)

	gl.BindVertexArray(0)
}

// Upload replaces the GPU mesh. A nil mesh clears it.
func (r *RibbonRenderer) Upload(m *ribbon.Mesh) {
	if r.disposed {
		return
	}
	if m == nil || len(m.Vertices) == 0 || len(m.Indices) == 0 {
		r.vertexCount = 0
		r.indexCount = 0
		return
	}
	if r.vao == 0 {
		r.createBuffers()
	}

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(ribbonStride), unsafe.Pointer(&m.Vertices[0]), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)
	gl.BindVertexArray(0)

	r.vertexCount = len(m.Vertices)
	r.indexCount = int32(len(m.Indices))
}

// UpdateDistances rewrites the vertex buffer in place after a distance
// refresh. The topology is unchanged, so no reallocation happens.
func (r *RibbonRenderer) UpdateDistances(m *ribbon.Mesh) {
	if r.disposed || m == nil || r.vbo == 0 {
		return
	}
	if len(m.Vertices) != r.vertexCount {
		r.Upload(m)
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(m.Vertices)*int(ribbonStride), unsafe.Pointer(&m.Vertices[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Draw renders the ribbon. Depth testing is left to the caller; the
// ribbon is double sided and alpha blended.
func (r *RibbonRenderer) Draw(u compositor.Uniforms, viewProj math.Mat4, glyphTex *texture.Texture) {
	if r.disposed || r.indexCount == 0 || r.shader == nil {
		return
	}

	r.shader.use(u, viewProj, glyphTex)

	gl.BindVertexArray(r.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, r.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

// Dispose releases the buffers. The shared program is not touched.
func (r *RibbonRenderer) Dispose() {
	if r == nil || r.disposed {
		return
	}
	r.disposed = true
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
		r.ebo = 0
	}
	r.vertexCount = 0
	r.indexCount = 0
}
