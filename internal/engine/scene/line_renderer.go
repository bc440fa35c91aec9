package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-ribbon/internal/engine/debug"
	"github.com/Faultbox/midgard-ribbon/internal/engine/scene/shaders"
	"github.com/Faultbox/midgard-ribbon/internal/engine/shader"
	"github.com/Faultbox/midgard-ribbon/pkg/math"
)

// LineRenderer draws debug line lists (ground grid, route bounds).
type LineRenderer struct {
	program     uint32
	locViewProj int32

	vao         uint32
	vbo         uint32
	vertexCount int32
}

// NewLineRenderer creates a new line renderer.
func NewLineRenderer() (*LineRenderer, error) {
	program, err := shader.CompileProgram(shaders.LineVertexShader, shaders.LineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}
	lr := &LineRenderer{program: program}
	lr.locViewProj = shader.MustGetUniform(program, "uViewProj")

	gl.GenVertexArrays(1, &lr.vao)
	gl.BindVertexArray(lr.vao)
	gl.GenBuffers(1, &lr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, lr.vbo)

	stride := int32(unsafe.Sizeof(debug.LineVertex{}))
	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Color
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return lr, nil
}

// SetLines replaces the line list. Vertices are consumed in pairs.
func (lr *LineRenderer) SetLines(vertices []debug.LineVertex) {
	lr.vertexCount = int32(len(vertices) &^ 1)
	if lr.vertexCount == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, lr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, int(lr.vertexCount)*int(unsafe.Sizeof(debug.LineVertex{})), unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Render draws the lines.
func (lr *LineRenderer) Render(viewProj math.Mat4) {
	if lr.vertexCount == 0 {
		return
	}
	gl.UseProgram(lr.program)
	gl.UniformMatrix4fv(lr.locViewProj, 1, false, viewProj.Ptr())
	gl.BindVertexArray(lr.vao)
	gl.DrawArrays(gl.LINES, 0, lr.vertexCount)
	gl.BindVertexArray(0)
}

// Destroy releases GPU resources.
func (lr *LineRenderer) Destroy() {
	if lr.vao != 0 {
		gl.DeleteVertexArrays(1, &lr.vao)
		lr.vao = 0
	}
	if lr.vbo != 0 {
		gl.DeleteBuffers(1, &lr.vbo)
		lr.vbo = 0
	}
	if lr.program != 0 {
		gl.DeleteProgram(lr.program)
		lr.program = 0
	}
}
