package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"cyberwalk/scene"
)

// overlayPass draws textured rectangles in window pixel space on top of
// the 3D scene.
type overlayPass struct {
	program   uint32
	vao       uint32
	vbo       uint32
	rectLoc   int32
	screenLoc int32
	texLoc    int32
}

func newOverlayPass() (*overlayPass, error) {
	prog, err := newProgram(overlayVertSrc, overlayFragSrc)
	if err != nil {
		return nil, err
	}
	o := &overlayPass{
		program:   prog,
		rectLoc:   gl.GetUniformLocation(prog, gl.Str("rect\x00")),
		screenLoc: gl.GetUniformLocation(prog, gl.Str("screenSize\x00")),
		texLoc:    gl.GetUniformLocation(prog, gl.Str("tex\x00")),
	}

	// Unit square as a triangle strip; corners double as UVs.
	corners := []float32{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
	}
	gl.GenVertexArrays(1, &o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(corners)*4, gl.Ptr(corners), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindVertexArray(0)

	return o, nil
}

func (o *overlayPass) destroy() {
	if o == nil {
		return
	}
	gl.DeleteVertexArrays(1, &o.vao)
	gl.DeleteBuffers(1, &o.vbo)
	gl.DeleteProgram(o.program)
}

// DrawOverlay draws tex at its native size with the top-left corner at
// pixel (x, y). Depth testing is off and blending on for the draw.
func (r *Renderer) DrawOverlay(tex *scene.Texture, x, y float32) {
	if tex == nil || r.width == 0 || r.height == 0 || !r.ensureTexture(tex) {
		return
	}
	o := r.overlay

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)

	gl.UseProgram(o.program)
	gl.Uniform4f(o.rectLoc, x, y, float32(tex.Width), float32(tex.Height))
	gl.Uniform2f(o.screenLoc, float32(r.width), float32(r.height))
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex.GLID)
	gl.Uniform1i(o.texLoc, 0)

	gl.BindVertexArray(o.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}
