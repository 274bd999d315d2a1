package gallery

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// MaxLineVerts bounds the streaming line buffer.
const MaxLineVerts = 4096

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return gl.PtrOffset(n) }

type Renderer struct {
	// Item quad program.
	quadProg uint32
	quadVAO  uint32
	quadVBO  uint32

	uVP      int32
	uCenter  int32
	uRight   int32
	uUp      int32
	uTex     int32
	uOpacity int32
	uTint    int32

	// Glow program — shares the quad geometry, additive blend only.
	glowProg      uint32
	glowUVP       int32
	glowUCenter   int32
	glowURight    int32
	glowUUp       int32
	glowIntensity int32
	glowUTint     int32

	// Connection line program.
	lineProg   uint32
	lineVAO    uint32
	lineVBO    uint32
	lineUVP    int32
	lineUColor int32
	lineBuf    []float32

	vp [16]float32
}

func NewRenderer() (*Renderer, error) {
	quadProg, err := linkProgram(quadVertSrc, quadFragSrc)
	if err != nil {
		return nil, fmt.Errorf("quad program: %w", err)
	}
	glowProg, err := linkProgram(quadVertSrc, glowFragSrc)
	if err != nil {
		gl.DeleteProgram(quadProg)
		return nil, fmt.Errorf("glow program: %w", err)
	}
	lineProg, err := linkProgram(lineVertSrc, lineFragSrc)
	if err != nil {
		gl.DeleteProgram(quadProg)
		gl.DeleteProgram(glowProg)
		return nil, fmt.Errorf("line program: %w", err)
	}

	r := &Renderer{
		quadProg: quadProg,
		glowProg: glowProg,
		lineProg: lineProg,
	}

	// Quad VAO/VBO: a unit quad (6 vertices, 2 triangles).
	var qVAO, qVBO uint32
	gl.GenVertexArrays(1, &qVAO)
	gl.GenBuffers(1, &qVBO)
	gl.BindVertexArray(qVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, qVBO)
	quadVerts := [12]float32{
		0, 0, 1, 0, 1, 1,
		0, 0, 1, 1, 0, 1,
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVerts)*4, gl.Ptr(&quadVerts[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, glOffset(0))
	r.quadVAO = qVAO
	r.quadVBO = qVBO

	gl.UseProgram(quadProg)
	r.uVP = gl.GetUniformLocation(quadProg, gl.Str("uVP\x00"))
	r.uCenter = gl.GetUniformLocation(quadProg, gl.Str("uCenter\x00"))
	r.uRight = gl.GetUniformLocation(quadProg, gl.Str("uRight\x00"))
	r.uUp = gl.GetUniformLocation(quadProg, gl.Str("uUp\x00"))
	r.uTex = gl.GetUniformLocation(quadProg, gl.Str("uTex\x00"))
	gl.Uniform1i(r.uTex, 0)
	r.uOpacity = gl.GetUniformLocation(quadProg, gl.Str("uOpacity\x00"))
	r.uTint = gl.GetUniformLocation(quadProg, gl.Str("uTint\x00"))
	gl.Uniform3f(r.uTint, 1, 1, 1)

	gl.UseProgram(glowProg)
	r.glowUVP = gl.GetUniformLocation(glowProg, gl.Str("uVP\x00"))
	r.glowUCenter = gl.GetUniformLocation(glowProg, gl.Str("uCenter\x00"))
	r.glowURight = gl.GetUniformLocation(glowProg, gl.Str("uRight\x00"))
	r.glowUUp = gl.GetUniformLocation(glowProg, gl.Str("uUp\x00"))
	r.glowIntensity = gl.GetUniformLocation(glowProg, gl.Str("uIntensity\x00"))
	r.glowUTint = gl.GetUniformLocation(glowProg, gl.Str("uTint\x00"))

	// Line VAO/VBO: streaming vertex soup, 3 floats per vertex.
	var lVAO, lVBO uint32
	gl.GenVertexArrays(1, &lVAO)
	gl.GenBuffers(1, &lVBO)
	gl.BindVertexArray(lVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, lVBO)
	gl.BufferData(gl.ARRAY_BUFFER, MaxLineVerts*3*4, nil, gl.STREAM_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, glOffset(0))
	r.lineVAO = lVAO
	r.lineVBO = lVBO

	gl.UseProgram(lineProg)
	r.lineUVP = gl.GetUniformLocation(lineProg, gl.Str("uVP\x00"))
	r.lineUColor = gl.GetUniformLocation(lineProg, gl.Str("uColor\x00"))

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	for _, id := range []uint32{r.quadVBO, r.lineVBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	for _, id := range []uint32{r.quadVAO, r.lineVAO} {
		if id != 0 {
			gl.DeleteVertexArrays(1, &id)
		}
	}
	for _, id := range []uint32{r.quadProg, r.glowProg, r.lineProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
}

// BeginFrame clears to the theme background and loads the frame's
// view-projection. Items are transparent quads drawn far to near, so depth
// testing stays off and regular alpha blending on.
func (r *Renderer) BeginFrame(vp Mat4, fbW, fbH int, theme string) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	if theme == "light" {
		gl.ClearColor(0.93, 0.93, 0.95, 1)
	} else {
		gl.ClearColor(0.02, 0.02, 0.04, 1)
	}
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	r.vp = vp.Float32()

	gl.UseProgram(r.quadProg)
	gl.UniformMatrix4fv(r.uVP, 1, false, &r.vp[0])
	gl.ActiveTexture(gl.TEXTURE0)
}

// DrawItem draws one textured billboard. right and up are the camera axes;
// extents come from the resolved item, already emphasis-scaled.
func (r *Renderer) DrawItem(it RenderItem, tex uint32, right, up Vec3, hoverScale float64) {
	if tex == 0 {
		return
	}
	gl.UseProgram(r.quadProg)
	gl.BindVertexArray(r.quadVAO)
	gl.BindTexture(gl.TEXTURE_2D, tex)

	hw := it.W / 2 * hoverScale
	hh := it.H / 2 * hoverScale
	gl.Uniform3f(r.uCenter, float32(it.Pos.X), float32(it.Pos.Y), float32(it.Pos.Z))
	gl.Uniform3f(r.uRight, float32(right.X*hw), float32(right.Y*hw), float32(right.Z*hw))
	gl.Uniform3f(r.uUp, float32(up.X*hh), float32(up.Y*hh), float32(up.Z*hh))
	gl.Uniform1f(r.uOpacity, float32(it.Opacity/100))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

// DrawGlow draws an additive radial glow facing the camera.
func (r *Renderer) DrawGlow(center Vec3, radius, intensity float64, right, up Vec3, tintR, tintG, tintB float32) {
	gl.UseProgram(r.glowProg)
	gl.BindVertexArray(r.quadVAO)
	gl.UniformMatrix4fv(r.glowUVP, 1, false, &r.vp[0])
	gl.Uniform3f(r.glowUCenter, float32(center.X), float32(center.Y), float32(center.Z))
	gl.Uniform3f(r.glowURight, float32(right.X*radius), float32(right.Y*radius), float32(right.Z*radius))
	gl.Uniform3f(r.glowUUp, float32(up.X*radius), float32(up.Y*radius), float32(up.Z*radius))
	gl.Uniform1f(r.glowIntensity, float32(intensity))
	gl.Uniform3f(r.glowUTint, tintR, tintG, tintB)

	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

// DrawSegments streams the connection overlay. Line color follows the theme.
func (r *Renderer) DrawSegments(segments []LineSegment, theme string) {
	if len(segments) == 0 {
		return
	}
	r.lineBuf = r.lineBuf[:0]
	for _, s := range segments {
		if len(r.lineBuf)+6 > MaxLineVerts*3 {
			break
		}
		r.lineBuf = append(r.lineBuf,
			float32(s.A.X), float32(s.A.Y), float32(s.A.Z),
			float32(s.B.X), float32(s.B.Y), float32(s.B.Z),
		)
	}

	gl.UseProgram(r.lineProg)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(r.lineBuf)*4, gl.Ptr(&r.lineBuf[0]))
	gl.UniformMatrix4fv(r.lineUVP, 1, false, &r.vp[0])
	if theme == "light" {
		gl.Uniform4f(r.lineUColor, 0.1, 0.1, 0.15, float32(LineOpacity))
	} else {
		gl.Uniform4f(r.lineUColor, 1, 1, 1, float32(LineOpacity))
	}
	gl.DrawArrays(gl.LINES, 0, int32(len(r.lineBuf)/3))
}
