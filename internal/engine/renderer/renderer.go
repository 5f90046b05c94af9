// Package renderer presents software-rendered frames through OpenGL.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"go.uber.org/zap"

	"github.com/Faultbox/kag-mapper/internal/engine/shader"
	"github.com/Faultbox/kag-mapper/internal/logger"
	"github.com/go-gl/gl/v4.1-core/gl"
)

const vertexShaderSource = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;

out vec2 uv;

void main() {
	gl_Position = vec4(aPos, 0.0, 1.0);
	uv = aUV;
}
`

const fragmentShaderSource = `
#version 410 core

in vec2 uv;
out vec4 FragColor;

uniform sampler2D frame;

void main() {
	FragColor = texture(frame, uv);
}
`

// Presenter uploads a frame into a texture and draws it over the whole
// viewport.
type Presenter struct {
	program *shader.Program
	vao     uint32
	vbo     uint32
	texture uint32

	// Size of the allocated texture storage
	texW, texH int
}

// New creates a presenter.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(viewportW, viewportH int) (*Presenter, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	p := &Presenter{}

	var err error
	p.program, err = shader.New(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}

	p.createQuad()

	gl.GenTextures(1, &p.texture)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	p.program.Use()
	p.program.SetInt("frame", 0)
	gl.UseProgram(0)

	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)
	p.Resize(viewportW, viewportH)

	return p, nil
}

// createQuad builds a full-screen quad. UVs are flipped vertically so
// image row 0 ends up at the top of the window.
func (p *Presenter) createQuad() {
	vertices := []float32{
		// Position  // UV
		-1, -1, 0, 1,
		1, -1, 1, 1,
		-1, 1, 0, 0,
		1, 1, 1, 0,
	}

	gl.GenVertexArrays(1, &p.vao)
	gl.BindVertexArray(p.vao)

	gl.GenBuffers(1, &p.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 4*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 4*4, unsafe.Pointer(uintptr(2*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// Resize handles window resize. Sizes are drawable pixels.
func (p *Presenter) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("viewport resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Present uploads frame and draws it.
func (p *Presenter) Present(frame *image.RGBA) {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return
	}

	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(frame.Stride/4))

	if w != p.texW || h != p.texH {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(frame.Pix))
		p.texW, p.texH = w, h
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h),
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(frame.Pix))
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	p.program.Use()
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Close releases GL resources.
func (p *Presenter) Close() {
	logger.Info("closing renderer")
	if p.texture != 0 {
		gl.DeleteTextures(1, &p.texture)
	}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
	}
	if p.vbo != 0 {
		gl.DeleteBuffers(1, &p.vbo)
	}
	if p.program != nil {
		p.program.Delete()
	}
}
