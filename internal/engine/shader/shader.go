// Package shader builds GL programs from GLSL source.
package shader

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Stage is one shader stage of a program.
type Stage struct {
	Kind   uint32 // gl.VERTEX_SHADER, gl.FRAGMENT_SHADER, ...
	Source string
}

// Program is a linked GL program with a cache of uniform locations.
type Program struct {
	id       uint32
	uniforms map[string]int32
}

// New compiles a vertex and a fragment stage and links them.
func New(vertexSrc, fragmentSrc string) (*Program, error) {
	return Link(
		Stage{Kind: gl.VERTEX_SHADER, Source: vertexSrc},
		Stage{Kind: gl.FRAGMENT_SHADER, Source: fragmentSrc},
	)
}

// Link compiles every stage and links them into a program. Compiled
// stages are released once linking is done.
func Link(stages ...Stage) (*Program, error) {
	ids := make([]uint32, 0, len(stages))
	defer func() {
		for _, id := range ids {
			gl.DeleteShader(id)
		}
	}()

	for _, st := range stages {
		id, err := compile(st)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	prog := gl.CreateProgram()
	for _, id := range ids {
		gl.AttachShader(prog, id)
	}
	gl.LinkProgram(prog)

	var ok int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(prog, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(prog)
		return nil, fmt.Errorf("shader: link: %s", msg)
	}
	return &Program{id: prog, uniforms: make(map[string]int32)}, nil
}

func compile(st Stage) (uint32, error) {
	id := gl.CreateShader(st.Kind)
	src, free := gl.Strs(st.Source + "\x00")
	gl.ShaderSource(id, 1, src, nil)
	free()
	gl.CompileShader(id)

	var ok int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(id, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(id)
		return 0, fmt.Errorf("shader: compile %s stage: %s", stageName(st.Kind), msg)
	}
	return id, nil
}

// infoLog reads the driver's log for a shader or program object.
func infoLog(obj uint32, param func(uint32, uint32, *int32), read func(uint32, int32, *int32, *uint8)) string {
	var n int32
	param(obj, gl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return "no log"
	}
	buf := make([]byte, n+1)
	read(obj, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

func stageName(kind uint32) string {
	switch kind {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	case gl.GEOMETRY_SHADER:
		return "geometry"
	default:
		return fmt.Sprintf("0x%x", kind)
	}
}

// Use binds the program.
func (p *Program) Use() { gl.UseProgram(p.id) }

// Uniform returns the location of name, or -1 when the uniform is absent
// or optimized out. Lookups are cached.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// SetInt sets an int or sampler uniform on the bound program.
func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.Uniform(name), v)
}

// Delete releases the program. It is safe to call more than once.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
