package gallery

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Quad program: a unit quad stretched along per-item billboard axes so every
// item faces the camera regardless of the rig pose.
const quadVertSrc = `#version 410 core
layout(location = 0) in vec2 aPos;

uniform mat4 uVP;
uniform vec3 uCenter;
uniform vec3 uRight;
uniform vec3 uUp;

out vec2 vUV;

void main() {
    vec2 c = aPos * 2.0 - 1.0;
    vec3 world = uCenter + uRight * c.x + uUp * c.y;
    gl_Position = uVP * vec4(world, 1.0);
    vUV = vec2(aPos.x, 1.0 - aPos.y);
}
` + "\x00"

const quadFragSrc = `#version 410 core
in vec2 vUV;

uniform sampler2D uTex;
uniform float uOpacity;
uniform vec3 uTint;

out vec4 FragColor;

void main() {
    vec4 t = texture(uTex, vUV);
    float a = t.a * uOpacity;
    if (a < 0.004) discard;
    FragColor = vec4(t.rgb * uTint, a);
}
` + "\x00"

// Glow program: same quad geometry, radial falloff instead of a texture.
// Drawn additively around the focus point and the remote cursor.
const glowFragSrc = `#version 410 core
in vec2 vUV;

uniform float uIntensity;
uniform vec3 uTint;

out vec4 FragColor;

void main() {
    float d = length(vUV - vec2(0.5)) * 2.0;
    float a = exp(-d * 3.2) * uIntensity;
    if (a < 0.004) discard;
    FragColor = vec4(uTint * a, a);
}
` + "\x00"

// Line program: world-space segment soup for the connections overlay.
const lineVertSrc = `#version 410 core
layout(location = 0) in vec3 aPos;

uniform mat4 uVP;

void main() {
    gl_Position = uVP * vec4(aPos, 1.0);
}
` + "\x00"

const lineFragSrc = `#version 410 core
uniform vec4 uColor;

out vec4 FragColor;

void main() {
    FragColor = uColor;
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
