package shader

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const triangleVertexGL = `#version 330 core
layout (location = 0) in vec4 v_Position;
void main()
{
    gl_Position = v_Position;
}
`

const triangleFragmentGL = `#version 330 core
out vec4 frag_color;
void main()
{
    frag_color = vec4(1.0, 0.0, 0.0, 1.0);
}
`

const quadVertexGL = `#version 330 core
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;
layout (location = 2) in vec2 aTexCoord;

out vec3 ourColor;
out vec2 TexCoord;

void main()
{
    gl_Position = vec4(aPos, 1.0);
    ourColor = aColor;
    TexCoord = vec2(aTexCoord.x, aTexCoord.y);
}
`

const quadFragmentGL = `#version 330 core
out vec4 FragColor;

in vec3 ourColor;
in vec2 TexCoord;

uniform sampler2D texture1;
uniform int       textured;

void main()
{
    if (textured != 0) {
        FragColor = texture(texture1, TexCoord);
    } else {
        FragColor = vec4(ourColor, 1.0);
    }
}
`

const vertexIDVertexGL = `#version 330 core
void main(void)
{
    const vec4 vertices[3] = vec4[3](vec4( 0.25, -0.25, 0.5, 1.0),
                                     vec4(-0.25, -0.25, 0.5, 1.0),
                                     vec4( 0.25,  0.25, 0.5, 1.0));
    gl_Position = vertices[gl_VertexID];
}
`

const vertexIDFragmentGL = `#version 330 core
out vec4 color;
void main(void)
{
    color = vec4(0.0, 0.8, 1.0, 1.0);
}
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const triangleVertexGLES = `#version 300 es
layout (location = 0) in vec4 v_Position;
void main()
{
    gl_Position = v_Position;
}
`

const triangleFragmentGLES = `#version 300 es
precision mediump float;
out vec4 frag_color;
void main()
{
    frag_color = vec4(1.0, 0.0, 0.0, 1.0);
}
`

const quadVertexGLES = `#version 300 es
layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;
layout (location = 2) in vec2 aTexCoord;

out vec3 ourColor;
out vec2 TexCoord;

void main()
{
    gl_Position = vec4(aPos, 1.0);
    ourColor = aColor;
    TexCoord = vec2(aTexCoord.x, aTexCoord.y);
}
`

const quadFragmentGLES = `#version 300 es
precision mediump float;
out vec4 FragColor;

in vec3 ourColor;
in vec2 TexCoord;

uniform sampler2D texture1;
uniform int       textured;

void main()
{
    if (textured != 0) {
        FragColor = texture(texture1, TexCoord);
    } else {
        FragColor = vec4(ourColor, 1.0);
    }
}
`

const vertexIDVertexGLES = `#version 300 es
void main(void)
{
    vec4 vertices[3] = vec4[3](vec4( 0.25, -0.25, 0.5, 1.0),
                               vec4(-0.25, -0.25, 0.5, 1.0),
                               vec4( 0.25,  0.25, 0.5, 1.0));
    gl_Position = vertices[gl_VertexID];
}
`

const vertexIDFragmentGLES = `#version 300 es
precision mediump float;
out vec4 color;
void main(void)
{
    color = vec4(0.0, 0.8, 1.0, 1.0);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

// Sources is a vertex/fragment source pair.
type Sources struct {
	Vertex   string
	Fragment string
}

// Triangle draws a solid red triangle from positions at location 0.
func Triangle(isGLES bool) Sources {
	if isGLES {
		return Sources{triangleVertexGLES, triangleFragmentGLES}
	}
	return Sources{triangleVertexGL, triangleFragmentGL}
}

// Quad samples texture1 using interleaved position, colour and texture
// coordinates at locations 0, 1 and 2. With the textured uniform left at
// zero it falls back to the vertex colours.
func Quad(isGLES bool) Sources {
	if isGLES {
		return Sources{quadVertexGLES, quadFragmentGLES}
	}
	return Sources{quadVertexGL, quadFragmentGL}
}

// VertexID needs no vertex attributes; positions come from gl_VertexID.
func VertexID(isGLES bool) Sources {
	if isGLES {
		return Sources{vertexIDVertexGLES, vertexIDFragmentGLES}
	}
	return Sources{vertexIDVertexGL, vertexIDFragmentGL}
}
