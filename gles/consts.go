package gles

// Enum values, named as in the go-gl bindings.
const (
	NO_ERROR = 0
	FALSE    = 0
	TRUE     = 1

	VENDOR                   = 0x1F00
	RENDERER                 = 0x1F01
	VERSION                  = 0x1F02
	SHADING_LANGUAGE_VERSION = 0x8B8C

	DEPTH_BUFFER_BIT   = 0x00000100
	STENCIL_BUFFER_BIT = 0x00000400
	COLOR_BUFFER_BIT   = 0x00004000
	COLOR              = 0x1800

	DEPTH_TEST   = 0x0B71
	DEBUG_OUTPUT = 0x92E0

	TRIANGLES      = 0x0004
	TRIANGLE_STRIP = 0x0005

	BYTE           = 0x1400
	UNSIGNED_BYTE  = 0x1401
	UNSIGNED_SHORT = 0x1403
	UNSIGNED_INT   = 0x1405
	FLOAT          = 0x1406

	ARRAY_BUFFER         = 0x8892
	ELEMENT_ARRAY_BUFFER = 0x8893
	STATIC_DRAW          = 0x88E4

	FRAGMENT_SHADER = 0x8B30
	VERTEX_SHADER   = 0x8B31
	COMPILE_STATUS  = 0x8B81
	LINK_STATUS     = 0x8B82
	INFO_LOG_LENGTH = 0x8B84

	TEXTURE_2D           = 0x0DE1
	TEXTURE0             = 0x84C0
	TEXTURE_MAG_FILTER   = 0x2800
	TEXTURE_MIN_FILTER   = 0x2801
	TEXTURE_WRAP_S       = 0x2802
	TEXTURE_WRAP_T       = 0x2803
	NEAREST              = 0x2600
	LINEAR               = 0x2601
	LINEAR_MIPMAP_LINEAR = 0x2703
	REPEAT               = 0x2901
	CLAMP_TO_EDGE        = 0x812F

	RGB          = 0x1907
	RGBA         = 0x1908
	RGBA8        = 0x8058
	SRGB8_ALPHA8 = 0x8C43
)
