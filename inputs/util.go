package inputs

import (
	"github.com/richinsley/glbootstrap/gles"
)

// Helper to convert a wrap name to the OpenGL constant.
func getWrapMode(wrap string) int32 {
	switch wrap {
	case "repeat":
		return gles.REPEAT
	case "clamp":
		return gles.CLAMP_TO_EDGE
	default:
		return gles.REPEAT
	}
}

// Helper to convert a filter name to OpenGL min/mag constants.
func getFilterMode(filter string) (minFilter, magFilter int32) {
	switch filter {
	case "mipmap":
		return gles.LINEAR_MIPMAP_LINEAR, gles.LINEAR
	case "linear":
		return gles.LINEAR, gles.LINEAR
	case "nearest":
		return gles.NEAREST, gles.NEAREST
	default:
		return gles.LINEAR, gles.LINEAR
	}
}
