// Package translator rewrites GLSL ES 3.00 shaders into the desktop GLSL
// dialect of the running context.
package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"

	"github.com/richinsley/glbootstrap/graphics"
)

var (
	translator *gst.ShaderTranslator
	once       sync.Once
	initErr    error
)

// GetTranslator returns the process-wide translator, starting it on first
// use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, initErr = gst.NewShaderTranslator(context.Background())
	})
	return translator, initErr
}

// Translator targets one context version.
type Translator struct {
	Version graphics.ContextVersion
}

// New returns a translator for contexts of version v.
func New(v graphics.ContextVersion) *Translator {
	return &Translator{Version: v}
}

// Translate converts source for stage ("vertex" or "fragment") and returns
// the code plus the source-to-output name of every variable.
func (t *Translator) Translate(source, stage string) (string, map[string]string, error) {
	gt, err := GetTranslator()
	if err != nil {
		return "", nil, fmt.Errorf("failed to start shader translator: %w", err)
	}

	outputFormat := gst.OutputFormatGLSL330
	if t.Version.AtLeast(4, 1) {
		outputFormat = gst.OutputFormatGLSL410
	}
	out, err := gt.TranslateShader(source, stage, gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return "", nil, err
	}

	names := make(map[string]string, len(out.Variables))
	for name, v := range out.Variables {
		names[name] = v.MappedName
	}
	return out.Code, names, nil
}
