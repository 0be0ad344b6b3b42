//go:build linux || darwin

package extensions

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// Module opens the first library in paths that loads and returns a symbol
// lookup over it. The handle stays open for the life of the process; the
// addresses it hands out must remain valid.
func Module(paths ...string) (ProcFunc, error) {
	var lastErr error
	for _, path := range paths {
		handle, err := purego.Dlopen(path, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			lastErr = err
			continue
		}
		return func(name string) uintptr {
			addr, err := purego.Dlsym(handle, name)
			if err != nil {
				return 0
			}
			return addr
		}, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no library paths given")
	}
	return nil, fmt.Errorf("failed to open GL module: %w", lastErr)
}
