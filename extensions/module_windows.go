//go:build windows

package extensions

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// Module loads the first DLL in paths that loads and returns a
// GetProcAddress lookup over it. opengl32.dll only exports the GL 1.1
// entry points, which is what the fallback is for.
func Module(paths ...string) (ProcFunc, error) {
	var lastErr error
	for _, path := range paths {
		handle, err := windows.LoadLibrary(path)
		if err != nil {
			lastErr = err
			continue
		}
		return func(name string) uintptr {
			addr, err := windows.GetProcAddress(handle, name)
			if err != nil {
				return 0
			}
			return addr
		}, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no library paths given")
	}
	return nil, fmt.Errorf("failed to load GL module: %w", lastErr)
}
