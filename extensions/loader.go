package extensions

import (
	"fmt"
	"sort"
	"strings"
	"unsafe"
)

// ProcFunc resolves a single entry point by name. A zero return means the
// entry point is not available through that mechanism.
type ProcFunc func(name string) uintptr

// Loader resolves entry points that cannot be linked statically.
type Loader interface {
	Lookup(name string) uintptr
}

// Chain tries the context-aware lookup first (wglGetProcAddress,
// eglGetProcAddress, glfwGetProcAddress) and falls back to a plain symbol
// lookup in the GL module for baseline entry points. The context-aware
// lookup is only valid while a rendering context is current.
type Chain struct {
	Context ProcFunc
	Module  ProcFunc
}

func (c Chain) Lookup(name string) uintptr {
	if c.Context != nil {
		if addr := c.Context(name); addr != 0 {
			return addr
		}
	}
	if c.Module != nil {
		return c.Module(name)
	}
	return 0
}

// MissingError lists required entry points that neither lookup could resolve.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("unresolved entry points: %s", strings.Join(e.Names, ", "))
}

// Table is the resolved entry point set. It is filled once by Load and never
// modified afterwards; it is handed by reference to everything that issues
// graphics calls.
type Table struct {
	procs  map[string]uintptr
	loader Loader
}

// Load resolves every required name and every optional name through l.
// Any unresolved required name is fatal: there is no partial mode. Optional
// names that fail to resolve are simply absent from the table.
func Load(l Loader, required, optional []string) (*Table, error) {
	t := &Table{
		procs:  make(map[string]uintptr, len(required)+len(optional)),
		loader: l,
	}
	var missing []string
	for _, name := range required {
		if _, ok := t.procs[name]; ok {
			continue
		}
		addr := l.Lookup(name)
		if addr == 0 {
			missing = append(missing, name)
			continue
		}
		t.procs[name] = addr
	}
	if len(missing) > 0 {
		return nil, &MissingError{Names: missing}
	}
	for _, name := range optional {
		if _, ok := t.procs[name]; ok {
			continue
		}
		if addr := l.Lookup(name); addr != 0 {
			t.procs[name] = addr
		}
	}
	return t, nil
}

// Proc returns the resolved address for name, or zero.
func (t *Table) Proc(name string) uintptr {
	if t == nil {
		return 0
	}
	return t.procs[name]
}

// Has reports whether name was resolved.
func (t *Table) Has(name string) bool {
	return t.Proc(name) != 0
}

// Len returns the number of resolved entry points.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.procs)
}

// Names returns the resolved names in sorted order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.procs))
	for name := range t.procs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProcAddress adapts the table to binding generators such as go-gl, which
// ask for entry points by name. Names outside the table are looked up
// through the original loader without being added to it, so the table stays
// as it was after Load.
func (t *Table) ProcAddress(name string) unsafe.Pointer {
	addr := t.Proc(name)
	if addr == 0 && t != nil && t.loader != nil {
		addr = t.loader.Lookup(name)
	}
	return *(*unsafe.Pointer)(unsafe.Pointer(&addr))
}
