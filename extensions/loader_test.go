package extensions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(procs map[string]uintptr, calls *[]string, tag string) ProcFunc {
	return func(name string) uintptr {
		*calls = append(*calls, tag+":"+name)
		return procs[name]
	}
}

func TestChainPrefersContextLookup(t *testing.T) {
	var calls []string
	c := Chain{
		Context: fixed(map[string]uintptr{"glCreateShader": 0x100}, &calls, "ctx"),
		Module:  fixed(map[string]uintptr{"glCreateShader": 0x200, "glClear": 0x300}, &calls, "mod"),
	}

	assert.Equal(t, uintptr(0x100), c.Lookup("glCreateShader"))
	assert.Equal(t, []string{"ctx:glCreateShader"}, calls)

	calls = nil
	assert.Equal(t, uintptr(0x300), c.Lookup("glClear"))
	assert.Equal(t, []string{"ctx:glClear", "mod:glClear"}, calls)
}

func TestChainBothFail(t *testing.T) {
	var calls []string
	c := Chain{
		Context: fixed(nil, &calls, "ctx"),
		Module:  fixed(nil, &calls, "mod"),
	}
	assert.Zero(t, c.Lookup("wglCreateContextAttribsARB"))
	assert.Zero(t, Chain{}.Lookup("anything"))
}

func TestLoadMissingRequiredIsFatal(t *testing.T) {
	var calls []string
	c := Chain{Context: fixed(map[string]uintptr{"a": 1}, &calls, "ctx")}

	tbl, err := Load(c, []string{"a", "b", "c"}, nil)
	require.Error(t, err)
	assert.Nil(t, tbl)

	var missing *MissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"b", "c"}, missing.Names)
	assert.Contains(t, err.Error(), "b, c")
}

func TestLoadOptional(t *testing.T) {
	var calls []string
	c := Chain{Context: fixed(map[string]uintptr{"a": 1, "opt": 2}, &calls, "ctx")}

	tbl, err := Load(c, []string{"a", "a"}, []string{"opt", "gone"})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.True(t, tbl.Has("opt"))
	assert.False(t, tbl.Has("gone"))
	assert.Equal(t, []string{"a", "opt"}, tbl.Names())
}

func TestTableProcAddressDoesNotGrow(t *testing.T) {
	var calls []string
	c := Chain{Context: fixed(map[string]uintptr{"a": 1, "late": 7}, &calls, "ctx")}

	tbl, err := Load(c, []string{"a"}, nil)
	require.NoError(t, err)

	assert.NotNil(t, tbl.ProcAddress("a"))
	assert.NotNil(t, tbl.ProcAddress("late"))
	assert.Nil(t, tbl.ProcAddress("never"))
	assert.Equal(t, 1, tbl.Len())
	assert.False(t, tbl.Has("late"))
}

func TestNilTable(t *testing.T) {
	var tbl *Table
	assert.Zero(t, tbl.Proc("a"))
	assert.Zero(t, tbl.Len())
	assert.Nil(t, tbl.Names())
	assert.Nil(t, tbl.ProcAddress("a"))
}
