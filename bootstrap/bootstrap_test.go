package bootstrap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glbootstrap/extensions"
	"github.com/richinsley/glbootstrap/gles"
	"github.com/richinsley/glbootstrap/gles/glestest"
	"github.com/richinsley/glbootstrap/graphics"
	"github.com/richinsley/glbootstrap/graphics/graphicstest"
)

func testConfig(rec *glestest.Recorder) Config {
	cfg := DefaultConfig()
	cfg.Bind = func(*extensions.Table) (gles.API, error) {
		return rec, nil
	}
	return cfg
}

func journalIndex(t *testing.T, p *graphicstest.Platform, entry string) int {
	t.Helper()
	i := p.Index(entry, 0)
	require.GreaterOrEqual(t, i, 0, "journal has no %q: %v", entry, p.Journal)
	return i
}

func TestRunOrdersPhases(t *testing.T) {
	p := graphicstest.NewPlatform()
	rec := glestest.NewRecorder()
	cfg := testConfig(rec)

	tgt, err := Run(p, cfg)
	require.NoError(t, err)
	require.NotNil(t, tgt)
	assert.Empty(t, p.Violations)

	load := journalIndex(t, p, graphicstest.OpLoadExtensions)
	dummyGone := journalIndex(t, p, graphicstest.OpUnregisterClass+" "+cfg.DummyClass)
	realClass := journalIndex(t, p, graphicstest.OpRegisterClass+" "+cfg.Class)
	choose := journalIndex(t, p, graphicstest.OpChooseFormat)
	create := journalIndex(t, p, graphicstest.OpCreateContextAttribs)

	assert.Less(t, load, dummyGone)
	assert.Less(t, dummyGone, realClass, "dummy must be torn down before the real window exists")
	assert.Less(t, realClass, choose)
	assert.Less(t, choose, create)

	assert.False(t, p.Registered(cfg.DummyClass))
	assert.True(t, p.Registered(cfg.Class))
	assert.Equal(t, 1, p.RegisteredClasses())

	assert.Equal(t, cfg.PixelAttribs, p.LastPixelAttribs)
	assert.Equal(t, cfg.Version.Attribs(), p.LastContextAttribs)
	profile, ok := p.LastContextAttribs.Get(graphics.AttribContextProfileMask)
	assert.True(t, ok)
	assert.Equal(t, graphics.ProfileCore, profile)

	assert.Same(t, rec, tgt.GL)
	assert.Equal(t, 1024, tgt.Width)
	assert.Equal(t, 720, tgt.Height)
	assert.True(t, tgt.Extensions.Has("glCreateShader"))
	assert.True(t, tgt.Extensions.Has("fakeCreateContextAttribs"))

	tgt.Shutdown()
	assert.Equal(t, 0, p.RegisteredClasses())
	assert.Empty(t, p.Violations)
}

func TestDummyTeardownOnEveryPath(t *testing.T) {
	steps := []string{
		"",
		graphicstest.OpRegisterClass,
		graphicstest.OpCreateWindow,
		graphicstest.OpGetSurface,
		graphicstest.OpSetLegacyFormat,
		graphicstest.OpCreateLegacyContext,
		graphicstest.OpMakeCurrent,
		graphicstest.OpLoadExtensions,
	}
	for _, step := range steps {
		name := step
		if name == "" {
			name = "success"
		}
		t.Run(name, func(t *testing.T) {
			p := graphicstest.NewPlatform()
			if step != "" {
				p.FailAt[step] = true
			}
			cfg := DefaultConfig()

			table, err := Dummy(p, cfg)
			if step == "" {
				require.NoError(t, err)
				assert.NotNil(t, table)
			} else {
				require.Error(t, err)
				assert.True(t, errors.Is(err, graphicstest.ErrInjected), "got %v", err)
				assert.Nil(t, table)
			}

			assert.False(t, p.Registered(cfg.DummyClass), "dummy class left registered: %v", p.Journal)
			assert.Equal(t, 0, p.RegisteredClasses())
			assert.Empty(t, p.Violations)
			for _, w := range p.Windows() {
				assert.True(t, w.Destroyed())
			}
		})
	}
}

func TestDummyTeardownOrder(t *testing.T) {
	p := graphicstest.NewPlatform()
	cfg := DefaultConfig()
	_, err := Dummy(p, cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"register-class " + cfg.DummyClass,
		"create-window " + cfg.DummyClass,
		"get-surface " + cfg.DummyClass,
		"set-legacy-format " + cfg.DummyClass,
		"create-legacy-context " + cfg.DummyClass,
		"make-current " + cfg.DummyClass,
		"load-extensions",
		"release-current " + cfg.DummyClass,
		"destroy-context " + cfg.DummyClass,
		"release-surface " + cfg.DummyClass,
		"destroy-window " + cfg.DummyClass,
		"unregister-class " + cfg.DummyClass,
	}, p.Journal)

	w := p.Windows()[0]
	assert.True(t, w.Config().Hidden)
}

func TestUnsatisfiablePixelFormatIsFatal(t *testing.T) {
	p := graphicstest.NewPlatform()
	cfg := testConfig(glestest.NewRecorder())
	cfg.PixelAttribs = graphics.Attribs(
		graphics.Pair{Key: graphics.AttribDrawToWindow, Value: 1},
		graphics.Pair{Key: graphics.AttribDoubleBuffer, Value: 1},
		graphics.Pair{Key: graphics.AttribColorBits, Value: 255},
	)

	tgt, err := Run(p, cfg)
	require.Error(t, err)
	assert.Nil(t, tgt)
	assert.True(t, errors.Is(err, graphics.ErrNoPixelFormat), "got %v", err)

	assert.Equal(t, -1, p.Index(graphicstest.OpSetFormat, 0), "must not fall back to another format")
	assert.Equal(t, -1, p.Index(graphicstest.OpCreateContextAttribs, 0))
	assert.Equal(t, 0, p.RegisteredClasses())
	assert.Empty(t, p.Violations)
}

func TestMalformedPixelAttribs(t *testing.T) {
	p := graphicstest.NewPlatform()
	cfg := testConfig(glestest.NewRecorder())
	cfg.PixelAttribs = graphics.AttribList{int32(graphics.AttribColorBits), 32}

	_, err := Run(p, cfg)
	assert.True(t, errors.Is(err, graphics.ErrBadAttribList), "got %v", err)
	assert.Equal(t, 0, p.RegisteredClasses())
}

func TestRealRequiresTable(t *testing.T) {
	p := graphicstest.NewPlatform()
	tgt, err := Real(p, DefaultConfig(), nil)
	assert.Nil(t, tgt)
	assert.True(t, errors.Is(err, ErrNoExtensions))
	assert.Empty(t, p.Journal, "no real window may be created without the table")
}

func TestMissingEntryPointIsFatal(t *testing.T) {
	p := graphicstest.NewPlatform()
	p.Missing["glCreateShader"] = true
	cfg := testConfig(glestest.NewRecorder())

	_, err := Run(p, cfg)
	require.Error(t, err)
	var missing *extensions.MissingError
	require.True(t, errors.As(err, &missing), "got %v", err)
	assert.Equal(t, []string{"glCreateShader"}, missing.Names)

	assert.Equal(t, -1, p.Index(graphicstest.OpRegisterClass+" "+cfg.Class, 0))
	assert.Equal(t, 0, p.RegisteredClasses())
}

func TestRealFailureReleasesEverything(t *testing.T) {
	for _, step := range []string{
		graphicstest.OpGetSurface,
		graphicstest.OpChooseFormat,
		graphicstest.OpSetFormat,
		graphicstest.OpCreateContextAttribs,
		graphicstest.OpMakeCurrent,
	} {
		t.Run(step, func(t *testing.T) {
			p := graphicstest.NewPlatform()
			cfg := DefaultConfig()
			table, err := Dummy(p, cfg)
			require.NoError(t, err)

			p.FailAt[step] = true
			tgt, err := Real(p, cfg, table)
			require.Error(t, err)
			assert.Nil(t, tgt)
			assert.True(t, errors.Is(err, graphicstest.ErrInjected), "got %v", err)
			assert.Equal(t, 0, p.RegisteredClasses())
			assert.Empty(t, p.Violations)
		})
	}
}

func TestBindFailureShutsDown(t *testing.T) {
	p := graphicstest.NewPlatform()
	cfg := DefaultConfig()
	cfg.Bind = func(*extensions.Table) (gles.API, error) {
		return nil, errors.New("no gl")
	}

	_, err := Run(p, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no gl")
	assert.Equal(t, 0, p.RegisteredClasses())
	assert.Empty(t, p.Violations)
}

type userData struct{ destroyed int }

func (u *userData) Destroy() { u.destroyed++ }

func TestShutdownReleasesContextBeforeWindow(t *testing.T) {
	p := graphicstest.NewPlatform()
	cfg := testConfig(glestest.NewRecorder())
	tgt, err := Run(p, cfg)
	require.NoError(t, err)

	ud := &userData{}
	tgt.UserData = ud
	from := len(p.Journal)
	tgt.Shutdown()
	tgt.Shutdown()

	assert.Equal(t, 1, ud.destroyed)
	assert.Equal(t, []string{
		"release-current " + cfg.Class,
		"destroy-context " + cfg.Class,
		"release-surface " + cfg.Class,
		"destroy-window " + cfg.Class,
		"unregister-class " + cfg.Class,
	}, p.Journal[from:])
	assert.Empty(t, p.Violations)
}

func TestWrongShutdownOrderIsFlagged(t *testing.T) {
	p := graphicstest.NewPlatform()
	tgt, err := Run(p, testConfig(glestest.NewRecorder()))
	require.NoError(t, err)

	require.NoError(t, tgt.Window.Destroy())
	require.NoError(t, tgt.Context.Destroy())

	assert.NotEmpty(t, p.Violations)
	assert.Contains(t, p.Violations[0], "destroyed before its context was released")
}

func TestNilTargetShutdown(t *testing.T) {
	var tgt *Target
	assert.NotPanics(t, tgt.Shutdown)
}
