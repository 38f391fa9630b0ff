package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/GoCodeAlone/logicalview/render"
	"github.com/GoCodeAlone/logicalview/viewcontext"
	"github.com/GoCodeAlone/logicalview/viewcontexts/layouts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(t *testing.T, registry *viewcontext.Registry, fsys fstest.MapFS) *Env {
	t.Helper()
	names := append(registry.HelperNames(), viewcontext.BaseModule().HelperNames()...)
	renderer, err := render.New(nil, names, render.WithFS(fsys))
	require.NoError(t, err)
	return &Env{
		Composer: viewcontext.NewComposer(registry),
		Renderer: renderer,
	}
}

func TestDefine(t *testing.T) {
	registry := viewcontext.NewRegistry()

	base, err := Define(registry, "application", nil)
	require.NoError(t, err)
	child, err := Define(registry, "/admin/randoms/", base)
	require.NoError(t, err)

	assert.Equal(t, "admin/randoms", child.Path())
	assert.Same(t, base, child.Parent())
	assert.Nil(t, base.Parent())

	_, err = Define(registry, "", nil)
	assert.ErrorIs(t, err, ErrEmptyPath)

	registry.Seal()
	_, err = Define(registry, "late", nil)
	assert.ErrorIs(t, err, viewcontext.ErrRegistrySealed)
}

func TestViewContextInheritance(t *testing.T) {
	registry := viewcontext.NewRegistry()
	base, err := Define(registry, "application", nil)
	require.NoError(t, err)
	child, err := Define(registry, "admin/randoms", base)
	require.NoError(t, err)

	shared := viewcontext.NewModule("ApplicationViewContext")
	require.NoError(t, base.ViewContext(shared))

	got, ok := registry.Declared(child.Path())
	require.True(t, ok)
	assert.Same(t, shared, got)
}

func TestLayoutConfiguration(t *testing.T) {
	registry := viewcontext.NewRegistry()
	base, err := Define(registry, "application", nil)
	require.NoError(t, err)
	child, err := Define(registry, "reports", base)
	require.NoError(t, err)

	assert.Equal(t, DefaultLayout, child.LayoutName())
	assert.True(t, child.HasLayout("index"))

	base.Layout("print").NoLayoutFor("export")
	assert.Equal(t, "print", child.LayoutName())
	assert.False(t, child.HasLayout("export"))
	assert.True(t, child.HasLayout("index"))

	child.Layout("")
	assert.False(t, child.HasLayout("index"))
}

func TestInstanceCurrentLayout(t *testing.T) {
	registry := viewcontext.NewRegistry()
	class, err := Define(registry, "randoms", nil)
	require.NoError(t, err)
	class.NoLayoutFor("raw")

	env := newEnv(t, registry, fstest.MapFS{
		"layouts/application.html": {Data: []byte(`{{ yield }}`)},
	})

	inst, err := class.New(env, "index")
	require.NoError(t, err)
	assert.Equal(t, "randoms", inst.ControllerPath())
	assert.Equal(t, "index", inst.ActionName())
	assert.True(t, inst.ActionHasLayout())

	handle, ok := inst.CurrentLayout().(viewcontext.Template)
	require.True(t, ok, "layout with a template resolves to its handle")
	assert.Equal(t, "layouts/application", handle.VirtualPath())

	raw, err := class.New(env, "raw")
	require.NoError(t, err)
	assert.False(t, raw.ActionHasLayout())
	assert.Nil(t, raw.CurrentLayout())

	class.Layout("print")
	assert.Equal(t, "print", inst.CurrentLayout(), "layout without a template stays a name")

	_, err = class.New(nil, "index")
	assert.ErrorIs(t, err, ErrNilEnv)
}

func TestInstanceCachesComposition(t *testing.T) {
	registry := viewcontext.NewRegistry()
	require.NoError(t, layouts.Register(registry))
	class, err := Define(registry, "randoms", nil)
	require.NoError(t, err)
	registry.Seal()

	inst, err := class.New(newEnv(t, registry, fstest.MapFS{}), "index")
	require.NoError(t, err)

	first, err := inst.Composition(context.Background())
	require.NoError(t, err)
	second, err := inst.Composition(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)

	view, err := inst.ViewContext(context.Background(), map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Same(t, first, view.Composition())
	assert.Equal(t, 1, view.Assigns["a"])
	assert.Same(t, inst, view.Controller)
}

func TestHandlerRenders(t *testing.T) {
	registry := viewcontext.NewRegistry()
	require.NoError(t, layouts.Register(registry))
	class, err := Define(registry, "pages", nil)
	require.NoError(t, err)
	require.NoError(t, class.ViewContext(viewcontext.NewModule("PagesViewContext").
		Define("title", func(c *viewcontext.Call) (any, error) {
			base, err := c.Super()
			if err != nil {
				return nil, err
			}
			return "Home - " + base.(string), nil
		})))
	registry.Seal()

	env := newEnv(t, registry, fstest.MapFS{
		"layouts/application.html": {Data: []byte(`<title>{{ title . }}</title><body class="{{ template_class_names (controller_path) (action_name) }}">{{ yield }}</body>`)},
		"pages/home.html":          {Data: []byte(`<p>{{ local "message" }}</p>`)},
	})

	handler := class.Handler(env, "home", func(inst *Instance, w http.ResponseWriter, r *http.Request) error {
		return inst.Render(r.Context(), w, map[string]any{"message": "hello"})
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `<title>Home - LogicalView</title><body class="application pages pages--home"><p>hello</p></body>`, rec.Body.String())
}

func TestHandlerErrors(t *testing.T) {
	registry := viewcontext.NewRegistry()
	class, err := Define(registry, "pages", nil)
	require.NoError(t, err)
	env := newEnv(t, registry, fstest.MapFS{})

	t.Run("action error", func(t *testing.T) {
		handler := class.Handler(env, "home", func(*Instance, http.ResponseWriter, *http.Request) error {
			return errors.New("boom")
		})
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("missing template", func(t *testing.T) {
		handler := class.Handler(env, "home", func(inst *Instance, w http.ResponseWriter, r *http.Request) error {
			return inst.Render(r.Context(), w, nil)
		})
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("no renderer", func(t *testing.T) {
		inst, err := class.New(&Env{Composer: env.Composer}, "home")
		require.NoError(t, err)
		err = inst.Render(context.Background(), httptest.NewRecorder(), nil)
		assert.ErrorIs(t, err, viewcontext.ErrNoRenderer)
	})
}
