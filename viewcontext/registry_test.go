package viewcontext

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	layout := NewModule("Layouts::ApplicationViewContext")

	require.NoError(t, r.Register(layout))
	require.NoError(t, r.Register(layout), "registering the same module twice is a no-op")

	got, ok := r.Lookup("Layouts::ApplicationViewContext")
	require.True(t, ok)
	assert.Same(t, layout, got)

	_, ok = r.Lookup("Layouts::PrintViewContext")
	assert.False(t, ok)

	err := r.Register(NewModule("Layouts::ApplicationViewContext"))
	assert.ErrorIs(t, err, ErrModuleConflict)

	assert.ErrorIs(t, r.Register(nil), ErrNilModule)
}

func TestRegistryResolveLayout(t *testing.T) {
	r := NewRegistry()
	layout := NewModule("Layouts::ApplicationViewContext")
	require.NoError(t, r.Register(layout))

	got, ok := r.ResolveLayout(virtualTemplate("layouts/application"))
	require.True(t, ok)
	assert.Same(t, layout, got)

	got, ok = r.ResolveLayout("application")
	require.True(t, ok)
	assert.Same(t, layout, got)

	_, ok = r.ResolveLayout("print")
	assert.False(t, ok)

	_, ok = r.ResolveLayout(nil)
	assert.False(t, ok)
}

func TestRegistryDeclare(t *testing.T) {
	r := NewRegistry()
	first := NewModule("RandomsViewContext")
	second := NewModule("OtherRandomsViewContext")

	_, ok := r.Declared("randoms")
	assert.False(t, ok, "undeclared controller reports absent")

	require.NoError(t, r.Declare("randoms", first))
	require.NoError(t, r.Declare("randoms", second))

	got, ok := r.Declared("randoms")
	require.True(t, ok)
	assert.Same(t, second, got, "last declaration wins")

	_, ok = r.Lookup("RandomsViewContext")
	assert.True(t, ok, "declared modules are registered by name")

	assert.ErrorIs(t, r.Declare("randoms", nil), ErrNilModule)
}

func TestRegistryDeclarationInheritance(t *testing.T) {
	r := NewRegistry()
	parent := NewModule("ApplicationViewContext")
	child := NewModule("Admin::RandomsViewContext")

	require.NoError(t, r.DefineController("admin/base", "application"))
	require.NoError(t, r.DefineController("admin/randoms", "admin/base"))
	require.NoError(t, r.Declare("application", parent))

	got, ok := r.Declared("admin/randoms")
	require.True(t, ok)
	assert.Same(t, parent, got)

	require.NoError(t, r.Declare("admin/randoms", child))
	got, ok = r.Declared("admin/randoms")
	require.True(t, ok)
	assert.Same(t, child, got)

	got, ok = r.Declared("admin/base")
	require.True(t, ok)
	assert.Same(t, parent, got)
}

func TestRegistryDeclarationCycleTerminates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.DefineController("a", "b"))
	require.NoError(t, r.DefineController("b", "a"))

	_, ok := r.Declared("a")
	assert.False(t, ok)
}

func TestRegistrySeal(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewModule("Layouts::ApplicationViewContext")))
	r.Seal()
	assert.True(t, r.Sealed())

	assert.ErrorIs(t, r.Register(NewModule("Layouts::PrintViewContext")), ErrRegistrySealed)
	assert.ErrorIs(t, r.Declare("randoms", NewModule("RandomsViewContext")), ErrRegistrySealed)
	assert.ErrorIs(t, r.DefineController("randoms", "application"), ErrRegistrySealed)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := r.Lookup("Layouts::ApplicationViewContext")
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	styles := NewModule("LayoutStyles").Define("template_class_names", constHelper("x"))
	layout := NewModule("Layouts::ApplicationViewContext").Include(styles).Define("title", constHelper("L"))
	page := NewModule("RandomsViewContext").Define("sum_spend", constHelper(0))

	require.NoError(t, r.Register(layout, page))

	assert.Equal(t, []string{"Layouts::ApplicationViewContext", "RandomsViewContext"}, r.ModuleNames())
	assert.Equal(t, []string{"sum_spend", "template_class_names", "title"}, r.HelperNames())
}

func TestModuleAncestors(t *testing.T) {
	shared := NewModule("Shared")
	styles := NewModule("LayoutStyles").Include(shared)
	layout := NewModule("Layouts::ApplicationViewContext").Include(styles, shared)

	var names []string
	for _, m := range layout.Ancestors() {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"Shared", "LayoutStyles", "Layouts::ApplicationViewContext"}, names)
}

func constHelper(value any) Helper {
	return func(*Call) (any, error) {
		return value, nil
	}
}
