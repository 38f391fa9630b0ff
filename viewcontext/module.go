package viewcontext

import (
	"sort"
)

// Helper implements one named helper. It receives the call, which carries
// the view context, the arguments and access to the overridden definition.
type Helper func(c *Call) (any, error)

// Module is a named bundle of helpers, associated with a layout or a
// controller. A module may include other modules; included helpers are more
// general than the module's own definitions.
//
// Modules are built at startup and must not be changed once registered in
// a sealed Registry.
type Module struct {
	name     string
	helpers  map[string]Helper
	includes []*Module
}

// NewModule creates an empty module with the given symbolic name, for
// example "Layouts::ApplicationViewContext".
func NewModule(name string) *Module {
	return &Module{
		name:    name,
		helpers: make(map[string]Helper),
	}
}

// Name returns the module's symbolic name.
func (m *Module) Name() string {
	return m.name
}

// Define adds or replaces a helper and returns m for chaining.
func (m *Module) Define(name string, helper Helper) *Module {
	m.helpers[name] = helper
	return m
}

// Include mixes other modules into m. Later includes are more specific
// than earlier ones.
func (m *Module) Include(modules ...*Module) *Module {
	for _, other := range modules {
		if other != nil && other != m {
			m.includes = append(m.includes, other)
		}
	}
	return m
}

// Defines reports whether m itself defines the helper.
func (m *Module) Defines(name string) bool {
	_, ok := m.helpers[name]
	return ok
}

// HelperNames returns the names m defines itself, sorted.
func (m *Module) HelperNames() []string {
	names := make([]string, 0, len(m.helpers))
	for name := range m.helpers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ancestors returns m and everything it includes, from most general to
// most specific, each module once.
func (m *Module) Ancestors() []*Module {
	var out []*Module
	seen := make(map[*Module]bool)
	m.linearize(&out, seen)
	return out
}

func (m *Module) linearize(out *[]*Module, seen map[*Module]bool) {
	if seen[m] {
		return
	}
	seen[m] = true
	for _, inc := range m.includes {
		inc.linearize(out, seen)
	}
	*out = append(*out, m)
}
