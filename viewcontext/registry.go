package viewcontext

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the explicit table of loaded view-context modules and the
// per-controller declarations. It is populated while the application loads,
// then sealed and only read while requests are served.
type Registry struct {
	mu           sync.RWMutex
	modules      map[string]*Module
	declarations map[string]*Module
	parents      map[string]string
	sealed       bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modules:      make(map[string]*Module),
		declarations: make(map[string]*Module),
		parents:      make(map[string]string),
	}
}

// Register loads modules under their symbolic names. Registering the same
// module twice is a no-op; a different module under a taken name is an error.
func (r *Registry) Register(modules ...*Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrRegistrySealed
	}

	for _, m := range modules {
		if m == nil {
			return ErrNilModule
		}
		if existing, ok := r.modules[m.Name()]; ok && existing != m {
			return fmt.Errorf("%w: %s", ErrModuleConflict, m.Name())
		}
		r.modules[m.Name()] = m
	}
	return nil
}

// Lookup resolves a module by symbolic name.
func (r *Registry) Lookup(name string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.modules[name]
	return m, ok
}

// ResolveLayout resolves the module for a layout reference using
// LayoutModuleName. A layout without a module is reported as absent.
func (r *Registry) ResolveLayout(layout any) (*Module, bool) {
	return r.Lookup(LayoutModuleName(layout))
}

// DefineController records that controller inherits from parent, so it
// also inherits parent's view-context declaration. An empty parent makes
// controller a root.
func (r *Registry) DefineController(controller, parent string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrRegistrySealed
	}

	if parent == "" {
		delete(r.parents, controller)
		return nil
	}
	r.parents[controller] = parent
	return nil
}

// Declare associates m with controller and all its actions. The module is
// also registered by name. Declaring again replaces the previous module.
func (r *Registry) Declare(controller string, m *Module) error {
	if m == nil {
		return ErrNilModule
	}
	if err := r.Register(m); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrRegistrySealed
	}
	r.declarations[controller] = m
	return nil
}

// Declared returns the module declared for controller, or the nearest
// ancestor's declaration. It reports false when none is declared.
func (r *Registry) Declared(controller string) (*Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	visited := make(map[string]bool)
	for current := controller; current != "" && !visited[current]; current = r.parents[current] {
		visited[current] = true
		if m, ok := r.declarations[current]; ok {
			return m, true
		}
	}
	return nil, false
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// ModuleNames returns every registered module name, sorted.
func (r *Registry) ModuleNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HelperNames returns every helper name defined by any registered module,
// sorted. Renderers use it to parse templates before any composition exists.
func (r *Registry) HelperNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[string]bool)
	for _, m := range r.modules {
		for _, ancestor := range m.Ancestors() {
			for name := range ancestor.helpers {
				set[name] = true
			}
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
