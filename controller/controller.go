// Package controller provides controller classes and the request-scoped
// controller instances that render views through a composed view context.
//
// A Class describes a controller: its path, its parent, the layout its
// actions render with and the view-context module it declares. An Instance
// is created for every request and caches the view-context composition for
// the rest of that request.
package controller

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/GoCodeAlone/logicalview"
	"github.com/GoCodeAlone/logicalview/render"
	"github.com/GoCodeAlone/logicalview/viewcontext"
)

// DefaultLayout is the layout root controllers render with.
const DefaultLayout = "application"

var (
	// ErrEmptyPath is returned when defining a controller without a path.
	ErrEmptyPath = errors.New("controller: path is empty")

	// ErrNilEnv is returned when an action runs without an environment.
	ErrNilEnv = errors.New("controller: environment is nil")
)

// Class is a controller definition. Classes are defined while the
// application loads and are read-only afterwards.
type Class struct {
	path     string
	parent   *Class
	registry *viewcontext.Registry

	layout    string
	layoutSet bool
	noLayout  map[string]bool
}

// Define creates a controller class under parent, which may be nil for a
// root controller, and records the inheritance on the registry so the class
// inherits its parent's view-context declaration.
func Define(registry *viewcontext.Registry, path string, parent *Class) (*Class, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, ErrEmptyPath
	}

	parentPath := ""
	if parent != nil {
		parentPath = parent.path
	}
	if err := registry.DefineController(path, parentPath); err != nil {
		return nil, fmt.Errorf("defining controller %s: %w", path, err)
	}

	return &Class{
		path:     path,
		parent:   parent,
		registry: registry,
		noLayout: make(map[string]bool),
	}, nil
}

// Path returns the controller path, e.g. "admin/randoms".
func (c *Class) Path() string {
	return c.path
}

// Parent returns the parent class or nil.
func (c *Class) Parent() *Class {
	return c.parent
}

// Layout sets the layout the class's actions render with. An empty name
// renders without layout.
func (c *Class) Layout(name string) *Class {
	c.layout = name
	c.layoutSet = true
	return c
}

// NoLayoutFor renders the given actions without layout.
func (c *Class) NoLayoutFor(actions ...string) *Class {
	for _, action := range actions {
		c.noLayout[action] = true
	}
	return c
}

// ViewContext declares the view-context module of the class and all its
// actions. Declaring again replaces the module.
func (c *Class) ViewContext(m *viewcontext.Module) error {
	return c.registry.Declare(c.path, m)
}

// LayoutName returns the layout name in effect for the class: its own,
// else the nearest ancestor's, else DefaultLayout.
func (c *Class) LayoutName() string {
	for class := c; class != nil; class = class.parent {
		if class.layoutSet {
			return class.layout
		}
	}
	return DefaultLayout
}

// HasLayout reports whether action renders inside a layout.
func (c *Class) HasLayout(action string) bool {
	for class := c; class != nil; class = class.parent {
		if class.noLayout[action] {
			return false
		}
	}
	return c.LayoutName() != ""
}

// ActionFunc handles one action. It typically ends by calling Render.
type ActionFunc func(inst *Instance, w http.ResponseWriter, r *http.Request) error

// Env is what instances need to render.
type Env struct {
	Composer *viewcontext.Composer
	Renderer *render.Renderer
	Logger   logicalview.Logger
}

// Handler returns an http.HandlerFunc running fn for action with a fresh
// instance per request. Errors are logged and answered with a 500.
func (c *Class) Handler(env *Env, action string, fn ActionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inst, err := c.New(env, action)
		if err == nil {
			err = fn(inst, w, r)
		}
		if err != nil {
			if env != nil && env.Logger != nil {
				env.Logger.Error("Action failed",
					"controller", c.path,
					"action", action,
					"error", err)
			}
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

// New creates the instance handling one request for action.
func (c *Class) New(env *Env, action string) (*Instance, error) {
	if env == nil {
		return nil, ErrNilEnv
	}
	return &Instance{class: c, action: action, env: env}, nil
}

// Instance is the controller for one request. It implements
// viewcontext.Controller and is not safe for concurrent use.
type Instance struct {
	class  *Class
	action string
	env    *Env

	composition *viewcontext.Composition
}

// Class returns the instance's class.
func (i *Instance) Class() *Class {
	return i.class
}

// ControllerPath implements viewcontext.Controller.
func (i *Instance) ControllerPath() string {
	return i.class.path
}

// ActionName implements viewcontext.Controller.
func (i *Instance) ActionName() string {
	return i.action
}

// ActionHasLayout implements viewcontext.Controller.
func (i *Instance) ActionHasLayout() bool {
	return i.class.HasLayout(i.action)
}

// CurrentLayout implements viewcontext.Controller. It returns the layout's
// template handle when the renderer has one, else the raw layout name, and
// nil when the action has no layout.
func (i *Instance) CurrentLayout() any {
	if !i.ActionHasLayout() {
		return nil
	}
	name := i.class.LayoutName()
	if i.env.Renderer != nil {
		if t, ok := i.env.Renderer.Layout(name); ok {
			return t
		}
	}
	return name
}

// Composition returns the view-context composition of this request,
// composing it on first use.
func (i *Instance) Composition(ctx context.Context) (*viewcontext.Composition, error) {
	if i.composition != nil {
		return i.composition, nil
	}
	comp, err := i.env.Composer.Compose(ctx, i)
	if err != nil {
		return nil, err
	}
	i.composition = comp
	return comp, nil
}

// ViewContext returns a view context for assigns, bound to the renderer
// and to this instance.
func (i *Instance) ViewContext(ctx context.Context, assigns map[string]any) (*viewcontext.ViewContext, error) {
	comp, err := i.Composition(ctx)
	if err != nil {
		return nil, err
	}
	var renderer viewcontext.Renderer
	if i.env.Renderer != nil {
		renderer = i.env.Renderer
	}
	return comp.New(renderer, assigns, i), nil
}

// Render renders the action's view with locals and writes it as HTML.
// Nothing is written when rendering fails.
func (i *Instance) Render(ctx context.Context, w http.ResponseWriter, locals map[string]any) error {
	if i.env.Renderer == nil {
		return viewcontext.ErrNoRenderer
	}
	view, err := i.ViewContext(ctx, locals)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := i.env.Renderer.Render(ctx, &buf, view, i.class.path+"/"+i.action, i.CurrentLayout(), locals); err != nil {
		return fmt.Errorf("rendering %s#%s: %w", i.class.path, i.action, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = buf.WriteTo(w)
	return err
}
