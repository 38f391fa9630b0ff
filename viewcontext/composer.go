package viewcontext

import (
	"context"

	"github.com/GoCodeAlone/logicalview"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/GoCodeAlone/logicalview/viewcontext"

// Controller is the controller side of a render: it names the controller
// and action and reports the layout the action renders with.
type Controller interface {
	// ControllerPath is the hierarchical controller name, e.g. "admin/randoms".
	ControllerPath() string

	// ActionName is the action being rendered, e.g. "index".
	ActionName() string

	// ActionHasLayout reports whether the action renders inside a layout.
	ActionHasLayout() bool

	// CurrentLayout returns the layout for the action: a Template handle,
	// a raw layout name, or nil.
	CurrentLayout() any
}

// Composer builds compositions from the registry.
type Composer struct {
	registry *Registry
	base     *Module
	logger   logicalview.Logger
	subject  logicalview.Subject
	tracer   trace.Tracer
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithBaseModule replaces the base module every composition starts from.
func WithBaseModule(m *Module) ComposerOption {
	return func(c *Composer) {
		c.base = m
	}
}

// WithLogger sets the logger compositions are reported to.
func WithLogger(logger logicalview.Logger) ComposerOption {
	return func(c *Composer) {
		c.logger = logger
	}
}

// WithSubject sets the subject EventTypeViewContextComposed events go to.
func WithSubject(subject logicalview.Subject) ComposerOption {
	return func(c *Composer) {
		c.subject = subject
	}
}

// WithTracerProvider sets the tracer provider for compose spans. The
// global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) ComposerOption {
	return func(c *Composer) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// NewComposer creates a composer over registry.
func NewComposer(registry *Registry, opts ...ComposerOption) *Composer {
	c := &Composer{
		registry: registry,
		base:     BaseModule(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry the composer resolves modules from.
func (c *Composer) Registry() *Registry {
	return c.registry
}

// Compose resolves the controller module and, when the action has a
// layout, the layout module, and orders them on top of the base module.
// Modules that do not resolve are left out without error.
func (c *Composer) Compose(ctx context.Context, controller Controller) (*Composition, error) {
	if controller == nil {
		return nil, ErrNilController
	}

	ctx, span := c.tracer.Start(ctx, "viewcontext.compose",
		trace.WithAttributes(
			attribute.String("controller", controller.ControllerPath()),
			attribute.String("action", controller.ActionName()),
		))
	defer span.End()

	page, _ := c.registry.Declared(controller.ControllerPath())

	var layout *Module
	if controller.ActionHasLayout() {
		layout, _ = c.registry.ResolveLayout(controller.CurrentLayout())
	}

	comp := newComposition(c.base, layout, page)

	span.SetAttributes(
		attribute.String("layout_module", comp.LayoutModuleName()),
		attribute.String("controller_module", comp.PageModuleName()),
		attribute.Int("layers", len(comp.layers)),
	)

	if c.logger != nil {
		c.logger.Debug("Composed view context",
			"controller", controller.ControllerPath(),
			"action", controller.ActionName(),
			"layout_module", comp.LayoutModuleName(),
			"controller_module", comp.PageModuleName())
	}

	logicalview.Emit(ctx, c.subject, c.logger, logicalview.EventTypeViewContextComposed, "viewcontext", map[string]any{
		"controller":        controller.ControllerPath(),
		"action":            controller.ActionName(),
		"layout_module":     comp.LayoutModuleName(),
		"controller_module": comp.PageModuleName(),
		"layers":            comp.LayerNames(),
	})

	return comp, nil
}

// Composition is an ordered stack of modules, from most general (the base
// module) to most specific (the controller module). It plays the part of a
// type synthesized for one request and is instantiated with New.
type Composition struct {
	layers []*Module
	layout *Module
	page   *Module
}

func newComposition(base, layout, page *Module) *Composition {
	comp := &Composition{layout: layout, page: page}
	seen := make(map[*Module]bool)
	for _, m := range []*Module{base, layout, page} {
		if m == nil {
			continue
		}
		for _, ancestor := range m.Ancestors() {
			if seen[ancestor] {
				continue
			}
			seen[ancestor] = true
			comp.layers = append(comp.layers, ancestor)
		}
	}
	return comp
}

// LayoutModule returns the layout module, or nil.
func (c *Composition) LayoutModule() *Module {
	return c.layout
}

// PageModule returns the controller module, or nil.
func (c *Composition) PageModule() *Module {
	return c.page
}

// LayoutModuleName returns the layout module's name or "".
func (c *Composition) LayoutModuleName() string {
	if c.layout == nil {
		return ""
	}
	return c.layout.Name()
}

// PageModuleName returns the controller module's name or "".
func (c *Composition) PageModuleName() string {
	if c.page == nil {
		return ""
	}
	return c.page.Name()
}

// LayerNames returns the module names in resolution order, most general first.
func (c *Composition) LayerNames() []string {
	names := make([]string, len(c.layers))
	for i, m := range c.layers {
		names[i] = m.Name()
	}
	return names
}

// HelperNames returns every helper name available in the composition.
func (c *Composition) HelperNames() []string {
	set := make(map[string]bool)
	var names []string
	for _, m := range c.layers {
		for _, name := range m.HelperNames() {
			if !set[name] {
				set[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// New instantiates the composition for one render.
func (c *Composition) New(renderer Renderer, assigns map[string]any, controller Controller) *ViewContext {
	if assigns == nil {
		assigns = map[string]any{}
	}
	return &ViewContext{
		composition: c,
		Renderer:    renderer,
		Assigns:     assigns,
		Controller:  controller,
		memo:        make(map[string]any),
	}
}
