// Package render executes html/template views inside their layouts, with
// the helpers of a composed view context bound as template functions.
//
// Templates are addressed by virtual path, the file path below the template
// root without extension: "layouts/application", "randoms/index". Partials
// are files whose base name starts with an underscore and are addressed
// without it, so "randoms/_person.html" renders as "randoms/person".
//
// Every template is parsed once with placeholder functions for all helper
// names and is cloned and bound to the request's helpers on execution.
package render

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/GoCodeAlone/logicalview"
	"github.com/GoCodeAlone/logicalview/viewcontext"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

//go:embed all:templates
var embedded embed.FS

const tracerName = "github.com/GoCodeAlone/logicalview/render"

// YieldFunc is the function a layout calls to insert the rendered view.
const YieldFunc = "yield"

var (
	// ErrTemplateNotFound is returned when no template has the requested path.
	ErrTemplateNotFound = errors.New("render: template not found")

	// ErrLayoutNotFound is returned when an action's layout has no template.
	ErrLayoutNotFound = errors.New("render: layout not found")

	// ErrNilView is returned when rendering without a view context.
	ErrNilView = errors.New("render: view context is nil")

	// ErrReloadWithoutDir is returned when reload is enabled for embedded templates.
	ErrReloadWithoutDir = errors.New("render: reload requires a template dir")
)

// Template is a parsed template and its virtual path.
type Template struct {
	path string
	tmpl *template.Template
}

// VirtualPath implements viewcontext.Template.
func (t *Template) VirtualPath() string {
	return t.path
}

func (t *Template) execute(funcs template.FuncMap, data any) ([]byte, error) {
	clone, err := t.tmpl.Clone()
	if err != nil {
		return nil, fmt.Errorf("cloning %s: %w", t.path, err)
	}

	var buf bytes.Buffer
	if err := clone.Funcs(funcs).Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing %s: %w", t.path, err)
	}
	return buf.Bytes(), nil
}

// Renderer holds the parsed template set. It is safe for concurrent use;
// Load swaps the whole set atomically.
type Renderer struct {
	config      *Config
	fsys        fs.FS
	helperNames []string

	mu        sync.RWMutex
	templates map[string]*Template

	logger  logicalview.Logger
	subject logicalview.Subject
	tracer  trace.Tracer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the renderer's logger.
func WithLogger(logger logicalview.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// WithSubject sets the subject render events are emitted to.
func WithSubject(subject logicalview.Subject) Option {
	return func(r *Renderer) {
		r.subject = subject
	}
}

// WithTracerProvider sets the tracer provider for render spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Renderer) {
		r.tracer = tp.Tracer(tracerName)
	}
}

// WithFS replaces the template file system.
func WithFS(fsys fs.FS) Option {
	return func(r *Renderer) {
		r.fsys = fsys
	}
}

// New creates a renderer and loads its templates. helperNames are the
// template functions views may call; they must cover every helper of every
// registered view-context module.
func New(cfg *Config, helperNames []string, opts ...Option) (*Renderer, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}

	r := &Renderer{
		config:      cfg,
		helperNames: helperNames,
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.fsys == nil {
		if cfg.Dir != "" {
			r.fsys = os.DirFS(cfg.Dir)
		} else {
			sub, err := fs.Sub(embedded, "templates")
			if err != nil {
				return nil, fmt.Errorf("opening embedded templates: %w", err)
			}
			r.fsys = sub
		}
	}

	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Load parses every template below the root and replaces the template set.
// On error the previous set stays in place.
func (r *Renderer) Load() error {
	placeholders := r.placeholderFuncs()
	templates := make(map[string]*Template)

	err := fs.WalkDir(r.fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && name != "." {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || path.Ext(name) != r.config.Extension {
			return nil
		}

		body, err := fs.ReadFile(r.fsys, name)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", name, err)
		}

		virtualPath := virtualPathOf(name, r.config.Extension)
		tmpl, err := template.New(virtualPath).Funcs(placeholders).Parse(string(body))
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		templates[virtualPath] = &Template{path: virtualPath, tmpl: tmpl}
		return nil
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.templates = templates
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Debug("Loaded templates", "count", len(templates))
	}
	return nil
}

// placeholderFuncs makes every helper name parseable before any view
// context exists.
func (r *Renderer) placeholderFuncs() template.FuncMap {
	funcs := make(template.FuncMap, len(r.helperNames)+1)
	placeholder := func(...any) (any, error) { return nil, nil }
	for _, name := range r.helperNames {
		funcs[name] = placeholder
	}
	funcs[YieldFunc] = func() template.HTML { return "" }
	return funcs
}

// Lookup returns the template at a virtual path.
func (r *Renderer) Lookup(virtualPath string) (*Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[virtualPath]
	return t, ok
}

// Layout returns the template of a layout by name, e.g. "application".
func (r *Renderer) Layout(name string) (*Template, bool) {
	return r.Lookup(viewcontext.LayoutsDir + name)
}

// VirtualPaths returns the paths of all loaded templates.
func (r *Renderer) VirtualPaths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := make([]string, 0, len(r.templates))
	for p := range r.templates {
		paths = append(paths, p)
	}
	return paths
}

// Render executes the view at virtualPath with the view context's helpers
// and writes it to w, wrapped in layout when one is given. layout is a
// *Template, a layout name, or nil for no layout. Nothing is written on
// error.
func (r *Renderer) Render(ctx context.Context, w io.Writer, view *viewcontext.ViewContext, virtualPath string, layout any, data any) (err error) {
	_, span := r.tracer.Start(ctx, "render.template",
		trace.WithAttributes(attribute.String("template", virtualPath)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logicalview.Emit(ctx, r.subject, r.logger, logicalview.EventTypeTemplateFailed, "render", map[string]any{
				"template": virtualPath,
				"error":    err.Error(),
			})
		} else {
			logicalview.Emit(ctx, r.subject, r.logger, logicalview.EventTypeTemplateRendered, "render", map[string]any{
				"template": virtualPath,
				"layout":   viewcontext.LayoutName(layout),
			})
		}
		span.End()
	}()

	if view == nil {
		return ErrNilView
	}

	page, ok := r.Lookup(virtualPath)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, virtualPath)
	}

	wrapper, err := r.resolveLayout(layout)
	if err != nil {
		return err
	}
	if wrapper != nil {
		span.SetAttributes(attribute.String("layout", wrapper.VirtualPath()))
	}

	funcs := view.FuncMap()
	body, err := page.execute(funcs, data)
	if err != nil {
		return err
	}

	out := body
	if wrapper != nil {
		funcs[YieldFunc] = func() template.HTML { return template.HTML(body) }
		out, err = wrapper.execute(funcs, data)
		if err != nil {
			return err
		}
	}

	_, err = w.Write(out)
	return err
}

func (r *Renderer) resolveLayout(layout any) (*Template, error) {
	switch l := layout.(type) {
	case nil:
		return nil, nil
	case *Template:
		if l == nil {
			return nil, nil
		}
		return l, nil
	case viewcontext.Template:
		t, ok := r.Lookup(l.VirtualPath())
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, l.VirtualPath())
		}
		return t, nil
	default:
		name := viewcontext.LayoutName(l)
		t, ok := r.Layout(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, name)
		}
		return t, nil
	}
}

// Partial implements viewcontext.Renderer.
func (r *Renderer) Partial(name string, view *viewcontext.ViewContext, data any) (template.HTML, error) {
	dir, base := path.Split(name)
	t, ok := r.Lookup(dir + "_" + base)
	if !ok {
		return "", fmt.Errorf("%w: partial %s", ErrTemplateNotFound, name)
	}
	out, err := t.execute(view.FuncMap(), data)
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}

func virtualPathOf(name, ext string) string {
	return strings.TrimSuffix(path.Clean(name), ext)
}
