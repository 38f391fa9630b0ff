package viewcontext

import (
	"fmt"
	"html/template"
	"reflect"
)

// Renderer is the rendering side a view context is bound to. The base
// module's partial helper renders through it.
type Renderer interface {
	Partial(name string, view *ViewContext, data any) (template.HTML, error)
}

// ViewContext is one instance of a Composition: the helper surface of a
// single render together with its renderer, assigns and controller.
// A ViewContext belongs to one request and is not safe for concurrent use.
type ViewContext struct {
	composition *Composition

	// Renderer renders partials for the partial helper. It may be nil.
	Renderer Renderer

	// Assigns are the values the controller exposes to the template.
	Assigns map[string]any

	// Controller is the controller being rendered, used for delegation.
	Controller Controller

	memo map[string]any
}

// Composition returns the composition the view context was built from.
func (v *ViewContext) Composition() *Composition {
	return v.composition
}

// Responds reports whether any layer defines the helper.
func (v *ViewContext) Responds(name string) bool {
	for _, m := range v.composition.layers {
		if m.Defines(name) {
			return true
		}
	}
	return false
}

// Call invokes the most specific definition of the helper.
func (v *ViewContext) Call(name string, args ...any) (any, error) {
	result, found, err := v.dispatch(name, len(v.composition.layers)-1, args)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrHelperNotFound, name)
	}
	return result, err
}

// dispatch runs the first definition of name found at or below layer top.
// found is false when no such layer defines name; helper errors are
// returned as they are.
func (v *ViewContext) dispatch(name string, top int, args []any) (result any, found bool, err error) {
	for i := top; i >= 0; i-- {
		helper, ok := v.composition.layers[i].helpers[name]
		if !ok {
			continue
		}
		result, err = helper(&Call{View: v, Name: name, Args: args, layer: i})
		return result, true, err
	}
	return nil, false, nil
}

// FuncMap exposes every helper as a template function taking any arguments.
func (v *ViewContext) FuncMap() template.FuncMap {
	names := v.composition.HelperNames()
	funcs := make(template.FuncMap, len(names))
	for _, name := range names {
		funcs[name] = func(args ...any) (any, error) {
			return v.Call(name, args...)
		}
	}
	return funcs
}

// Memo returns the value cached under key, computing and caching it on the
// first call. Presence is tracked explicitly, so zero results are cached
// too. Errors are returned and not cached.
func (v *ViewContext) Memo(key string, compute func() (any, error)) (any, error) {
	if value, ok := v.memo[key]; ok {
		return value, nil
	}
	value, err := compute()
	if err != nil {
		return nil, err
	}
	v.memo[key] = value
	return value, nil
}

// MemoKey builds a cache key for a helper applied to a slice, identifying
// the slice by its backing array and length.
func MemoKey(helper string, list any) string {
	rv := reflect.ValueOf(list)
	if rv.Kind() != reflect.Slice {
		return fmt.Sprintf("%s:%v", helper, list)
	}
	return fmt.Sprintf("%s:%x:%d", helper, rv.Pointer(), rv.Len())
}

// Call is a single helper invocation.
type Call struct {
	// View is the view context the helper runs in.
	View *ViewContext

	// Name is the helper name.
	Name string

	// Args are the arguments the helper was called with.
	Args []any

	layer int
}

// Super invokes the next more general definition of the helper with the
// same arguments. It returns ErrNoSuperHelper when there is none.
func (c *Call) Super() (any, error) {
	return c.SuperWith(c.Args...)
}

// SuperWith is Super with different arguments.
func (c *Call) SuperWith(args ...any) (any, error) {
	result, found, err := c.View.dispatch(c.Name, c.layer-1, args)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNoSuperHelper, c.Name)
	}
	return result, err
}

// Arg returns argument i or ErrMissingArgument.
func (c *Call) Arg(i int) (any, error) {
	if i < 0 || i >= len(c.Args) {
		return nil, fmt.Errorf("%w: %s needs argument %d", ErrMissingArgument, c.Name, i+1)
	}
	return c.Args[i], nil
}

// Locals returns argument i as a locals map. Templates pass their data,
// which is either a map[string]any or a value with a Locals method.
func (c *Call) Locals(i int) (map[string]any, error) {
	arg, err := c.Arg(i)
	if err != nil {
		return nil, err
	}
	switch locals := arg.(type) {
	case map[string]any:
		return locals, nil
	case interface{ Locals() map[string]any }:
		return locals.Locals(), nil
	case nil:
		return map[string]any{}, nil
	default:
		return nil, fmt.Errorf("%w: %s argument %d is %T, want locals", ErrArgumentType, c.Name, i+1, arg)
	}
}

// Arg converts argument i of call to T.
func Arg[T any](c *Call, i int) (T, error) {
	var zero T
	arg, err := c.Arg(i)
	if err != nil {
		return zero, err
	}
	value, ok := arg.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s argument %d is %T, want %T", ErrArgumentType, c.Name, i+1, arg, zero)
	}
	return value, nil
}
