package viewcontext

import (
	"fmt"
	"html/template"
)

// BaseModuleName is the name of the module every composition starts from.
const BaseModuleName = "ViewContext"

// BaseModule returns a fresh base module with the rendering primitives
// every view context exposes:
//
//	format_usd value         "$1234.50"
//	action_name              the controller's action
//	controller_path          the controller's path
//	local name               a view assign, or nil
//	partial name [data]      renders a partial through the view's renderer
//	dict key value ...       builds a map, typically partial data
func BaseModule() *Module {
	return NewModule(BaseModuleName).
		Define("format_usd", formatUSDHelper).
		Define("action_name", func(c *Call) (any, error) {
			if c.View.Controller == nil {
				return "", nil
			}
			return c.View.Controller.ActionName(), nil
		}).
		Define("controller_path", func(c *Call) (any, error) {
			if c.View.Controller == nil {
				return "", nil
			}
			return c.View.Controller.ControllerPath(), nil
		}).
		Define("local", func(c *Call) (any, error) {
			name, err := Arg[string](c, 0)
			if err != nil {
				return nil, err
			}
			return c.View.Assigns[name], nil
		}).
		Define("partial", partialHelper).
		Define("dict", dictHelper)
}

func formatUSDHelper(c *Call) (any, error) {
	value, err := c.Arg(0)
	if err != nil {
		return nil, err
	}
	amount, ok := toFloat(value)
	if !ok {
		return nil, fmt.Errorf("%w: format_usd argument is %T, want a number", ErrArgumentType, value)
	}
	return FormatUSD(amount), nil
}

func partialHelper(c *Call) (any, error) {
	name, err := Arg[string](c, 0)
	if err != nil {
		return nil, err
	}
	if c.View.Renderer == nil {
		return nil, ErrNoRenderer
	}
	var data any = c.View.Assigns
	if len(c.Args) > 1 {
		data = c.Args[1]
	}
	var out template.HTML
	out, err = c.View.Renderer.Partial(name, c.View, data)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func dictHelper(c *Call) (any, error) {
	if len(c.Args)%2 != 0 {
		return nil, fmt.Errorf("%w: dict needs key/value pairs, got %d arguments", ErrMissingArgument, len(c.Args))
	}
	out := make(map[string]any, len(c.Args)/2)
	for i := 0; i < len(c.Args); i += 2 {
		key, err := Arg[string](c, i)
		if err != nil {
			return nil, err
		}
		out[key] = c.Args[i+1]
	}
	return out, nil
}

// FormatUSD formats an amount with a leading "$" and exactly two decimals:
// 19.999 → "$20.00".
func FormatUSD(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
