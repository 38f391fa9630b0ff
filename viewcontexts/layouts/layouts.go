// Package layouts provides the view-context modules of the application
// layouts.
package layouts

import (
	"github.com/GoCodeAlone/logicalview/viewcontext"
)

const (
	// StylesModuleName names the module shared by layouts that tag the body
	// with template class names.
	StylesModuleName = "LayoutStyles"

	// ApplicationModuleName is the module of the "application" layout.
	ApplicationModuleName = "Layouts::ApplicationViewContext"

	// DefaultTitle is the page title when no page module overrides it.
	DefaultTitle = "LogicalView"
)

// Styles returns the LayoutStyles module. Its template_class_names helper
// takes a controller path and an action and reads the active layout from
// the view's controller.
func Styles() *viewcontext.Module {
	return viewcontext.NewModule(StylesModuleName).
		Define("template_class_names", func(c *viewcontext.Call) (any, error) {
			controller, err := viewcontext.Arg[string](c, 0)
			if err != nil {
				return nil, err
			}
			action, err := viewcontext.Arg[string](c, 1)
			if err != nil {
				return nil, err
			}

			var (
				layout    any
				hasLayout bool
			)
			if ctrl := c.View.Controller; ctrl != nil {
				hasLayout = ctrl.ActionHasLayout()
				if hasLayout {
					layout = ctrl.CurrentLayout()
				}
			}
			return viewcontext.TemplateClassNames(layout, hasLayout, controller, action), nil
		})
}

// Application returns the module of the "application" layout. title takes
// the view locals and ignores them.
func Application(styles *viewcontext.Module) *viewcontext.Module {
	return viewcontext.NewModule(ApplicationModuleName).
		Include(styles).
		Define("title", func(*viewcontext.Call) (any, error) {
			return DefaultTitle, nil
		})
}

// Register loads the layout modules into registry.
func Register(registry *viewcontext.Registry) error {
	return registry.Register(Application(Styles()))
}
