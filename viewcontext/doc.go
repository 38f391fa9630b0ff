// Package viewcontext composes the helper surface a template renders with.
//
// A view context is built per request from up to three kinds of helper
// modules, ordered from most general to most specific:
//
//   - the base module (currency formatting, controller delegation, partials)
//   - the layout module, found by deriving a symbolic name from the active
//     layout ("layouts/application" → "Layouts::ApplicationViewContext")
//   - the controller module, declared for a controller path and inherited by
//     child controllers
//
// Modules are registered once in a [Registry] and the registry is sealed
// before requests are served. A [Composer] turns a controller into a
// [Composition], the equivalent of a synthesized type, and the composition
// is instantiated into a [ViewContext] bound to the renderer, the view
// assigns and the controller.
//
// Helpers are plain functions. When two layers define the same helper the
// more specific one wins, and it may call [Call.Super] to reach the next more
// general definition:
//
//	page := viewcontext.NewModule("RandomsViewContext").
//		Define("title", func(c *viewcontext.Call) (any, error) {
//			if c.View.Controller.ActionName() != "index" {
//				return c.Super()
//			}
//			return "Random People", nil
//		})
//
// Names that do not resolve to a registered module are not errors: the slot
// is simply left out of the composition.
package viewcontext
