package viewcontext

import "errors"

var (
	// ErrHelperNotFound is returned when no layer defines the called helper.
	ErrHelperNotFound = errors.New("viewcontext: helper not found")

	// ErrNoSuperHelper is returned by Call.Super when no more general layer
	// defines the helper.
	ErrNoSuperHelper = errors.New("viewcontext: no super helper")

	// ErrMissingArgument is returned when a helper is called with fewer
	// arguments than it needs.
	ErrMissingArgument = errors.New("viewcontext: missing argument")

	// ErrArgumentType is returned when a helper argument has the wrong type.
	ErrArgumentType = errors.New("viewcontext: wrong argument type")

	// ErrRegistrySealed is returned by registry writes after Seal.
	ErrRegistrySealed = errors.New("viewcontext: registry is sealed")

	// ErrModuleConflict is returned when two different modules are
	// registered under the same name.
	ErrModuleConflict = errors.New("viewcontext: module already registered")

	// ErrNilModule is returned when registering or declaring a nil module.
	ErrNilModule = errors.New("viewcontext: module is nil")

	// ErrNilController is returned when composing without a controller.
	ErrNilController = errors.New("viewcontext: controller is nil")

	// ErrNoRenderer is returned by the partial helper when the view context
	// has no renderer.
	ErrNoRenderer = errors.New("viewcontext: no renderer")
)
