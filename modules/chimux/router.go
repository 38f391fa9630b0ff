package chimux

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

var (
	// ErrInvalidBasePath is returned for a base path that does not start
	// with a slash or ends with one.
	ErrInvalidBasePath = errors.New("chimux: base path must start and must not end with /")

	// ErrInvalidConfig is returned for negative limits.
	ErrInvalidConfig = errors.New("chimux: invalid configuration")

	// ErrConfigType is returned when the config section holds another type.
	ErrConfigType = errors.New("chimux: config section has unexpected type")
)

// BasicRouter is the routing surface other modules mount their handlers on.
type BasicRouter interface {
	Get(pattern string, handler http.HandlerFunc)
	Post(pattern string, handler http.HandlerFunc)
	Mount(pattern string, handler http.Handler)
	Use(middlewares ...func(http.Handler) http.Handler)
	http.Handler
}

// ChiRouterService gives direct access to the underlying chi router.
type ChiRouterService interface {
	ChiRouter() chi.Router
}
