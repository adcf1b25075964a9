// Package router assembles the portal's route tree: an unauthenticated
// surface, a session-authenticated surface and the per-account surface that
// additionally carries the account context.
package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts a handler's routes on a route group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router wires route registrars onto the gin engine
type Router struct {
	engine        *gin.Engine
	apiVersion    string
	sessionAuth   gin.HandlerFunc
	accountCtx    gin.HandlerFunc
	sessionScoped []RouteRegistrar
	accountScoped []RouteRegistrar
}

// Option configures the Router
type Option func(*Router)

// WithAPIVersion overrides the API version prefix
func WithAPIVersion(version string) Option {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// New creates a Router. sessionAuth guards everything under the API prefix;
// accountCtx additionally guards the per-account group.
func New(engine *gin.Engine, sessionAuth, accountCtx gin.HandlerFunc, opts ...Option) *Router {
	r := &Router{
		engine:      engine,
		apiVersion:  "v1",
		sessionAuth: sessionAuth,
		accountCtx:  accountCtx,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterSessionScoped adds a registrar mounted behind session auth only
func (r *Router) RegisterSessionScoped(registrar RouteRegistrar) *Router {
	r.sessionScoped = append(r.sessionScoped, registrar)
	return r
}

// RegisterAccountScoped adds a registrar mounted behind session auth and
// the account context
func (r *Router) RegisterAccountScoped(registrar RouteRegistrar) *Router {
	r.accountScoped = append(r.accountScoped, registrar)
	return r
}

// Setup mounts all registered routes
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	api.Use(r.sessionAuth)
	for _, registrar := range r.sessionScoped {
		registrar.RegisterRoutes(api)
	}

	account := api.Group("/account/:accountExternalId")
	account.Use(r.accountCtx)
	for _, registrar := range r.accountScoped {
		registrar.RegisterRoutes(account)
	}
}
