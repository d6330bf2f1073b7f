// Package router assembles feature modules onto the shared /api group.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Module is a feature area that owns a slice of the route table.
type Module interface {
	Name() string
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and group-level middleware, then mounts everything
// under /api in one pass.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup

	logger      *logrus.Logger
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine, logger *logrus.Logger) *Registry {
	return &Registry{
		Engine: engine,
		API:    engine.Group("/api"),
		logger: logger,
	}
}

// Use appends middleware applied to the whole /api group at RegisterAll time.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
		r.logger.WithField("module", m.Name()).Debug("routes registered")
	}
}
