package router

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/employee-management-api/internal/interface/http"
)

// Registry collects modules and mounts them under /api. Global middleware
// belongs on the engine before NewRegistry so that it also covers the
// 404 and 405 handlers.
type Registry struct {
	Engine  *gin.Engine
	API     *gin.RouterGroup
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(handlers.NotFound)
	engine.NoMethod(handlers.MethodNotAllowed)
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

func (r *Registry) Add(mod Module) {
	r.modules = append(r.modules, mod)
}

func (r *Registry) RegisterAll() {
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
