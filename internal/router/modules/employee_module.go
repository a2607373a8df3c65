package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/employee-management-api/internal/interface/http"
)

// EmployeeModule wires the employee CRUD handlers:
// POST /api/employees, GET /api/employees, GET|PUT|DELETE /api/employees/:id
type EmployeeModule struct {
	Handler *handlers.EmployeeHandler
}

func NewEmployeeModule(h *handlers.EmployeeHandler) *EmployeeModule {
	return &EmployeeModule{Handler: h}
}

func (m *EmployeeModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/employees")
	g.POST("", m.Handler.Create)
	g.GET("", m.Handler.List)
	g.GET("/:id", m.Handler.Get)
	g.PUT("/:id", m.Handler.Update)
	g.DELETE("/:id", m.Handler.Delete)
}
