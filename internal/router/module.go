package router

import "github.com/gin-gonic/gin"

// Module is a feature that mounts its routes under the /api group.
type Module interface {
	Register(api *gin.RouterGroup)
}
