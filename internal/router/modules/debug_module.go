package modules

import (
	"expvar"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/employee-management-api/pkg/breaker"
)

var (
	publishOnce sync.Once
	current     atomic.Pointer[breaker.Registry]
)

// DebugModule exposes expvar, including circuit breaker state.
type DebugModule struct {
	Breakers *breaker.Registry
}

func NewDebugModule(b *breaker.Registry) *DebugModule { return &DebugModule{Breakers: b} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	current.Store(m.Breakers)
	// expvar names can only be published once per process
	publishOnce.Do(func() {
		expvar.Publish("circuit_breakers", expvar.Func(func() any {
			if reg := current.Load(); reg != nil {
				return reg.Snapshot()
			}
			return map[string]any{}
		}))
	})
	rg.GET("/debug/vars", gin.WrapH(expvar.Handler()))
}
