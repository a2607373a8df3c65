package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/employee-management-api/config"
	"github.com/oksasatya/employee-management-api/internal/container"
	"github.com/oksasatya/employee-management-api/internal/interface/middleware"
	"github.com/oksasatya/employee-management-api/pkg/ratelimit"
	"github.com/oksasatya/employee-management-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

func newApp(t *testing.T, limiter ratelimit.Limiter) (*gin.Engine, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	cfg := config.Load()
	cfg.DBDriver = "memory"
	cfg.ThirdPartyStub = true
	cfg.MailSendEnabled = true
	cfg.NotifyTransport = "log"
	cfg.DebugMetricsEnabled = true

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(nil)
	container.SetRedis(nil)
	container.SetBreakers(nil)
	container.SetDispatcher(nil)

	r := gin.New()
	require.NoError(t, middleware.TrustProxies(r, nil, ""))
	r.Use(middleware.RequestIDMiddleware(), middleware.RealIP())
	r.Use(middleware.RateLimit(limiter, middleware.KeyByIP(), middleware.AllowPreflight(), logger))
	reg := NewRegistry(r)
	InitModules(reg)
	reg.RegisterAll()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = container.GetDispatcher().Shutdown(ctx)
	})
	return r, hook
}

func call(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:5555"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const adaJSON = `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","department":"Engineering","salary":125000}`

func TestEmployeeLifecycle(t *testing.T) {
	r, hook := newApp(t, ratelimit.NewMemoryLimiter(ratelimit.Config{Capacity: 100}))

	w := call(r, http.MethodPost, "/api/employees", adaJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = call(r, http.MethodGet, "/api/employees/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodPut, "/api/employees/"+id,
		`{"firstName":"Ada","lastName":"King","email":"ada@example.com","department":"Research","salary":130000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "King", updated["lastName"])
	assert.Equal(t, 130000.0, updated["salary"])

	w = call(r, http.MethodGet, "/api/employees", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = call(r, http.MethodDelete, "/api/employees/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = call(r, http.MethodGet, "/api/employees/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Employee not found with id: "+id)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, container.GetDispatcher().Shutdown(ctx))

	var audited, mailed bool
	for _, e := range hook.AllEntries() {
		if e.Message == "[AUDIT] Employee creation process completed for: "+id {
			audited = true
		}
		if e.Message == "email notification sent to ada@example.com" {
			mailed = true
		}
	}
	assert.True(t, audited, "audit trail written")
	assert.True(t, mailed, "welcome email delivered")
}

func TestRateLimitAppliesToAPI(t *testing.T) {
	r, _ := newApp(t, ratelimit.NewMemoryLimiter(ratelimit.Config{}))

	for i := 0; i < 10; i++ {
		w := call(r, http.MethodGet, "/api/employees", "")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, strconv.Itoa(9-i), w.Header().Get(middleware.RemainingHeader))
	}

	w := call(r, http.MethodGet, "/api/employees", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, middleware.RateLimitMessage, w.Body.String())
}

func TestRateLimitCoversUnknownRoutes(t *testing.T) {
	r, _ := newApp(t, ratelimit.NewMemoryLimiter(ratelimit.Config{}))

	for i := 0; i < 10; i++ {
		w := call(r, http.MethodGet, "/does-not-exist", "")
		require.Equal(t, http.StatusNotFound, w.Code, "request %d", i+1)
		assert.NotEmpty(t, w.Header().Get(middleware.RemainingHeader))
	}

	w := call(r, http.MethodGet, "/does-not-exist", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	w = call(r, http.MethodGet, "/api/employees", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	r, _ := newApp(t, nil)

	w := call(r, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"status":404`)

	w = call(r, http.MethodPatch, "/api/employees", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestDebugVarsExposeBreakers(t *testing.T) {
	r, _ := newApp(t, nil)

	w := call(r, http.MethodGet, "/api/debug/vars", "")
	require.Equal(t, http.StatusOK, w.Code)
	var vars map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&vars))
	assert.Contains(t, string(vars["circuit_breakers"]), EmailBreakerName)
}
