package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/auth"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/permission"
	"github.com/Saaayurii/Chat-sub000/internal/infrastructure/ratelimit"
	"github.com/Saaayurii/Chat-sub000/internal/shared/constants"
	"github.com/Saaayurii/Chat-sub000/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(t *testing.T, supervisors ...string) (*gin.Engine, *auth.JWTService, *PermissionMiddleware) {
	t.Helper()
	jwtSvc := auth.NewJWTService("secret")
	enforcer, err := permission.NewEnforcer(nil, supervisors, logger.NewNop())
	require.NoError(t, err)

	authMW := NewAuthMiddleware(jwtSvc, enforcer, logger.NewNop())
	permMW := NewPermissionMiddleware(enforcer, logger.NewNop())

	r := gin.New()
	r.Use(authMW.RequireOperator())
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyOperatorID)+"/"+c.GetString(constants.ContextKeyOperatorRole))
	})
	r.POST("/bulk", permMW.RequirePermission(permission.ResourceAssignment, permission.ActionBulkAssign), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, jwtSvc, permMW
}

func TestRequireOperator(t *testing.T) {
	r, jwtSvc, _ := newEngine(t, "sup-1")

	token, err := jwtSvc.Sign("op-a", time.Minute)
	require.NoError(t, err)

	t.Run("bearer header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "op-a/operator", w.Body.String())
	})

	t.Run("query token", func(t *testing.T) {
		supToken, err := jwtSvc.Sign("sup-1", time.Minute)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami?token="+supToken, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "sup-1/supervisor", w.Body.String())
	})

	t.Run("missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Token "+token)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer nope")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequirePermission(t *testing.T) {
	r, jwtSvc, _ := newEngine(t, "sup-1")

	call := func(operatorID string) int {
		token, err := jwtSvc.Sign(operatorID, time.Minute)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/bulk", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, call("op-a"))
	assert.Equal(t, http.StatusNoContent, call("sup-1"))
}

type failingChecker struct{}

func (failingChecker) Enforce(string, string, string) (bool, error) {
	return false, errors.New("model broken")
}

func TestPermission_CheckerErrorDenies(t *testing.T) {
	m := NewPermissionMiddleware(failingChecker{}, logger.NewNop())
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(constants.ContextKeyOperatorID, "op-a")
	c.Set(constants.ContextKeyOperatorRole, permission.RoleSupervisor)

	assert.False(t, m.Allowed(c, permission.ResourceQueue, permission.ActionAssignFor))
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := ratelimit.NewRedisRateLimiter(client)
	m := NewRateLimitMiddleware(limiter, ratelimit.Policy{Requests: 2, Window: time.Minute}, logger.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyOperatorID, c.GetHeader("X-Operator"))
		c.Next()
	})
	r.Use(m.Limit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(op string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Operator", op)
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, call("op-a").Code)
	second := call("op-a")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, call("op-a").Code)

	// separate budget per operator
	assert.Equal(t, http.StatusOK, call("op-b").Code)

	assert.Equal(t, http.StatusTooManyRequests, call("op-a").Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	m := NewRateLimitMiddleware(ratelimit.NewRedisRateLimiter(client), ratelimit.Policy{Requests: 1, Window: time.Minute}, logger.NewNop())
	r := gin.New()
	r.Use(m.Limit())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://console.example"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://console.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://console.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNop()))
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
