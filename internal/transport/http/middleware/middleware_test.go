package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"account-service/internal/domain"
	"account-service/internal/transport/http/ez"
)

func init() { gin.SetMode(gin.TestMode) }

type fakeResolver map[string]*domain.Account

func (f fakeResolver) CurrentAccount(_ context.Context, token string) (*domain.Account, error) {
	if token == "down" {
		return nil, fmt.Errorf("%w: redis timeout", domain.ErrUnavailable)
	}
	a, ok := f[token]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return a, nil
}

func serve(r *gin.Engine, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthJWT(t *testing.T) {
	ids := fakeResolver{
		"user-token":  {ID: "u1", Roles: domain.NewRoleSet(domain.RoleUser)},
		"admin-token": {ID: "a1", Roles: domain.NewRoleSet(domain.RoleUser, domain.RoleAdmin)},
	}
	r := gin.New()
	r.GET("/me", AuthJWT(ids, zap.NewNop()), func(c *gin.Context) { c.String(http.StatusOK, ez.Actor(c).ID) })
	r.GET("/admin", AuthJWT(ids, zap.NewNop(), domain.RoleAdmin, domain.RoleSuperadmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
	assert.Contains(t, w.Body.String(), ez.MsgBadToken)

	w = serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Basic abc"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), ez.MsgBadToken)

	w = serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "bearer user-token"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	w = serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer down"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = serve(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer user-token"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(r, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer admin-token"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, ez.RequestID(c)) })

	w := serve(r, http.MethodGet, "/", map[string]string{ez.KeyRequestID: "abc"})
	assert.Equal(t, "abc", w.Header().Get(ez.KeyRequestID))
	assert.Equal(t, "abc", w.Body.String())

	w = serve(r, http.MethodGet, "/", nil)
	assert.NotEmpty(t, w.Header().Get(ez.KeyRequestID))
	assert.Equal(t, w.Header().Get(ez.KeyRequestID), w.Body.String())
}

func TestAccessLog_MasksSecretsAndCarriesRID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	serve(r, http.MethodGet, "/x?password=hunter2&q=ok", map[string]string{ez.KeyRequestID: "rid-1"})
	serve(r, http.MethodGet, "/missing", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	f := entries[0].ContextMap()
	assert.Equal(t, "rid-1", f["rid"])
	q := f["query"].(map[string][]string)
	assert.Equal(t, []string{"****"}, q["password"])
	assert.Equal(t, []string{"ok"}, q["q"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) { <-c.Request.Context().Done() })

	w := serve(r, http.MethodGet, "/slow", nil)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal error")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := gin.New()
	r.Use(Metrics(reg))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/ok", nil)
	serve(r, http.MethodGet, "/nowhere", nil)

	n, err := testutil.GatherAndCount(reg, "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
