package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewRouter_CORS(t *testing.T) {
	r := NewRouter(zap.NewNop(), Options{Name: "t", Mode: gin.TestMode, CorsOrigins: []string{"https://app.example.com"}})
	r.PATCH("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestModeFor(t *testing.T) {
	assert.Equal(t, gin.ReleaseMode, ModeFor("prod"))
	assert.Equal(t, gin.DebugMode, ModeFor("local"))
}

func TestBuildServer(t *testing.T) {
	srv := BuildServer(Addr("127.0.0.1", 8080), http.NewServeMux(), time.Second, 2*time.Second, 3*time.Second)
	assert.Equal(t, "127.0.0.1:8080", srv.Addr)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
}
