package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("tramites", "/requisiciones")
	group.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/requisiciones/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterMiddlewareApplied(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusTeapot)
	})

	group := NewDomainGroup("tramites", "/reposiciones")
	group.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reposiciones", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestDomainGroupSubgroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	parent := NewDomainGroup("notificaciones", "/notificaciones")
	sub := parent.Group("subscription", "/subscription")
	sub.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Register(parent)
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/notificaciones/subscription", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "notificaciones", parent.Name())
	assert.Equal(t, "/subscription", sub.Prefix())
}
