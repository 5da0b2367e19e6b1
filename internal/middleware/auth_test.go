package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetledger/internal/auth"
	"fleetledger/internal/config"
)

func setAuthTestEnvs() {
	config.Envs.JWTSecret = "test-secret-at-least-this-long-for-hs256-xxxxxx"
	config.Envs.JWTIssuer = "fleetledger-test"
	config.Envs.JWTAudience = "fleetledger-api-test"
	config.Envs.JWTTTL = time.Hour
}

func TestAuthenticate_RejectsMissingHeader(t *testing.T) {
	r := gin.New()
	r.Use(Authenticate())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_RejectsMalformedHeader(t *testing.T) {
	r := gin.New()
	r.Use(Authenticate())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "NotBearer sometoken")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_AcceptsValidToken(t *testing.T) {
	setAuthTestEnvs()
	token, err := auth.IssueToken("user-1", "ops@example.com", []string{"ADMIN"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(Authenticate())
	r.GET("/ping", func(c *gin.Context) {
		uid, _ := c.Get("UserID")
		assert.Equal(t, "user-1", uid)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoles_AllowsMatchingRole(t *testing.T) {
	r := gin.New()
	r.GET("/ping", func(c *gin.Context) {
		c.Set("Roles", []string{"FLEET_MANAGER"})
		c.Next()
	}, RequireRoles("ADMIN", "FLEET_MANAGER"), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoles_RejectsMissingRole(t *testing.T) {
	r := gin.New()
	r.GET("/ping", func(c *gin.Context) {
		c.Set("Roles", []string{"RENTAL_AGENT"})
		c.Next()
	}, RequireRoles("ADMIN", "FLEET_MANAGER"), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoles_RejectsNoPrincipal(t *testing.T) {
	r := gin.New()
	r.Use(RequireRoles("ADMIN"))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminSecret(t *testing.T) {
	config.Envs.AdminSecret = "super-secret"
	r := gin.New()
	r.Use(RequireAdminSecret())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	reqOK := httptest.NewRequest(http.MethodGet, "/ping", nil)
	reqOK.Header.Set("x-admin-secret", "super-secret")
	wOK := httptest.NewRecorder()
	r.ServeHTTP(wOK, reqOK)
	assert.Equal(t, http.StatusOK, wOK.Code)

	reqBad := httptest.NewRequest(http.MethodGet, "/ping", nil)
	reqBad.Header.Set("x-admin-secret", "wrong")
	wBad := httptest.NewRecorder()
	r.ServeHTTP(wBad, reqBad)
	assert.Equal(t, http.StatusForbidden, wBad.Code)
}
