package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"paysentry.backend/pkg/crypto"
)

func newAdminRouter(t *testing.T, hash string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/reconcile", AdminAuthMiddleware(hash), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAdminAuthMiddleware(t *testing.T) {
	hash, err := crypto.HashAdminKey("operator-key")
	require.NoError(t, err)

	t.Run("valid key passes", func(t *testing.T) {
		r := newAdminRouter(t, hash)
		req := httptest.NewRequest(http.MethodPost, "/reconcile", nil)
		req.Header.Set(AdminKeyHeader, "operator-key")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		r := newAdminRouter(t, hash)
		req := httptest.NewRequest(http.MethodPost, "/reconcile", nil)
		req.Header.Set(AdminKeyHeader, "wrong")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing key rejected", func(t *testing.T) {
		r := newAdminRouter(t, hash)
		req := httptest.NewRequest(http.MethodPost, "/reconcile", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("no configured hash disables endpoint", func(t *testing.T) {
		r := newAdminRouter(t, "")
		req := httptest.NewRequest(http.MethodPost, "/reconcile", nil)
		req.Header.Set(AdminKeyHeader, "anything")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}
