package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/users-backend/internal/application"
	"github.com/oksasatya/users-backend/internal/domain/entity"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *application.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := application.NewTokenService(application.TokenConfig{
		Secret:         []byte("test-signing-key-test-signing-key"),
		Issuer:         "users-backend",
		Audience:       "users-backend-clients",
		AccessTTL:      15 * time.Minute,
		RefreshTTLDays: 7,
	})

	r := gin.New()
	authed := r.Group("/", Auth(tokens))
	authed.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"uid":   c.GetString(CtxUserIDKey),
			"email": c.GetString(CtxUserEmailKey),
			"role":  c.GetString(CtxUserRoleKey),
		})
	})
	authed.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r, tokens
}

func TestAuthBearerHeader(t *testing.T) {
	r, tokens := newAuthRouter(t)
	userID := uuid.NewString()
	signed, _, err := tokens.GenerateAccessToken(userID, "ana@example.com", entity.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID)
	assert.Contains(t, w.Body.String(), "ana@example.com")
}

func TestAuthCookie(t *testing.T) {
	r, tokens := newAuthRouter(t)
	signed, _, err := tokens.GenerateAccessToken(uuid.NewString(), "ana@example.com", entity.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: signed})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMissingToken(t *testing.T) {
	r, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	r, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	r, _ := newAuthRouter(t)
	expired := application.NewTokenService(application.TokenConfig{
		Secret:         []byte("test-signing-key-test-signing-key"),
		Issuer:         "users-backend",
		Audience:       "users-backend-clients",
		AccessTTL:      -time.Minute,
		RefreshTTLDays: 7,
	})
	signed, _, err := expired.GenerateAccessToken(uuid.NewString(), "ana@example.com", entity.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r, tokens := newAuthRouter(t)

	userToken, _, err := tokens.GenerateAccessToken(uuid.NewString(), "ana@example.com", entity.RoleUser)
	require.NoError(t, err)
	adminToken, _, err := tokens.GenerateAccessToken(uuid.NewString(), "root@example.com", entity.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
