package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanJo0775/Veterinaria-sistema/pkg/auth"
)

const testSecret = "test-secret"

func signToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		UserID: "user-1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func setupRouter(requireAdmin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(auth.NewVerifier(testSecret))

	r := gin.New()
	handlers := []gin.HandlerFunc{m.Authenticate()}
	if requireAdmin {
		handlers = append(handlers, m.RequireAdmin())
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(ContextUserID)})
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	r := setupRouter(false)

	w := doRequest(r, "Bearer "+signToken(t, "staff"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestAuthenticateRejects(t *testing.T) {
	r := setupRouter(false)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	r := setupRouter(true)

	w := doRequest(r, "Bearer "+signToken(t, auth.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, "Bearer "+signToken(t, "staff"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
