package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/invo/backend/internal/infrastructure/auth"
	"github.com/invo/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-with-enough-length",
		AccessTokenExpiration: time.Hour,
		Issuer:                "invo-backend-test",
	})
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newJWTService(t)
	userID := uuid.New()
	token, _, err := svc.GenerateAccessToken(userID, "asha")
	require.NoError(t, err)

	router := gin.New()
	router.Use(JWTAuthMiddleware(svc, nil))
	router.GET("/", func(c *gin.Context) {
		assert.Equal(t, userID.String(), GetJWTUserID(c))
		actor := GetJWTUserUUID(c)
		require.NotNil(t, actor)
		assert.Equal(t, userID, *actor)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_MissingToken(t *testing.T) {
	router := gin.New()
	router.Use(JWTAuthMiddleware(newJWTService(t), nil))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	expired := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-with-enough-length",
		AccessTokenExpiration: -time.Minute,
		Issuer:                "invo-backend-test",
	})
	token, _, err := expired.GenerateAccessToken(uuid.New(), "asha")
	require.NoError(t, err)

	router := gin.New()
	router.Use(JWTAuthMiddleware(newJWTService(t), nil))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	svc := newJWTService(t)
	userID := uuid.New()
	token, _, err := svc.GenerateAccessToken(userID, "asha")
	require.NoError(t, err)

	router := gin.New()
	router.Use(OptionalJWTAuthMiddleware(svc))
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})

	// anonymous request passes through
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)

	// garbage token is ignored rather than rejected
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// valid token populates the context
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}
