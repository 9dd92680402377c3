package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthRequired, func(c *gin.Context) {
		userID, err := JWT_decoder(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	return router
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := parseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestParseTokenWithBearerPrefix(t *testing.T) {
	token, err := GenerateToken("user-123")
	require.NoError(t, err)

	userID, err := parseToken("Bearer " + token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := parseToken("not-a-token")
	assert.Error(t, err)
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	router := setupAuthRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	router := setupAuthRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredValidToken(t *testing.T) {
	router := setupAuthRouter()

	token, err := GenerateToken("user-123")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-123")
}

func TestSocketioJWTDecoder(t *testing.T) {
	token, err := GenerateToken("user-123")
	require.NoError(t, err)

	userID, err := Socketio_JWT_decoder(map[string]interface{}{"authorization": token})
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	_, err = Socketio_JWT_decoder(map[string]interface{}{})
	assert.Error(t, err)
}
