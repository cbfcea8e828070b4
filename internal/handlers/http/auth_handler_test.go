package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"camdeck/internal/core/services"
	"camdeck/internal/infrastructure/middleware"
	"camdeck/internal/infrastructure/repositories/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	authService := services.NewAuthService(memory.NewMemoryUserRepository(), "test-secret", time.Hour)

	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware(zap.NewNop().Sugar()))
	NewAuthHandler(authService).SetupRoutes(router, middleware.AuthMiddleware(authService))
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	router := newAuthTestRouter()

	w := postJSON(t, router, "/api/v1/auth/register", gin.H{
		"name":     "Alice",
		"email":    "Alice@Example.com",
		"password": "password123",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.User.ID)
	// Email is normalized before storage.
	assert.Equal(t, "alice@example.com", resp.User.Email)
}

func TestRegisterValidation(t *testing.T) {
	router := newAuthTestRouter()

	cases := []gin.H{
		{"name": "Alice", "email": "not-an-email", "password": "password123"},
		{"name": "Alice", "email": "alice@example.com", "password": "short"},
		{"name": "", "email": "alice@example.com", "password": "password123"},
	}
	for _, body := range cases {
		w := postJSON(t, router, "/api/v1/auth/register", body, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	router := newAuthTestRouter()

	body := gin.H{"name": "Alice", "email": "alice@example.com", "password": "password123"}
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/v1/auth/register", body, nil).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(t, router, "/api/v1/auth/register", body, nil).Code)
}

func TestLoginEndpoint(t *testing.T) {
	router := newAuthTestRouter()

	register := gin.H{"name": "Alice", "email": "alice@example.com", "password": "password123"}
	require.Equal(t, http.StatusCreated, postJSON(t, router, "/api/v1/auth/register", register, nil).Code)

	w := postJSON(t, router, "/api/v1/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "/api/v1/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyEndpoint(t *testing.T) {
	router := newAuthTestRouter()

	register := gin.H{"name": "Alice", "email": "alice@example.com", "password": "password123"}
	created := postJSON(t, router, "/api/v1/auth/register", register, nil)
	require.Equal(t, http.StatusCreated, created.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var verify struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verify))
	assert.Equal(t, "alice@example.com", verify.User.Email)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
