package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/knagata/task-reminder-api/internal/constants"
	"github.com/knagata/task-reminder-api/internal/dto"
	"github.com/knagata/task-reminder-api/internal/middleware"
	"github.com/knagata/task-reminder-api/internal/models"
	"github.com/knagata/task-reminder-api/internal/repository"
	"github.com/knagata/task-reminder-api/internal/services"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
	router      *gin.Engine
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo, "test-secret", time.Hour, 24*time.Hour)
	handler := NewAuthHandler(authService)

	r := gin.New()
	r.POST("/api/auth/register", handler.Register)
	r.POST("/api/auth/login", handler.Login)
	r.POST("/api/auth/refresh", handler.Refresh)
	r.GET("/api/auth/me", middleware.RequireAuth(authService), handler.GetCurrentUser)
	r.POST("/api/auth/change-password", middleware.RequireAuth(authService), handler.ChangePassword)

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
		router:      r,
	}
}

func (env authTestEnv) request(t *testing.T, method, url string, payload interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"password": "supersecret",
	}, "")

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice", response.Username)
	require.Len(t, response.ShortCode, constants.ShortCodeLength)
	require.NotContains(t, w.Body.String(), "supersecret")
}

func TestAuthHandler_RegisterDuplicate(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"password": "supersecret",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	// Case only differs: still a conflict
	w = env.request(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "Alice",
		"password": "supersecret",
	}, "")
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_RegisterInvalidBody(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"password": "short",
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Username: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := env.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "supersecret",
	}, "")

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.AccessToken)
	require.NotEmpty(t, response.RefreshToken)
	require.Equal(t, "alice", response.User.Username)
}

func TestAuthHandler_LoginWrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Username: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := env.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Username: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	pair, err := env.authService.IssueTokens(user)
	require.NoError(t, err)

	w := env.request(t, http.MethodPost, "/api/auth/refresh", map[string]string{
		"refresh_token": pair.RefreshToken,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response["access_token"])

	// An access token in the refresh slot is rejected
	w = env.request(t, http.MethodPost, "/api/auth/refresh", map[string]string{
		"refresh_token": pair.AccessToken,
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Username: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	pair, err := env.authService.IssueTokens(user)
	require.NoError(t, err)

	w := env.request(t, http.MethodGet, "/api/auth/me", nil, pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice", response.Username)
	require.Equal(t, user.ShortCode, response.ShortCode)

	// Missing and malformed tokens are both unauthorized
	w = env.request(t, http.MethodGet, "/api/auth/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodGet, "/api/auth/me", nil, "garbage")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Register(services.RegisterInput{
		Username: "alice",
		Password: "supersecret",
	})
	require.NoError(t, err)

	pair, err := env.authService.IssueTokens(user)
	require.NoError(t, err)

	w := env.request(t, http.MethodPost, "/api/auth/change-password", map[string]string{
		"current_password": "wrong",
		"new_password":     "newsecret",
	}, pair.AccessToken)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodPost, "/api/auth/change-password", map[string]string{
		"current_password": "supersecret",
		"new_password":     "newsecret",
	}, pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "newsecret",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
}
