package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"optinet-backend/auth"
	"optinet-backend/middleware"
	"optinet-backend/models"
	"optinet-backend/repository"
	"optinet-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUserStore struct {
	user *models.User
}

func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user != nil && strings.EqualFold(s.user.Email, email) {
		return s.user, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserStore) SetResetToken(ctx context.Context, email, token string, expires time.Time) error {
	return repository.ErrNotFound
}

func (s *stubUserStore) ResetPasswordByToken(ctx context.Context, token, passwordHash string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func loginTestRouter(t *testing.T) (*gin.Engine, *models.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}

	authService := service.NewAuthService(
		service.AuthWithUserStore(&stubUserStore{user: user}),
		service.AuthWithTokenManager(auth.NewTokenManager([]byte("secret"), nil, time.Hour, 0)),
	)

	r := gin.New()
	r.POST("/api/auth/login", NewAuthHandler(authService).Login)
	r.GET("/api/auth/verify", middleware.RequireAuth(authService), NewAuthHandler(authService).Verify)
	return r, user
}

func TestLoginEndpointSuccess(t *testing.T) {
	r, user := loginTestRouter(t)

	body := `{"email":"admin@example.com","password":"password123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken string      `json:"access_token"`
			User        models.User `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data.AccessToken)
	assert.Equal(t, user.ID, resp.Data.User.ID)
	// Hash and reset fields never appear in the payload.
	assert.NotContains(t, w.Body.String(), "password_hash")
}

func TestLoginEndpointSameMessageForBothFailures(t *testing.T) {
	r, _ := loginTestRouter(t)

	for _, body := range []string{
		`{"email":"nobody@example.com","password":"password123"}`,
		`{"email":"admin@example.com","password":"wrong"}`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email or password")
	}
}

func TestVerifyEndpointRequiresToken(t *testing.T) {
	r, _ := loginTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_TOKEN")
}

func TestVerifyEndpointWithBearerToken(t *testing.T) {
	r, _ := loginTestRouter(t)

	loginBody := `{"email":"admin@example.com","password":"password123"}`
	loginRec := httptest.NewRecorder()
	loginReq := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(loginBody))
	loginReq.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(loginRec, loginReq)
	require.Equal(t, http.StatusOK, loginRec.Code)

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(loginRec.Body.Bytes(), &resp))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Data.AccessToken)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@example.com")
}
