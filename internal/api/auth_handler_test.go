package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studygen/studygen-api/internal/config"
	"github.com/studygen/studygen-api/internal/domain"
	"github.com/studygen/studygen-api/internal/service/auth"
	"github.com/studygen/studygen-api/internal/store"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}
}

func newTestAuthHandler(t *testing.T, userStore store.UserStore) *AuthHandler {
	t.Helper()
	jwtService, err := auth.NewJWTService(testAuthConfig())
	require.NoError(t, err)
	return NewAuthHandler(userStore, jwtService, auth.NewBcryptVerifier(), testAuthConfig())
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	t.Run("successful registration", func(t *testing.T) {
		t.Parallel()
		var createdUser *domain.User
		userStore := &MockUserStore{
			CreateFn: func(ctx context.Context, user *domain.User) error {
				createdUser = user
				return nil
			},
		}
		handler := newTestAuthHandler(t, userStore)

		rec := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
			Email:    "student@example.com",
			Password: "a-long-enough-password",
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, createdUser)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, createdUser.ID, resp.UserID)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.NotEmpty(t, resp.ExpiresAt)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		userStore := &MockUserStore{
			CreateFn: func(ctx context.Context, user *domain.User) error {
				return store.ErrEmailExists
			},
		}
		handler := newTestAuthHandler(t, userStore)

		rec := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
			Email:    "student@example.com",
			Password: "a-long-enough-password",
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("short password rejected", func(t *testing.T) {
		t.Parallel()
		handler := newTestAuthHandler(t, &MockUserStore{})

		rec := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
			Email:    "student@example.com",
			Password: "short",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		t.Parallel()
		handler := newTestAuthHandler(t, &MockUserStore{})

		rec := postJSON(t, handler.Register, "/auth/register", RegisterRequest{
			Email:    "not-an-email",
			Password: "a-long-enough-password",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	password := "a-long-enough-password"
	user, err := domain.NewUser("student@example.com", password)
	require.NoError(t, err)

	t.Run("successful login", func(t *testing.T) {
		t.Parallel()
		userStore := &MockUserStore{
			GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				assert.Equal(t, user.Email, email)
				return user, nil
			},
		}
		handler := newTestAuthHandler(t, userStore)

		rec := postJSON(t, handler.Login, "/auth/login", LoginRequest{
			Email:    user.Email,
			Password: password,
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, user.ID, resp.UserID)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		userStore := &MockUserStore{
			GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return user, nil
			},
		}
		handler := newTestAuthHandler(t, userStore)

		rec := postJSON(t, handler.Login, "/auth/login", LoginRequest{
			Email:    user.Email,
			Password: "not-the-password",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		userStore := &MockUserStore{
			GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return nil, store.ErrUserNotFound
			},
		}
		handler := newTestAuthHandler(t, userStore)

		rec := postJSON(t, handler.Login, "/auth/login", LoginRequest{
			Email:    "nobody@example.com",
			Password: password,
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		userStore := &MockUserStore{
			GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return nil, errors.New("connection reset")
			},
		}
		handler := newTestAuthHandler(t, userStore)

		rec := postJSON(t, handler.Login, "/auth/login", LoginRequest{
			Email:    user.Email,
			Password: password,
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	jwtService, err := auth.NewJWTService(testAuthConfig())
	require.NoError(t, err)
	handler := NewAuthHandler(&MockUserStore{}, jwtService, auth.NewBcryptVerifier(), testAuthConfig())

	t.Run("valid refresh token", func(t *testing.T) {
		t.Parallel()
		refreshToken, err := jwtService.GenerateRefreshToken(context.Background(), userID)
		require.NoError(t, err)

		rec := postJSON(t, handler.RefreshToken, "/auth/refresh", RefreshTokenRequest{
			RefreshToken: refreshToken,
		})

		require.Equal(t, http.StatusOK, rec.Code)

		var resp RefreshTokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)

		// The new access token must validate for the same user.
		claims, err := jwtService.ValidateToken(context.Background(), resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("access token rejected", func(t *testing.T) {
		t.Parallel()
		accessToken, err := jwtService.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		rec := postJSON(t, handler.RefreshToken, "/auth/refresh", RefreshTokenRequest{
			RefreshToken: accessToken,
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		t.Parallel()
		rec := postJSON(t, handler.RefreshToken, "/auth/refresh", RefreshTokenRequest{
			RefreshToken: "this.is.not.a.jwt",
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		t.Parallel()
		rec := postJSON(t, handler.RefreshToken, "/auth/refresh", RefreshTokenRequest{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
