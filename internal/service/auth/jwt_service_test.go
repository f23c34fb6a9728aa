package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studygen/studygen-api/internal/config"
)

func testAuthConfig(secret string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   secret,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}
}

// newFixedTimeService builds an hmacJWTService pinned at the given time so
// expiry scenarios are deterministic.
func newFixedTimeService(secret string, lifetime time.Duration, at time.Time) *hmacJWTService {
	return &hmacJWTService{
		signingKey:           []byte(secret),
		tokenLifetime:        lifetime,
		refreshTokenLifetime: 24 * lifetime,
		timeFunc:             func() time.Time { return at },
	}
}

func TestNewJWTService_RejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(testAuthConfig("too-short"))
	require.Error(t, err)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	secret := "test-secret-that-is-long-enough-for-testing"
	userID := uuid.New()

	svc := newFixedTimeService(secret, tokenLifetime, fixedTime)

	t.Run("generates valid token", func(t *testing.T) {
		t.Parallel()
		token, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)

		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, userID.String(), claims.Subject)
		// Compare Unix timestamps to avoid timezone issues
		assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
		assert.NotEmpty(t, claims.ID)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	secret := "test-secret-that-is-long-enough-for-testing"
	wrongSecret := "wrong-secret-that-is-long-enough-for-testing"
	userID := uuid.New()

	tests := []struct {
		name      string
		setupFunc func() (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func() (JWTService, string) {
				svc := newFixedTimeService(secret, tokenLifetime, fixedTime)
				token, _ := svc.GenerateToken(context.Background(), userID)
				return svc, token
			},
			wantErr: nil,
		},
		{
			name: "expired token",
			setupFunc: func() (JWTService, string) {
				genSvc := newFixedTimeService(secret, tokenLifetime, fixedTime)
				token, _ := genSvc.GenerateToken(context.Background(), userID)

				// Validate token at a later time (after expiry)
				valSvc := newFixedTimeService(secret, tokenLifetime, fixedTime.Add(tokenLifetime+time.Hour))
				return valSvc, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			setupFunc: func() (JWTService, string) {
				genSvc := newFixedTimeService(secret, tokenLifetime, fixedTime)
				token, _ := genSvc.GenerateToken(context.Background(), userID)

				valSvc := newFixedTimeService(wrongSecret, tokenLifetime, fixedTime)
				return valSvc, token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func() (JWTService, string) {
				svc := newFixedTimeService(secret, tokenLifetime, fixedTime)
				return svc, "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "refresh token rejected as access token",
			setupFunc: func() (JWTService, string) {
				svc := newFixedTimeService(secret, tokenLifetime, fixedTime)
				token, _ := svc.GenerateRefreshToken(context.Background(), userID)
				return svc, token
			},
			wantErr: ErrWrongTokenType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc()
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, claims)
				assert.Equal(t, userID, claims.UserID)
			}
		})
	}
}

func TestValidateRefreshToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	secret := "test-secret-that-is-long-enough-for-testing"
	userID := uuid.New()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		svc := newFixedTimeService(secret, tokenLifetime, fixedTime)
		token, err := svc.GenerateRefreshToken(context.Background(), userID)
		require.NoError(t, err)

		claims, err := svc.ValidateRefreshToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "refresh", claims.TokenType)
		assert.Equal(t, fixedTime.Add(24*tokenLifetime).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("expired refresh token", func(t *testing.T) {
		t.Parallel()
		genSvc := newFixedTimeService(secret, tokenLifetime, fixedTime)
		token, err := genSvc.GenerateRefreshToken(context.Background(), userID)
		require.NoError(t, err)

		valSvc := newFixedTimeService(secret, tokenLifetime, fixedTime.Add(25*tokenLifetime))
		_, err = valSvc.ValidateRefreshToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredRefreshToken)
	})

	t.Run("access token rejected as refresh token", func(t *testing.T) {
		t.Parallel()
		svc := newFixedTimeService(secret, tokenLifetime, fixedTime)
		token, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		_, err = svc.ValidateRefreshToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})
}
