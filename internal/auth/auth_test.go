package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
	assert.False(t, CheckPassword("not-a-hash", "correct horse"))
}

func TestGenerateTokens(t *testing.T) {
	access, refresh, err := GenerateTokens(7, "ada@example.com", "member", secret, secret)
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	claims, err := ValidateToken(access, secret)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "ada@example.com", claims.Subject)
	assert.Equal(t, TokenAccess, claims.TokenType)
	assert.WithinDuration(t, time.Now().Add(AccessTokenTTL), claims.ExpiresAt.Time, 5*time.Second)

	claims, err = ValidateToken(refresh, secret)
	require.NoError(t, err)
	assert.Equal(t, TokenRefresh, claims.TokenType)
	assert.WithinDuration(t, time.Now().Add(RefreshTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestGenerateTokens_EmptySecret(t *testing.T) {
	_, _, err := GenerateTokens(1, "a@example.com", "member", "", secret)
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)

	_, _, err = GenerateTokens(1, "a@example.com", "member", secret, "")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)
}

func signClaims(t *testing.T, method jwt.SigningMethod, key interface{}, claims *JWTClaims) string {
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func baseClaims(expires time.Time) *JWTClaims {
	return &JWTClaims{
		UserID:    1,
		Email:     "a@example.com",
		Role:      "member",
		TokenType: TokenAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Audience:  []string{jwtAudience},
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
}

func TestValidateToken_Rejections(t *testing.T) {
	valid, err := GenerateAccessToken(1, "a@example.com", "member", secret)
	require.NoError(t, err)

	expired := signClaims(t, jwt.SigningMethodHS256, []byte(secret), baseClaims(time.Now().Add(-time.Minute)))

	wrongIssuer := baseClaims(time.Now().Add(time.Hour))
	wrongIssuer.Issuer = "someone-else"

	noEmail := baseClaims(time.Now().Add(time.Hour))
	noEmail.Email = ""

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{"wrong secret", valid, "other-secret", nil},
		{"garbage", "not.a.token", secret, nil},
		{"expired", expired, secret, ErrTokenExpired},
		{"wrong issuer", signClaims(t, jwt.SigningMethodHS256, []byte(secret), wrongIssuer), secret, nil},
		{"hs512 rejected", signClaims(t, jwt.SigningMethodHS512, []byte(secret), baseClaims(time.Now().Add(time.Hour))), secret, nil},
		{"missing email", signClaims(t, jwt.SigningMethodHS256, []byte(secret), noEmail), secret, ErrInvalidToken},
		{"empty secret", valid, "", ErrEmptyJWTSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)
			require.Error(t, err)
			assert.Nil(t, claims)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRefreshAccessToken(t *testing.T) {
	access, refresh, err := GenerateTokens(3, "c@example.com", "admin", secret, "refresh-secret")
	require.NoError(t, err)

	t.Run("exchanges refresh token", func(t *testing.T) {
		newAccess, claims, err := RefreshAccessToken(refresh, "refresh-secret", secret)
		require.NoError(t, err)
		assert.Equal(t, 3, claims.UserID)

		parsed, err := ValidateToken(newAccess, secret)
		require.NoError(t, err)
		assert.Equal(t, TokenAccess, parsed.TokenType)
		assert.Equal(t, "admin", parsed.Role)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, _, err := RefreshAccessToken(access, secret, secret)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("wrong refresh secret", func(t *testing.T) {
		_, _, err := RefreshAccessToken(refresh, secret, secret)
		assert.Error(t, err)
	})
}
