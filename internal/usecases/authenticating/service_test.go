package authenticating

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/apiErrors"
)

const testSecret = "segredo-de-teste"

func signToken(t *testing.T, secret string, claims domain.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestService_ValidateToken(t *testing.T) {
	service := NewService(&config.Config{Auth: config.Auth{Secret: testSecret}})

	valid := domain.Claims{
		UserID:     "user-1",
		UserRoleID: 3,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	expired := valid
	expired.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	anonymous := valid
	anonymous.UserID = ""

	tests := []struct {
		name     string
		token    string
		wantErr  error
		wantCode string
	}{
		{name: "Token válido", token: signToken(t, testSecret, valid)},
		{name: "Token ausente", token: "", wantErr: ErrMissingToken, wantCode: apiErrors.ErrInvalidToken},
		{name: "Token expirado", token: signToken(t, testSecret, expired), wantErr: ErrExpiredToken, wantCode: apiErrors.ErrExpiredToken},
		{name: "Assinatura de outro segredo", token: signToken(t, "outro", valid), wantErr: ErrInvalidToken, wantCode: apiErrors.ErrInvalidToken},
		{name: "Token sem usuário", token: signToken(t, testSecret, anonymous), wantErr: ErrInvalidToken, wantCode: apiErrors.ErrInvalidToken},
		{name: "Texto qualquer", token: "abc.def", wantErr: ErrInvalidToken, wantCode: apiErrors.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "user-1", claims.UserID)
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsTokenError(err))
			assert.Equal(t, tt.wantCode, ErrorCode(err))
			var authErr *AuthError
			require.ErrorAs(t, err, &authErr)
			assert.Equal(t, tt.wantCode, authErr.Code)
		})
	}
}
