package authenticating

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/apiErrors"
)

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

// Authenticator valida a sessão emitida pelo serviço de login. A emissão
// do token não acontece neste serviço.
type Authenticator interface {
	ValidateToken(tokenString string) (*domain.Claims, error)
}

type Service struct {
	secret []byte
}

func NewService(cfg *config.Config) Authenticator {
	return &Service{secret: []byte(cfg.Auth.Secret)}
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	if tokenString == "" {
		return nil, NewAuthError(ErrMissingToken, apiErrors.ErrInvalidToken, "")
	}

	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "identidade ausente")
	}

	return claims, nil
}
