package authenticating

import (
	"errors"
	"fmt"

	"github.com/vfg2006/sales-sync-api/pkg/apiErrors"
)

var (
	ErrInvalidToken = errors.New("token inválido")
	ErrExpiredToken = errors.New("token expirado")
	ErrMissingToken = errors.New("token ausente")
)

// AuthError carrega o código da API junto do motivo da rejeição do token
type AuthError struct {
	Err     error
	Code    string
	Details string
}

func (e *AuthError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsTokenError indica se a rejeição veio do token e não de uma falha interna
func IsTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrMissingToken)
}

// ErrorCode devolve o código da API para a rejeição, AUTH_006 quando o erro
// não traz um código próprio
func ErrorCode(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Code != "" {
		return authErr.Code
	}
	return apiErrors.ErrInvalidToken
}

func NewAuthError(baseErr error, code string, details string) *AuthError {
	return &AuthError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}
