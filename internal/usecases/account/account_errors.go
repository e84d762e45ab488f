package account

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de contas
var (
	ErrInvalidPlatform = errors.New("plataforma inválida")
	ErrFetchAccounts   = errors.New("erro ao buscar contas no banco de dados")
)

// AccountError é um erro com contexto adicional para contas
type AccountError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *AccountError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *AccountError) Unwrap() error {
	return e.Err
}

// NewAccountError cria um novo AccountError
func NewAccountError(err error, code string, details string) *AccountError {
	return &AccountError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
