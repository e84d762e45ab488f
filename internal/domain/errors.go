package domain

import (
	"errors"
	"fmt"
)

type RemoteErrorKind string

const (
	RemoteErrorRetryable            RemoteErrorKind = "retryable"
	RemoteErrorRequiresReconnection RemoteErrorKind = "requires_reconnection"
	RemoteErrorInvalidRequest       RemoteErrorKind = "invalid_request"
)

// RemoteAccountError é a falha de uma plataforma remota ao atender uma conta
type RemoteAccountError struct {
	AccountID  string
	Platform   Platform
	Kind       RemoteErrorKind
	StatusCode int
	Err        error
}

func (e *RemoteAccountError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: conta %s (%s, status %d)", e.Platform, e.AccountID, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s: conta %s (%s, status %d): %v", e.Platform, e.AccountID, e.Kind, e.StatusCode, e.Err)
}

func (e *RemoteAccountError) Unwrap() error {
	return e.Err
}

// RequiresReconnection indica que a credencial foi rejeitada e o usuário
// precisa reconectar a conta
func (e *RemoteAccountError) RequiresReconnection() bool {
	return e.Kind == RemoteErrorRequiresReconnection
}

// IsReconnectionRequired procura um RemoteAccountError de credencial na cadeia
func IsReconnectionRequired(err error) bool {
	var remoteErr *RemoteAccountError
	if errors.As(err, &remoteErr) {
		return remoteErr.RequiresReconnection()
	}
	return false
}
