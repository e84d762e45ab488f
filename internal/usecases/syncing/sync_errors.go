package syncing

import "errors"

var (
	ErrNoAccounts       = errors.New("nenhuma conta para sincronizar")
	ErrAccountNotFound  = errors.New("conta não encontrada para o usuário")
	ErrInvalidPlatform  = errors.New("plataforma inválida")
	ErrSourceNotEnabled = errors.New("integração da plataforma não configurada")
)
