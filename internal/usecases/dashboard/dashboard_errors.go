package dashboard

import "errors"

var (
	ErrInvalidPeriod = errors.New("período inválido")
	ErrAggregation   = errors.New("erro ao processar o dashboard")
)
