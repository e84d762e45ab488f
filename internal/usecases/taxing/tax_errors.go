package taxing

import "errors"

var (
	ErrOverlappingSchedule = errors.New("já existe uma alíquota ativa nesse período")
	ErrScheduleNotFound    = errors.New("alíquota não encontrada")
	ErrInvalidSchedule     = errors.New("alíquota inválida")
)
