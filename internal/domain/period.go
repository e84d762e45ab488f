package domain

import "time"

const (
	PeriodToday        = "today"
	PeriodYesterday    = "yesterday"
	PeriodLast7Days    = "last_7_days"
	PeriodLast30Days   = "last_30_days"
	PeriodLast12Months = "last_12_months"
	PeriodLastMonth    = "last_month"
	PeriodThisMonth    = "this_month"
	PeriodAll          = "all"
)

// Period é o período pedido pelo cliente: datas explícitas ou um preset
type Period struct {
	Preset string
	Start  *time.Time
	End    *time.Time
}

// TimeRange é um intervalo fechado já resolvido
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Bounded indica se o período resolvido tem início e fim
func (r *TimeRange) Bounded() bool {
	return r != nil
}

func ValidPreset(p string) bool {
	switch p {
	case PeriodToday, PeriodYesterday, PeriodLast7Days, PeriodLast30Days,
		PeriodLast12Months, PeriodLastMonth, PeriodThisMonth, PeriodAll:
		return true
	}
	return false
}
