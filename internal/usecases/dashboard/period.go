package dashboard

import (
	"fmt"
	"time"

	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/utils"
)

// Nomes usados pelo painel antigo
var presetAliases = map[string]string{
	"hoje":        domain.PeriodToday,
	"ontem":       domain.PeriodYesterday,
	"ultimos_7d":  domain.PeriodLast7Days,
	"ultimos_30d": domain.PeriodLast30Days,
	"ultimos_12m": domain.PeriodLast12Months,
	"mes_passado": domain.PeriodLastMonth,
	"este_mes":    domain.PeriodThisMonth,
	"todos":       domain.PeriodAll,
}

// ResolvePeriod converte datas explícitas ou um preset em um intervalo fechado.
// Retorna nil quando o período não tem limites.
func ResolvePeriod(period domain.Period, now time.Time, loc *time.Location) (*domain.TimeRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	if period.Start != nil && period.End != nil {
		start := utils.StartOfDay(period.Start.In(loc))
		// O dia final entra inteiro
		end := utils.EndOfDay(period.End.In(loc))
		return &domain.TimeRange{Start: start, End: end}, nil
	}

	preset := period.Preset
	if alias, ok := presetAliases[preset]; ok {
		preset = alias
	}

	today := utils.StartOfDay(now)
	endOfToday := utils.EndOfDay(now)

	switch preset {
	case "", domain.PeriodAll:
		return nil, nil
	case domain.PeriodToday:
		return &domain.TimeRange{Start: today, End: endOfToday}, nil
	case domain.PeriodYesterday:
		yesterday := today.AddDate(0, 0, -1)
		return &domain.TimeRange{Start: yesterday, End: utils.EndOfDay(yesterday)}, nil
	case domain.PeriodLast7Days:
		return &domain.TimeRange{Start: today.AddDate(0, 0, -6), End: endOfToday}, nil
	case domain.PeriodLast30Days:
		return &domain.TimeRange{Start: today.AddDate(0, 0, -29), End: endOfToday}, nil
	case domain.PeriodLast12Months:
		return &domain.TimeRange{Start: today.AddDate(0, -12, 0), End: endOfToday}, nil
	case domain.PeriodThisMonth:
		return &domain.TimeRange{Start: utils.StartOfMonth(now), End: utils.EndOfMonth(now)}, nil
	case domain.PeriodLastMonth:
		lastMonth := utils.StartOfMonth(now).AddDate(0, -1, 0)
		return &domain.TimeRange{Start: lastMonth, End: utils.EndOfMonth(lastMonth)}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrInvalidPeriod, period.Preset)
}

// TrendWindowAt retorna o último mês completo e o anterior a ele
func TrendWindowAt(now time.Time, loc *time.Location) domain.TrendWindow {
	if loc == nil {
		loc = time.UTC
	}
	thisMonth := utils.StartOfMonth(now.In(loc))
	last := thisMonth.AddDate(0, -1, 0)
	penultimate := thisMonth.AddDate(0, -2, 0)

	return domain.TrendWindow{
		LastStart:        last,
		LastEnd:          utils.EndOfMonth(last),
		PenultimateStart: penultimate,
		PenultimateEnd:   utils.EndOfMonth(penultimate),
	}
}

// EchoPeriod formata o intervalo em ISO-8601. Período sem limites vira nil.
func EchoPeriod(r *domain.TimeRange) *domain.ResolvedPeriod {
	if r == nil {
		return nil
	}
	return &domain.ResolvedPeriod{
		Start: r.Start.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		End:   r.End.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
