package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/sales-sync-api/internal/domain"
)

func TestResolvePeriod(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	endOf := func(y int, m time.Month, d int) time.Time { return day(y, m, d).Add(24*time.Hour - time.Millisecond) }

	tests := []struct {
		name      string
		period    domain.Period
		wantStart time.Time
		wantEnd   time.Time
		unbounded bool
		wantErr   bool
	}{
		{name: "Hoje", period: domain.Period{Preset: domain.PeriodToday}, wantStart: day(2024, 3, 15), wantEnd: endOf(2024, 3, 15)},
		{name: "Ontem", period: domain.Period{Preset: domain.PeriodYesterday}, wantStart: day(2024, 3, 14), wantEnd: endOf(2024, 3, 14)},
		{name: "Últimos 7 dias", period: domain.Period{Preset: domain.PeriodLast7Days}, wantStart: day(2024, 3, 9), wantEnd: endOf(2024, 3, 15)},
		{name: "Últimos 30 dias", period: domain.Period{Preset: domain.PeriodLast30Days}, wantStart: day(2024, 2, 15), wantEnd: endOf(2024, 3, 15)},
		{name: "Últimos 12 meses", period: domain.Period{Preset: domain.PeriodLast12Months}, wantStart: day(2023, 3, 15), wantEnd: endOf(2024, 3, 15)},
		{name: "Este mês", period: domain.Period{Preset: domain.PeriodThisMonth}, wantStart: day(2024, 3, 1), wantEnd: endOf(2024, 3, 31)},
		{name: "Mês passado", period: domain.Period{Preset: domain.PeriodLastMonth}, wantStart: day(2024, 2, 1), wantEnd: endOf(2024, 2, 29)},
		{name: "Alias antigo", period: domain.Period{Preset: "ultimos_7d"}, wantStart: day(2024, 3, 9), wantEnd: endOf(2024, 3, 15)},
		{name: "Todos", period: domain.Period{Preset: domain.PeriodAll}, unbounded: true},
		{name: "Vazio", period: domain.Period{}, unbounded: true},
		{name: "Preset desconhecido", period: domain.Period{Preset: "semana_que_vem"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ResolvePeriod(tt.period, now, time.UTC)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			if tt.unbounded {
				assert.Nil(t, r)
				assert.Nil(t, EchoPeriod(r))
				return
			}
			require.NotNil(t, r)
			assert.True(t, r.Start.Equal(tt.wantStart), "start %s", r.Start)
			assert.True(t, r.End.Equal(tt.wantEnd), "end %s", r.End)
		})
	}
}

func TestResolvePeriod_ExplicitRangeIncludesEndDay(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	r, err := ResolvePeriod(domain.Period{Start: &start, End: &end, Preset: domain.PeriodAll}, time.Now(), time.UTC)
	require.NoError(t, err)
	require.NotNil(t, r)

	echo := EchoPeriod(r)
	assert.Equal(t, "2024-01-15T00:00:00.000Z", echo.Start)
	assert.Equal(t, "2024-02-15T23:59:59.999Z", echo.End)
}

func TestTrendWindowAt(t *testing.T) {
	w := TrendWindowAt(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), time.UTC)

	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), w.LastStart)
	assert.Equal(t, time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC), w.PenultimateStart)
	assert.True(t, w.PenultimateEnd.Before(w.LastStart))
}
