package taxing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vfg2006/sales-sync-api/internal/domain"
)

func saleAt(t time.Time) *time.Time {
	return &t
}

func dateUTC(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAllocateTax(t *testing.T) {
	sp, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Skip("timezone database indisponível")
	}

	janTo := dateUTC(2024, 1, 31)
	acc2 := "acc2"

	tests := []struct {
		name      string
		orders    []*domain.Order
		schedules []*domain.TaxRateSchedule
		wantTotal float64
		wantGaps  []string
	}{
		{
			name: "Janeiro com alíquota e fevereiro sem",
			orders: []*domain.Order{
				{AccountID: "acc1", GrossAmount: 600, SaleDate: saleAt(time.Date(2024, 1, 15, 12, 0, 0, 0, sp))},
				{AccountID: "acc1", GrossAmount: 400, SaleDate: saleAt(time.Date(2024, 1, 31, 20, 0, 0, 0, sp))},
				{AccountID: "acc1", GrossAmount: 500, SaleDate: saleAt(time.Date(2024, 2, 10, 12, 0, 0, 0, sp))},
			},
			schedules: []*domain.TaxRateSchedule{
				{ID: 1, RatePercent: 6, EffectiveFrom: dateUTC(2024, 1, 1), EffectiveTo: &janTo, Active: true},
			},
			wantTotal: 60,
			wantGaps:  []string{"2024-02"},
		},
		{
			name: "Venda no fim do mês no fuso local não vaza para o mês seguinte",
			orders: []*domain.Order{
				// 2024-02-01 01:00 UTC ainda é 31 de janeiro em São Paulo
				{AccountID: "acc1", GrossAmount: 1000, SaleDate: saleAt(time.Date(2024, 2, 1, 1, 0, 0, 0, time.UTC))},
			},
			schedules: []*domain.TaxRateSchedule{
				{ID: 1, RatePercent: 6, EffectiveFrom: dateUTC(2024, 1, 1), EffectiveTo: &janTo, Active: true},
			},
			wantTotal: 60,
			wantGaps:  []string{},
		},
		{
			name: "Pedido sem data é ignorado e alíquota inativa não conta",
			orders: []*domain.Order{
				{AccountID: "acc1", GrossAmount: 1000},
				{AccountID: "acc1", GrossAmount: 100, SaleDate: saleAt(time.Date(2024, 3, 5, 12, 0, 0, 0, sp))},
			},
			schedules: []*domain.TaxRateSchedule{
				{ID: 1, RatePercent: 10, EffectiveFrom: dateUTC(2024, 1, 1), Active: false},
			},
			wantTotal: 0,
			wantGaps:  []string{"2024-03"},
		},
		{
			name: "Primeira alíquota por início de vigência vence e a da conta tem prioridade",
			orders: []*domain.Order{
				{AccountID: "acc1", GrossAmount: 100, SaleDate: saleAt(time.Date(2024, 5, 5, 12, 0, 0, 0, sp))},
				{AccountID: "acc2", GrossAmount: 100, SaleDate: saleAt(time.Date(2024, 5, 5, 12, 0, 0, 0, sp))},
			},
			schedules: []*domain.TaxRateSchedule{
				{ID: 2, RatePercent: 8, EffectiveFrom: dateUTC(2024, 5, 20), Active: true},
				{ID: 1, RatePercent: 5, EffectiveFrom: dateUTC(2024, 1, 1), Active: true},
				{ID: 3, RatePercent: 10, AccountID: &acc2, EffectiveFrom: dateUTC(2024, 5, 1), Active: true},
			},
			wantTotal: 15,
			wantGaps:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, gaps := AllocateTax(tt.orders, tt.schedules, sp)
			assert.InDelta(t, tt.wantTotal, total, 0.001)
			assert.Equal(t, tt.wantGaps, gaps)
		})
	}
}
