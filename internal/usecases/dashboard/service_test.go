package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/sales-sync-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

type serviceFixture struct {
	service   *Service
	orders    *mocks.MockOrderRepository
	skuCosts  *mocks.MockSKUCostRepository
	schedules *mocks.MockTaxScheduleRepository
}

func newServiceFixture(t *testing.T, now time.Time) *serviceFixture {
	ctrl := gomock.NewController(t)
	f := &serviceFixture{
		orders:    mocks.NewMockOrderRepository(ctrl),
		skuCosts:  mocks.NewMockSKUCostRepository(ctrl),
		schedules: mocks.NewMockTaxScheduleRepository(ctrl),
	}
	f.service = NewService(f.orders, f.skuCosts, f.schedules, time.UTC)
	f.service.now = func() time.Time { return now }
	return f
}

func at(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	return &t
}

func TestService_GetStats_WithTaxAndTrend(t *testing.T) {
	f := newServiceFixture(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	janTo := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	periodOrders := []*domain.Order{
		{OrderID: "1", AccountID: "acc1", Platform: domain.PlatformLabelShopee, Status: "COMPLETED", GrossAmount: 1000, Quantity: 1, SKU: "S1", SaleDate: at(2024, 1, 20)},
		{OrderID: "1", AccountID: "acc1", Platform: domain.PlatformLabelShopee, Status: "COMPLETED", GrossAmount: 1000, Quantity: 1, SKU: "S1", SaleDate: at(2024, 1, 20)},
		{OrderID: "2", AccountID: "acc1", Platform: domain.PlatformLabelShopee, Status: "COMPLETED", GrossAmount: 500, Quantity: 1, SaleDate: at(2024, 2, 10)},
		{OrderID: "3", AccountID: "acc1", Platform: domain.PlatformLabelShopee, Status: "CANCELLED", GrossAmount: 999, SaleDate: at(2024, 2, 11)},
	}
	trendOrders := []*domain.Order{
		{OrderID: "9", Status: "paid", GrossAmount: 100, SaleDate: at(2024, 1, 5)},
		{OrderID: "10", Status: "paid", GrossAmount: 150, SaleDate: at(2024, 2, 5)},
	}

	f.orders.EXPECT().FindOrders(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q domain.OrderQuery) ([]*domain.Order, error) {
			if q.PaidOnly {
				assert.Empty(t, q.AccountIDs)
				assert.True(t, q.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
				return trendOrders, nil
			}
			assert.Equal(t, "u1", q.UserID)
			assert.Equal(t, []string{"acc1"}, q.AccountIDs)
			assert.Equal(t, []string{domain.PlatformLabelShopee}, q.Platforms)
			return periodOrders, nil
		}).Times(2)
	f.skuCosts.EXPECT().FindUnitCosts(gomock.Any(), "u1", []string{"S1"}).Return(map[string]float64{"S1": 300}, nil)
	f.schedules.EXPECT().ListByUser(gomock.Any(), "u1", true).Return([]*domain.TaxRateSchedule{
		{ID: 1, RatePercent: 6, EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), EffectiveTo: &janTo, Active: true},
	}, nil)

	result, err := f.service.GetStats(context.Background(), "u1", domain.DashboardFilters{
		Period:     domain.Period{Start: &start, End: &end},
		Channel:    domain.PlatformShopee,
		AccountIDs: []string{"acc1"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.OrderCount)
	assert.Equal(t, 1500.0, result.GrossRevenue)
	assert.Equal(t, 300.0, result.COGS)
	assert.Equal(t, 60.0, result.TaxTotal)
	assert.Equal(t, []string{"2024-02"}, result.TaxGaps)
	assert.Equal(t, 1140.0, result.NetProfit)
	assert.Equal(t, 50.0, result.RevenueTrendPercent)
	require.NotNil(t, result.Period)
	assert.Equal(t, "2024-02-15T23:59:59.999Z", result.Period.End)
}

func TestService_GetStats_AllTimeSkipsTax(t *testing.T) {
	f := newServiceFixture(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	f.orders.EXPECT().FindOrders(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q domain.OrderQuery) ([]*domain.Order, error) {
			if !q.PaidOnly {
				assert.Nil(t, q.Start)
				assert.Nil(t, q.End)
			}
			return []*domain.Order{{OrderID: "1", Status: "paid", GrossAmount: 10, SaleDate: at(2024, 2, 1)}}, nil
		}).Times(2)

	result, err := f.service.GetStats(context.Background(), "u1", domain.DashboardFilters{Period: domain.Period{Preset: domain.PeriodAll}})

	require.NoError(t, err)
	assert.Nil(t, result.Period)
	assert.Zero(t, result.TaxTotal)
	// penúltimo mês sem faturamento
	assert.Zero(t, result.RevenueTrendPercent)
}

func TestService_GetStats_ReversedRangeIsEmpty(t *testing.T) {
	f := newServiceFixture(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	f.orders.EXPECT().FindOrders(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q domain.OrderQuery) ([]*domain.Order, error) {
			if !q.PaidOnly {
				require.NotNil(t, q.Start)
				require.NotNil(t, q.End)
				assert.True(t, q.End.Before(*q.Start))
			}
			return []*domain.Order{}, nil
		}).Times(2)
	f.skuCosts.EXPECT().FindUnitCosts(gomock.Any(), "u1", gomock.Any()).Return(map[string]float64{}, nil).AnyTimes()
	f.schedules.EXPECT().ListByUser(gomock.Any(), "u1", true).Return(nil, nil).AnyTimes()

	result, err := f.service.GetStats(context.Background(), "u1", domain.DashboardFilters{
		Period: domain.Period{Start: &start, End: &end},
	})

	require.NoError(t, err)
	assert.Zero(t, result.OrderCount)
	assert.Zero(t, result.GrossRevenue)
	assert.Empty(t, result.TaxGaps)
}

func TestService_GetStats_StoreError(t *testing.T) {
	f := newServiceFixture(t, time.Now())
	f.orders.EXPECT().FindOrders(gomock.Any(), gomock.Any()).Return(nil, errors.New("conexão recusada"))

	_, err := f.service.GetStats(context.Background(), "u1", domain.DashboardFilters{})
	assert.ErrorIs(t, err, ErrAggregation)
	assert.Contains(t, err.Error(), "conexão recusada")
}

func TestService_GetStats_InvalidPreset(t *testing.T) {
	f := newServiceFixture(t, time.Now())

	_, err := f.service.GetStats(context.Background(), "u1", domain.DashboardFilters{Period: domain.Period{Preset: "sempre"}})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestService_TopProductsAndBreakdown(t *testing.T) {
	f := newServiceFixture(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	orders := []*domain.Order{
		{OrderID: "1", Platform: domain.PlatformLabelMercadoLivre, Status: "paid", SKU: "S1", ProductTitle: "Camiseta", GrossAmount: 80, Quantity: 1, ListingType: "catalog"},
		{OrderID: "2", Platform: domain.PlatformLabelBling, Status: "completed", SKU: "S2", ProductTitle: "Caneca", GrossAmount: 20, Quantity: 1},
	}

	f.orders.EXPECT().FindOrders(gomock.Any(), gomock.Any()).Return(orders, nil).Times(2)
	f.skuCosts.EXPECT().FindUnitCosts(gomock.Any(), "u1", []string{"S1", "S2"}).Return(map[string]float64{}, nil)

	top, err := f.service.TopProducts(context.Background(), "u1", domain.DashboardFilters{Period: domain.Period{Preset: domain.PeriodThisMonth}}, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "S1", top[0].SKU)

	breakdown, err := f.service.RevenueBreakdown(context.Background(), "u1", domain.DashboardFilters{Period: domain.Period{Preset: domain.PeriodThisMonth}})
	require.NoError(t, err)
	assert.Equal(t, 80.0, breakdown.ByListingType[domain.ListingTypeCatalog])
	assert.Equal(t, 20.0, breakdown.ByPlatform[domain.PlatformLabelBling])
	require.NotNil(t, breakdown.Period)
	assert.Equal(t, "2024-03-01T00:00:00.000Z", breakdown.Period.Start)
}
