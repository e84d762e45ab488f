package mercadolivre

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	melidomain "github.com/vfg2006/sales-sync-api/infrastructure/integrator/mercadolivre/domain"
	"github.com/vfg2006/sales-sync-api/infrastructure/integrator/mercadolivre/meliclient"
	"github.com/vfg2006/sales-sync-api/infrastructure/integrator/mercadolivre/meliclient/mocks"
	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

type progressCall struct {
	fetched   int
	expected  int
	continued bool
}

type fakeReporter struct {
	progress []progressCall
	warnings []string
}

func (r *fakeReporter) Progress(fetched, expected int, continued bool, message string) {
	r.progress = append(r.progress, progressCall{fetched: fetched, expected: expected, continued: continued})
}

func (r *fakeReporter) Warning(code, message string) {
	r.warnings = append(r.warnings, code)
}

func floatPtr(v float64) *float64 { return &v }

func newTestService(client meliclient.Client) *MercadoLivreService {
	cfg := &config.Config{}
	cfg.App.Timezone = "America/Sao_Paulo"
	cfg.Sync.HistoryDays = 30
	return New(cfg, client)
}

func page(start, count, total int) *melidomain.SearchResponse {
	resp := &melidomain.SearchResponse{Paging: melidomain.Paging{Total: total, Offset: start, Limit: PageLimit}}
	for i := 0; i < count; i++ {
		resp.Results = append(resp.Results, melidomain.Order{
			ID:          int64(start + i + 1),
			Status:      "paid",
			DateCreated: "2024-01-10T10:00:00.000-03:00",
			TotalAmount: floatPtr(10),
		})
	}
	return resp
}

func TestMercadoLivreService_FetchOrders_Paginates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	service := newTestService(client)
	account := &domain.Account{ID: "acc1", UserID: "u1"}

	gomock.InOrder(
		client.EXPECT().SearchOrders(gomock.Any(), account, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *domain.Account, p meliclient.SearchParams) (*melidomain.SearchResponse, error) {
				assert.Equal(t, 0, p.Offset)
				return page(0, 50, 70), nil
			}),
		client.EXPECT().SearchOrders(gomock.Any(), account, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *domain.Account, p meliclient.SearchParams) (*melidomain.SearchResponse, error) {
				assert.Equal(t, 50, p.Offset)
				return page(50, 20, 70), nil
			}),
	)

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reporter := &fakeReporter{}
	orders, err := service.FetchOrders(context.Background(), account, domain.FetchParams{
		Since: &since,
		Until: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}, reporter)

	require.NoError(t, err)
	assert.Len(t, orders, 70)
	assert.Equal(t, "u1", orders[0].UserID)
	assert.Equal(t, domain.PlatformLabelMercadoLivre, orders[0].Platform)
	require.Len(t, reporter.progress, 2)
	assert.Equal(t, progressCall{fetched: 70, expected: 70}, reporter.progress[1])
	assert.Empty(t, reporter.warnings)
}

func TestMercadoLivreService_FetchOrders_SplitsLargeWindows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	service := newTestService(client)
	account := &domain.Account{ID: "acc1"}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	var windows []meliclient.SearchParams
	client.EXPECT().SearchOrders(gomock.Any(), account, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *domain.Account, p meliclient.SearchParams) (*melidomain.SearchResponse, error) {
			windows = append(windows, p)
			if len(windows) == 1 {
				return page(0, 0, 20000), nil
			}
			return page(0, 10, 10), nil
		}).Times(3)

	reporter := &fakeReporter{}
	orders, err := service.FetchOrders(context.Background(), account, domain.FetchParams{Since: &from, Until: until}, reporter)

	require.NoError(t, err)
	assert.Len(t, orders, 20)
	require.Len(t, windows, 3)
	assert.Equal(t, from, windows[1].From)
	assert.Equal(t, until, windows[2].To)
	assert.True(t, windows[1].To.Before(windows[2].From))
	assert.True(t, reporter.progress[0].continued)
}

func TestMercadoLivreService_FetchOrders_InvalidRequestBecomesWarning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	service := newTestService(client)
	account := &domain.Account{ID: "acc1"}

	client.EXPECT().SearchOrders(gomock.Any(), account, gomock.Any()).
		Return(nil, &domain.RemoteAccountError{AccountID: "acc1", Kind: domain.RemoteErrorInvalidRequest, StatusCode: 400})

	reporter := &fakeReporter{}
	orders, err := service.FetchOrders(context.Background(), account, domain.FetchParams{Until: time.Now()}, reporter)

	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Equal(t, []string{"400"}, reporter.warnings)
}

func TestMercadoLivreService_FetchOrders_ReconnectionStopsAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	service := newTestService(client)
	account := &domain.Account{ID: "acc1"}

	client.EXPECT().SearchOrders(gomock.Any(), account, gomock.Any()).
		Return(nil, &domain.RemoteAccountError{AccountID: "acc1", Kind: domain.RemoteErrorRequiresReconnection, StatusCode: 401})

	_, err := service.FetchOrders(context.Background(), account, domain.FetchParams{Until: time.Now()}, &fakeReporter{})

	require.Error(t, err)
	assert.True(t, domain.IsReconnectionRequired(err))
}

func TestMercadoLivreService_FetchOrders_ByIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	service := newTestService(client)
	account := &domain.Account{ID: "acc1"}

	client.EXPECT().GetOrder(gomock.Any(), account, "1").
		Return(&melidomain.Order{ID: 1, Status: "paid", Shipping: melidomain.Shipping{ID: 5}}, nil)
	client.EXPECT().GetShipment(gomock.Any(), account, int64(5)).
		Return(&melidomain.Shipment{ID: 5, LogisticType: "self_service"}, nil)
	client.EXPECT().GetOrder(gomock.Any(), account, "2").
		Return(nil, &domain.RemoteAccountError{Kind: domain.RemoteErrorInvalidRequest, StatusCode: 404})

	orders, err := service.FetchOrders(context.Background(), account, domain.FetchParams{OrderIDs: []string{"1", "2"}}, &fakeReporter{})

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "1", orders[0].OrderID)
	assert.Equal(t, domain.FulfillmentFlex, orders[0].Fulfillment())
	assert.Equal(t, "5", orders[0].ShipmentID)
}

func TestFactoryOrder(t *testing.T) {
	account := &domain.Account{ID: "acc1", UserID: "u1"}
	catalog := true

	order := FactoryOrder(account, &melidomain.Order{
		ID:          123,
		Status:      "partially_refunded",
		DateCreated: "2024-01-10T10:00:00.000-03:00",
		DateClosed:  "2024-01-11T09:30:00.000-03:00",
		TotalAmount: floatPtr(200),
		Buyer:       melidomain.Buyer{FirstName: "Ana", LastName: "Souza"},
		OrderItems: []melidomain.OrderItem{
			{
				Item:      melidomain.Item{Title: "Camiseta", SellerSKU: "SKU-1", CatalogListing: &catalog},
				Quantity:  floatPtr(2),
				UnitPrice: floatPtr(100),
				SaleFee:   floatPtr(12.5),
			},
		},
		Shipping: melidomain.Shipping{ID: 9, Mode: "me2"},
	}, &melidomain.Shipment{
		LogisticType:   "fulfillment",
		ShippingOption: melidomain.ShippingOption{Cost: floatPtr(0), ListCost: floatPtr(22.9)},
	})

	assert.Equal(t, "123", order.OrderID)
	assert.Equal(t, "partially refunded", order.Status)
	require.NotNil(t, order.SaleDate)
	assert.Equal(t, 11, order.SaleDate.Day())
	assert.Equal(t, 200.0, order.GrossAmount)
	assert.Equal(t, 2, order.Quantity)
	assert.Equal(t, 100.0, order.UnitPrice)
	assert.Equal(t, -25.0, order.PlatformFee)
	assert.Equal(t, -22.9, order.ShippingCost)
	assert.Equal(t, "SKU-1", order.SKU)
	assert.Equal(t, domain.ListingTypeCatalog, order.ListingType)
	assert.Equal(t, domain.FulfillmentFull, order.Fulfillment())
	assert.Equal(t, "Ana Souza", order.Buyer)
}

func TestFactoryOrder_CheapOrderHasNoShippingCost(t *testing.T) {
	order := FactoryOrder(&domain.Account{ID: "acc1"}, &melidomain.Order{
		ID:          1,
		Status:      "paid",
		TotalAmount: floatPtr(50),
		Shipping:    melidomain.Shipping{ID: 3},
	}, &melidomain.Shipment{
		LogisticType:   "drop_off",
		ShippingOption: melidomain.ShippingOption{Cost: floatPtr(0), ListCost: floatPtr(19.9)},
	})

	assert.Equal(t, 0.0, order.ShippingCost)
	assert.Equal(t, domain.ListingTypeOwn, order.ListingType)
	assert.Equal(t, "Comprador", order.Buyer)
	assert.Equal(t, 1, order.Quantity)
	assert.Equal(t, 50.0, order.UnitPrice)
}
