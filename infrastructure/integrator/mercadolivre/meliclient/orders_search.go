package meliclient

import (
	"context"
	"net/url"
	"strconv"
	"time"

	melidomain "github.com/vfg2006/sales-sync-api/infrastructure/integrator/mercadolivre/domain"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

type SearchParams struct {
	From   time.Time
	To     time.Time
	Offset int
	Limit  int
}

// Formato aceito pelos filtros order.date_created.*
const searchDateLayout = "2006-01-02T15:04:05.000Z07:00"

func (c *MeliClient) SearchOrders(ctx context.Context, account *domain.Account, params SearchParams) (*melidomain.SearchResponse, error) {
	query := url.Values{}
	query.Set("seller", account.ExternalID)
	query.Set("sort", "date_desc")
	query.Set("limit", strconv.Itoa(params.Limit))
	query.Set("offset", strconv.Itoa(params.Offset))
	if !params.From.IsZero() {
		query.Set("order.date_created.from", params.From.UTC().Format(searchDateLayout))
	}
	if !params.To.IsZero() {
		query.Set("order.date_created.to", params.To.UTC().Format(searchDateLayout))
	}

	var response melidomain.SearchResponse
	if err := c.get(ctx, account, "/orders/search", query, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (c *MeliClient) GetOrder(ctx context.Context, account *domain.Account, orderID string) (*melidomain.Order, error) {
	var order melidomain.Order
	if err := c.get(ctx, account, "/orders/"+orderID, nil, &order); err != nil {
		return nil, err
	}

	return &order, nil
}
