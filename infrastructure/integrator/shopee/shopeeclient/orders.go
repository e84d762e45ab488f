package shopeeclient

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	shopeedomain "github.com/vfg2006/sales-sync-api/infrastructure/integrator/shopee/domain"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

const (
	pathOrderList    = "/api/v2/order/get_order_list"
	pathOrderDetail  = "/api/v2/order/get_order_detail"
	pathEscrowDetail = "/api/v2/payment/get_escrow_detail"
)

type OrderListParams struct {
	From     time.Time
	To       time.Time
	PageSize int
	Cursor   string
}

func (c *ShopeeClient) GetOrderList(ctx context.Context, account *domain.Account, params OrderListParams) (*shopeedomain.OrderListResponse, error) {
	query := url.Values{}
	query.Set("time_range_field", "create_time")
	query.Set("time_from", strconv.FormatInt(params.From.Unix(), 10))
	query.Set("time_to", strconv.FormatInt(params.To.Unix(), 10))
	query.Set("page_size", strconv.Itoa(params.PageSize))
	if params.Cursor != "" {
		query.Set("cursor", params.Cursor)
	}

	var response shopeedomain.OrderListResponse
	if err := c.get(ctx, account, pathOrderList, query, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (c *ShopeeClient) GetOrderDetail(ctx context.Context, account *domain.Account, orderSNs []string) ([]shopeedomain.Order, error) {
	query := url.Values{}
	query.Set("order_sn_list", strings.Join(orderSNs, ","))
	query.Set("response_optional_fields", "buyer_username,item_list,total_amount,package_list,shipping_carrier")

	var response shopeedomain.OrderDetailResponse
	if err := c.get(ctx, account, pathOrderDetail, query, &response); err != nil {
		return nil, err
	}

	return response.Response.OrderList, nil
}

func (c *ShopeeClient) GetEscrowDetail(ctx context.Context, account *domain.Account, orderSN string) (*shopeedomain.OrderIncome, error) {
	query := url.Values{}
	query.Set("order_sn", orderSN)

	var response shopeedomain.EscrowDetailResponse
	if err := c.get(ctx, account, pathEscrowDetail, query, &response); err != nil {
		return nil, err
	}

	return &response.Response.OrderIncome, nil
}
