package shopeedomain

// Envelope comum das respostas da Open Platform v2
type BaseResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// IsAuthError indica token inválido, expirado ou loja desautorizada
func (r BaseResponse) IsAuthError() bool {
	switch r.Error {
	case "error_auth", "invalid_access_token", "invalid_acceess_token", "error_permission", "error_invalid_token":
		return true
	}
	return false
}

type OrderListResponse struct {
	BaseResponse
	Response struct {
		More       bool           `json:"more"`
		NextCursor string         `json:"next_cursor"`
		OrderList  []OrderSummary `json:"order_list"`
	} `json:"response"`
}

type OrderSummary struct {
	OrderSN string `json:"order_sn"`
}

type OrderDetailResponse struct {
	BaseResponse
	Response struct {
		OrderList []Order `json:"order_list"`
	} `json:"response"`
}

type Order struct {
	OrderSN         string    `json:"order_sn"`
	OrderStatus     string    `json:"order_status"`
	CreateTime      int64     `json:"create_time"`
	UpdateTime      int64     `json:"update_time"`
	TotalAmount     *float64  `json:"total_amount"`
	BuyerUsername   string    `json:"buyer_username"`
	ShippingCarrier string    `json:"shipping_carrier"`
	ItemList        []Item    `json:"item_list"`
	PackageList     []Package `json:"package_list"`

	Escrow *OrderIncome `json:"-"`
}

type Item struct {
	ItemName               string   `json:"item_name"`
	ItemSKU                string   `json:"item_sku"`
	ModelSKU               string   `json:"model_sku"`
	ModelQuantityPurchased *float64 `json:"model_quantity_purchased"`
	ModelOriginalPrice     *float64 `json:"model_original_price"`
}

// SKU usa o SKU do anúncio e, na falta dele, o da variação
func (i Item) SKU() string {
	if i.ItemSKU != "" {
		return i.ItemSKU
	}
	return i.ModelSKU
}

type Package struct {
	PackageNumber   string `json:"package_number"`
	TrackingNumber  string `json:"tracking_number"`
	ShippingCarrier string `json:"shipping_carrier"`
	LogisticsStatus string `json:"logistics_status"`
}

type EscrowDetailResponse struct {
	BaseResponse
	Response struct {
		OrderSN     string      `json:"order_sn"`
		OrderIncome OrderIncome `json:"order_income"`
	} `json:"response"`
}

type OrderIncome struct {
	CommissionFee              *float64 `json:"commission_fee"`
	ServiceFee                 *float64 `json:"service_fee"`
	ActualShippingFee          *float64 `json:"actual_shipping_fee"`
	ReverseShippingFee         *float64 `json:"reverse_shipping_fee"`
	ShopeeShippingRebate       *float64 `json:"shopee_shipping_rebate"`
	BuyerPaidShippingFee       *float64 `json:"buyer_paid_shipping_fee"`
	ShippingFeeDiscountFrom3PL *float64 `json:"shipping_fee_discount_from_3pl"`
}

type TokenResponse struct {
	BaseResponse
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpireIn     int64  `json:"expire_in"`
}
