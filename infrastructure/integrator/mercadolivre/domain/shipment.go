package melidomain

type Shipment struct {
	ID             int64          `json:"id"`
	Status         string         `json:"status"`
	LogisticType   string         `json:"logistic_type"`
	BaseCost       *float64       `json:"base_cost"`
	Cost           *float64       `json:"cost"`
	ShippingOption ShippingOption `json:"shipping_option"`
}

type ShippingOption struct {
	Cost     *float64 `json:"cost"`
	ListCost *float64 `json:"list_cost"`
}
