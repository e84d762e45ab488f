package melidomain

import (
	"strconv"
	"strings"
)

// SearchResponse é a página retornada por /orders/search
type SearchResponse struct {
	Results []Order `json:"results"`
	Paging  Paging  `json:"paging"`
}

type Paging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type Order struct {
	ID              int64       `json:"id"`
	Status          string      `json:"status"`
	DateCreated     string      `json:"date_created"`
	DateClosed      string      `json:"date_closed"`
	DateLastUpdated string      `json:"date_last_updated"`
	TotalAmount     *float64    `json:"total_amount"`
	PaidAmount      *float64    `json:"paid_amount"`
	Tags            []string    `json:"tags"`
	Buyer           Buyer       `json:"buyer"`
	OrderItems      []OrderItem `json:"order_items"`
	Shipping        Shipping    `json:"shipping"`
}

// IDString retorna o id do pedido como texto
func (o *Order) IDString() string {
	if o.ID == 0 {
		return ""
	}
	return strconv.FormatInt(o.ID, 10)
}

// HasTag verifica se o pedido possui a tag informada
func (o *Order) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

type Buyer struct {
	ID        int64  `json:"id"`
	Nickname  string `json:"nickname"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DisplayName segue a ordem apelido, nome completo, "Comprador"
func (b Buyer) DisplayName() string {
	if b.Nickname != "" {
		return b.Nickname
	}
	name := strings.TrimSpace(strings.Join([]string{b.FirstName, b.LastName}, " "))
	if name != "" {
		return name
	}
	return "Comprador"
}

type OrderItem struct {
	Item          Item     `json:"item"`
	Quantity      *float64 `json:"quantity"`
	UnitPrice     *float64 `json:"unit_price"`
	SaleFee       *float64 `json:"sale_fee"`
	ListingTypeID string   `json:"listing_type_id"`
}

type Item struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	SellerSKU       string `json:"seller_sku"`
	SellerCustomSKU string `json:"seller_custom_field"`
	CatalogListing  *bool  `json:"catalog_listing"`
}

// SKU prioriza o seller_sku e usa o campo customizado como alternativa
func (i Item) SKU() string {
	if i.SellerSKU != "" {
		return i.SellerSKU
	}
	return i.SellerCustomSKU
}

type Shipping struct {
	ID     int64    `json:"id"`
	Mode   string   `json:"mode"`
	Status string   `json:"status"`
	Cost   *float64 `json:"cost"`
}
