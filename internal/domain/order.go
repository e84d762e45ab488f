package domain

import (
	"strings"
	"time"
)

// Rótulos de plataforma gravados nos pedidos
const (
	PlatformLabelMercadoLivre = "Mercado Livre"
	PlatformLabelShopee       = "Shopee"
	PlatformLabelBling        = "Bling"

	DefaultPlatformLabel = PlatformLabelMercadoLivre
)

const (
	ListingTypeCatalog = "catalog"
	ListingTypeOwn     = "own"
)

const (
	FulfillmentFull = "full"
	FulfillmentFlex = "flex"
	FulfillmentME   = "me"
)

// Order é a projeção validada de um pedido vindo de qualquer plataforma.
// A chave de negócio é (Platform, OrderID).
type Order struct {
	ID            int64      `json:"id,omitempty"`
	UserID        string     `json:"userId"`
	AccountID     string     `json:"accountId"`
	Platform      string     `json:"platform"`
	OrderID       string     `json:"orderId"`
	SaleDate      *time.Time `json:"saleDate,omitempty"`
	Status        string     `json:"status"`
	GrossAmount   float64    `json:"grossAmount"`
	PlatformFee   float64    `json:"platformFee"`
	ShippingCost  float64    `json:"shippingCost"`
	Quantity      int        `json:"quantity"`
	UnitPrice     float64    `json:"unitPrice"`
	SKU           string     `json:"sku,omitempty"`
	ProductTitle  string     `json:"productTitle,omitempty"`
	Buyer         string     `json:"buyer,omitempty"`
	ListingType   string     `json:"listingType,omitempty"`
	LogisticsType string     `json:"logisticsType,omitempty"`
	ShipmentID    string     `json:"shipmentId,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt,omitempty"`
}

// BusinessKey retorna a chave "plataforma|pedido". O segundo valor é falso
// quando o pedido não tem identificador.
func (o *Order) BusinessKey() (string, bool) {
	if o == nil || strings.TrimSpace(o.OrderID) == "" {
		return "", false
	}
	return o.PlatformLabel() + "|" + o.OrderID, true
}

// PlatformLabel retorna o rótulo da plataforma ou o rótulo padrão
func (o *Order) PlatformLabel() string {
	if strings.TrimSpace(o.Platform) == "" {
		return DefaultPlatformLabel
	}
	return o.Platform
}

func (o *Order) IsPaid() bool {
	return IsPaidStatus(o.Status)
}

func IsPaidStatus(status string) bool {
	s := strings.ToLower(status)
	return strings.Contains(s, "paid") || strings.Contains(s, "completed")
}

func IsCancelledStatus(status string) bool {
	return strings.Contains(strings.ToLower(status), "cancel")
}

// Fulfillment classifica o tipo logístico em full, flex ou me
func (o *Order) Fulfillment() string {
	return FulfillmentOf(o.LogisticsType)
}

func FulfillmentOf(logisticsType string) string {
	lt := strings.ToLower(logisticsType)
	switch {
	case strings.Contains(lt, "fulfill"):
		return FulfillmentFull
	case strings.Contains(lt, "flex"), lt == "self_service":
		return FulfillmentFlex
	default:
		return FulfillmentME
	}
}

// OrderQuery é a leitura parametrizada do repositório de pedidos
type OrderQuery struct {
	UserID     string
	AccountIDs []string
	Platforms  []string
	Start      *time.Time
	End        *time.Time
	PaidOnly   bool
}
