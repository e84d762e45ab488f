package mercadolivre

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	melidomain "github.com/vfg2006/sales-sync-api/infrastructure/integrator/mercadolivre/domain"
	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/utils"
)

// Abaixo desse valor o frete de envios não flex é pago pelo comprador
const freeShippingThreshold = 79.0

// FactoryOrder projeta o pedido do Mercado Livre no pedido de domínio.
// Taxa e frete são custos do vendedor e ficam negativos.
func FactoryOrder(account *domain.Account, o *melidomain.Order, shipment *melidomain.Shipment) *domain.Order {
	order := &domain.Order{
		UserID:      account.UserID,
		AccountID:   account.ID,
		Platform:    domain.PlatformLabelMercadoLivre,
		OrderID:     o.IDString(),
		SaleDate:    saleDate(o),
		Status:      strings.ReplaceAll(statusOrDefault(o.Status), "_", " "),
		Buyer:       o.Buyer.DisplayName(),
		ListingType: domain.ListingTypeOwn,
	}

	var (
		quantity float64
		counted  bool
		saleFee  float64
	)
	for _, item := range o.OrderItems {
		qty := 1.0
		if item.Quantity != nil && utils.SafeNumber(*item.Quantity) > 0 {
			qty = *item.Quantity
			quantity += qty
			counted = true
		}
		// sale_fee vem por unidade
		if item.SaleFee != nil {
			saleFee += utils.SafeNumber(*item.SaleFee) * qty
		}
	}

	total := 0.0
	if o.TotalAmount != nil {
		total = utils.SafeNumber(*o.TotalAmount)
	}

	if !counted {
		switch {
		case len(o.OrderItems) > 0:
			quantity = float64(len(o.OrderItems))
		case total > 0:
			quantity = 1
		}
	}
	order.Quantity = int(quantity)

	if len(o.OrderItems) > 0 {
		first := o.OrderItems[0]
		order.SKU = first.Item.SKU()
		order.ProductTitle = first.Item.Title
		if first.UnitPrice != nil {
			order.UnitPrice = utils.RoundWithTwoDecimalPlace(utils.SafeNumber(*first.UnitPrice))
		}
		if first.Item.CatalogListing != nil && *first.Item.CatalogListing {
			order.ListingType = domain.ListingTypeCatalog
		}
	}
	if o.HasTag("catalog") {
		order.ListingType = domain.ListingTypeCatalog
	}

	if total == 0 && order.UnitPrice > 0 {
		total = order.UnitPrice * quantity
	}
	if order.UnitPrice == 0 && quantity > 0 {
		order.UnitPrice = utils.RoundWithTwoDecimalPlace(total / quantity)
	}
	order.GrossAmount = utils.RoundWithTwoDecimalPlace(total)

	if saleFee > 0 {
		order.PlatformFee = -utils.RoundWithTwoDecimalPlace(saleFee)
	}

	order.LogisticsType = o.Shipping.Mode
	if shipment != nil && shipment.LogisticType != "" {
		order.LogisticsType = shipment.LogisticType
	}
	if o.Shipping.ID != 0 {
		order.ShipmentID = strconv.FormatInt(o.Shipping.ID, 10)
	}
	order.ShippingCost = sellerShippingCost(order, o, shipment)

	return order
}

// sellerShippingCost calcula o frete pago pelo vendedor: a diferença entre o
// custo de lista e o que o comprador pagou. Envios não flex abaixo do valor
// mínimo de frete grátis não geram custo ao vendedor.
func sellerShippingCost(order *domain.Order, o *melidomain.Order, shipment *melidomain.Shipment) float64 {
	if shipment == nil {
		return 0
	}

	if order.Fulfillment() != domain.FulfillmentFlex && order.GrossAmount < freeShippingThreshold {
		return 0
	}

	charged := firstNonNil(shipment.ShippingOption.Cost, shipment.Cost, o.Shipping.Cost)

	var cost float64
	switch {
	case shipment.ShippingOption.ListCost != nil && charged != nil:
		cost = *shipment.ShippingOption.ListCost - *charged
	case shipment.BaseCost != nil:
		cost = *shipment.BaseCost
	}

	cost = utils.SafeNumber(cost)
	if cost <= 0 {
		return 0
	}
	return -utils.RoundWithTwoDecimalPlace(math.Abs(cost))
}

// saleDate usa date_closed, depois date_created e por fim date_last_updated
func saleDate(o *melidomain.Order) *time.Time {
	for _, raw := range []string{o.DateClosed, o.DateCreated, o.DateLastUpdated} {
		if raw == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return &t
		}
	}
	return nil
}

func statusOrDefault(status string) string {
	if status == "" {
		return "desconhecido"
	}
	return status
}

func firstNonNil(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}


func asRemoteError(err error) (*domain.RemoteAccountError, bool) {
	var remoteErr *domain.RemoteAccountError
	if errors.As(err, &remoteErr) {
		return remoteErr, true
	}
	return nil, false
}
